// Package support builds the "Support" menu a host application mounts in its
// main menu: the fixed action catalog, the destination links each action
// resolves to, the ordered menu composition, and the controller that performs
// a selected action through host-provided capability ports.
//
// The package never touches the OS directly. Hosts supply a URLOpener, an
// EmailComposer and an AlertPresenter; see internal/platform for the default
// implementations and internal/tui and internal/bridge for hosts.
package support
