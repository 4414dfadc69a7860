// Package commands defines the support-menu CLI and wires the menu core to
// its hosts.
//
// Commands
//
//   - tui     Open the terminal Support menu (default)
//   - list    Print the composed menu as a table or JSON
//   - url     Print the URI an action resolves to
//   - open    Perform one action through the OS
//   - serve   Run the loopback bridge for native menu shells
//
// # Implementation
//
// The root command loads .support/config.yaml, applies flag overrides, opens
// the logbook and probes platform capabilities before any subcommand runs, so
// every handler builds its controller from the same host context.
package commands
