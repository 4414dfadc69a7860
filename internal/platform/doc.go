// Package platform implements the support menu's capability ports on top of
// the operating system: URL opening through the desktop launcher, email
// composition through mailto: links, a blocking terminal alert, and review
// deep-link capability probing.
package platform
