package platform

import (
	"io"

	"github.com/kingrea/support-menu/internal/support"
)

// Ports wires the OS implementations of every support port. Alerts go to the
// terminal described by in/out.
func Ports(in io.Reader, out io.Writer, opts ...OpenerOption) support.Ports {
	opener := NewOpener(opts...)
	return support.Ports{
		Opener: opener,
		Mail:   NewMailComposer(opener),
		Alerts: NewTerminalAlert(in, out),
	}
}
