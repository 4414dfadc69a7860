package platform

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Starter launches a command without waiting for it to finish.
type Starter func(name string, args ...string) error

// OpenerOption customizes an Opener.
type OpenerOption func(*Opener)

// WithGOOS overrides the target operating system.
func WithGOOS(goos string) OpenerOption {
	return func(o *Opener) {
		if goos != "" {
			o.goos = goos
		}
	}
}

// WithStarter replaces process launching; tests record the command instead.
func WithStarter(start Starter) OpenerOption {
	return func(o *Opener) {
		if start != nil {
			o.start = start
		}
	}
}

// WithLookPath replaces PATH lookups used by Available.
func WithLookPath(lookPath func(string) (string, error)) OpenerOption {
	return func(o *Opener) {
		if lookPath != nil {
			o.lookPath = lookPath
		}
	}
}

// Opener hands URIs to the desktop's default handler (open, xdg-open,
// rundll32). Launches are fire-and-forget.
type Opener struct {
	goos     string
	start    Starter
	lookPath func(string) (string, error)
}

// NewOpener returns an opener for the running OS.
func NewOpener(opts ...OpenerOption) *Opener {
	o := &Opener{
		goos:     runtime.GOOS,
		start:    startDetached,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// Open launches the handler for uri and reports whether the launch started.
func (o *Opener) Open(uri string) bool {
	if uri == "" {
		return false
	}
	name, args, err := launcherCommand(o.goos, uri)
	if err != nil {
		return false
	}
	return o.start(name, args...) == nil
}

// Available reports whether the launcher binary can be found.
func (o *Opener) Available() bool {
	name, _, err := launcherCommand(o.goos, "")
	if err != nil {
		return false
	}
	_, err = o.lookPath(name)
	return err == nil
}

func launcherCommand(goos, uri string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{uri}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", uri}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{uri}, nil
	default:
		return "", nil, fmt.Errorf("platform: no URL launcher for %s", goos)
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
