package platform

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/kingrea/support-menu/internal/support"
)

// The store app accepts the write-review deep link from macOS 10.14 on.
const reviewDeepLinkConstraint = ">= 10.14"

// VersionFunc reports the OS product version (e.g. "14.2.1").
type VersionFunc func(ctx context.Context) (string, error)

// Probe inspects the running OS.
func Probe(ctx context.Context) support.Capabilities {
	return ProbeCapabilities(ctx, runtime.GOOS, MacOSVersion)
}

// ProbeCapabilities determines capabilities for goos. Any probe failure
// leaves the capability off, which selects the conservative fallback.
func ProbeCapabilities(ctx context.Context, goos string, version VersionFunc) support.Capabilities {
	var caps support.Capabilities
	if goos != "darwin" || version == nil {
		return caps
	}
	raw, err := version(ctx)
	if err != nil {
		return caps
	}
	caps.ReviewDeepLinks = ReviewDeepLinksSupported(raw)
	return caps
}

// ReviewDeepLinksSupported reports whether a macOS product version accepts
// the write-review deep link.
func ReviewDeepLinksSupported(productVersion string) bool {
	v, err := semver.NewVersion(strings.TrimSpace(productVersion))
	if err != nil {
		return false
	}
	c, err := semver.NewConstraint(reviewDeepLinkConstraint)
	if err != nil {
		return false
	}
	return c.Check(v)
}

// MacOSVersion reads the product version from sw_vers.
func MacOSVersion(ctx context.Context) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	out, err := exec.CommandContext(ctx, "sw_vers", "-productVersion").Output()
	if err != nil {
		return "", fmt.Errorf("platform: sw_vers: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
