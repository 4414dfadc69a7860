package platform

import (
	"context"
	"errors"
	"testing"
)

func TestReviewDeepLinksSupported(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"10.13.6", false},
		{"10.14", true},
		{"10.14.6", true},
		{"11.0", true},
		{"14.2.1\n", true},
		{"9", false},
		{"", false},
		{"not-a-version", false},
	}
	for _, tt := range tests {
		if got := ReviewDeepLinksSupported(tt.version); got != tt.want {
			t.Fatalf("ReviewDeepLinksSupported(%q) = %v, want %v", tt.version, got, tt.want)
		}
	}
}

func TestProbeCapabilities(t *testing.T) {
	ctx := context.Background()
	version := func(v string, err error) VersionFunc {
		return func(context.Context) (string, error) { return v, err }
	}

	if caps := ProbeCapabilities(ctx, "darwin", version("14.1", nil)); !caps.ReviewDeepLinks {
		t.Fatalf("expected deep links on modern macOS")
	}
	if caps := ProbeCapabilities(ctx, "darwin", version("10.13", nil)); caps.ReviewDeepLinks {
		t.Fatalf("expected no deep links on 10.13")
	}
	if caps := ProbeCapabilities(ctx, "darwin", version("", errors.New("sw_vers"))); caps.ReviewDeepLinks {
		t.Fatalf("expected probe failure to disable deep links")
	}
	if caps := ProbeCapabilities(ctx, "linux", version("14.1", nil)); caps.ReviewDeepLinks {
		t.Fatalf("expected no deep links off darwin")
	}
	if caps := ProbeCapabilities(ctx, "darwin", nil); caps.ReviewDeepLinks {
		t.Fatalf("expected nil probe to disable deep links")
	}
}
