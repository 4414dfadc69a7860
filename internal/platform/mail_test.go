package platform

import (
	"errors"
	"testing"
)

func TestMailtoURL(t *testing.T) {
	got, ok := MailtoURL("support@bridgetech.io", "Notes - Help, Support & Feedback", "Hi")
	if !ok {
		t.Fatalf("expected mailto url")
	}
	want := "mailto:support@bridgetech.io?subject=Notes%20-%20Help%2C%20Support%20%26%20Feedback&body=Hi"
	if got != want {
		t.Fatalf("mailto = %q, want %q", got, want)
	}

	bare, ok := MailtoURL(" support@bridgetech.io ", "", "")
	if !ok || bare != "mailto:support@bridgetech.io" {
		t.Fatalf("bare mailto = %q, %v", bare, ok)
	}

	for _, bad := range []string{"", "   ", "support", "a b@c.d", "a@b.c?cc=x"} {
		if _, ok := MailtoURL(bad, "s", "b"); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestMailComposerOpensMailto(t *testing.T) {
	var calls []startCall
	opener := NewOpener(
		WithGOOS("darwin"),
		WithStarter(recordingStarter(&calls, nil)),
		WithLookPath(func(name string) (string, error) { return name, nil }),
	)
	m := NewMailComposer(opener)
	if !m.IsAvailable() {
		t.Fatalf("expected composer to be available")
	}
	if !m.Compose("support@bridgetech.io", "Subject", "Hi") {
		t.Fatalf("expected compose to succeed")
	}
	if len(calls) != 1 || calls[0].args[0] != "mailto:support@bridgetech.io?subject=Subject&body=Hi" {
		t.Fatalf("unexpected launch %#v", calls)
	}
	if m.Compose("", "Subject", "Hi") {
		t.Fatalf("expected compose to refuse an empty recipient")
	}
}

func TestMailComposerUnavailable(t *testing.T) {
	var calls []startCall
	opener := NewOpener(
		WithGOOS("linux"),
		WithStarter(recordingStarter(&calls, nil)),
		WithLookPath(func(string) (string, error) { return "", errors.New("missing") }),
	)
	m := NewMailComposer(opener)
	if m.IsAvailable() {
		t.Fatalf("expected composer to be unavailable")
	}
	if m.Compose("support@bridgetech.io", "s", "b") {
		t.Fatalf("expected compose to fail")
	}
	if len(calls) != 0 {
		t.Fatalf("expected no launches, got %d", len(calls))
	}

	var nilComposer *MailComposer
	if nilComposer.IsAvailable() {
		t.Fatalf("nil composer should be unavailable")
	}
}
