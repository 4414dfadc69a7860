package support

import (
	"errors"
	"testing"
)

func TestActionTagsAreFrozen(t *testing.T) {
	want := map[Action]int{
		ActionOpenWebsite:       0,
		ActionEmailSupport:      1,
		ActionJoinMailingList:   2,
		ActionOpenSocialProfile: 3,
		ActionViewOtherApps:     4,
		ActionWriteReview:       5,
		ActionViewPrivacyPolicy: 6,
		ActionViewTerms:         7,
	}
	for action, tag := range want {
		if action.Tag() != tag {
			t.Fatalf("%s tag = %d, want %d", action, action.Tag(), tag)
		}
		got, err := ActionForTag(tag)
		if err != nil {
			t.Fatalf("ActionForTag(%d): %v", tag, err)
		}
		if got != action {
			t.Fatalf("ActionForTag(%d) = %s, want %s", tag, got, action)
		}
	}
	if len(Actions()) != len(want) {
		t.Fatalf("catalog has %d actions, want %d", len(Actions()), len(want))
	}
}

func TestActionTitles(t *testing.T) {
	if got := ActionWriteReview.Title(); got != "Write a Review" {
		t.Fatalf("unexpected title %q", got)
	}
	if got := ActionEmailSupport.String(); got != "Email Support" {
		t.Fatalf("unexpected string %q", got)
	}
	for _, a := range Actions() {
		if a.Title() == "" || a.Slug() == "" {
			t.Fatalf("action %d missing title or slug", int(a))
		}
	}
}

func TestActionForTagRejectsUnknown(t *testing.T) {
	for _, tag := range []int{-1, 8, 100} {
		_, err := ActionForTag(tag)
		if !errors.Is(err, ErrUnknownTag) {
			t.Fatalf("tag %d: expected ErrUnknownTag, got %v", tag, err)
		}
		var tagErr *UnknownTagError
		if !errors.As(err, &tagErr) || tagErr.Tag != tag {
			t.Fatalf("tag %d: expected UnknownTagError carrying tag, got %v", tag, err)
		}
	}
}

func TestParseAction(t *testing.T) {
	cases := map[string]Action{
		"write-review":   ActionWriteReview,
		" Terms-Of-Use ": ActionViewTerms,
		"1":              ActionEmailSupport,
	}
	for input, want := range cases {
		got, err := ParseAction(input)
		if err != nil {
			t.Fatalf("ParseAction(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseAction(%q) = %s, want %s", input, got, want)
		}
	}
	if _, err := ParseAction("launch-rockets"); err == nil {
		t.Fatalf("expected unknown slug to fail")
	}
	if _, err := ParseAction("42"); !errors.Is(err, ErrUnknownTag) {
		t.Fatalf("expected out-of-range tag to fail with ErrUnknownTag, got %v", err)
	}
}
