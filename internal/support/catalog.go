package support

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownTag reports a menu tag that does not map to any Action. A host
// that produces one rendered a stale or foreign menu.
var ErrUnknownTag = errors.New("support: unknown menu tag")

// Action identifies one selectable support operation. The integer value is
// the tag a rendered menu hands back on selection, so existing values must
// never be renumbered; new actions may only be appended.
type Action int

const (
	ActionOpenWebsite       Action = 0
	ActionEmailSupport      Action = 1
	ActionJoinMailingList   Action = 2
	ActionOpenSocialProfile Action = 3
	ActionViewOtherApps     Action = 4
	ActionWriteReview       Action = 5
	ActionViewPrivacyPolicy Action = 6
	ActionViewTerms         Action = 7
)

type actionInfo struct {
	title string
	slug  string
}

// catalog is the frozen tag → action table. Index == tag.
var catalog = [...]actionInfo{
	ActionOpenWebsite:       {title: "Open Support Website", slug: "open-website"},
	ActionEmailSupport:      {title: "Email Support", slug: "email-support"},
	ActionJoinMailingList:   {title: "Join Mailing List", slug: "join-mailing-list"},
	ActionOpenSocialProfile: {title: "Open Twitter Profile", slug: "open-social-profile"},
	ActionViewOtherApps:     {title: "View More Developer Apps", slug: "view-other-apps"},
	ActionWriteReview:       {title: "Write a Review", slug: "write-review"},
	ActionViewPrivacyPolicy: {title: "Privacy Policy", slug: "privacy-policy"},
	ActionViewTerms:         {title: "Terms of Use", slug: "terms-of-use"},
}

// UnknownTagError carries the offending tag. It unwraps to ErrUnknownTag.
type UnknownTagError struct {
	Tag int
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnknownTag.Error(), e.Tag)
}

func (e *UnknownTagError) Unwrap() error { return ErrUnknownTag }

// Actions returns every action in catalog order.
func Actions() []Action {
	out := make([]Action, len(catalog))
	for i := range catalog {
		out[i] = Action(i)
	}
	return out
}

// ActionForTag maps a rendered menu tag back to its action.
func ActionForTag(tag int) (Action, error) {
	if tag < 0 || tag >= len(catalog) {
		return 0, &UnknownTagError{Tag: tag}
	}
	return Action(tag), nil
}

// ParseAction accepts either an action slug ("write-review") or its decimal tag.
func ParseAction(value string) (Action, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return 0, fmt.Errorf("support: action is required")
	}
	if tag, err := strconv.Atoi(trimmed); err == nil {
		return ActionForTag(tag)
	}
	for i, info := range catalog {
		if info.slug == trimmed {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("support: unknown action %q", value)
}

// Valid reports whether a is part of the catalog.
func (a Action) Valid() bool {
	return a >= 0 && int(a) < len(catalog)
}

// Tag returns the integer a rendered menu entry carries for a.
func (a Action) Tag() int { return int(a) }

// Title returns the menu label.
func (a Action) Title() string {
	if !a.Valid() {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return catalog[a].title
}

// Slug returns the stable command-line name.
func (a Action) Slug() string {
	if !a.Valid() {
		return ""
	}
	return catalog[a].slug
}

func (a Action) String() string { return a.Title() }

// Restricted reports whether the action is hidden when the host runs in
// restricted mode (promotional and social entries).
func (a Action) Restricted() bool {
	switch a {
	case ActionJoinMailingList, ActionWriteReview, ActionOpenSocialProfile, ActionViewOtherApps:
		return true
	}
	return false
}
