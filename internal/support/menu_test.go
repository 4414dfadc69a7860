package support

import (
	"reflect"
	"testing"
)

func TestComposeFullMenu(t *testing.T) {
	cfg := Config{StoreID: "123456789", AppName: "Example"}
	want := []MenuEntry{
		Item(ActionOpenWebsite),
		Item(ActionEmailSupport),
		Item(ActionJoinMailingList),
		Separator(),
		Item(ActionWriteReview),
		Separator(),
		Item(ActionOpenSocialProfile),
		Item(ActionViewOtherApps),
		Separator(),
		Item(ActionViewPrivacyPolicy),
		Item(ActionViewTerms),
	}
	got := Compose(cfg)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected menu:\n got %+v\nwant %+v", got, want)
	}
	if again := Compose(cfg); !reflect.DeepEqual(again, got) {
		t.Fatalf("compose is not idempotent")
	}
}

func TestComposeRestrictedMenu(t *testing.T) {
	got := Compose(Config{Restricted: true})
	var actions []Action
	separators := 0
	for i, entry := range got {
		if entry.Separator {
			separators++
			if i == 0 || i == len(got)-1 {
				t.Fatalf("separator at edge position %d", i)
			}
			if got[i-1].Separator {
				t.Fatalf("adjacent separators at %d", i)
			}
			continue
		}
		if entry.Action.Restricted() {
			t.Fatalf("restricted action %s visible", entry.Action)
		}
		actions = append(actions, entry.Action)
	}
	want := []Action{ActionOpenWebsite, ActionEmailSupport, ActionViewPrivacyPolicy, ActionViewTerms}
	if !reflect.DeepEqual(actions, want) {
		t.Fatalf("restricted actions = %v, want %v", actions, want)
	}
	if separators > 1 {
		t.Fatalf("expected at most one separator, got %d", separators)
	}
}

func TestComposeReturnsFreshSlice(t *testing.T) {
	first := Compose(Config{})
	first[0] = Item(ActionViewTerms)
	second := Compose(Config{})
	if second[0].Action != ActionOpenWebsite {
		t.Fatalf("mutating a composed menu leaked into the template")
	}
}

func TestRenderedEntries(t *testing.T) {
	rendered := Rendered(Compose(Config{Restricted: true}))
	want := []RenderedEntry{
		{Label: "Open Support Website", Tag: 0},
		{Label: "Email Support", Tag: 1},
		{Label: "-", Tag: -1, IsSeparator: true},
		{Label: "Privacy Policy", Tag: 6},
		{Label: "Terms of Use", Tag: 7},
	}
	if !reflect.DeepEqual(rendered, want) {
		t.Fatalf("unexpected rendered menu:\n got %+v\nwant %+v", rendered, want)
	}
}
