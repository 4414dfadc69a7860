package support

// MenuTitle is the top-level menu the entries are mounted under.
const MenuTitle = "Support"

const (
	separatorLabel = "-"
	separatorTag   = -1
)

// MenuEntry is one composed row: an action or a separator.
type MenuEntry struct {
	Action    Action
	Separator bool
}

// Item returns an entry for a.
func Item(a Action) MenuEntry { return MenuEntry{Action: a} }

// Separator returns a divider entry.
func Separator() MenuEntry { return MenuEntry{Separator: true} }

// Label returns the text a host renders for the entry.
func (e MenuEntry) Label() string {
	if e.Separator {
		return separatorLabel
	}
	return e.Action.Title()
}

// Tag returns the integer a host stores on the rendered row.
func (e MenuEntry) Tag() int {
	if e.Separator {
		return separatorTag
	}
	return e.Action.Tag()
}

// menuTemplate is the full, unrestricted layout: contact group, review,
// sharing group, legal group.
var menuTemplate = []MenuEntry{
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

// Compose returns the visible entries for cfg in template order. Restricted
// actions are dropped in restricted mode, and the separators around them
// collapse so no two dividers are adjacent and none lead or trail.
func Compose(cfg Config) []MenuEntry {
	out := make([]MenuEntry, 0, len(menuTemplate))
	pendingSeparator := false
	for _, entry := range menuTemplate {
		if entry.Separator {
			pendingSeparator = true
			continue
		}
		if cfg.Restricted && entry.Action.Restricted() {
			continue
		}
		if pendingSeparator && len(out) > 0 {
			out = append(out, Separator())
		}
		pendingSeparator = false
		out = append(out, entry)
	}
	return out
}

// RenderedEntry is the host-facing form of a MenuEntry.
type RenderedEntry struct {
	Label       string `json:"label"`
	Tag         int    `json:"tag"`
	IsSeparator bool   `json:"separator"`
}

// Rendered converts entries into the data a host needs to build its menu.
func Rendered(entries []MenuEntry) []RenderedEntry {
	out := make([]RenderedEntry, len(entries))
	for i, e := range entries {
		out[i] = RenderedEntry{Label: e.Label(), Tag: e.Tag(), IsSeparator: e.Separator}
	}
	return out
}
