package bridge

import (
	"time"

	"github.com/kingrea/support-menu/internal/support"
)

// ProtocolVersion identifies the bridge contract version exposed via /health.
const ProtocolVersion = "1.0.0"

// Websocket frame types.
const (
	FrameMenu      = "menu"
	FrameSelect    = "select"
	FramePerformed = "performed"
	FrameAlert     = "alert"
	FrameError     = "error"
)

// Frame is one websocket message in either direction. Clients send only
// select frames.
type Frame struct {
	Type      string            `json:"type"`
	Tag       *int              `json:"tag,omitempty"`
	Menu      *MenuPayload      `json:"menu,omitempty"`
	Selection *SelectionPayload `json:"selection,omitempty"`
	Alert     *AlertPayload     `json:"alert,omitempty"`
	Error     string            `json:"error,omitempty"`
}

// key returns the dedupe key; only performed frames have one.
func (f Frame) key() string {
	if f.Type == FramePerformed && f.Selection != nil {
		return f.Selection.ID
	}
	return ""
}

// MenuPayload is the rendered Support submenu.
type MenuPayload struct {
	Title   string                  `json:"title"`
	Entries []support.RenderedEntry `json:"entries"`
}

// SelectionPayload describes a completed dispatch.
type SelectionPayload struct {
	ID      string    `json:"id"`
	Tag     int       `json:"tag"`
	Title   string    `json:"title"`
	URL     string    `json:"url,omitempty"`
	Outcome string    `json:"outcome"`
	At      time.Time `json:"at"`
}

// AlertPayload asks the native shell to show a blocking alert.
type AlertPayload struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// NewMenuPayload renders entries under the Support title.
func NewMenuPayload(entries []support.MenuEntry) *MenuPayload {
	return &MenuPayload{Title: support.MenuTitle, Entries: support.Rendered(entries)}
}

// NewSelectionPayload converts a selection for the wire.
func NewSelectionPayload(sel support.Selection) *SelectionPayload {
	return &SelectionPayload{
		ID:      sel.ID.String(),
		Tag:     sel.Action.Tag(),
		Title:   sel.Action.Title(),
		URL:     sel.URL,
		Outcome: string(sel.Outcome),
		At:      sel.At.UTC(),
	}
}

type selectRequest struct {
	Tag *int `json:"tag"`
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version"`
	Subscribers   int    `json:"subscribers"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

type errorResponse struct {
	Error string `json:"error"`
}
