package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/support-menu/internal/logbook"
	"github.com/kingrea/support-menu/internal/support"
)

type stubOpener struct {
	mu     sync.Mutex
	opened []string
}

func (o *stubOpener) Open(uri string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.opened = append(o.opened, uri)
	return true
}

type stubMail struct {
	available bool
}

func (m stubMail) IsAvailable() bool                   { return m.available }
func (m stubMail) Compose(string, string, string) bool { return true }

type testHost struct {
	app    *App
	opener *stubOpener
	alerts *AlertPresenter
	copied []string
}

func newTestHost(t *testing.T, cfg support.Config, mail stubMail, opts ...support.ControllerOption) *testHost {
	t.Helper()
	host := &testHost{opener: &stubOpener{}, alerts: NewAlertPresenter()}
	controller := support.NewController(cfg,
		support.Ports{Opener: host.opener, Mail: mail, Alerts: host.alerts},
		opts...)
	host.app = NewApp(controller,
		WithAlerts(host.alerts),
		WithClipboard(func(text string) error {
			host.copied = append(host.copied, text)
			return nil
		}))
	host.update(t, tea.WindowSizeMsg{Width: 100, Height: 60})
	return host
}

func (h *testHost) update(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	model, cmd := h.app.Update(msg)
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	h.app = app
	return cmd
}

func (h *testHost) press(t *testing.T, key tea.KeyMsg, times int) {
	t.Helper()
	for i := 0; i < times; i++ {
		h.update(t, key)
	}
}

func (h *testHost) selected(t *testing.T) support.MenuEntry {
	t.Helper()
	item, ok := h.app.menu.SelectedItem().(entryItem)
	if !ok {
		t.Fatalf("no selected entry")
	}
	return item.entry
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCursorSkipsSeparators(t *testing.T) {
	host := newTestHost(t, support.Config{StoreID: "1", AppName: "Notes"}, stubMail{available: true})
	host.press(t, keyDown, 3)
	if got := host.selected(t); got.Separator || got.Action != support.ActionWriteReview {
		t.Fatalf("expected cursor to land on Write a Review, got %#v", got)
	}
	if idx := host.app.menu.Index(); idx != 4 {
		t.Fatalf("expected index 4, got %d", idx)
	}
	host.press(t, keyUp, 1)
	if got := host.selected(t); got.Action != support.ActionJoinMailingList {
		t.Fatalf("expected cursor to skip back to Join Mailing List, got %#v", got)
	}
}

func TestEnterDispatchesSelectedTag(t *testing.T) {
	host := newTestHost(t, support.Config{StoreID: "1", AppName: "Notes", Restricted: true}, stubMail{available: true})
	host.press(t, keyDown, 2)
	if got := host.selected(t); got.Action != support.ActionViewPrivacyPolicy {
		t.Fatalf("expected Privacy Policy in restricted menu, got %#v", got)
	}
	cmd := host.update(t, keyEnter)
	if cmd == nil {
		t.Fatalf("expected dispatch command")
	}
	if again := host.update(t, keyEnter); again != nil {
		t.Fatalf("expected enter to be ignored while a dispatch is running")
	}
	host.update(t, cmd())
	if host.app.statusMsg != "Opened Privacy Policy" {
		t.Fatalf("unexpected status %q", host.app.statusMsg)
	}
	if len(host.opener.opened) != 1 || host.opener.opened[0] != "https://www.bridgetech.io/PrivacyPolicy.html" {
		t.Fatalf("unexpected opened urls %v", host.opener.opened)
	}
}

func TestMailAlertModal(t *testing.T) {
	host := newTestHost(t, support.Config{StoreID: "1", AppName: "Notes"}, stubMail{available: false})
	host.press(t, keyDown, 1)
	dispatch := host.update(t, keyEnter)
	if dispatch == nil {
		t.Fatalf("expected dispatch command")
	}

	result := make(chan tea.Msg, 1)
	go func() { result <- dispatch() }()

	alert := host.app.Init()()
	host.update(t, alert)
	if host.app.alert == nil {
		t.Fatalf("expected alert modal to be open")
	}
	view := host.app.View()
	if !strings.Contains(view, support.MailUnavailableMessage) || !strings.Contains(view, support.SupportEmail) {
		t.Fatalf("alert view missing text:\n%s", view)
	}
	select {
	case <-result:
		t.Fatalf("dispatch returned before the alert was dismissed")
	case <-time.After(20 * time.Millisecond):
	}

	host.update(t, runes("c"))
	if len(host.copied) != 1 || host.copied[0] != support.SupportEmail {
		t.Fatalf("expected support address copied, got %v", host.copied)
	}
	if rearm := host.update(t, keyEsc); rearm == nil {
		t.Fatalf("expected presenter to be listened to again")
	}
	if host.app.alert != nil {
		t.Fatalf("expected modal dismissed")
	}

	select {
	case msg := <-result:
		host.update(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatalf("dispatch still blocked after dismissal")
	}
	if host.app.statusMsg != support.MailUnavailableMessage {
		t.Fatalf("unexpected status %q", host.app.statusMsg)
	}
}

func TestClipboardFailureIsReported(t *testing.T) {
	host := newTestHost(t, support.Config{AppName: "Notes"}, stubMail{})
	host.app.copyText = func(string) error { return errors.New("no clipboard") }
	host.app.alert = &alertRequest{message: "m", detail: "d", done: make(chan struct{})}
	host.update(t, runes("c"))
	if !strings.Contains(host.app.statusMsg, "no clipboard") {
		t.Fatalf("unexpected status %q", host.app.statusMsg)
	}
}

func TestQuitKeys(t *testing.T) {
	host := newTestHost(t, support.Config{AppName: "Notes"}, stubMail{})
	cmd := host.update(t, runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestMenuDescriptionsPreviewDestinations(t *testing.T) {
	host := newTestHost(t, support.Config{StoreID: "42", AppName: "Notes"}, stubMail{},
		support.WithCapabilities(support.Capabilities{ReviewDeepLinks: false}))
	var review, email string
	for _, item := range host.app.menu.Items() {
		entry := item.(entryItem)
		switch entry.entry.Action {
		case support.ActionWriteReview:
			if !entry.entry.Separator {
				review = entry.Description()
			}
		case support.ActionEmailSupport:
			email = entry.Description()
		}
	}
	if review != "macappstore://itunes.apple.com/app/id42?ls=1&mt=12" {
		t.Fatalf("expected listing fallback preview, got %q", review)
	}
	if email != "Compose email to support@bridgetech.io" {
		t.Fatalf("unexpected email preview %q", email)
	}
}

func TestLogPanelTailsLogbook(t *testing.T) {
	lb, err := logbook.New(filepath.Join(t.TempDir(), "logs", "support.log"))
	if err != nil {
		t.Fatalf("logbook: %v", err)
	}
	host := newTestHost(t, support.Config{StoreID: "1", AppName: "Notes"}, stubMail{available: true},
		support.WithLogger(lb))
	host.app.logbook = lb
	cmd := host.update(t, keyEnter)
	host.update(t, cmd())
	view := host.app.View()
	if !strings.Contains(view, "LOG · support.log (1)") {
		t.Fatalf("expected log header in view:\n%s", view)
	}
	if !strings.Contains(view, "Support · Open Support Website (opened)") {
		t.Fatalf("expected dispatch log line in view:\n%s", view)
	}
}
