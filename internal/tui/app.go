// internal/tui/app.go
//
// This is the terminal host for the Support menu. It uses bubbletea, which
// follows The Elm Architecture:
//
// 1. Model: the composed menu, the pending alert and the status line
// 2. Update: key presses move the cursor or dispatch the selected tag
// 3. View: the menu box, an alert modal and the log panel
//
// Dispatch runs as a tea.Cmd because the mail fallback alert blocks the
// dispatching goroutine until the user dismisses it.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/support-menu/internal/logbook"
	"github.com/kingrea/support-menu/internal/support"
)

const (
	logPanelLines  = 8
	separatorTitle = "────────────"
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithAlerts attaches the presenter the controller was wired with.
func WithAlerts(p *AlertPresenter) AppOption {
	return func(a *App) {
		a.alerts = p
	}
}

// WithLogbook shows the logbook tail under the menu.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		a.logbook = lb
	}
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) AppOption {
	return func(a *App) {
		if write != nil {
			a.copyText = write
		}
	}
}

type selectionMsg struct {
	sel support.Selection
}

// App is the main application model.
type App struct {
	controller *support.Controller
	alerts     *AlertPresenter
	logbook    *logbook.Logbook
	copyText   func(string) error

	menu      list.Model
	alert     *alertRequest
	busy      bool
	statusMsg string

	width  int
	height int
}

// entryItem implements list.Item for a composed menu entry.
type entryItem struct {
	entry support.MenuEntry
	desc  string
}

func (i entryItem) Title() string {
	if i.entry.Separator {
		return separatorTitle
	}
	return i.entry.Label()
}
func (i entryItem) Description() string { return i.desc }
func (i entryItem) FilterValue() string { return i.entry.Label() }

// NewApp builds the TUI over controller.
func NewApp(controller *support.Controller, opts ...AppOption) *App {
	menu := list.New(buildMenuItems(controller), list.NewDefaultDelegate(), 0, 0)
	menu.Title = support.MenuTitle
	menu.SetShowStatusBar(false)
	menu.SetFilteringEnabled(false)
	menu.SetShowHelp(false)
	menu.KeyMap.Quit.SetEnabled(false)

	app := &App{
		controller: controller,
		copyText:   clipboard.WriteAll,
		menu:       menu,
		statusMsg:  "enter: select · q: quit",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app
}

// buildMenuItems renders the composed menu with a destination preview for
// each action.
func buildMenuItems(controller *support.Controller) []list.Item {
	entries := controller.Menu()
	items := make([]list.Item, 0, len(entries))
	cfg, caps := controller.Config(), controller.Capabilities()
	for _, entry := range entries {
		item := entryItem{entry: entry}
		switch {
		case entry.Separator:
		case entry.Action == support.ActionEmailSupport:
			item.desc = "Compose email to " + support.SupportEmail
		default:
			if link, err := support.ResolveFor(entry.Action, cfg, caps); err == nil {
				item.desc = link.URL()
			}
		}
		items = append(items, item)
	}
	return items
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return a.alerts.listen()
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.menu.SetSize(max(20, msg.Width-6), max(6, msg.Height-logPanelLines-10))
		return a, nil

	case alertMsg:
		req := msg.req
		a.alert = &req
		return a, nil

	case selectionMsg:
		a.busy = false
		a.statusMsg = describeSelection(msg.sel)
		return a, nil

	case tea.KeyMsg:
		if a.alert != nil {
			return a.updateAlert(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return a, tea.Quit
		case "enter":
			return a, a.performSelected()
		}
		before := a.menu.Index()
		var cmd tea.Cmd
		a.menu, cmd = a.menu.Update(msg)
		a.skipSeparators(a.menu.Index() - before)
		return a, cmd
	}

	var cmd tea.Cmd
	a.menu, cmd = a.menu.Update(msg)
	return a, cmd
}

func (a *App) updateAlert(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		return a, a.dismissAlert()
	case "c":
		if err := a.copyText(support.SupportEmail); err != nil {
			a.statusMsg = fmt.Sprintf("Clipboard unavailable: %v", err)
		} else {
			a.statusMsg = "Copied " + support.SupportEmail
		}
		return a, nil
	case "ctrl+c":
		a.dismissAlert()
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) dismissAlert() tea.Cmd {
	if a.alert == nil {
		return nil
	}
	close(a.alert.done)
	a.alert = nil
	return a.alerts.listen()
}

// skipSeparators moves the cursor off a separator in the direction it was
// travelling. Composed menus never start or end with one.
func (a *App) skipSeparators(delta int) {
	for guard := len(a.menu.Items()); guard > 0 && a.onSeparator(); guard-- {
		if delta < 0 {
			a.menu.CursorUp()
		} else {
			a.menu.CursorDown()
		}
	}
}

func (a *App) onSeparator() bool {
	item, ok := a.menu.SelectedItem().(entryItem)
	return ok && item.entry.Separator
}

func (a *App) performSelected() tea.Cmd {
	if a.busy {
		return nil
	}
	item, ok := a.menu.SelectedItem().(entryItem)
	if !ok || item.entry.Separator {
		return nil
	}
	a.busy = true
	a.statusMsg = fmt.Sprintf("%s…", item.entry.Label())
	controller := a.controller
	tag := item.entry.Tag()
	return func() tea.Msg {
		return selectionMsg{sel: controller.PerformTag(tag)}
	}
}

func describeSelection(sel support.Selection) string {
	title := sel.Action.Title()
	switch sel.Outcome {
	case support.OutcomeOpened:
		return "Opened " + title
	case support.OutcomeOpenFailed:
		return "Could not open " + title
	case support.OutcomeComposed:
		return "Composing email to " + support.SupportEmail
	case support.OutcomeAlerted:
		return support.MailUnavailableMessage
	default:
		return title
	}
}

// View renders the menu (or the alert modal) above the log panel.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 80
	}
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render(fmt.Sprintf("⬡ %s", strings.ToUpper(a.appName())))

	var content string
	if a.alert != nil {
		content = a.renderAlert(width - 4)
	} else {
		content = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(max(20, width-4)).
			Render(a.menu.View())
	}
	sections := []string{header, content}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.statusMsg)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) appName() string {
	if name := strings.TrimSpace(a.controller.Config().AppName); name != "" {
		return name
	}
	return support.MenuTitle
}

func (a *App) renderAlert(width int) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		Render(a.alert.message)
	detail := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#DDDDDD")).
		Render(a.alert.detail)
	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render("enter/esc: dismiss · c: copy address")
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(lipgloss.Color("#FF6B6B")).
		Padding(1, 2).
		Width(max(20, width)).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", detail, "", hint))
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, total := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s (%d)", fileName, total))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(app *App) error {
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
