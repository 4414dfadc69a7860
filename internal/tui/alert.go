package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// alertRequest is one pending modal. done is closed on dismissal.
type alertRequest struct {
	message string
	detail  string
	done    chan struct{}
}

type alertMsg struct {
	req alertRequest
}

// AlertPresenter shows support alerts as a modal inside the TUI. Show blocks
// the dispatching goroutine until the user dismisses the modal, so the
// controller must run off the bubbletea update loop.
type AlertPresenter struct {
	requests chan alertRequest
}

// NewAlertPresenter returns a presenter to wire into support.Ports.Alerts
// and App.
func NewAlertPresenter() *AlertPresenter {
	return &AlertPresenter{requests: make(chan alertRequest)}
}

// Show satisfies support.AlertPresenter.
func (p *AlertPresenter) Show(message, detail string) {
	if p == nil {
		return
	}
	req := alertRequest{message: message, detail: detail, done: make(chan struct{})}
	p.requests <- req
	<-req.done
}

// listen waits for the next alert.
func (p *AlertPresenter) listen() tea.Cmd {
	if p == nil {
		return nil
	}
	return func() tea.Msg {
		return alertMsg{req: <-p.requests}
	}
}
