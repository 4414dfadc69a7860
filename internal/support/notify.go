package support

import (
	"sync"

	"github.com/google/uuid"
)

const defaultDedupeWindow = 64

// Observer is told about every completed selection.
type Observer interface {
	ActionPerformed(Selection)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(Selection)

// ActionPerformed calls f(sel).
func (f ObserverFunc) ActionPerformed(sel Selection) {
	if f == nil {
		return
	}
	f(sel)
}

// Notifier holds at most one observer and delivers each selection to it at
// most once. The notifier does not own the observer: hosts drop it with
// Registration.Unregister and later notifications are skipped.
type Notifier struct {
	mu          sync.Mutex
	current     *Registration
	recentIDs   map[uuid.UUID]struct{}
	recentOrder []uuid.UUID
	window      int
}

// Registration is the handle returned by Register.
type Registration struct {
	notifier *Notifier
	observer Observer
}

// NewNotifier returns an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{
		recentIDs: map[uuid.UUID]struct{}{},
		window:    defaultDedupeWindow,
	}
}

// Register installs obs, replacing any previous observer. A nil observer
// clears the registration.
func (n *Notifier) Register(obs Observer) *Registration {
	n.mu.Lock()
	defer n.mu.Unlock()
	if obs == nil {
		n.current = nil
		return &Registration{notifier: n}
	}
	reg := &Registration{notifier: n, observer: obs}
	n.current = reg
	return reg
}

// Unregister removes the observer if it is still the active one.
func (r *Registration) Unregister() {
	if r == nil || r.notifier == nil {
		return
	}
	n := r.notifier
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == r {
		n.current = nil
	}
}

// Notify delivers sel to the registered observer. Selections already
// delivered are ignored, as is everything when no observer is registered.
func (n *Notifier) Notify(sel Selection) {
	if n == nil {
		return
	}
	n.mu.Lock()
	if n.seen(sel.ID) {
		n.mu.Unlock()
		return
	}
	var obs Observer
	if n.current != nil {
		obs = n.current.observer
	}
	n.mu.Unlock()
	if obs == nil {
		return
	}
	obs.ActionPerformed(sel)
}

// seen records id and reports whether it was already present. Callers hold mu.
func (n *Notifier) seen(id uuid.UUID) bool {
	if id == uuid.Nil {
		return false
	}
	if n.recentIDs == nil {
		n.recentIDs = map[uuid.UUID]struct{}{}
	}
	if _, ok := n.recentIDs[id]; ok {
		return true
	}
	n.recentIDs[id] = struct{}{}
	n.recentOrder = append(n.recentOrder, id)
	window := n.window
	if window <= 0 {
		window = defaultDedupeWindow
	}
	if len(n.recentOrder) > window {
		oldest := n.recentOrder[0]
		n.recentOrder = n.recentOrder[1:]
		delete(n.recentIDs, oldest)
	}
	return false
}
