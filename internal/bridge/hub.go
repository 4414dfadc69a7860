package bridge

import (
	"sync"

	"github.com/kingrea/support-menu/internal/support"
)

const (
	defaultSubscriberCapacity = 32
	defaultDedupeWindow       = 256
)

// HubOption customizes Hub construction.
type HubOption func(*Hub)

// HubWithLogger injects a logger for drop diagnostics.
func HubWithLogger(logger support.Logger) HubOption {
	return func(h *Hub) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// HubWithSubscriberCapacity overrides the buffered channel size per subscriber.
func HubWithSubscriberCapacity(size int) HubOption {
	return func(h *Hub) {
		if size > 0 {
			h.channelSize = size
		}
	}
}

// HubWithDedupeWindow controls how many recent selection IDs are retained.
func HubWithDedupeWindow(size int) HubOption {
	return func(h *Hub) {
		if size > 0 {
			h.dedupeWindow = size
		}
	}
}

// Hub fans frames out to websocket subscribers. It is the support observer
// for the bridge (performed frames) and its alert presenter (alert frames).
type Hub struct {
	mu           sync.RWMutex
	subscribers  map[*subscriber]struct{}
	recentIDs    map[string]struct{}
	recentOrder  []string
	channelSize  int
	dedupeWindow int
	logger       support.Logger
}

// Subscription is one live subscriber.
type Subscription struct {
	Frames <-chan Frame
	cancel func()
}

// Close terminates the subscription and closes Frames.
func (s Subscription) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// NewHub constructs a hub with default buffering.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		subscribers:  map[*subscriber]struct{}{},
		recentIDs:    map[string]struct{}{},
		channelSize:  defaultSubscriberCapacity,
		dedupeWindow: defaultDedupeWindow,
		logger:       nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.recentOrder = make([]string, 0, h.dedupeWindow)
	return h
}

// Subscribe registers a new subscriber.
func (h *Hub) Subscribe() Subscription {
	sub := newSubscriber(h.channelSize, h.logger)
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
	return Subscription{
		Frames: sub.channel(),
		cancel: func() { h.remove(sub) },
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Broadcast delivers frame to every subscriber. Performed frames already
// seen within the dedupe window are dropped.
func (h *Hub) Broadcast(frame Frame) {
	if h == nil {
		return
	}
	if key := frame.key(); key != "" && h.isDuplicate(key) {
		return
	}
	h.mu.RLock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()
	for _, sub := range subs {
		sub.deliver(frame)
	}
}

// ActionPerformed satisfies support.Observer.
func (h *Hub) ActionPerformed(sel support.Selection) {
	h.Broadcast(Frame{Type: FramePerformed, Selection: NewSelectionPayload(sel)})
}

// Show satisfies support.AlertPresenter. The native shell owns the modal,
// so the alert is forwarded and Show returns once it is queued.
func (h *Hub) Show(message, detail string) {
	if h.Len() == 0 {
		h.logger.Warn("bridge: alert with no shell attached: %s", detail)
	}
	h.Broadcast(Frame{Type: FrameAlert, Alert: &AlertPayload{Message: message, Detail: detail}})
}

// CloseAll drops every subscriber, closing their channels.
func (h *Hub) CloseAll() {
	if h == nil {
		return
	}
	h.mu.Lock()
	subs := h.subscribers
	h.subscribers = map[*subscriber]struct{}{}
	h.mu.Unlock()
	for sub := range subs {
		sub.close()
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
	sub.close()
}

func (h *Hub) isDuplicate(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.recentIDs[id]; ok {
		return true
	}
	h.recentIDs[id] = struct{}{}
	h.recentOrder = append(h.recentOrder, id)
	if len(h.recentOrder) > h.dedupeWindow {
		oldest := h.recentOrder[0]
		h.recentOrder = h.recentOrder[1:]
		delete(h.recentIDs, oldest)
	}
	return false
}

type subscriber struct {
	mu     sync.Mutex
	ch     chan Frame
	closed bool
	logger support.Logger
}

func newSubscriber(capacity int, logger support.Logger) *subscriber {
	if capacity <= 0 {
		capacity = defaultSubscriberCapacity
	}
	return &subscriber{ch: make(chan Frame, capacity), logger: logger}
}

func (s *subscriber) channel() <-chan Frame {
	return s.ch
}

// deliver never blocks. On overflow the oldest frame is dropped, unless it
// is an alert and the incoming frame is not.
func (s *subscriber) deliver(frame Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- frame:
		return
	default:
	}
	var oldest Frame
	select {
	case oldest = <-s.ch:
	default:
	}
	if oldest.Type == FrameAlert && frame.Type != FrameAlert {
		s.ch <- oldest
		s.logger.Warn("bridge: dropped %s frame (queue overflow:incoming)", frame.Type)
		return
	}
	s.ch <- frame
	s.logger.Warn("bridge: dropped %s frame (queue overflow)", oldest.Type)
}

func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
