package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kingrea/support-menu/internal/support"
)

// ServerStatus reports runtime lifecycle states for the HTTP server.
type ServerStatus string

const (
	StatusStarting ServerStatus = "starting"
	StatusReady    ServerStatus = "ready"
	StatusDraining ServerStatus = "draining"
)

// ErrServerDisabled is returned by Start when the bridge is switched off.
var ErrServerDisabled = errors.New("bridge: server disabled")

const writeWait = 5 * time.Second

// Server exposes a support controller to native menu shells over loopback
// HTTP and websocket.
type Server struct {
	settings   Settings
	controller *support.Controller
	hub        *Hub
	logger     support.Logger
	clock      func() time.Time
	upgrader   websocket.Upgrader

	mu        sync.RWMutex
	server    *http.Server
	listener  net.Listener
	status    ServerStatus
	startTime time.Time
	conns     map[*websocket.Conn]struct{}
	wg        sync.WaitGroup
}

// Option customizes server construction.
type Option func(*Server)

// WithLogger overrides the default no-op logger.
func WithLogger(l support.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewServer prepares a bridge for controller. Performed and alert frames
// reach websocket clients only when hub is also wired into the controller
// as its observer and alert port.
func NewServer(settings Settings, controller *support.Controller, hub *Hub, opts ...Option) *Server {
	if hub == nil {
		hub = NewHub()
	}
	s := &Server{
		settings:   settings,
		controller: controller,
		hub:        hub,
		logger:     nopLogger{},
		clock:      func() time.Time { return time.Now().UTC() },
		status:     StatusStarting,
		conns:      map[*websocket.Conn]struct{}{},
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     loopbackOrigin,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Handler returns the bridge's routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/menu", s.handleMenu)
	mux.HandleFunc("/select", s.handleSelect)
	mux.HandleFunc("/ws", s.handleWebsocket)
	return mux
}

// Start binds the TCP listener and begins serving.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("bridge: server is nil")
	}
	if s.controller == nil {
		return fmt.Errorf("bridge: controller is nil")
	}
	if !s.settings.Enabled {
		return ErrServerDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("bridge: server already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bridge: listen %s: %w", addr, err)
	}
	s.listener = listener
	s.startTime = s.clock()
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = server
	s.status = StatusReady
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("bridge: serve error: %v", err)
		}
	}()
	s.logger.Info("bridge: listening on %s", listener.Addr().String())
	return nil
}

// Shutdown stops accepting connections, closes websocket clients and waits
// for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	if s.listener == nil || s.server == nil {
		s.mu.Unlock()
		return nil
	}
	s.status = StatusDraining
	server := s.server
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	deadline := ctx
	if deadline == nil {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}
	if err := server.Shutdown(deadline); err != nil {
		return err
	}
	s.wg.Wait()

	s.mu.Lock()
	s.listener = nil
	s.server = nil
	s.mu.Unlock()
	return nil
}

// Addr returns the bound TCP address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// BaseURL returns the HTTP base URL (scheme + host:port) for the running server.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		return s.settings.URL()
	}
	return "http://" + addr
}

// Status reports the server's lifecycle state.
func (s *Server) Status() ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Server) uptimeSeconds() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startTime.IsZero() {
		return 0
	}
	return int64(s.clock().Sub(s.startTime).Seconds())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        string(s.Status()),
		Version:       ProtocolVersion,
		Subscribers:   s.hub.Len(),
		UptimeSeconds: s.uptimeSeconds(),
	})
}

func (s *Server) handleMenu(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, NewMenuPayload(s.controller.Menu()))
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	if !loopbackOrigin(r) {
		s.logger.Warn("bridge: refused selection from origin %q", r.Header.Get("Origin"))
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "origin not allowed"})
		return
	}
	if !isJSON(r.Header.Get("Content-Type")) {
		writeJSON(w, http.StatusUnsupportedMediaType, errorResponse{Error: "content type must be application/json"})
		return
	}
	if r.Body == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "empty body"})
		return
	}
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "payload exceeds limit"})
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unable to read body"})
		return
	}
	var req selectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON"})
		return
	}
	if req.Tag == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tag is required"})
		return
	}
	sel, err := s.perform(*req.Tag)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, NewSelectionPayload(sel))
}

// perform dispatches a tag from the network. Unknown tags are logged and
// reported instead of crashing the host.
func (s *Server) perform(tag int) (support.Selection, error) {
	sel, err := s.controller.Select(tag)
	if err != nil {
		s.logger.Error("bridge: rejected selection: %v", err)
		return support.Selection{}, err
	}
	return sel, nil
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("bridge: websocket upgrade: %v", err)
		return
	}
	if !s.track(conn) {
		_ = conn.Close()
		return
	}
	conn.SetReadLimit(s.settings.MaxBodyBytes)
	sub := s.hub.Subscribe()
	direct := make(chan Frame, 4)
	done := make(chan struct{})

	go func() {
		defer s.wg.Done()
		defer s.untrack(conn)
		s.writeLoop(conn, sub, direct, done)
	}()

	direct <- Frame{Type: FrameMenu, Menu: NewMenuPayload(s.controller.Menu())}
	s.readLoop(conn, direct, done)
	sub.Close()
}

func (s *Server) readLoop(conn *websocket.Conn, direct chan<- Frame, done chan<- struct{}) {
	defer close(done)
	for {
		var frame Frame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("bridge: websocket read: %v", err)
			}
			return
		}
		switch {
		case frame.Type != FrameSelect:
			s.reply(direct, Frame{Type: FrameError, Error: fmt.Sprintf("unsupported frame %q", frame.Type)})
		case frame.Tag == nil:
			s.reply(direct, Frame{Type: FrameError, Error: "tag is required"})
		default:
			if _, err := s.perform(*frame.Tag); err != nil {
				s.reply(direct, Frame{Type: FrameError, Tag: frame.Tag, Error: err.Error()})
			}
		}
	}
}

func (s *Server) reply(direct chan<- Frame, frame Frame) {
	select {
	case direct <- frame:
	default:
		s.logger.Warn("bridge: dropped %s reply (queue overflow)", frame.Type)
	}
}

func (s *Server) writeLoop(conn *websocket.Conn, sub Subscription, direct <-chan Frame, done <-chan struct{}) {
	ticker := time.NewTicker(s.settings.PingInterval)
	defer ticker.Stop()
	defer conn.Close()
	for {
		var frame Frame
		select {
		case <-done:
			return
		case frame = <-direct:
		case next, ok := <-sub.Frames:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			frame = next
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
			continue
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frame); err != nil {
			s.logger.Warn("bridge: websocket write: %v", err)
			return
		}
	}
}

func (s *Server) track(conn *websocket.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusDraining {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

// loopbackOrigin admits native shells (no Origin header) and pages served
// from this machine. Browsers always send Origin on cross-site requests.
func loopbackOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "127.0.0.1", "localhost", "::1":
		return true
	default:
		return false
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	allow := methods[0]
	for _, m := range methods[1:] {
		allow += ", " + m
	}
	w.Header().Set("Allow", allow)
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
