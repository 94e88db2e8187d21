// Package dashboard serves the trading agent's state to browsers.
// It renders the HTML dashboard, exposes the snapshot as JSON, triggers
// manual refreshes and streams every published snapshot over WebSocket.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"tradeforge-dashboard/internal/chart"
	"tradeforge-dashboard/internal/metrics"
	"tradeforge-dashboard/internal/model"
	"tradeforge-dashboard/internal/stats"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait       = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

var ErrAlreadyRunning = errors.New("dashboard is already running")

// Source is the snapshot provider, implemented by synchronizer.Synchronizer.
type Source interface {
	Snapshot() model.Snapshot
	Synchronize(ctx context.Context) model.Snapshot
	Subscribe() (<-chan model.Snapshot, func())
}

// View is the payload of the JSON API and the WebSocket stream.
type View struct {
	Snapshot model.Snapshot `json:"snapshot"`
	Summary  stats.Summary  `json:"summary"`
}

type Server struct {
	source    Source
	formatter *stats.Formatter
	baseline  float64
	gauge     metrics.ClientGauge

	router   *mux.Router
	server   *http.Server
	page     *template.Template
	upgrader websocket.Upgrader

	clients   map[*websocket.Conn]struct{}
	clientsMu sync.Mutex

	mu          sync.Mutex
	running     bool
	listener    net.Listener
	unsubscribe func()
	stop        chan struct{}
	done        chan struct{}
}

// New creates a dashboard on port. baseline is drawn as the reference line
// of the performance chart.
func New(source Source, formatter *stats.Formatter, baseline float64, port int) *Server {
	s := &Server{
		source:    source,
		formatter: formatter,
		baseline:  baseline,
		gauge:     metrics.Nop{},
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:   make(map[*websocket.Conn]struct{}),
	}
	s.page = template.Must(template.New("dashboard").Funcs(s.funcs()).Parse(pageTemplate))

	r := mux.NewRouter()
	r.HandleFunc("/", s.handleDashboard).Methods(http.MethodGet)
	r.HandleFunc("/api/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/chart", s.handleChart).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router = r

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s
}

// SetMetrics attaches the gauge tracking connected WebSocket clients.
func (s *Server) SetMetrics(gauge metrics.ClientGauge) {
	if gauge == nil {
		gauge = metrics.Nop{}
	}
	s.gauge = gauge
}

// Handler returns the router, used by tests and embedding servers.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the bound address once the server has started.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.server.Addr
	}
	return s.listener.Addr().String()
}

// Start binds the port, begins serving and forwards published snapshots
// to WebSocket clients. Bind errors are returned immediately.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return ErrAlreadyRunning
	}

	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln

	updates, unsubscribe := s.source.Subscribe()
	s.unsubscribe = unsubscribe
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.forward(updates, s.stop, s.done)

	go func() {
		log.Info().
			Str("address", ln.Addr().String()).
			Msg("Starting dashboard server")

		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Dashboard server failed")
		}
	}()

	s.running = true
	return nil
}

// Stop closes every WebSocket client and shuts the HTTP server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	close(s.stop)
	s.unsubscribe()
	<-s.done

	s.clientsMu.Lock()
	for conn := range s.clients {
		_ = conn.Close()
	}
	s.clients = make(map[*websocket.Conn]struct{})
	s.gauge.SetWSClients(0)
	s.clientsMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown dashboard server")
		return err
	}

	log.Info().Msg("Dashboard stopped")
	return nil
}

func (s *Server) forward(updates <-chan model.Snapshot, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case snap, ok := <-updates:
			if !ok {
				return
			}
			s.broadcast(s.view(snap))
		case <-stop:
			return
		}
	}
}

func (s *Server) view(snap model.Snapshot) View {
	return View{Snapshot: snap, Summary: stats.Summarize(snap, s.formatter)}
}

// broadcast sends v to every client and drops those that fail.
func (s *Server) broadcast(v View) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal snapshot for broadcast")
		return
	}

	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	for conn := range s.clients {
		if err := write(conn, data); err != nil {
			log.Debug().Err(err).Msg("Dropping WebSocket client")
			_ = conn.Close()
			delete(s.clients, conn)
		}
	}
	s.gauge.SetWSClients(len(s.clients))
}

func write(conn *websocket.Conn, data []byte) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := pageData{View: s.view(s.source.Snapshot())}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		log.Error().Err(err).Msg("Failed to render dashboard")
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.view(s.source.Snapshot()))
}

// handleRefresh runs a user-initiated synchronization cycle.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Synchronize(r.Context())
	writeJSON(w, http.StatusOK, s.view(snap))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.Render(w, snap.Performance, chart.Options{Baseline: s.baseline}); err != nil {
		log.Error().Err(err).Msg("Failed to render chart")
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.source.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"apiConnected": snap.APIConnected,
		"loaded":       snap.Loaded,
		"lastUpdate":   snap.LastUpdate,
	})
}

// handleWebSocket sends the current view on connect and every published one
// after that. Incoming messages are ignored.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Failed to upgrade WebSocket connection")
		return
	}
	defer conn.Close()

	data, err := json.Marshal(s.view(s.source.Snapshot()))
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal initial snapshot")
		return
	}

	s.clientsMu.Lock()
	if err := write(conn, data); err != nil {
		s.clientsMu.Unlock()
		return
	}
	s.clients[conn] = struct{}{}
	s.gauge.SetWSClients(len(s.clients))
	s.clientsMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.clientsMu.Lock()
	delete(s.clients, conn)
	s.gauge.SetWSClients(len(s.clients))
	s.clientsMu.Unlock()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}
