// Package fixture serves small stand-in apps for the verifiers: one that writes
// to the console and one that shows a loading indicator until the server says
// it is ready.
package fixture

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/raysh454/pageverify/internal/logging"
)

// Server hosts both fixture apps.
type Server struct {
	cfg      Config
	logger   logging.Logger
	upgrader websocket.Upgrader

	quit     chan struct{}
	quitOnce sync.Once
}

// NewServer creates a fixture server. A nil logger discards output.
func NewServer(cfg Config, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{
		cfg:    cfg,
		logger: logger.With(logging.Field{Key: "component", Value: "fixture"}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Fixture pages are served from the same host.
				return true
			},
		},
		quit: make(chan struct{}),
	}
}

// ConsoleHandler returns the console app.
func (s *Server) ConsoleHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Get("/", s.handleConsolePage)
	r.Get("/api/status", s.handleStatus)
	return r
}

// LoadingHandler returns the loading app.
func (s *Server) LoadingHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)
	r.Get("/", s.handleLoadingPage)
	r.Get("/ws/ready", s.handleReadyWS)
	return r
}

// Run serves both apps until ctx is cancelled or a listener fails.
func (s *Server) Run(ctx context.Context) error {
	servers := []*http.Server{
		{Addr: s.cfg.ConsoleAddr, Handler: s.ConsoleHandler(), ReadHeaderTimeout: 10 * time.Second},
		{Addr: s.cfg.LoadingAddr, Handler: s.LoadingHandler(), ReadHeaderTimeout: 10 * time.Second},
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		go func() {
			s.logger.Info("fixture app listening", logging.Field{Key: "addr", Value: srv.Addr})
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("serving %s: %w", srv.Addr, err)
			}
		}()
	}

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	s.stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutting down fixture app", logging.Field{Key: "addr", Value: srv.Addr}, logging.Err(err))
		}
	}
	return runErr
}

// stop releases websocket handlers, which Shutdown does not wait for.
func (s *Server) stop() {
	s.quitOnce.Do(func() { close(s.quit) })
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http_request",
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path})
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleConsolePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(consolePage))
}

type statusResponse struct {
	Status  string   `json:"status"`
	Classes []string `json:"classes"`
	Pending int      `json:"pending"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{
		Status:  "ok",
		Classes: []string{"JSS 1", "JSS 2", "SSS 1"},
		Pending: 2,
	})
}

func (s *Server) handleLoadingPage(w http.ResponseWriter, r *http.Request) {
	data := loadingPageData{
		Title:  "Reports",
		Hide:   hideMode(r.URL.Query().Get("hide")),
		Nested: r.URL.Query().Get("nested") == "1",
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := loadingPageTmpl.Execute(w, data); err != nil {
		s.logger.Warn("rendering loading page", logging.Err(err))
	}
}

type readyMessage struct {
	Ready bool `json:"ready"`
}

func (s *Server) handleReadyWS(w http.ResponseWriter, r *http.Request) {
	stall := r.URL.Query().Get("stall") == "1"

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("upgrading to websocket", logging.Err(err))
		return
	}
	defer conn.Close()

	// Reading detects the client going away.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	var ready <-chan time.Time
	if !stall {
		t := time.NewTimer(s.cfg.ReadyDelay)
		defer t.Stop()
		ready = t.C
	}

	select {
	case <-ready:
		if err := conn.WriteJSON(readyMessage{Ready: true}); err != nil {
			s.logger.Debug("writing ready message", logging.Err(err))
			return
		}
		s.logger.Debug("sent ready")
		select {
		case <-gone:
		case <-s.quit:
		}
	case <-gone:
	case <-s.quit:
	case <-r.Context().Done():
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
