// Package serve exposes the event store read-only over HTTP for the calendar
// frontend.
package serve

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/faizmokh/pacli/internal/calexport"
	"github.com/faizmokh/pacli/internal/events"
)

const shutdownTimeout = 5 * time.Second

// Server serves /health, /events and /events.ics.
type Server struct {
	store    events.Loader
	location *time.Location
	logger   *slog.Logger
	mux      *http.ServeMux
}

// NewServer builds a server reading from store. Dates are interpreted in loc.
func NewServer(store events.Loader, loc *time.Location, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.Local
	}
	s := &Server{
		store:    store,
		location: loc,
		logger:   logger,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the routed handler wrapped with CORS headers.
func (s *Server) Handler() http.Handler {
	return cors(s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/events", s.handleEvents)
	s.mux.HandleFunc("/events.ics", s.handleICS)
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving events", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleEvents returns the stored events as a JSON array. Optional query
// parameters: from and to (any recognized date layout, inclusive) and
// public=true to hide private events.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	list, status, err := s.load(r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	list, status, err := s.load(r)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := calexport.Write(w, list, calexport.Options{Location: s.location}); err != nil {
		s.logger.Error("write calendar response", "err", err)
	}
}

func (s *Server) load(r *http.Request) ([]events.Event, int, error) {
	q := r.URL.Query()
	from, to := q.Get("from"), q.Get("to")

	var (
		list []events.Event
		err  error
	)
	switch {
	case from != "" && to != "":
		list, err = events.Range(r.Context(), s.store, from, to)
	case from != "" || to != "":
		return nil, http.StatusBadRequest, errors.New("from and to must be given together")
	default:
		list, err = s.store.Load(r.Context())
	}
	if err != nil {
		if errors.Is(err, events.ErrInvalidDate) {
			return nil, http.StatusBadRequest, err
		}
		s.logger.Error("load events", "err", err)
		return nil, http.StatusInternalServerError, errors.New("failed to load events")
	}

	if publicOnly, _ := strconv.ParseBool(q.Get("public")); publicOnly {
		kept := list[:0:0]
		for _, e := range list {
			if e.Public {
				kept = append(kept, e)
			}
		}
		list = kept
	}
	if list == nil {
		list = []events.Event{}
	}
	return list, http.StatusOK, nil
}

// cors allows any origin and answers preflight requests directly.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write JSON response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
