// Package debugserver exposes the running sketch over HTTP: health, Prometheus
// metrics and a JSON view of the latest frame.
package debugserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Snapshot is the per-frame state published by the frame loop.
type Snapshot struct {
	RunID           string    `json:"runId"`
	Track           string    `json:"track,omitempty"`
	Frame           uint64    `json:"frame"`
	Level           float64   `json:"level"`
	Beat            bool      `json:"beat"`
	Threshold       float64   `json:"threshold"`
	Cutoff          float64   `json:"cutoff"`
	FramesSinceBeat int       `json:"framesSinceBeat"`
	Beats           uint64    `json:"beats"`
	Background      string    `json:"background"`
	Rotate          bool      `json:"rotate"`
	Paused          bool      `json:"paused"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Publisher hands snapshots from the frame loop to HTTP handlers without
// sharing any frame loop state.
type Publisher struct {
	latest atomic.Pointer[Snapshot]
}

// Publish stores a copy of s.
func (p *Publisher) Publish(s Snapshot) {
	p.latest.Store(&s)
}

// Latest returns the last published snapshot, or nil.
func (p *Publisher) Latest() *Snapshot {
	return p.latest.Load()
}

// NewRouter builds the debug routes.
func NewRouter(p *Publisher) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/state", func(w http.ResponseWriter, r *http.Request) {
			s := p.Latest()
			if s == nil {
				http.Error(w, "no frame rendered yet", http.StatusServiceUnavailable)
				return
			}
			body, err := json.Marshal(s)
			if err != nil {
				http.Error(w, "encode state: "+err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write(body)
		})
	})
	return r
}

// Serve runs the debug server on addr until ctx is done.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 20 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("debug server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
