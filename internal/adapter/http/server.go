// Package http serves the fulfillment plan, the availability matrix, and
// the health, readiness and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PlanComputer computes a fresh fulfillment plan without publishing it.
type PlanComputer interface {
	Compute(ctx context.Context) (domain.Plan, error)
}

// SnapshotSource reads the current orders, restaurants and availability.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (domain.Snapshot, error)
}

// Server exposes the API and operational HTTP endpoints.
type Server struct {
	httpServer *http.Server
	plans      PlanComputer
	snapshots  SnapshotSource
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /healthz, /readyz, /metrics,
// /v1/fulfillment and /v1/availability routes.
func NewServer(addr string, ready sharedobs.ReadinessChecker, plans PlanComputer, snapshots SnapshotSource, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second, // a plan may wait on the geocoder
			IdleTimeout:  60 * time.Second,
		},
		plans:     plans,
		snapshots: snapshots,
		logger:    logger,
	}

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/fulfillment", s.handleFulfillment)
	mux.HandleFunc("GET /v1/availability", s.handleAvailability)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleFulfillment(w http.ResponseWriter, r *http.Request) {
	sortBy := r.URL.Query().Get("sort")
	if sortBy != "" && sortBy != "distance" {
		writeError(w, http.StatusBadRequest, "unsupported sort: "+sortBy)
		return
	}

	plan, err := s.plans.Compute(r.Context())
	if err != nil {
		s.logger.Error("fulfillment request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "order data unavailable")
		return
	}

	if sortBy == "distance" {
		plan.Orders = slices.Clone(plan.Orders)
		for i := range plan.Orders {
			plan.Orders[i].Candidates = domain.SortByDistance(plan.Orders[i].Candidates)
		}
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleAvailability(w http.ResponseWriter, r *http.Request) {
	snap, err := s.snapshots.Snapshot(r.Context())
	if err != nil {
		s.logger.Error("availability request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "catalog data unavailable")
		return
	}
	writeJSON(w, http.StatusOK, snap.AvailabilityMatrix())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
