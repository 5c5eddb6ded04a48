// Package server implements the rackviz preview server: a JSON API for
// rack CRUD plus rendered elevation and topology endpoints.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rackworks/rackviz/pkg/pipeline"
	"github.com/rackworks/rackviz/pkg/rack"
	"github.com/rackworks/rackviz/pkg/store"
)

// Server wires the rack store, the device type catalog, and the
// rendering pipeline behind an HTTP API.
type Server struct {
	store   store.RackStore
	catalog *rack.Catalog
	runner  *pipeline.Runner
	logger  *log.Logger
}

// New creates a server. The catalog is loaded once at startup; rack
// definitions live in the store and can change at runtime.
func New(st store.RackStore, cat *rack.Catalog, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{
		store:   st,
		catalog: cat,
		runner:  runner,
		logger:  logger,
	}
}

// Router builds the route tree.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.StripSlashes)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Route("/racks", func(r chi.Router) {
			r.Get("/", s.handleListRacks)
			r.Post("/", s.handleCreateRack)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetRack)
				r.Put("/", s.handleUpdateRack)
				r.Delete("/", s.handleDeleteRack)
				r.Post("/validate", s.handleValidatePlacement)
				r.Get("/elevation.svg", s.handleElevationSVG)
				r.Get("/elevation.json", s.handleElevationJSON)
				r.Get("/topology.dot", s.handleTopologyDOT)
				r.Get("/topology.svg", s.handleTopologySVG)
			})
		})
		r.Get("/themes", s.handleListThemes)
	})

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
