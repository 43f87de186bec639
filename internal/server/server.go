// Package server exposes the synthesis engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seqgeo/argplace/internal/config"
	"github.com/seqgeo/argplace/internal/landmask"
	"github.com/seqgeo/argplace/internal/store"
	"github.com/seqgeo/argplace/internal/synth"
)

// Server wires the synthesis engine, land mask, and run store behind an
// HTTP API.
type Server struct {
	store    store.Store
	detector landmask.Detector
	synthCfg config.SynthConfig
	regions  []synth.Region
	port     int
	origins  []string
	log      *zap.Logger
}

// New builds a Server. detector and regions may be nil; synthesis then runs
// without the land constraint or with the built-in region catalog.
func New(st store.Store, detector landmask.Detector, cfg *config.Config, regions []synth.Region) *Server {
	return &Server{
		store:    st,
		detector: detector,
		synthCfg: cfg.Synth,
		regions:  regions,
		port:     cfg.Server.Port,
		origins:  cfg.Server.AllowedOrigins,
		log:      zap.L().With(zap.String("component", "server")),
	}
}

// Router assembles the route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/crs", s.handleListCRS)
		r.Post("/synthesize", s.handleSynthesize)
		r.Get("/runs", s.handleListRuns)
		r.Route("/runs/{runID}", func(r chi.Router) {
			r.Get("/", s.handleGetRun)
			r.Get("/coordinates", s.handleGetCoordinates)
		})
	})
	return r
}

// Serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "server: listen")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return eris.Wrap(srv.Shutdown(shutdownCtx), "server: shutdown")
	})
	return g.Wait()
}
