// Package httpapi exposes the matching engine over HTTP: POST
// /api/identify and /api/score for running the matcher against an
// uploaded dictionary, GET /api/catalog to list what's loaded, and
// GET /health for liveness checks.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/biorefs/refmatch/matchapi"
)

// Server wraps the catalog and matching config the handlers close over.
type Server struct {
	Catalog []*matchapi.KnownReference
	Index   *matchapi.CatalogIndex
	Config  matchapi.MatchingConfig
}

// NewRouter builds the chi router with the same middleware stack
// bioflow-server wires: request ID, real IP, structured request
// logging, panic recovery, and a request timeout.
func (s *Server) NewRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/identify", s.handleIdentify)
		r.Post("/score", s.handleScore)
		r.Get("/catalog", s.handleCatalog)
	})

	return r
}
