package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/artlens/artlens"
	apimiddleware "github.com/artlens/artlens/infrastructure/api/middleware"
	v1 "github.com/artlens/artlens/infrastructure/api/v1"
)

// APIServer provides an HTTP API backed by an artlens Client.
type APIServer struct {
	client       *artlens.Client
	server       *Server
	router       chi.Router
	routerCalled bool
	logger       *slog.Logger
}

// NewAPIServer creates a new APIServer wired to the given artlens Client.
// Mutating endpoints (artwork upserts and deletes) require the admin token
// configured on the client; read endpoints and match remain open.
func NewAPIServer(client *artlens.Client) *APIServer {
	return &APIServer{
		client: client,
		logger: client.Logger(),
	}
}

// Router returns the chi router for customization before starting.
// Call this first, add custom middleware with router.Use(), then call
// MountRoutes(). If not called, ListenAndServe creates a default router
// with all standard routes.
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	a.router = chi.NewRouter()
	a.routerCalled = true
	return a.router
}

// MountRoutes wires up all API routes on the router.
// Call this after adding any custom middleware via Router().Use().
func (a *APIServer) MountRoutes() {
	if a.router == nil {
		a.Router()
	}
	a.mountRoutes(a.router)
}

// mountRoutes wires up all API routes on the given router.
func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: c.Config().FrontendOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", apimiddleware.AdminTokenHeader},
		MaxAge:         300,
	}))

	systemRouter := v1.NewSystemRouter(c)
	catalogRouter := v1.NewCatalogRouter(c)
	matchRouter := v1.NewMatchRouter(c)
	artworksRouter := v1.NewArtworksRouter(c)

	router.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Get("/health", systemRouter.Health)
		r.Get("/health_db", systemRouter.HealthDB)
		r.Post("/log_perf", systemRouter.LogPerf)

		r.Get("/catalog", catalogRouter.Catalog)
		r.Get("/descriptors", catalogRouter.Descriptors)
		r.Get("/descriptors_v2", catalogRouter.DescriptorsV2)
		r.Get("/descriptors_meta_v2", catalogRouter.DescriptorsMeta)

		r.Post("/match", matchRouter.Match)

		r.Mount("/artworks", artworksRouter.Routes())
	})
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	server := NewServer(addr, a.logger)
	a.server = &server

	if a.routerCalled && a.router != nil {
		server.Router().Mount("/", a.router)
	} else {
		a.mountRoutes(server.Router())
	}

	return server.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	if a.server == nil {
		return nil
	}
	return a.server.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	if a.router == nil {
		a.Router()
		a.MountRoutes()
	}
	return a.router
}
