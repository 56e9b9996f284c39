// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/flumap/internal/auth"
	"github.com/tomtom215/flumap/internal/authz"
	"github.com/tomtom215/flumap/internal/middleware"
)

// datasetsObject is the casbin object for dataset writes on legacy paths.
const datasetsObject = "/api/v1/datasets"

// Router wires handlers and middleware into a Chi router.
type Router struct {
	handler       *Handler
	middleware    *auth.Middleware
	authz         *authz.Middleware
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. chiMw may be nil for defaults.
func NewRouter(handler *Handler, authMW *auth.Middleware, authzMW *authz.Middleware, chiMw *ChiMiddleware) *Router {
	if chiMw == nil {
		chiMw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		middleware:    authMW,
		authz:         authzMW,
		chiMiddleware: chiMw,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// authorize adapts authz.Middleware.Authorize for a fixed object and action.
func (router *Router) authorize(object, action string) func(http.Handler) http.Handler {
	return chiMiddleware(func(next http.HandlerFunc) http.HandlerFunc {
		return router.authz.Authorize(object, action, next)
	})
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(chiMiddleware(middleware.AccessLog))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Health
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	// Authentication
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/login", router.handler.Login)
		r.With(router.chiMiddleware.RateLimit()).Post("/logout", router.handler.Logout)
	})

	// Datasets and the case pipeline
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		// Reads are public
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chiMiddleware(middleware.Compression))

			r.Get("/datasets", router.handler.ListDatasets)
			r.Get("/datasets/{name}/summary", router.handler.DatasetSummary)
			r.Get("/data", router.handler.Data)
			r.Get("/cases", router.handler.Cases)
			r.Get("/chart", router.handler.Chart)
			r.Get("/map", router.handler.Map)
			r.Get("/options", router.handler.Options)
			r.Get("/timeline", router.handler.Timeline)
		})

		// Writes require an authenticated admin
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())
			r.Use(chiMiddleware(router.middleware.Authenticate))
			r.Use(chiMiddleware(router.authz.AuthorizeRequest))

			r.Post("/datasets", router.handler.UploadDataset)
			r.Delete("/datasets/{name}", router.handler.DeleteDataset)
		})
	})

	// Legacy paths used by the first dashboard client
	r.Group(func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.With(router.chiMiddleware.RateLimit(), chiMiddleware(middleware.Compression)).Get("/api/data", router.handler.Data)
		r.With(router.chiMiddleware.RateLimit()).Get("/api/files", router.handler.ListDatasets)
		r.With(router.chiMiddleware.RateLimitLogin()).Post("/api/login", router.handler.Login)
		r.With(
			router.chiMiddleware.RateLimitWrite(),
			chiMiddleware(router.middleware.Authenticate),
			router.authorize(datasetsObject, authz.ActionWrite),
		).Post("/api/upload", router.handler.UploadDataset)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
