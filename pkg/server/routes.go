package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"mercator-hq/saturn/pkg/telemetry/health"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(s.tracer.Middleware(routePattern))
	r.Use(requestID)
	r.Use(chimw.RealIP)
	r.Use(s.observe)
	r.Use(s.recoverer)
	if c := s.config.Server.CORS; c.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: c.AllowedOrigins,
			AllowedMethods: c.AllowedMethods,
			AllowedHeaders: c.AllowedHeaders,
			ExposedHeaders: c.ExposedHeaders,
			MaxAge:         c.MaxAge,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "route not found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", "")
	})

	tel := s.config.Telemetry
	if tel.Health.Enabled {
		r.Get(tel.Health.LivenessPath, s.checker.LivenessHandler())
		r.Get(tel.Health.ReadinessPath, s.checker.ReadinessHandler())
	}
	if tel.Metrics.Enabled && s.metrics != nil {
		r.Method(http.MethodGet, tel.Metrics.Path, s.metrics.Handler())
	}
	r.Get("/version", health.VersionHandler(s.build))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/versions", s.handleVersions)
		r.Get("/completions", s.handleCompletions)

		r.Group(func(r chi.Router) {
			r.Use(chimw.AllowContentType("application/json"))
			r.Post("/tokenize", s.handleTokenize)
			r.Post("/validate", s.handleValidate)
			r.Post("/sessions", s.handleCreateSession)
		})

		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Get("/completions", s.handleSessionCompletions)

			r.Group(func(r chi.Router) {
				r.Use(chimw.AllowContentType("application/json"))
				r.Put("/version", s.handleSetVersion)
				r.Post("/tokenize", s.handleSessionTokenize)
				r.Post("/validate", s.handleSessionValidate)
			})
		})
	})

	return r
}
