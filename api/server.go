/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. Logger:     Structured request logging (zap)
  4. Metrics:    Prometheus request counters/latency (when enabled)
  5. CORS:       Cross-origin requests for calendar frontends
  6. RateLimit:  Per-client-IP token bucket on /api (when configured)

ROUTE GROUPS:
  /api/convert/*        AD <-> BS conversion
  /api/today            Today's BS date
  /api/calendar/*       BS month grids and month lengths
  /api/holidays/*       Holiday management, iCalendar import/export
  /api/forex/*          NPR exchange rates
  /healthz              Liveness
  /metrics              Prometheus scrape endpoint

SECURITY NOTE:
  No authentication middleware. Write endpoints are expected to sit behind
  a trusted proxy.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/patro/serve.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Options configures the router. Zero values give permissive CORS for
// local development and no rate limiting.
type Options struct {
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

var defaultOrigins = []string{"http://localhost:5173", "http://localhost:8080"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(h.Logger))
	if h.Metrics != nil {
		r.Use(h.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Health)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(RateLimit(opts.RateLimitRPS, opts.RateLimitBurst))

		// Conversion routes
		r.Route("/convert", func(r chi.Router) {
			r.Get("/ad-to-bs", h.ConvertADToBS)
			r.Get("/bs-to-ad", h.ConvertBSToAD)
			r.Post("/", h.Convert)
		})
		r.Get("/today", h.Today)

		// Calendar routes
		r.Route("/calendar/{year}/{month}", func(r chi.Router) {
			r.Get("/", h.GetMonth)
			r.Get("/days", h.GetDaysInMonth)
		})

		// Holiday routes
		r.Get("/holidays.ics", h.ExportHolidays)
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/", h.ListHolidays)
			r.Post("/", h.CreateHoliday)
			r.Post("/import", h.ImportHolidays)
			r.Post("/defaults", h.AddDefaultHolidays)
			r.Delete("/{id}", h.DeleteHoliday)
		})

		// Forex routes
		r.Route("/forex", func(r chi.Router) {
			r.Get("/", h.ListRates)
			r.Post("/", h.SaveRate)
			r.Get("/convert", h.ConvertCurrency)
		})
	})

	return r
}
