/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:     Unique ID per request for tracing
  2. RequestLogger: httplog, ECS schema, onto the server's slog logger
  3. Recoverer:     Panic recovery (500 instead of crash)
  4. CORS:          Origins from CORS_ALLOWED_ORIGINS
  5. Heartbeat:     GET /health for liveness checks

ROUTE GROUPS:
  /api/employees/*          Employee registry
  /api/incentive-mappings/* Mappings and the salary summary table
  /api/attendance/*         Attendance marks and drill-down
  /api/store-leaves         Store closure days
  /api/billing              Billing lines
  /api/advances/*           Advance ledger
  /api/salaries/*           Provisioning
  /api/payslips/*           Payslips
  /api/board/*              Selected-period view
  /api/scenarios/*          Demo scenarios

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	AllowedOrigins []string
	// Logger receives request logs. Nil disables request logging.
	Logger   *slog.Logger
	LogLevel slog.Level
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  opts.LogLevel,
			Schema: httplog.SchemaECS,
		}))
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.Heartbeat("/health"))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.SaveEmployee)
		})

		r.Route("/incentive-mappings", func(r chi.Router) {
			r.Get("/", h.GetSummary)
			r.Post("/", h.UpsertMapping)
		})

		r.Route("/attendance", func(r chi.Router) {
			r.Put("/", h.MarkAttendance)
			r.Get("/{employeeId}", h.GetAttendanceDetail)
		})

		r.Get("/store-leaves", h.GetStoreLeaves)
		r.Put("/store-leaves", h.ReplaceStoreLeaves)

		r.Post("/billing", h.AddBillingLine)

		r.Route("/advances", func(r chi.Router) {
			r.Get("/", h.ListAdvances)
			r.Post("/", h.AddAdvance)
			r.Delete("/{id}", h.DeleteAdvance)
		})

		r.Route("/salaries", func(r chi.Router) {
			r.Post("/provide", h.ProvideSalary)
			r.Get("/provided", h.ListProvided)
		})

		r.Get("/payslips/{employeeId}", h.GetPayslip)

		r.Route("/board", func(r chi.Router) {
			r.Get("/", h.GetBoard)
			r.Put("/period", h.SelectBoardPeriod)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
