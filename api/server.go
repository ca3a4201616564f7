/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/employees/*     Employee management and leave balances
  /api/time-entries/*  Time entry validation and persistence
  /api/reports/*       Period totals and salaried day aggregates
  /api/services/*      Billable service catalog
  /api/rates/*         Rate card
  /api/policies/*      Leave and leave-pay policies
  /api/holidays/*      Holiday calendar lookup
  /api/leave-ledger    Ledger ingestion

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/leave-summary", h.LeaveSummary)
			r.Post("/{id}/leave-projection", h.LeaveProjection)
			r.Get("/{id}/leave-ledger", h.LeaveLedger)
		})

		// Time entry routes
		r.Route("/time-entries", func(r chi.Router) {
			r.Post("/", h.CreateTimeEntries)
			r.Post("/validate", h.ValidateTimeEntries)
			r.Delete("/{id}", h.DeleteTimeEntry)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/period-totals", h.PeriodTotals)
			r.Get("/global-days", h.GlobalDays)
		})

		// Catalog routes
		r.Route("/services", func(r chi.Router) {
			r.Get("/", h.ListServices)
			r.Post("/", h.CreateService)
		})
		r.Route("/rates", func(r chi.Router) {
			r.Get("/", h.ListRates)
			r.Post("/", h.CreateRate)
		})

		// Policy routes
		r.Route("/policies", func(r chi.Router) {
			r.Get("/leave", h.GetLeavePolicy)
			r.Put("/leave", h.PutLeavePolicy)
			r.Get("/leave-pay", h.GetLeavePayPolicy)
			r.Put("/leave-pay", h.PutLeavePayPolicy)
		})

		// Holiday routes
		r.Route("/holidays", func(r chi.Router) {
			r.Get("/lookup", h.LookupHoliday)
		})

		// Ledger ingestion
		r.Post("/leave-ledger", h.AppendLeaveLedger)
	})

	return r
}
