/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/products/*    Catalog management
  /api/customers/*   Customer management
  /api/employees/*   Staff and attendance
  /api/partners/*    Wholesale partners
  /api/sales/*       Sales and lifecycle
  /api/returns       Partial returns
  /api/wholesale/*   Bulk trade
  /api/inventory/*   Stocktaking
  /api/payroll       Salary disbursement
  /api/expenses      Expense ledger
  /api/audit         Audit trail
  /api/scenarios/*   Demo scenarios

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Catalog routes
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.UpsertProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", h.ListCustomers)
			r.Post("/", h.UpsertCustomer)
			r.Delete("/{id}", h.DeleteCustomer)
		})

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.UpsertEmployee)
			r.Delete("/{id}", h.DeleteEmployee)
			r.Post("/{id}/attendance", h.RecordAttendance)
		})

		r.Route("/partners", func(r chi.Router) {
			r.Get("/", h.ListPartners)
			r.Post("/", h.UpsertPartner)
			r.Delete("/{id}", h.DeletePartner)
		})

		// Sales routes
		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.ListSales)
			r.Post("/", h.CreateSale)
			r.Get("/{id}", h.GetSale)
			r.Put("/{id}/status", h.UpdateSaleStatus)
			r.Post("/{id}/duplicate", h.DuplicateSale)
		})

		r.Route("/returns", func(r chi.Router) {
			r.Get("/", h.ListReturns)
			r.Post("/", h.CreateReturn)
		})

		// Wholesale routes
		r.Route("/wholesale", func(r chi.Router) {
			r.Get("/", h.ListWholesale)
			r.Post("/", h.CreateWholesale)
			r.Post("/{id}/payments", h.PayWholesaleDebt)
		})

		// Inventory routes
		r.Route("/inventory", func(r chi.Router) {
			r.Get("/adjustments", h.ListStockAdjustments)
			r.Post("/adjustments", h.AdjustStock)
		})

		// HR routes
		r.Get("/attendance", h.ListAttendance)
		r.Route("/payroll", func(r chi.Router) {
			r.Get("/", h.ListSalaries)
			r.Post("/", h.PaySalary)
		})

		// Bookkeeping routes
		r.Get("/expenses", h.ListExpenses)
		r.Get("/audit", h.ListAudit)

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetLedger)
		})
	})

	return r
}
