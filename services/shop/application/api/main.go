package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/lenos/pkg/app"
	"github.com/ghuser/lenos/services/shop/application/handlers"
	appsvcs "github.com/ghuser/lenos/services/shop/application/services"
)

// ShopRoutes registers shop endpoints on the provided chi router.
func ShopRoutes(r chi.Router, a *app.Application) {
	Mount(r, appsvcs.New(a))
}

// Mount registers shop endpoints backed by svcs.
func Mount(r chi.Router, svcs *appsvcs.Services) {
	customers := handlers.NewCustomersHandler(svcs)
	jobs := handlers.NewJobsHandler(svcs)
	inventory := handlers.NewInventoryHandler(svcs)
	checks := handlers.NewQualityChecksHandler(svcs)
	billing := handlers.NewBillingHandler(svcs)

	r.Group(func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", customers.Create)
			r.Get("/", customers.List)
		})
		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", jobs.Create)
			r.Get("/", jobs.List)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", jobs.Get)
				r.Patch("/", jobs.Update)
				r.Put("/status", jobs.ChangeStatus)
				r.Post("/inventory-usage", inventory.RecordUsage)
				r.Get("/inventory-usage", inventory.ListUsage)
			})
		})
		r.Route("/inventory", func(r chi.Router) {
			r.Post("/", inventory.Create)
			r.Get("/", inventory.List)
			r.Get("/low-stock", inventory.LowStock)
			r.Patch("/{id}", inventory.Adjust)
		})
		r.Route("/quality-checks", func(r chi.Router) {
			r.Post("/", checks.Create)
			r.Get("/{jobId}", checks.ListByJob)
		})
		r.Route("/invoices", func(r chi.Router) {
			r.Post("/", billing.CreateInvoice)
			r.Get("/", billing.ListInvoices)
		})
		r.Get("/dashboard", billing.Dashboard)
	})
}
