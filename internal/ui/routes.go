package ui

import (
	"github.com/go-chi/chi/v5"

	"github.com/me/shipdesk/internal/scan"
	"github.com/me/shipdesk/pkg/model"
)

// RegisterRoutes registers all UI routes on the given router.
func (ui *UI) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(HostGuard(ui.cfg.AllowedHosts, ui.logger))
		r.Use(ui.SameOrigin)
		ui.registerPages(r)
	})
}

func (ui *UI) registerPages(r chi.Router) {
	// Public routes (no auth required).
	r.Get("/login", ui.HandleLogin)
	r.Group(func(r chi.Router) {
		if ui.limiter != nil {
			r.Use(ui.limiter.Middleware(ui.HandleLoginLimited))
		}
		r.Post("/login", ui.HandleLoginPost)
	})

	// Protected routes (auth required).
	r.Group(func(r chi.Router) {
		r.Use(ui.AuthMiddleware)
		r.Use(ui.ManifestGuard)

		r.Get("/", ui.HandleDashboard)
		r.Get("/settings", ui.HandleSettings)
		r.Post("/logout", ui.HandleLogout)

		// Master maintenance
		r.Route("/users", func(r chi.Router) {
			r.Get("/", ui.HandleUserList)
			r.With(ui.RequirePermission(model.PermUsersCreate)).Get("/new", ui.HandleUserForm)
			r.With(ui.RequirePermission(model.PermUsersCreate)).Post("/", ui.HandleUserSave)
			r.With(ui.RequirePermission(model.PermUsersUpdate)).Get("/{id}", ui.HandleUserForm)
			r.With(ui.RequirePermission(model.PermUsersUpdate)).Post("/{id}", ui.HandleUserSave)
		})
		r.Route("/customers", func(r chi.Router) {
			r.Get("/", ui.HandleCustomerList)
			r.With(ui.RequirePermission(model.PermCustomersCreate)).Get("/new", ui.HandleCustomerForm)
			r.With(ui.RequirePermission(model.PermCustomersCreate)).Post("/", ui.HandleCustomerSave)
			r.With(ui.RequirePermission(model.PermCustomersUpdate)).Get("/{id}", ui.HandleCustomerForm)
			r.With(ui.RequirePermission(model.PermCustomersUpdate)).Post("/{id}", ui.HandleCustomerSave)
		})
		r.Route("/pickup", func(r chi.Router) {
			r.Get("/", ui.HandlePickupList)
			r.With(ui.RequirePermission(model.PermPickupsCreate)).Get("/new", ui.HandlePickupForm)
			r.With(ui.RequirePermission(model.PermPickupsCreate)).Post("/", ui.HandlePickupSave)
			r.With(ui.RequirePermission(model.PermPickupsImport)).Post("/import", ui.HandleImport(model.ImportPickups, "/pickup"))
			r.With(ui.RequirePermission(model.PermPickupsUpdate)).Get("/{id}", ui.HandlePickupForm)
			r.With(ui.RequirePermission(model.PermPickupsUpdate)).Post("/{id}", ui.HandlePickupSave)
		})
		r.Route("/delivery", func(r chi.Router) {
			r.Get("/", ui.HandleDeliveryList)
			r.With(ui.RequirePermission(model.PermDeliveriesCreate)).Get("/new", ui.HandleDeliveryForm)
			r.With(ui.RequirePermission(model.PermDeliveriesCreate)).Post("/", ui.HandleDeliverySave)
			r.With(ui.RequirePermission(model.PermDeliveriesImport)).Post("/import", ui.HandleImport(model.ImportDeliveries, "/delivery"))
			r.With(ui.RequirePermission(model.PermDeliveriesUpdate)).Get("/{id:[0-9]+}", ui.HandleDeliveryForm)
			r.With(ui.RequirePermission(model.PermDeliveriesUpdate)).Post("/{id:[0-9]+}", ui.HandleDeliverySave)
		})

		// Reports and shipping
		r.Get("/delivery-list", ui.HandleDeliverySchedule)
		r.Route("/shipping-input", func(r chi.Router) {
			r.Get("/", ui.HandleShippingSearch)
			r.Get("/new", ui.HandleShippingForm)
			r.Post("/", ui.HandleShippingSave)
			r.Get("/{id}", ui.HandleShippingForm)
			r.Post("/{id}", ui.HandleShippingSave)
		})
		r.Get("/pickup-list", ui.HandlePickupRequests)

		// Checkpoints
		for _, def := range scan.Definitions() {
			r.Get(def.Path, ui.HandleScanPage(def))
			r.Post(def.Path, ui.HandleScan(def))
		}
		r.Get(scan.SortingCheckPath, ui.HandleSortingCheckPage)
		r.Post(scan.SortingCheckPath, ui.HandleSortingCheck)
	})
}
