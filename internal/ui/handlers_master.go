package ui

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/csvimport"
	"github.com/me/shipdesk/internal/forms"
	"github.com/me/shipdesk/internal/nav"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/pkg/model"
)

// submitEntity saves form and redirects to listPath, or re-renders tmpl
// with the field errors.
func submitEntity[F, T any](ui *UI, w http.ResponseWriter, r *http.Request, what, listPath, tmpl string, s forms.Saver[F, T], id int64, form *F, data map[string]any) {
	_, err := forms.SubmitNotify(r.Context(), ui.flash, what, s, id, form)
	if err == nil {
		redirectSaved(w, r, listPath)
		return
	}

	fe, other := formFailure(err)
	if other != nil && model.IsUnauthorized(other) {
		ui.renderAPIError(w, r, what+" could not be saved", other)
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Form"] = form
	data["Errors"] = fe
	data["ID"] = id

	status := http.StatusUnprocessableEntity
	if other != nil {
		ui.logger.Warn("save failed", "entity", what, "id", id, "error", other)
		status = http.StatusBadGateway
	}
	ui.render(w, r, status, tmpl, data)
}

// entityID reads the {id} route parameter.
func entityID(r *http.Request) (int64, error) {
	return formID(chi.URLParam(r, "id"))
}

// customerScope returns the customer a customer-role session is bound to.
func customerScope(r *http.Request) (int64, bool) {
	sess := SessionFromContext(r.Context())
	if sess == nil || !sess.User.IsCustomer() || sess.User.CustomerID == nil {
		return 0, false
	}
	return *sess.User.CustomerID, true
}

// customerOptions loads the customer picker; failures leave it empty.
func (ui *UI) customerOptions(r *http.Request) []model.Customer {
	filter := api.CustomerFilter{}
	if id, ok := customerScope(r); ok {
		filter.CustomerID = id
	}
	out, err := ui.svc.Customers.Search(r.Context(), filter)
	if err != nil {
		ui.logger.Warn("customer search failed", "error", err)
		return nil
	}
	return out
}

// --- Customers ---

// HandleCustomerList renders the customer list.
func (ui *UI) HandleCustomerList(w http.ResponseWriter, r *http.Request) {
	var filter forms.CustomerFilter
	if err := decodeForm(r, &filter); err != nil {
		ui.renderError(w, r, "Invalid filter", err)
		return
	}
	fe := forms.Validate(&filter)
	if fe != nil {
		filter = forms.CustomerFilter{}
	}

	page, err := ui.svc.Customers.List(r.Context(), filter.API(), ui.parseListOptions(r))
	if err != nil {
		ui.renderAPIError(w, r, "Failed to load customers", err)
		return
	}

	ui.render(w, r, http.StatusOK, "customers/list", map[string]any{
		"Title":      "Customers - shipdesk",
		"Filter":     filter,
		"Errors":     fe,
		"Customers":  page.Items,
		"Pagination": buildPagination(page),
	})
}

// HandleCustomerForm renders the create (no id) or edit form.
func (ui *UI) HandleCustomerForm(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		ui.renderNotFound(w, r, "Customer not found")
		return
	}
	form := forms.CustomerForm{}
	if id != 0 {
		c, err := ui.svc.Customers.Get(r.Context(), id)
		if err != nil {
			ui.renderAPIError(w, r, "Customer not found", err)
			return
		}
		form = forms.CustomerFormFrom(c)
	}
	ui.render(w, r, http.StatusOK, "customers/form", map[string]any{
		"Title": "Customer - shipdesk",
		"Form":  &form,
		"ID":    id,
	})
}

// HandleCustomerSave creates or updates a customer.
func (ui *UI) HandleCustomerSave(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		ui.renderNotFound(w, r, "Customer not found")
		return
	}
	var form forms.CustomerForm
	if err := decodeForm(r, &form); err != nil {
		ui.renderError(w, r, "Invalid request", err)
		return
	}
	submitEntity(ui, w, r, "Customer", "/customers", "customers/form", ui.savers.Customers, id, &form,
		map[string]any{"Title": "Customer - shipdesk"})
}

// --- Users ---

// HandleUserList renders the user list.
func (ui *UI) HandleUserList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := api.UserFilter{Username: q.Get("username")}
	if role, err := model.ParseRole(q.Get("role")); err == nil {
		filter.Role = role
	}

	page, err := ui.svc.Users.List(r.Context(), filter, ui.parseListOptions(r))
	if err != nil {
		ui.renderAPIError(w, r, "Failed to load users", err)
		return
	}

	ui.render(w, r, http.StatusOK, "users/list", map[string]any{
		"Title":      "Users - shipdesk",
		"Filter":     filter,
		"Users":      page.Items,
		"Pagination": buildPagination(page),
	})
}

func (ui *UI) userFormData(r *http.Request) map[string]any {
	return map[string]any{
		"Title":     "User - shipdesk",
		"Groups":    ui.manifest.Groups,
		"Roles":     []model.Role{model.RoleSuperAdmin, model.RoleAdmin, model.RoleCustomer},
		"Customers": ui.customerOptions(r),
	}
}

// HandleUserForm renders the create (no id) or edit form.
func (ui *UI) HandleUserForm(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		ui.renderNotFound(w, r, "User not found")
		return
	}
	form := forms.UserForm{Role: model.RoleAdmin, Groups: nav.Toggles(ui.manifest, model.NewPermissionSet())}
	if id != 0 {
		u, err := ui.svc.Users.Get(r.Context(), id)
		if err != nil {
			ui.renderAPIError(w, r, "User not found", err)
			return
		}
		form = forms.UserFormFrom(u, ui.manifest)
	}
	data := ui.userFormData(r)
	data["Form"] = &form
	data["ID"] = id
	ui.render(w, r, http.StatusOK, "users/form", data)
}

// HandleUserSave creates or updates a user.
func (ui *UI) HandleUserSave(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		ui.renderNotFound(w, r, "User not found")
		return
	}
	var form forms.UserForm
	if err := decodeForm(r, &form); err != nil {
		ui.renderError(w, r, "Invalid request", err)
		return
	}
	form.ID = id
	form.Groups = decodeGroups(r, nav.GroupKeys(ui.manifest))
	submitEntity(ui, w, r, "User", "/users", "users/form", ui.savers.Users, id, &form, ui.userFormData(r))
}

// --- Pickup locations and delivery destinations ---

// locationFilter reads the list filter, pinning customer-role sessions to
// their own customer.
func locationFilter(r *http.Request) (forms.LocationFilter, forms.FieldErrors, error) {
	var filter forms.LocationFilter
	if err := decodeForm(r, &filter); err != nil {
		return filter, nil, err
	}
	fe := forms.Validate(&filter)
	if fe != nil {
		filter = forms.LocationFilter{}
	}
	if id, ok := customerScope(r); ok {
		filter.CustomerID = id
	}
	return filter, fe, nil
}

// HandlePickupList renders pickup locations with the CSV import form.
func (ui *UI) HandlePickupList(w http.ResponseWriter, r *http.Request) {
	filter, fe, err := locationFilter(r)
	if err != nil {
		ui.renderError(w, r, "Invalid filter", err)
		return
	}
	page, err := ui.svc.Pickups.List(r.Context(), filter.API(), ui.parseListOptions(r))
	if err != nil {
		ui.renderAPIError(w, r, "Failed to load pickup locations", err)
		return
	}

	ui.render(w, r, http.StatusOK, "pickups/list", map[string]any{
		"Title":      "Pickup locations - shipdesk",
		"Filter":     filter,
		"Errors":     fe,
		"Pickups":    page.Items,
		"Pagination": buildPagination(page),
		"CanImport":  SessionFromContext(r.Context()).Can(model.PermPickupsImport),
		"ImportPath": "/pickup/import",
	})
}

// HandlePickupForm renders the create (no id) or edit form.
func (ui *UI) HandlePickupForm(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		ui.renderNotFound(w, r, "Pickup location not found")
		return
	}
	form := forms.PickupForm{}
	if cid, ok := customerScope(r); ok {
		form.CustomerID = cid
	}
	if id != 0 {
		p, err := ui.svc.Pickups.Get(r.Context(), id)
		if err != nil {
			ui.renderAPIError(w, r, "Pickup location not found", err)
			return
		}
		form = forms.PickupFormFrom(p)
	}
	ui.render(w, r, http.StatusOK, "pickups/form", map[string]any{
		"Title":     "Pickup location - shipdesk",
		"Form":      &form,
		"ID":        id,
		"Customers": ui.customerOptions(r),
	})
}

// HandlePickupSave creates or updates a pickup location.
func (ui *UI) HandlePickupSave(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		ui.renderNotFound(w, r, "Pickup location not found")
		return
	}
	var form forms.PickupForm
	if err := decodeForm(r, &form); err != nil {
		ui.renderError(w, r, "Invalid request", err)
		return
	}
	if cid, ok := customerScope(r); ok {
		form.CustomerID = cid
	}
	submitEntity(ui, w, r, "Pickup location", "/pickup", "pickups/form", ui.savers.Pickups, id, &form,
		map[string]any{"Title": "Pickup location - shipdesk", "Customers": ui.customerOptions(r)})
}

// HandleDeliveryList renders delivery destinations with the CSV import form.
func (ui *UI) HandleDeliveryList(w http.ResponseWriter, r *http.Request) {
	filter, fe, err := locationFilter(r)
	if err != nil {
		ui.renderError(w, r, "Invalid filter", err)
		return
	}
	page, err := ui.svc.Deliveries.List(r.Context(), filter.API(), ui.parseListOptions(r))
	if err != nil {
		ui.renderAPIError(w, r, "Failed to load delivery destinations", err)
		return
	}

	ui.render(w, r, http.StatusOK, "deliveries/list", map[string]any{
		"Title":      "Delivery destinations - shipdesk",
		"Filter":     filter,
		"Errors":     fe,
		"Deliveries": page.Items,
		"Pagination": buildPagination(page),
		"CanImport":  SessionFromContext(r.Context()).Can(model.PermDeliveriesImport),
		"ImportPath": "/delivery/import",
	})
}

// HandleDeliveryForm renders the create (no id) or edit form.
func (ui *UI) HandleDeliveryForm(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		ui.renderNotFound(w, r, "Delivery destination not found")
		return
	}
	form := forms.DeliveryForm{}
	if cid, ok := customerScope(r); ok {
		form.CustomerID = cid
	}
	if id != 0 {
		d, err := ui.svc.Deliveries.Get(r.Context(), id)
		if err != nil {
			ui.renderAPIError(w, r, "Delivery destination not found", err)
			return
		}
		form = forms.DeliveryFormFrom(d)
	}
	ui.render(w, r, http.StatusOK, "deliveries/form", map[string]any{
		"Title":     "Delivery destination - shipdesk",
		"Form":      &form,
		"ID":        id,
		"Customers": ui.customerOptions(r),
	})
}

// HandleDeliverySave creates or updates a delivery destination.
func (ui *UI) HandleDeliverySave(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		ui.renderNotFound(w, r, "Delivery destination not found")
		return
	}
	var form forms.DeliveryForm
	if err := decodeForm(r, &form); err != nil {
		ui.renderError(w, r, "Invalid request", err)
		return
	}
	if cid, ok := customerScope(r); ok {
		form.CustomerID = cid
	}
	submitEntity(ui, w, r, "Delivery destination", "/delivery", "deliveries/form", ui.savers.Deliveries, id, &form,
		map[string]any{"Title": "Delivery destination - shipdesk", "Customers": ui.customerOptions(r)})
}

// --- CSV import ---

// HandleImport returns a handler uploading a CSV of kind and redirecting
// back to listPath. Outcomes are reported as toasts.
func (ui *UI) HandleImport(kind model.ImportKind, listPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		maxBytes := ui.cfg.MaxImportBytes
		if maxBytes <= 0 {
			maxBytes = 10 << 20
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			ui.flash.Push(notify.LevelError, "Import failed", "The upload could not be read.")
			redirectSaved(w, r, listPath)
			return
		}

		f := csvimport.File{}
		file, header, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
			f = csvimport.File{
				Name:        header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Size:        header.Size,
				Body:        file,
			}
		} else if !errors.Is(err, http.ErrMissingFile) {
			ui.logger.Warn("read upload failed", "error", err)
		}

		_, err = ui.importer.Import(r.Context(), kind, f)
		switch fe, isFields := forms.AsFieldErrors(err); {
		case err == nil:
		case errors.Is(err, csvimport.ErrForbidden):
			ui.renderForbidden(w, r)
			return
		case isFields:
			ui.flash.Push(notify.LevelError, "Import failed", firstMessage(fe))
		case model.IsUnauthorized(err):
			ui.renderAPIError(w, r, "Import failed", err)
			return
		default:
			ui.logger.Warn("import failed", "kind", kind, "error", err)
			// API failures were already reported by the importer.
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				ui.flash.Push(notify.LevelError, "Import failed", err.Error())
			}
		}
		redirectSaved(w, r, listPath)
	}
}

// firstMessage picks one message for a toast, preferring the file field.
func firstMessage(fe forms.FieldErrors) string {
	for _, k := range []string{"file", "size"} {
		if m := fe.Get(k); m != "" {
			return m
		}
	}
	for _, m := range fe {
		return m
	}
	return ""
}
