package ui

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/forms"
	"github.com/me/shipdesk/pkg/model"
)

// queryDate parses an optional YYYY-MM-DD parameter; bad input is ignored.
func queryDate(q url.Values, key string) model.Date {
	d, err := model.ParseDate(q.Get(key))
	if err != nil {
		return model.Date{}
	}
	return d
}

// invoiceFilter reads the shipping-input search parameters.
func invoiceFilter(q url.Values) api.InvoiceFilter {
	f := api.InvoiceFilter{
		CustomerName: q.Get("customer_name"),
		ReceptFrom:   queryDate(q, "recept_date_from"),
		ReceptTo:     queryDate(q, "recept_date_to"),
		PickupFrom:   queryDate(q, "pickup_date_from"),
		PickupTo:     queryDate(q, "pickup_date_to"),
		DeliveryFrom: queryDate(q, "delivery_date_from"),
		DeliveryTo:   queryDate(q, "delivery_date_to"),
	}
	for _, s := range q["category"] {
		n, err := strconv.Atoi(s)
		if c := model.InvoiceCategory(n); err == nil && c.Valid() {
			f.Categories = append(f.Categories, c)
		}
	}
	return f
}

// HandleDeliverySchedule renders the delivery schedule report.
func (ui *UI) HandleDeliverySchedule(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := api.ScheduleFilter{
		From: queryDate(q, "from"),
		To:   queryDate(q, "to"),
	}
	if id, err := strconv.ParseInt(q.Get("customer_id"), 10, 64); err == nil && id > 0 {
		filter.CustomerID = id
	}
	if cid, ok := customerScope(r); ok {
		filter.CustomerID = cid
	}
	if n, err := strconv.Atoi(q.Get("status")); err == nil {
		if st := model.DeliveryStatus(n); st.Valid() {
			filter.Status = &st
		}
	}

	page, err := ui.svc.Deliveries.Schedule(r.Context(), filter, ui.parseListOptions(r))
	if err != nil {
		ui.renderAPIError(w, r, "Failed to load the delivery schedule", err)
		return
	}

	ui.render(w, r, http.StatusOK, "reports/schedule", map[string]any{
		"Title":      "Delivery schedule - shipdesk",
		"Filter":     filter,
		"Statuses":   deliveryStatuses(),
		"Entries":    page.Items,
		"Pagination": buildPagination(page),
	})
}

func deliveryStatuses() []model.DeliveryStatus {
	var out []model.DeliveryStatus
	for s := model.DeliveryNotCollected; s.Valid(); s++ {
		out = append(out, s)
	}
	return out
}

// HandleShippingSearch renders the shipping-input search page.
func (ui *UI) HandleShippingSearch(w http.ResponseWriter, r *http.Request) {
	filter := invoiceFilter(r.URL.Query())

	var results []model.Distribution
	searched := len(r.URL.Query()) > 0
	if searched {
		var err error
		results, err = ui.svc.Distributions.SearchInvoices(r.Context(), filter)
		if err != nil {
			ui.renderAPIError(w, r, "Failed to search shipping inputs", err)
			return
		}
	}

	ui.render(w, r, http.StatusOK, "shipping/search", map[string]any{
		"Title":    "Shipping input - shipdesk",
		"Filter":   filter,
		"Results":  results,
		"Searched": searched,
	})
}

// shippingFormData loads the pickers of the shipping-input form. Address
// suggestions are only fetched once a customer is chosen.
func (ui *UI) shippingFormData(r *http.Request, customerID int64) map[string]any {
	ctx := r.Context()
	data := map[string]any{
		"Title":      "Shipping input - shipdesk",
		"Customers":  ui.customerOptions(r),
		"Categories": []model.InvoiceCategory{model.CategoryPickup, model.CategoryDelivery},
	}
	if sizes, err := ui.svc.Distributions.Sizes(ctx); err == nil {
		data["Sizes"] = sizes
	} else {
		ui.logger.Warn("load sizes failed", "error", err)
	}
	if weights, err := ui.svc.Distributions.Weights(ctx); err == nil {
		data["Weights"] = weights
	} else {
		ui.logger.Warn("load weights failed", "error", err)
	}
	if customerID > 0 {
		f := api.LocationFilter{CustomerID: customerID}
		if pl, err := ui.svc.Distributions.PickupLocations(ctx, f); err == nil {
			data["PickupLocations"] = pl
		}
		if da, err := ui.svc.Distributions.DeliveryAddresses(ctx, f); err == nil {
			data["DeliveryAddresses"] = da
		}
	}
	return data
}

// HandleShippingForm renders a new shipping input, an edit form for {id},
// or a new one prefilled from ?copy={id}.
func (ui *UI) HandleShippingForm(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		ui.renderNotFound(w, r, "Shipping input not found")
		return
	}

	form := forms.ShippingInputForm{
		Category: model.CategoryPickup,
		Items:    []forms.ShippingItem{{ItemNumber: 1}},
	}
	source := id
	copyFrom, err := formID(r.URL.Query().Get("copy"))
	if id == 0 && err == nil && copyFrom != 0 {
		source = copyFrom
	}
	if source != 0 {
		d, err := ui.svc.Distributions.Get(r.Context(), source)
		if err != nil {
			ui.renderAPIError(w, r, "Shipping input not found", err)
			return
		}
		if source != id {
			c := d.CopyForNew()
			d = &c
		}
		form = forms.ShippingInputFormFrom(d)
	}
	if cid, ok := customerScope(r); ok {
		form.CustomerID = cid
	}

	data := ui.shippingFormData(r, form.CustomerID)
	data["Form"] = &form
	data["ID"] = id
	ui.render(w, r, http.StatusOK, "shipping/form", data)
}

// HandleShippingSave creates or updates a shipping input.
func (ui *UI) HandleShippingSave(w http.ResponseWriter, r *http.Request) {
	id, err := entityID(r)
	if err != nil {
		ui.renderNotFound(w, r, "Shipping input not found")
		return
	}
	var form forms.ShippingInputForm
	if err := decodeForm(r, &form); err != nil {
		ui.renderError(w, r, "Invalid request", err)
		return
	}
	form.Items = decodeItems(r)
	if cid, ok := customerScope(r); ok {
		form.CustomerID = cid
	}
	submitEntity(ui, w, r, "Shipping input", "/shipping-input", "shipping/form", ui.savers.Distributions, id, &form,
		ui.shippingFormData(r, form.CustomerID))
}

// HandlePickupRequests renders the pickup request list.
func (ui *UI) HandlePickupRequests(w http.ResponseWriter, r *http.Request) {
	filter := invoiceFilter(r.URL.Query())
	filter.Categories = []model.InvoiceCategory{model.CategoryPickup}

	page, err := ui.svc.Distributions.Requests(r.Context(), filter, ui.parseListOptions(r))
	if err != nil {
		ui.renderAPIError(w, r, "Failed to load pickup requests", err)
		return
	}

	ui.render(w, r, http.StatusOK, "shipping/requests", map[string]any{
		"Title":      "Pickup requests - shipdesk",
		"Filter":     filter,
		"Requests":   page.Items,
		"Pagination": buildPagination(page),
	})
}
