package forms

import (
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/me/shipdesk/internal/api"
	"github.com/me/shipdesk/internal/nav"
	"github.com/me/shipdesk/pkg/model"
)

// LoginForm is the sign-in form.
type LoginForm struct {
	Username string `json:"username" validate:"required" msg:"Username is required"`
	Password string `json:"password" validate:"required" msg:"Password is required"`
}

// Credentials converts the form to the login request body.
func (f *LoginForm) Credentials() api.Credentials {
	return api.Credentials{Username: f.Username, Password: f.Password}
}

// CustomerForm creates or edits a customer.
type CustomerForm struct {
	Code           string `json:"customer_code" validate:"required" msg:"Customer code is required"`
	Name           string `json:"customer_name" validate:"required" msg:"Customer name is required"`
	DepartmentName string `json:"customer_department_name" validate:"required" msg:"Department name is required"`
	ContactName    string `json:"customer_contact_name" validate:"required" msg:"Contact name is required"`
	PostCode       string `json:"customer_post_code" validate:"required" msg:"Post code is required"`
	Prefecture     string `json:"customer_prefecures" validate:"required" msg:"Prefecture is required"`
	Address1       string `json:"customer_address_1" validate:"required" msg:"Address is required"`
	Address2       string `json:"customer_address_2"`
	PhoneNumber    string `json:"customer_phone_number" validate:"required,phone" msg:"required:Phone number is required;phone:Invalid phone number format"`
	Email          string `json:"customer_email" validate:"omitempty,email" msg:"Invalid email address"`
}

// Customer converts the form to the API payload.
func (f *CustomerForm) Customer() *model.Customer {
	return &model.Customer{
		Code:           f.Code,
		Name:           f.Name,
		DepartmentName: f.DepartmentName,
		ContactName:    f.ContactName,
		PostCode:       f.PostCode,
		Prefecture:     f.Prefecture,
		Address1:       f.Address1,
		Address2:       f.Address2,
		PhoneNumber:    f.PhoneNumber,
		Email:          f.Email,
	}
}

// CustomerFormFrom fills the edit form from an existing customer.
func CustomerFormFrom(c *model.Customer) CustomerForm {
	return CustomerForm{
		Code:           c.Code,
		Name:           c.Name,
		DepartmentName: c.DepartmentName,
		ContactName:    c.ContactName,
		PostCode:       c.PostCode,
		Prefecture:     c.Prefecture,
		Address1:       c.Address1,
		Address2:       c.Address2,
		PhoneNumber:    c.PhoneNumber,
		Email:          c.Email,
	}
}

// DeliveryForm creates or edits a delivery destination.
type DeliveryForm struct {
	CustomerID  int64  `json:"customer_id" validate:"gt=0" msg:"Customer ID is required"`
	AddressName string `json:"delivery_address_name" validate:"required,max=255" msg:"required:Delivery address is required"`
	Address1    string `json:"delivery_address_1" validate:"required" msg:"Address is required"`
	Address2    string `json:"delivery_address_2" validate:"max=255"`
	Prefecture  string `json:"delivery_prefectures" validate:"required,max=50" msg:"required:Prefecture is required"`
	PostCode    string `json:"delivery_post_code" validate:"required,max=20" msg:"required:Post code is required"`
	PhoneNumber string `json:"delivery_phone_number" validate:"required,max=20,phone" msg:"required:Phone number is required;max:Invalid phone number format;phone:Invalid phone number format"`
}

// Delivery converts the form to the API payload.
func (f *DeliveryForm) Delivery() *model.Delivery {
	return &model.Delivery{
		CustomerID:  f.CustomerID,
		AddressName: f.AddressName,
		Address1:    f.Address1,
		Address2:    f.Address2,
		Prefecture:  f.Prefecture,
		PostCode:    f.PostCode,
		PhoneNumber: f.PhoneNumber,
	}
}

// DeliveryFormFrom fills the edit form from an existing destination.
func DeliveryFormFrom(d *model.Delivery) DeliveryForm {
	return DeliveryForm{
		CustomerID:  d.CustomerID,
		AddressName: d.AddressName,
		Address1:    d.Address1,
		Address2:    d.Address2,
		Prefecture:  d.Prefecture,
		PostCode:    d.PostCode,
		PhoneNumber: d.PhoneNumber,
	}
}

// PickupForm creates or edits a pickup location.
type PickupForm struct {
	CustomerID  int64  `json:"customer_id" validate:"gte=1" msg:"Customer ID is required"`
	AddressName string `json:"pickup_address_name" validate:"required" msg:"Address name is required"`
	Address     string `json:"pickup_address" validate:"required" msg:"Address is required"`
	PhoneNumber string `json:"pickup_phone_number" validate:"required,phone" msg:"required:Phone number is required;phone:Invalid phone number format"`
}

// Pickup converts the form to the API payload.
func (f *PickupForm) Pickup() *model.Pickup {
	return &model.Pickup{
		CustomerID:  f.CustomerID,
		AddressName: f.AddressName,
		Address:     f.Address,
		PhoneNumber: f.PhoneNumber,
	}
}

// PickupFormFrom fills the edit form from an existing location.
func PickupFormFrom(p *model.Pickup) PickupForm {
	return PickupForm{
		CustomerID:  p.CustomerID,
		AddressName: p.AddressName,
		Address:     p.Address,
		PhoneNumber: p.PhoneNumber,
	}
}

// UserForm creates (ID == 0) or edits a user. Groups holds the menu group
// toggles; permissions are derived from them.
type UserForm struct {
	ID         int64           `json:"-"`
	Username   string          `json:"username" validate:"len=6" msg:"Must be exactly 6 chars"`
	UserName   string          `json:"user_name" validate:"required" msg:"Name is required"`
	Email      string          `json:"email" validate:"omitempty,email" msg:"Invalid email address"`
	Role       model.Role      `json:"role" validate:"oneof=super_admin admin customer" msg:"Invalid role"`
	CustomerID *int64          `json:"customer_id" validate:"omitempty,gt=0" msg:"gt:Customer ID is required when role is customer"`
	Password   string          `json:"password" validate:"omitempty,min=4" msg:"Password must be at least 4 chars"`
	Groups     map[string]bool `json:"groups"`
}

func userRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(UserForm)
	if f.Role == model.RoleCustomer && f.CustomerID == nil {
		sl.ReportError(f.CustomerID, "customer_id", "CustomerID", "customer_required", "")
	}
	if f.ID == 0 && f.Password == "" {
		sl.ReportError(f.Password, "password", "Password", "password_required", "")
	}
}

// Input converts the form to the API payload, deriving permissions from
// the group toggles of manifest. The customer id is only sent for
// customer-role users.
func (f *UserForm) Input(manifest *model.NavigationManifest) *api.UserInput {
	in := &api.UserInput{
		Username:    f.Username,
		UserName:    f.UserName,
		Email:       f.Email,
		Role:        f.Role,
		CustomerID:  f.CustomerID,
		Password:    f.Password,
		Permissions: nav.PermissionsFromToggles(manifest, f.Groups),
	}
	if f.Role != model.RoleCustomer {
		in.CustomerID = nil
	}
	return in
}

// CSVUpload describes a file chosen for import.
type CSVUpload struct {
	Filename    string `json:"file" validate:"required" msg:"required:Please select a file"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size" validate:"gt=0" msg:"gt:File is empty"`
	MaxSize     int64  `json:"-"`
}

func csvRules(sl validator.StructLevel) {
	f := sl.Current().Interface().(CSVUpload)
	if f.Filename != "" && !IsCSV(f.Filename, f.ContentType) {
		sl.ReportError(f.Filename, "file", "Filename", "csv", "")
	}
	if f.MaxSize > 0 && f.Size > f.MaxSize {
		sl.ReportError(f.Size, "size", "Size", "too_large", "")
	}
}

// IsCSV accepts a text/csv content type or a .csv extension.
func IsCSV(filename, contentType string) bool {
	ct, _, _ := strings.Cut(contentType, ";")
	if strings.EqualFold(strings.TrimSpace(ct), "text/csv") {
		return true
	}
	return strings.EqualFold(filepath.Ext(filename), ".csv")
}

// LocationFilter is the search form for pickup locations and delivery
// addresses.
type LocationFilter struct {
	CustomerID  int64  `json:"customer_id" validate:"gte=0"`
	AddressName string `json:"address_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone" msg:"Invalid phone number format"`
}

// PickupLocationFilter searches pickup locations.
type PickupLocationFilter = LocationFilter

// DeliveryAddressFilter searches delivery addresses.
type DeliveryAddressFilter = LocationFilter

// API converts the filter for the REST client.
func (f *LocationFilter) API() api.LocationFilter {
	return api.LocationFilter{
		CustomerID:  f.CustomerID,
		AddressName: f.AddressName,
		Address:     f.Address,
		PhoneNumber: f.PhoneNumber,
	}
}

// CustomerFilter is the customer search form. A zero customer id means any.
type CustomerFilter struct {
	CustomerID   int64  `json:"customer_id" validate:"gte=0"`
	CustomerName string `json:"customer_name"`
}

// API converts the filter for the REST client.
func (f *CustomerFilter) API() api.CustomerFilter {
	return api.CustomerFilter{CustomerID: f.CustomerID, CustomerName: f.CustomerName}
}

// ShippingAddress is the pickup or delivery half of a shipping input.
type ShippingAddress struct {
	AddressName string `json:"address_name" validate:"required" msg:"Address name is required"`
	Address     string `json:"address" validate:"required" msg:"Address is required"`
	PhoneNumber string `json:"phone_number" validate:"required,phone" msg:"required:Phone number is required;phone:Invalid phone number format"`
}

// ShippingItem is one parcel line of a shipping input.
type ShippingItem struct {
	SizeID     int64  `json:"size_id" validate:"gt=0" msg:"Size is required"`
	WeightID   int64  `json:"weight_id" validate:"gt=0" msg:"Weight is required"`
	ItemNumber int    `json:"item_number" validate:"gte=1" msg:"At least one item is required"`
	Amount     string `json:"amount" validate:"omitempty,numeric" msg:"Amount must be a number"`
}

// ShippingInputForm registers a pickup or delivery order.
type ShippingInputForm struct {
	CustomerID   int64                 `json:"customer_id" validate:"gt=0" msg:"Customer is required"`
	Category     model.InvoiceCategory `json:"category" validate:"oneof=1 2" msg:"Category is required"`
	ReceptDate   string                `json:"recept_date" validate:"required,datetime=2006-01-02" msg:"required:Reception date is required"`
	PickupDate   string                `json:"pickup_date" validate:"omitempty,datetime=2006-01-02"`
	DeliveryDate string                `json:"delivery_date" validate:"omitempty,datetime=2006-01-02"`
	Pickup       ShippingAddress       `json:"pickup"`
	Delivery     ShippingAddress       `json:"delivery"`
	Items        []ShippingItem        `json:"items" validate:"min=1,dive" msg:"min:Add at least one parcel"`
	Note         string                `json:"note" validate:"max=1000"`
}

// Distribution converts a validated form to the API payload.
func (f *ShippingInputForm) Distribution() *model.Distribution {
	d := &model.Distribution{
		CustomerID: f.CustomerID,
		Category:   f.Category,
		Pickup:     model.AddressBlock(f.Pickup),
		Delivery:   model.AddressBlock(f.Delivery),
		Note:       f.Note,
	}
	d.ReceptDate, _ = model.ParseDate(f.ReceptDate)
	d.PickupDate, _ = model.ParseDate(f.PickupDate)
	d.DeliveryDate, _ = model.ParseDate(f.DeliveryDate)
	for _, it := range f.Items {
		d.Items = append(d.Items, model.DistributionItem{
			SizeID:     it.SizeID,
			WeightID:   it.WeightID,
			ItemNumber: it.ItemNumber,
			Amount:     it.Amount,
		})
	}
	return d
}

// ShippingInputFormFrom fills the form from an existing distribution, for
// editing or as a template for a new one.
func ShippingInputFormFrom(d *model.Distribution) ShippingInputForm {
	f := ShippingInputForm{
		CustomerID:   d.CustomerID,
		Category:     d.Category,
		ReceptDate:   d.ReceptDate.String(),
		PickupDate:   d.PickupDate.String(),
		DeliveryDate: d.DeliveryDate.String(),
		Pickup:       ShippingAddress(d.Pickup),
		Delivery:     ShippingAddress(d.Delivery),
		Note:         d.Note,
	}
	for _, it := range d.Items {
		f.Items = append(f.Items, ShippingItem{
			SizeID:     it.SizeID,
			WeightID:   it.WeightID,
			ItemNumber: it.ItemNumber,
			Amount:     it.Amount,
		})
	}
	return f
}

// UserFormFrom fills the edit form from an existing user.
func UserFormFrom(u *model.User, manifest *model.NavigationManifest) UserForm {
	f := UserForm{
		ID:       u.ID,
		Username: u.Username,
		UserName: u.UserName,
		Email:    u.Email,
		Role:     u.Role,
		Groups:   nav.Toggles(manifest, u.Permissions),
	}
	if u.CustomerID != nil {
		id := *u.CustomerID
		f.CustomerID = &id
	}
	return f
}
