package forms

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/me/shipdesk/internal/nav"
	"github.com/me/shipdesk/internal/notify"
	"github.com/me/shipdesk/pkg/model"
)

func validCustomer() CustomerForm {
	return CustomerForm{
		Code:           "C0001",
		Name:           "Acme Logistics",
		DepartmentName: "Shipping",
		ContactName:    "Ichiro Suzuki",
		PostCode:       "100-0001",
		Prefecture:     "Tokyo",
		Address1:       "1-1 Chiyoda",
		PhoneNumber:    "03-1234-5678",
	}
}

func TestValidate_TrimsAndRequires(t *testing.T) {
	f := LoginForm{Username: "  A00001 ", Password: "   "}
	fe := Validate(&f)
	if f.Username != "A00001" {
		t.Errorf("username not trimmed: %q", f.Username)
	}
	if got := fe.Get("password"); got != "Password is required" {
		t.Errorf("password error = %q", got)
	}
	if _, ok := fe["username"]; ok {
		t.Error("username should be valid")
	}
}

func TestCustomerForm(t *testing.T) {
	f := validCustomer()
	if fe := Validate(&f); fe != nil {
		t.Fatalf("valid form rejected: %v", fe)
	}

	f.Email = "not-an-email"
	f.PhoneNumber = "abc"
	f.Address2 = ""
	fe := Validate(&f)
	if fe.Get("customer_email") != "Invalid email address" {
		t.Errorf("email = %q", fe.Get("customer_email"))
	}
	if fe.Get("customer_phone_number") != "Invalid phone number format" {
		t.Errorf("phone = %q", fe.Get("customer_phone_number"))
	}
	if _, ok := fe["customer_address_2"]; ok {
		t.Error("address 2 is optional")
	}
}

func TestDeliveryForm(t *testing.T) {
	f := DeliveryForm{
		CustomerID:  0,
		AddressName: "",
		Address1:    "2-2 Minato",
		Address2:    strings.Repeat("x", 256),
		Prefecture:  "Tokyo",
		PostCode:    "105-0001",
		PhoneNumber: "090-1111-22223333333333",
	}
	fe := Validate(&f)
	want := map[string]string{
		"customer_id":           "Customer ID is required",
		"delivery_address_name": "Delivery address is required",
		"delivery_address_2":    "Must be at most 255 chars",
		"delivery_phone_number": "Invalid phone number format",
	}
	for field, msg := range want {
		if fe.Get(field) != msg {
			t.Errorf("%s = %q, want %q", field, fe.Get(field), msg)
		}
	}
	if len(fe) != len(want) {
		t.Errorf("errors = %v", fe)
	}
}

func TestPickupForm(t *testing.T) {
	f := PickupForm{CustomerID: 3, AddressName: "Warehouse A", Address: "Osaka", PhoneNumber: "+81-6-1234-5678"}
	if fe := Validate(&f); fe != nil {
		t.Fatalf("valid pickup rejected: %v", fe)
	}
	f.CustomerID = 0
	fe := Validate(&f)
	if fe.Get("customer_id") != "Customer ID is required" {
		t.Errorf("customer_id = %q", fe.Get("customer_id"))
	}
}

func TestUserForm(t *testing.T) {
	tests := []struct {
		name  string
		form  UserForm
		field string
		want  string
	}{
		{"short username", UserForm{Username: "A001", UserName: "x", Role: model.RoleAdmin, Password: "pass"}, "username", "Must be exactly 6 chars"},
		{"missing name", UserForm{Username: "A00001", Role: model.RoleAdmin, Password: "pass"}, "user_name", "Name is required"},
		{"bad role", UserForm{Username: "A00001", UserName: "x", Role: "root", Password: "pass"}, "role", "Invalid role"},
		{"customer without id", UserForm{Username: "A00001", UserName: "x", Role: model.RoleCustomer, Password: "pass"}, "customer_id", "Customer ID is required when role is customer"},
		{"create without password", UserForm{Username: "A00001", UserName: "x", Role: model.RoleAdmin}, "password", "Password must be at least 4 chars"},
		{"short password", UserForm{ID: 4, Username: "A00001", UserName: "x", Role: model.RoleAdmin, Password: "abc"}, "password", "Password must be at least 4 chars"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := Validate(&tt.form)
			if fe.Get(tt.field) != tt.want {
				t.Errorf("%s = %q, want %q (all: %v)", tt.field, fe.Get(tt.field), tt.want, fe)
			}
		})
	}

	// update may leave the password blank
	f := UserForm{ID: 4, Username: "A00001", UserName: "x", Role: model.RoleAdmin}
	if fe := Validate(&f); fe != nil {
		t.Errorf("update without password rejected: %v", fe)
	}
}

func TestUserForm_InputFromToggles(t *testing.T) {
	m := nav.Default()
	cid := int64(9)
	f := UserForm{Username: "A00001", UserName: "x", Role: model.RoleAdmin, CustomerID: &cid,
		Groups: map[string]bool{"collection": true, "reports": true}}
	in := f.Input(m)
	want := model.NewPermissionSet(model.PermCollectionScan, model.PermDeliveriesSchedule)
	if !in.Permissions.Equal(want) {
		t.Errorf("permissions = %v", in.Permissions.List())
	}
	if in.CustomerID != nil {
		t.Error("customer id sent for admin")
	}

	u := &model.User{ID: 4, Username: "A00001", Permissions: want}
	back := UserFormFrom(u, m)
	if !back.Groups["collection"] || !back.Groups["reports"] || back.Groups["master"] {
		t.Errorf("groups = %v", back.Groups)
	}
}

func TestCSVUpload(t *testing.T) {
	tests := []struct {
		name  string
		form  CSVUpload
		field string
		want  string
	}{
		{"ok by type", CSVUpload{Filename: "data.txt", ContentType: "text/csv", Size: 10}, "", ""},
		{"ok by ext", CSVUpload{Filename: "DATA.CSV", ContentType: "application/octet-stream", Size: 10}, "", ""},
		{"not csv", CSVUpload{Filename: "data.xlsx", ContentType: "application/vnd.ms-excel", Size: 10}, "file", "File must be a CSV"},
		{"empty", CSVUpload{Filename: "a.csv", Size: 0}, "size", "File is empty"},
		{"too big", CSVUpload{Filename: "a.csv", Size: 11, MaxSize: 10}, "size", "File is too large"},
		{"missing", CSVUpload{Size: 1}, "file", "Please select a file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe := Validate(&tt.form)
			if tt.field == "" {
				if fe != nil {
					t.Errorf("unexpected errors %v", fe)
				}
				return
			}
			if fe.Get(tt.field) != tt.want {
				t.Errorf("%s = %q, want %q", tt.field, fe.Get(tt.field), tt.want)
			}
		})
	}
}

func TestShippingInputForm_Nested(t *testing.T) {
	f := ShippingInputForm{
		CustomerID: 1,
		Category:   model.CategoryDelivery,
		ReceptDate: "2026-04-01",
		Pickup:     ShippingAddress{AddressName: "A", Address: "B", PhoneNumber: "03-1111-2222"},
		Delivery:   ShippingAddress{AddressName: "", Address: "D", PhoneNumber: "03-1111-2222"},
		Items:      []ShippingItem{{SizeID: 1, WeightID: 0, ItemNumber: 2}},
	}
	fe := Validate(&f)
	if fe.Get("delivery.address_name") != "Address name is required" {
		t.Errorf("nested = %q (all %v)", fe.Get("delivery.address_name"), fe)
	}
	if fe.Get("items[0].weight_id") != "Weight is required" {
		t.Errorf("item = %q (all %v)", fe.Get("items[0].weight_id"), fe)
	}

	f.Delivery.AddressName = "C"
	f.Items[0].WeightID = 2
	if fe := Validate(&f); fe != nil {
		t.Fatalf("valid form rejected: %v", fe)
	}
	d := f.Distribution()
	if d.ReceptDate.String() != "2026-04-01" || d.TotalItems() != 2 || d.Delivery.AddressName != "C" {
		t.Errorf("distribution = %+v", d)
	}

	f.Items = nil
	if Validate(&f).Get("items") != "Add at least one parcel" {
		t.Error("empty items accepted")
	}
}

type fakeSaver struct {
	created, updated int
	lastID           int64
	err              error
}

func (s *fakeSaver) Create(_ context.Context, f *PickupForm) (*model.Pickup, error) {
	s.created++
	if s.err != nil {
		return nil, s.err
	}
	return f.Pickup(), nil
}

func (s *fakeSaver) Update(_ context.Context, id int64, f *PickupForm) (*model.Pickup, error) {
	s.updated++
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	p := f.Pickup()
	p.ID = id
	return p, nil
}

func TestSubmit_CreateOrUpdate(t *testing.T) {
	ctx := context.Background()
	s := &fakeSaver{}
	f := PickupForm{CustomerID: 1, AddressName: "A", Address: "B", PhoneNumber: "0312345678"}

	if _, err := Submit[PickupForm, model.Pickup](ctx, s, 0, &f); err != nil {
		t.Fatal(err)
	}
	p, err := Submit[PickupForm, model.Pickup](ctx, s, 7, &f)
	if err != nil {
		t.Fatal(err)
	}
	if s.created != 1 || s.updated != 1 || s.lastID != 7 || p.ID != 7 {
		t.Errorf("saver = %+v", s)
	}
}

func TestSubmit_ValidationBlocksNetwork(t *testing.T) {
	s := &fakeSaver{}
	f := PickupForm{}
	_, err := Submit[PickupForm, model.Pickup](context.Background(), s, 0, &f)
	fe, ok := AsFieldErrors(err)
	if !ok || len(fe) == 0 {
		t.Fatalf("err = %v, want FieldErrors", err)
	}
	if s.created+s.updated != 0 {
		t.Error("saver called despite validation errors")
	}
}

func TestSubmitNotify(t *testing.T) {
	ctx := context.Background()
	f := PickupForm{CustomerID: 1, AddressName: "A", Address: "B", PhoneNumber: "0312345678"}

	var rec notify.Recorder
	if _, err := SubmitNotify[PickupForm, model.Pickup](ctx, &rec, "Pickup location", &fakeSaver{}, 3, &f); err != nil {
		t.Fatal(err)
	}
	if last, _ := rec.Last(); last.Level != notify.LevelSuccess || last.Title != "Pickup location updated" {
		t.Errorf("last = %+v", last)
	}

	var failed notify.Recorder
	failing := &fakeSaver{err: &model.APIError{Status: 422, Message: "Duplicate address"}}
	_, err := SubmitNotify[PickupForm, model.Pickup](ctx, &failed, "Pickup location", failing, 0, &f)
	if err == nil {
		t.Fatal("expected error")
	}
	last, _ := failed.Last()
	if last.Level != notify.LevelError || last.Description != "Duplicate address" {
		t.Errorf("last = %+v", last)
	}
}

func TestServerFieldErrors(t *testing.T) {
	err := &model.APIError{Status: 422, Errors: map[string][]string{"username": {"taken", "other"}}}
	fe, ok := ServerFieldErrors(err)
	if !ok || fe.Get("username") != "taken" {
		t.Errorf("fe = %v", fe)
	}
	if _, ok := ServerFieldErrors(errors.New("x")); ok {
		t.Error("plain error converted")
	}
}
