package model

import (
	"encoding/json"
	"testing"
)

func TestParsePermission(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
	}{
		{"users.create", false},
		{"depot_loading.scan", false},
		{"users", true},
		{"Users.create", true},
		{"users.create.extra", true},
		{".create", true},
		{"", true},
		{"user_master_maintenance", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, err := ParsePermission(tt.in)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePermission(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
		})
	}
}

func TestKnownPermissionsAreValid(t *testing.T) {
	for _, p := range KnownPermissions() {
		if !p.Valid() {
			t.Errorf("known permission %q is malformed", p)
		}
		if !p.Known() {
			t.Errorf("%q not reported as known", p)
		}
	}
	if Permission("reports.export").Known() {
		t.Error("reports.export should not be known")
	}
}

func TestPermissionSet_DedupAndOrder(t *testing.T) {
	s := NewPermissionSet(PermUsersView, PermCustomersView, PermUsersView)
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	got := s.List()
	if got[0] != PermCustomersView || got[1] != PermUsersView {
		t.Errorf("List = %v", got)
	}
	var zero PermissionSet
	if zero.Has(PermUsersView) || zero.Len() != 0 {
		t.Error("zero set should be empty")
	}
	zero.Add(PermUsersView)
	if !zero.Has(PermUsersView) {
		t.Error("Add on zero set failed")
	}
}

func TestPermissionSet_JSON(t *testing.T) {
	var s PermissionSet
	if err := json.Unmarshal([]byte(`["users.view","customers.view","users.view","reports.export"]`), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("Len = %d, want 3", s.Len())
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `["customers.view","reports.export","users.view"]` {
		t.Errorf("marshal = %s", data)
	}

	if err := json.Unmarshal([]byte(`["not a permission"]`), &s); err == nil {
		t.Error("expected error for malformed permission")
	}
}

func TestPermissionSet_EqualIgnoresOrder(t *testing.T) {
	a := NewPermissionSet(PermUsersView, PermSortingScan)
	b := NewPermissionSet(PermSortingScan, PermUsersView)
	if !a.Equal(b) {
		t.Error("sets with same members should be equal")
	}
	b.Add(PermLoadingScan)
	if a.Equal(b) {
		t.Error("sets with different members should differ")
	}
}

func TestSession_CloneIsIndependent(t *testing.T) {
	cid := int64(7)
	s := &Session{
		Token: "tok",
		User: User{
			ID:          1,
			Username:    "A00001",
			Role:        RoleCustomer,
			CustomerID:  &cid,
			Permissions: NewPermissionSet(PermShippingInput),
		},
	}
	c := s.Clone()
	if !c.Equal(s) {
		t.Fatal("clone should equal original")
	}
	c.User.Permissions.Add(PermUsersView)
	*c.User.CustomerID = 9
	if s.Can(PermUsersView) {
		t.Error("mutating clone leaked permissions into original")
	}
	if *s.User.CustomerID != 7 {
		t.Error("mutating clone leaked customer id into original")
	}
	var none *Session
	if none.Can(PermUsersView) {
		t.Error("nil session can do nothing")
	}
	if !none.Equal(nil) {
		t.Error("nil sessions are equal")
	}
}

func TestDate_JSON(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2025-03-04"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.String() != "2025-03-04" {
		t.Errorf("String = %q", d.String())
	}
	if err := json.Unmarshal([]byte(`"2025-03-04T09:00:00+09:00"`), &d); err != nil {
		t.Fatalf("unmarshal rfc3339: %v", err)
	}
	if d.String() != "2025-03-04" {
		t.Errorf("String = %q", d.String())
	}
	if err := json.Unmarshal([]byte(`null`), &d); err != nil || !d.IsZero() {
		t.Errorf("null should give zero date, got %v err %v", d, err)
	}
	out, _ := json.Marshal(Date{})
	if string(out) != "null" {
		t.Errorf("zero date marshals as %s", out)
	}
}

func TestDistribution_CopyForNew(t *testing.T) {
	rd, _ := ParseDate("2025-01-02")
	d := Distribution{
		ID:             5,
		DocumentNumber: "D-0005",
		CustomerID:     3,
		Category:       CategoryDelivery,
		ReceptDate:     rd,
		Items: []DistributionItem{
			{ID: 9, ItemNumber: 2, Status: DeliveryLoading, DocumentNumber: "D-0005-1", PrintStatus: WaybillPrinted},
		},
	}
	c := d.CopyForNew()
	if c.ID != 0 || c.DocumentNumber != "" || !c.ReceptDate.IsZero() {
		t.Errorf("identifiers not cleared: %+v", c)
	}
	if c.Items[0].ID != 0 || c.Items[0].Status != DeliveryNotCollected || c.Items[0].PrintStatus != WaybillUnprinted {
		t.Errorf("item not reset: %+v", c.Items[0])
	}
	if d.Items[0].ID != 9 {
		t.Error("original items were modified")
	}
	if c.TotalItems() != 2 {
		t.Errorf("TotalItems = %d", c.TotalItems())
	}
}
