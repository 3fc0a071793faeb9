package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
)

// Permission identifies an action or navigation entry a user may access.
// Identifiers have the form "<resource>.<action>", e.g. "users.create".
type Permission string

// Known permissions. Navigation entries and gated actions refer to these
// constants rather than string literals.
const (
	PermUsersView   Permission = "users.view"
	PermUsersCreate Permission = "users.create"
	PermUsersUpdate Permission = "users.update"

	PermCustomersView   Permission = "customers.view"
	PermCustomersCreate Permission = "customers.create"
	PermCustomersUpdate Permission = "customers.update"

	PermPickupsView     Permission = "pickups.view"
	PermPickupsCreate   Permission = "pickups.create"
	PermPickupsUpdate   Permission = "pickups.update"
	PermPickupsImport   Permission = "pickups.import"
	PermPickupsRequests Permission = "pickups.requests"

	PermDeliveriesView     Permission = "deliveries.view"
	PermDeliveriesCreate   Permission = "deliveries.create"
	PermDeliveriesUpdate   Permission = "deliveries.update"
	PermDeliveriesImport   Permission = "deliveries.import"
	PermDeliveriesSchedule Permission = "deliveries.schedule"

	PermShippingInput Permission = "shipping.input"

	PermCollectionScan   Permission = "collection.scan"
	PermSortingScan      Permission = "sorting.scan"
	PermSortingCheck     Permission = "sorting.check"
	PermLoadingScan      Permission = "loading.scan"
	PermArrivalScan      Permission = "arrival.scan"
	PermDepotLoadingScan Permission = "depot_loading.scan"
	PermDeliveryComplete Permission = "delivery.complete"
)

var knownPermissions = map[Permission]struct{}{
	PermUsersView: {}, PermUsersCreate: {}, PermUsersUpdate: {},
	PermCustomersView: {}, PermCustomersCreate: {}, PermCustomersUpdate: {},
	PermPickupsView: {}, PermPickupsCreate: {}, PermPickupsUpdate: {}, PermPickupsImport: {}, PermPickupsRequests: {},
	PermDeliveriesView: {}, PermDeliveriesCreate: {}, PermDeliveriesUpdate: {}, PermDeliveriesImport: {}, PermDeliveriesSchedule: {},
	PermShippingInput: {},
	PermCollectionScan: {}, PermSortingScan: {}, PermSortingCheck: {}, PermLoadingScan: {},
	PermArrivalScan: {}, PermDepotLoadingScan: {}, PermDeliveryComplete: {},
}

var permissionPattern = regexp.MustCompile(`^[a-z][a-z_]*\.[a-z][a-z_]*$`)

// ParsePermission validates s and returns it as a Permission.
func ParsePermission(s string) (Permission, error) {
	if !permissionPattern.MatchString(s) {
		return "", fmt.Errorf("invalid permission %q: want <resource>.<action>", s)
	}
	return Permission(s), nil
}

// Valid reports whether p is well formed.
func (p Permission) Valid() bool {
	return permissionPattern.MatchString(string(p))
}

// Known reports whether p is one of the permissions this build understands.
func (p Permission) Known() bool {
	_, ok := knownPermissions[p]
	return ok
}

// KnownPermissions returns every known permission, sorted.
func KnownPermissions() []Permission {
	out := make([]Permission, 0, len(knownPermissions))
	for p := range knownPermissions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PermissionSet is an unordered set of permissions.
// The zero value is an empty set ready to use for reads; use NewPermissionSet
// or Add to populate it.
type PermissionSet struct {
	m map[Permission]struct{}
}

// NewPermissionSet builds a set from perms, dropping duplicates.
func NewPermissionSet(perms ...Permission) PermissionSet {
	s := PermissionSet{m: make(map[Permission]struct{}, len(perms))}
	for _, p := range perms {
		s.m[p] = struct{}{}
	}
	return s
}

// Has reports whether p is in the set.
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s.m[p]
	return ok
}

// Add inserts p.
func (s *PermissionSet) Add(p Permission) {
	if s.m == nil {
		s.m = make(map[Permission]struct{})
	}
	s.m[p] = struct{}{}
}

// Len returns the number of permissions.
func (s PermissionSet) Len() int {
	return len(s.m)
}

// List returns the permissions sorted.
func (s PermissionSet) List() []Permission {
	out := make([]Permission, 0, len(s.m))
	for p := range s.m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Equal reports whether both sets hold the same permissions.
func (s PermissionSet) Equal(o PermissionSet) bool {
	if len(s.m) != len(o.m) {
		return false
	}
	for p := range s.m {
		if !o.Has(p) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s PermissionSet) Clone() PermissionSet {
	return NewPermissionSet(s.List()...)
}

// MarshalJSON encodes the set as a sorted array.
func (s PermissionSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// UnmarshalJSON decodes an array of identifiers. Malformed identifiers are
// rejected; well-formed ones this build does not know are kept so newer API
// permissions survive a round trip.
func (s *PermissionSet) UnmarshalJSON(data []byte) error {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("permissions: %w", err)
	}
	set := NewPermissionSet()
	for _, r := range raw {
		p, err := ParsePermission(r)
		if err != nil {
			return err
		}
		set.Add(p)
	}
	*s = set
	return nil
}
