package model

import "fmt"

// Role is the coarse role assigned to a dashboard user.
type Role string

const (
	// RoleSuperAdmin manages every customer and every user.
	RoleSuperAdmin Role = "super_admin"
	// RoleAdmin is an internal operator.
	RoleAdmin Role = "admin"
	// RoleCustomer is bound to a single customer account.
	RoleCustomer Role = "customer"
)

// ParseRole validates s as a Role.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleSuperAdmin, RoleAdmin, RoleCustomer:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is the authenticated identity returned by the API.
type User struct {
	ID          int64         `json:"id"`
	Username    string        `json:"username"`            // user code, e.g. "A00001"
	UserName    string        `json:"user_name,omitempty"` // display name
	Email       string        `json:"email,omitempty"`
	Role        Role          `json:"role"`
	Permissions PermissionSet `json:"permissions"`
	IsVerified  bool          `json:"is_verified"`
	Phone       string        `json:"phone,omitempty"`
	Avatar      string        `json:"avatar,omitempty"`
	CustomerID  *int64        `json:"customer_id,omitempty"`
}

// Can reports whether the user holds p.
func (u *User) Can(p Permission) bool {
	if u == nil {
		return false
	}
	return u.Permissions.Has(p)
}

// IsCustomer reports whether the user is scoped to one customer.
func (u *User) IsCustomer() bool {
	return u != nil && u.Role == RoleCustomer
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	switch {
	case u == nil:
		return "Unknown"
	case u.UserName != "":
		return u.UserName
	case u.Username != "":
		return u.Username
	}
	return "Unknown"
}

// Clone returns a deep copy.
func (u User) Clone() User {
	c := u
	c.Permissions = u.Permissions.Clone()
	if u.CustomerID != nil {
		id := *u.CustomerID
		c.CustomerID = &id
	}
	return c
}

// Equal reports whether u and o describe the same user.
func (u User) Equal(o User) bool {
	sameCustomer := (u.CustomerID == nil && o.CustomerID == nil) ||
		(u.CustomerID != nil && o.CustomerID != nil && *u.CustomerID == *o.CustomerID)
	return u.ID == o.ID &&
		u.Username == o.Username &&
		u.UserName == o.UserName &&
		u.Email == o.Email &&
		u.Role == o.Role &&
		u.IsVerified == o.IsVerified &&
		u.Phone == o.Phone &&
		u.Avatar == o.Avatar &&
		sameCustomer &&
		u.Permissions.Equal(o.Permissions)
}
