package domain

import (
	"database/sql/driver"
	"fmt"
)

// Role is the closed set of account kinds. The zero value is not a valid role.
type Role uint8

const (
	RoleStudent Role = iota + 1
	RoleOwner
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleStudent: "student",
	RoleOwner:   "owner",
	RoleAdmin:   "admin",
}

func ParseRole(s string) (Role, error) {
	for r, name := range roleNames {
		if name == s {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", uint8(r))
}

func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// CanBook reports whether accounts of this role may submit booking requests.
func (r Role) CanBook() bool { return r == RoleStudent }

// CanListProperties reports whether accounts of this role may create and manage listings.
func (r Role) CanListProperties() bool { return r == RoleOwner || r == RoleAdmin }

func (r Role) IsAdmin() bool { return r == RoleAdmin }

func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(b []byte) error {
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Value stores the role by name.
func (r Role) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", uint8(r))
	}
	return r.String(), nil
}

func (r *Role) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return r.UnmarshalText([]byte(v))
	case []byte:
		return r.UnmarshalText(v)
	default:
		return fmt.Errorf("cannot scan %T into Role", src)
	}
}

// Caller is the identity on whose behalf a service operation runs.
// The zero value is an anonymous guest.
type Caller struct {
	UserID      int32
	Username    string
	Role        Role
	IsSuperuser bool
}

func (c Caller) IsAuthenticated() bool { return c.UserID != 0 }

// CanBook is true for students and superusers.
func (c Caller) CanBook() bool {
	return c.IsAuthenticated() && (c.Role.CanBook() || c.IsSuperuser)
}

func (c Caller) CanListProperties() bool {
	return c.IsAuthenticated() && (c.Role.CanListProperties() || c.IsSuperuser)
}
