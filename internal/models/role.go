package models

import (
	"database/sql/driver"
	"fmt"
)

type Role uint8

const (
	RoleUnknown Role = iota
	RoleCustomer
	RoleStaff
	RoleAdmin
)

// Capability is a single permission a role may hold.
type Capability uint8

const (
	CapSell Capability = iota + 1
	CapShop
)

var roleNames = map[Role]string{
	RoleCustomer: "Customer",
	RoleStaff:    "Staff",
	RoleAdmin:    "Admin",
}

var roleCaps = map[Role][]Capability{
	RoleCustomer: {CapShop},
	RoleStaff:    {CapSell},
	RoleAdmin:    {CapSell, CapShop},
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "Unknown"
}

func (r Role) Allows(c Capability) bool {
	for _, have := range roleCaps[r] {
		if have == c {
			return true
		}
	}
	return false
}

func ParseRole(s string) (Role, error) {
	for r, n := range roleNames {
		if n == s {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("unknown role %q", s)
}

func (r Role) Value() (driver.Value, error) {
	if _, ok := roleNames[r]; !ok {
		return nil, fmt.Errorf("unknown role %d", r)
	}
	return r.String(), nil
}

func (r *Role) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("scan role: unsupported type %T", src)
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func (r Role) MarshalText() ([]byte, error) {
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
