package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of roles a user can hold.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleClient       Role = "client"
	RoleArchitect    Role = "architect"
	RoleSiteEngineer Role = "site_engineer"
	RoleSupervisor   Role = "supervisor"
	RoleVendor       Role = "vendor"
	RoleSupplier     Role = "supplier"
)

// RoleCategory groups roles that share access rules.
type RoleCategory string

const (
	CategoryAdmin        RoleCategory = "admin"
	CategoryClient       RoleCategory = "client"
	CategoryProfessional RoleCategory = "professional"
	CategorySiteStaff    RoleCategory = "site_staff"
	CategoryVendor       RoleCategory = "vendor"
)

var roleCategories = map[Role]RoleCategory{
	RoleAdmin:        CategoryAdmin,
	RoleClient:       CategoryClient,
	RoleArchitect:    CategoryProfessional,
	RoleSiteEngineer: CategorySiteStaff,
	RoleSupervisor:   CategorySiteStaff,
	RoleVendor:       CategoryVendor,
	RoleSupplier:     CategoryVendor,
}

// ParseRole converts a raw role string into a Role, rejecting anything outside the closed set.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := roleCategories[r]; !ok {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}

// Category returns the role's access category. Unknown roles fall into no category.
func (r Role) Category() RoleCategory {
	return roleCategories[r]
}

// User is the acting identity for a request. Its lifecycle is owned by the
// external identity subsystem; the core only reads it.
type User struct {
	UserID     string `json:"userID"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	SuperAdmin bool   `json:"superAdmin"`
}

// IsAdmin reports whether the user bypasses all resource checks.
func (u User) IsAdmin() bool {
	return u.SuperAdmin || u.Role == RoleAdmin
}

// IsVendor reports whether the user belongs to the vendor family.
func (u User) IsVendor() bool {
	return u.Role.Category() == CategoryVendor
}
