// Package authorization models the role and capability checks enforced at the
// API boundary. Roles are an explicit enum with a fixed capability set, not
// scattered string comparisons.
package authorization

type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}

func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseUserRole falls back to the least-privileged role on unknown input.
func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleUser
}

// Capability names an operation class gated by role.
type Capability string

const (
	CapManageCatalog       Capability = "catalog:manage"
	CapManagePackages      Capability = "packages:manage"
	CapManageCoupons       Capability = "coupons:manage"
	CapManageUsers         Capability = "users:manage"
	CapViewAdminAnalytics  Capability = "analytics:admin"
	CapSendAnnouncements   Capability = "announcements:send"
)

var roleCapabilities = map[UserRole]map[Capability]bool{
	RoleAdmin: {
		CapManageCatalog:      true,
		CapManagePackages:     true,
		CapManageCoupons:      true,
		CapManageUsers:        true,
		CapViewAdminAnalytics: true,
		CapSendAnnouncements:  true,
	},
	RoleUser: {},
}

// Can reports whether role holds the capability.
func (r UserRole) Can(cap Capability) bool {
	caps, ok := roleCapabilities[r]
	if !ok {
		return false
	}
	return caps[cap]
}

// CanAccessResourceByOwnerID implements the uniform ownership rule: admins see
// everything, users only their own resources.
func CanAccessResourceByOwnerID(userID uint, userRole UserRole, resourceOwnerID uint) bool {
	if userRole.IsAdmin() {
		return true
	}
	return userID == resourceOwnerID
}
