package user

// Roles supported by the marketplace.
const (
	RoleBuyer  = "buyer"
	RoleFarmer = "farmer"
	RoleAdmin  = "admin"
)

// Capability names what a role is allowed to do. Authorization checks go
// through Can instead of comparing role strings at call sites.
type Capability string

const (
	CapPlaceOrders    Capability = "place_orders"
	CapManageProducts Capability = "manage_products"
	CapManageOrders   Capability = "manage_orders"
	CapViewAllOrders  Capability = "view_all_orders"
	CapManageUsers    Capability = "manage_users"
)

var roleCapabilities = map[string][]Capability{
	RoleBuyer:  {CapPlaceOrders},
	RoleFarmer: {CapManageProducts, CapManageOrders},
	RoleAdmin:  {CapManageProducts, CapManageOrders, CapViewAllOrders, CapManageUsers},
}

// Capabilities returns the capability set for a role. Unknown roles get
// no capabilities.
func Capabilities(role string) []Capability {
	caps := roleCapabilities[role]
	out := make([]Capability, len(caps))
	copy(out, caps)
	return out
}

func Can(role string, cap Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}

// ValidRole reports whether a role may be chosen at registration time.
// Admin accounts are provisioned out of band.
func ValidRole(role string) bool {
	return role == RoleBuyer || role == RoleFarmer
}
