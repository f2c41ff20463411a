package domain

// Roles in the three-tier marketplace. ADMIN is operational staff.
const (
	RoleManufacturer = "MANUFACTURER"
	RoleDistributor  = "DISTRIBUTOR"
	RoleRetailer     = "RETAILER"
	RoleAdmin        = "ADMIN"
)

// ValidRole reports whether role names one of the marketplace tiers.
func ValidRole(role string) bool {
	switch role {
	case RoleManufacturer, RoleDistributor, RoleRetailer, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          string `db:"id"`
	Email       string `db:"email"`
	Name        string `db:"name"`
	CompanyName string `db:"company_name"`
	Hash        string `db:"password_hash"`
	Role        string `db:"role"`
}
