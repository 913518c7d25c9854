package constants

// Back-office roles carried in the JWT "role" claim. Account management lives
// in a separate service; this list only gates the settlement surface.
const (
	RoleAdmin   = "admin"
	RoleOwner   = "owner"
	RoleFinance = "finance"
)

// OperatorRoles may verify, release, refund and export payments.
var OperatorRoles = []string{RoleAdmin, RoleOwner, RoleFinance}

func IsOperatorRole(role string) bool {
	for _, r := range OperatorRoles {
		if role == r {
			return true
		}
	}
	return false
}
