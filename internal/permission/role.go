package permission

import "github.com/BruksfildServices01/clearance-booking/internal/httperr"

type Role string

const (
	RoleClient     Role = "client"
	RoleAdmin      Role = "admin"
	RoleCrew       Role = "crew"
	RoleSales      Role = "sales"
	RoleManagement Role = "management"
)

var AllRoles = []Role{RoleClient, RoleAdmin, RoleCrew, RoleSales, RoleManagement}

func ParseRole(s string) (Role, error) {
	for _, r := range AllRoles {
		if Role(s) == r {
			return r, nil
		}
	}
	return "", httperr.ErrBusiness("unknown_role")
}

// Staff reports roles that act on behalf of the company rather than a client.
func (r Role) Staff() bool {
	return r == RoleAdmin || r == RoleSales || r == RoleManagement
}

type Action string

const (
	ActionView          Action = "view"
	ActionEdit          Action = "edit"
	ActionCancel        Action = "cancel"
	ActionPay           Action = "pay"
	ActionAssignCrew    Action = "assign-crew"
	ActionStartWork     Action = "start-work"
	ActionCompleteWork  Action = "complete-work"
	ActionReview        Action = "review"
	ActionApproveQuote  Action = "approve-quote"
	ActionGenerateQuote Action = "generate-quote"
	ActionViewPricing   Action = "view-pricing"
	ActionRefund        Action = "refund"
)
