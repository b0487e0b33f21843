package permission

import "github.com/BruksfildServices01/clearance-booking/internal/domain/booking"

// Capabilities is the resolved action set for one role on one booking state.
type Capabilities struct {
	CanView          bool `json:"canView"`
	CanEdit          bool `json:"canEdit"`
	CanCancel        bool `json:"canCancel"`
	CanPay           bool `json:"canPay"`
	CanAssignCrew    bool `json:"canAssignCrew"`
	CanStartWork     bool `json:"canStartWork"`
	CanCompleteWork  bool `json:"canCompleteWork"`
	CanReview        bool `json:"canReview"`
	CanApproveQuote  bool `json:"canApproveQuote"`
	CanGenerateQuote bool `json:"canGenerateQuote"`
	CanViewPricing   bool `json:"canViewPricing"`
	CanRefund        bool `json:"canRefund"`
}

// payableStatuses are the only states in which money may be taken.
var payableStatuses = map[booking.Status]bool{
	booking.StatusClientApproved:      true,
	booking.StatusAdminReviewed:       true,
	booking.StatusFinalPaymentPending: true,
}

// lockedStatuses freeze edits once the client approved the quote.
var lockedStatuses = map[booking.Status]bool{
	booking.StatusClientApproved:      true,
	booking.StatusPaymentPending:      true,
	booking.StatusBookingConfirmed:    true,
	booking.StatusCrewAssigned:        true,
	booking.StatusInProgress:          true,
	booking.StatusWorkCompleted:       true,
	booking.StatusAdminReviewed:       true,
	booking.StatusFinalPaymentPending: true,
	booking.StatusCompleted:           true,
}

func IsLocked(s booking.Status) bool  { return lockedStatuses[s] }
func IsPayable(s booking.Status) bool { return payableStatuses[s] }

// Resolver turns (status, role, deposit state) into Capabilities.
// It holds no mutable state after construction.
type Resolver struct {
	allowed map[booking.Status]map[Role]map[Action]bool
}

func NewResolver(t Table) *Resolver {
	allowed := make(map[booking.Status]map[Role]map[Action]bool, len(t.RoleActions))

	for status, roles := range t.RoleActions {
		global := make(map[Action]bool, len(t.StatusActions[status]))
		for _, a := range t.StatusActions[status] {
			global[a] = true
		}

		byRole := make(map[Role]map[Action]bool, len(roles))
		for role, acts := range roles {
			set := make(map[Action]bool, len(acts))
			for _, a := range acts {
				if global[a] {
					set[a] = true
				}
			}
			byRole[role] = set
		}
		allowed[status] = byRole
	}

	return &Resolver{allowed: allowed}
}

// Resolve never errors: any status or role missing from the table resolves to no permissions.
func (r *Resolver) Resolve(status booking.Status, role Role, hasDepositPaid bool) Capabilities {
	set := r.allowed[status][role]
	if len(set) == 0 {
		return Capabilities{}
	}

	return Capabilities{
		CanView:          set[ActionView],
		CanEdit:          set[ActionEdit] && !lockedStatuses[status],
		CanCancel:        set[ActionCancel] && !hasDepositPaid,
		CanPay:           set[ActionPay] && payableStatuses[status],
		CanAssignCrew:    set[ActionAssignCrew],
		CanStartWork:     set[ActionStartWork],
		CanCompleteWork:  set[ActionCompleteWork],
		CanReview:        set[ActionReview],
		CanApproveQuote:  set[ActionApproveQuote],
		CanGenerateQuote: set[ActionGenerateQuote],
		CanViewPricing:   set[ActionViewPricing],
		CanRefund:        set[ActionRefund],
	}
}

// ResolveFor is Resolve applied to a booking snapshot.
func (r *Resolver) ResolveFor(b booking.Booking, role Role) Capabilities {
	return r.Resolve(b.Status, role, b.HasDepositPaid())
}

// Allows reports whether caps grants action.
func (c Capabilities) Allows(a Action) bool {
	switch a {
	case ActionView:
		return c.CanView
	case ActionEdit:
		return c.CanEdit
	case ActionCancel:
		return c.CanCancel
	case ActionPay:
		return c.CanPay
	case ActionAssignCrew:
		return c.CanAssignCrew
	case ActionStartWork:
		return c.CanStartWork
	case ActionCompleteWork:
		return c.CanCompleteWork
	case ActionReview:
		return c.CanReview
	case ActionApproveQuote:
		return c.CanApproveQuote
	case ActionGenerateQuote:
		return c.CanGenerateQuote
	case ActionViewPricing:
		return c.CanViewPricing
	case ActionRefund:
		return c.CanRefund
	}
	return false
}
