package permission

import "github.com/BruksfildServices01/clearance-booking/internal/domain/booking"

// Table is the declarative authorization policy: what a status allows at all,
// and which subset of that each role may perform.
type Table struct {
	StatusActions map[booking.Status][]Action
	RoleActions   map[booking.Status]map[Role][]Action
}

func actions(a ...Action) []Action { return a }

// DefaultTable returns the production policy.
func DefaultTable() Table {
	const (
		view     = ActionView
		edit     = ActionEdit
		cancel   = ActionCancel
		pay      = ActionPay
		assign   = ActionAssignCrew
		start    = ActionStartWork
		complete = ActionCompleteWork
		review   = ActionReview
		approve  = ActionApproveQuote
		generate = ActionGenerateQuote
		pricing  = ActionViewPricing
		refund   = ActionRefund
	)

	return Table{
		StatusActions: map[booking.Status][]Action{
			booking.StatusQuoteRequested:      actions(view, edit, cancel, generate, pricing),
			booking.StatusQuoteGenerated:      actions(view, edit, cancel, generate, pricing),
			booking.StatusPendingAdmin:        actions(view, edit, cancel, generate, pricing),
			booking.StatusAdminQuoted:         actions(view, edit, cancel, approve, pricing),
			booking.StatusClientApproved:      actions(view, cancel, pay, pricing),
			booking.StatusPaymentPending:      actions(view, cancel, pricing),
			booking.StatusBookingConfirmed:    actions(view, cancel, assign, pricing),
			booking.StatusCrewAssigned:        actions(view, start, pricing),
			booking.StatusInProgress:          actions(view, complete, pricing),
			booking.StatusWorkCompleted:       actions(view, review, pricing),
			booking.StatusAdminReviewed:       actions(view, pay, pricing),
			booking.StatusFinalPaymentPending: actions(view, pay, pricing),
			booking.StatusCompleted:           actions(view, pricing),
			booking.StatusCancelled:           actions(view, refund, pricing),
			booking.StatusRefunded:            actions(view, pricing),
		},
		RoleActions: map[booking.Status]map[Role][]Action{
			booking.StatusQuoteRequested: {
				RoleClient:     actions(view, edit, cancel),
				RoleAdmin:      actions(view, edit, cancel, generate, pricing),
				RoleSales:      actions(view, edit, cancel, generate, pricing),
				RoleManagement: actions(view, cancel, pricing),
			},
			booking.StatusQuoteGenerated: {
				RoleClient:     actions(view, edit, cancel, pricing),
				RoleAdmin:      actions(view, edit, cancel, generate, pricing),
				RoleSales:      actions(view, edit, cancel, generate, pricing),
				RoleManagement: actions(view, cancel, pricing),
			},
			booking.StatusPendingAdmin: {
				RoleClient:     actions(view, cancel, pricing),
				RoleAdmin:      actions(view, edit, cancel, generate, pricing),
				RoleSales:      actions(view, edit, cancel, pricing),
				RoleManagement: actions(view, cancel, generate, pricing),
			},
			booking.StatusAdminQuoted: {
				RoleClient:     actions(view, cancel, approve, pricing),
				RoleAdmin:      actions(view, edit, cancel, pricing),
				RoleSales:      actions(view, edit, cancel, pricing),
				RoleManagement: actions(view, cancel, pricing),
			},
			booking.StatusClientApproved: {
				RoleClient:     actions(view, cancel, pay, pricing),
				RoleAdmin:      actions(view, cancel, pay, pricing),
				RoleSales:      actions(view, pricing),
				RoleManagement: actions(view, cancel, pricing),
			},
			booking.StatusPaymentPending: {
				RoleClient:     actions(view, cancel, pricing),
				RoleAdmin:      actions(view, cancel, pricing),
				RoleSales:      actions(view, pricing),
				RoleManagement: actions(view, cancel, pricing),
			},
			booking.StatusBookingConfirmed: {
				RoleClient:     actions(view, pricing),
				RoleAdmin:      actions(view, cancel, assign, pricing),
				RoleSales:      actions(view, pricing),
				RoleManagement: actions(view, cancel, assign, pricing),
			},
			booking.StatusCrewAssigned: {
				RoleClient:     actions(view),
				RoleAdmin:      actions(view, start, pricing),
				RoleCrew:       actions(view, start),
				RoleSales:      actions(view, pricing),
				RoleManagement: actions(view, pricing),
			},
			booking.StatusInProgress: {
				RoleClient:     actions(view),
				RoleAdmin:      actions(view, complete, pricing),
				RoleCrew:       actions(view, complete),
				RoleSales:      actions(view, pricing),
				RoleManagement: actions(view, pricing),
			},
			booking.StatusWorkCompleted: {
				RoleClient:     actions(view),
				RoleAdmin:      actions(view, review, pricing),
				RoleCrew:       actions(view),
				RoleSales:      actions(view, pricing),
				RoleManagement: actions(view, review, pricing),
			},
			booking.StatusAdminReviewed: {
				RoleClient:     actions(view, pay, pricing),
				RoleAdmin:      actions(view, pay, pricing),
				RoleSales:      actions(view, pricing),
				RoleManagement: actions(view, pricing),
			},
			booking.StatusFinalPaymentPending: {
				RoleClient:     actions(view, pay, pricing),
				RoleAdmin:      actions(view, pay, pricing),
				RoleSales:      actions(view, pricing),
				RoleManagement: actions(view, pricing),
			},
			booking.StatusCompleted: {
				RoleClient:     actions(view, pricing),
				RoleAdmin:      actions(view, pricing),
				RoleCrew:       actions(view),
				RoleSales:      actions(view, pricing),
				RoleManagement: actions(view, pricing),
			},
			booking.StatusCancelled: {
				RoleClient:     actions(view),
				RoleAdmin:      actions(view, refund, pricing),
				RoleSales:      actions(view, pricing),
				RoleManagement: actions(view, refund, pricing),
			},
			booking.StatusRefunded: {
				RoleClient:     actions(view, pricing),
				RoleAdmin:      actions(view, pricing),
				RoleSales:      actions(view, pricing),
				RoleManagement: actions(view, pricing),
			},
		},
	}
}
