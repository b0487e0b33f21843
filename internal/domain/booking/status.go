package booking

import "github.com/BruksfildServices01/clearance-booking/internal/httperr"

// ===============================
// Booking Status
// ===============================

type Status string

const (
	StatusQuoteRequested      Status = "quote-requested"
	StatusQuoteGenerated      Status = "quote-generated"
	StatusPendingAdmin        Status = "pending-admin"
	StatusAdminQuoted         Status = "admin-quoted"
	StatusClientApproved      Status = "client-approved"
	StatusPaymentPending      Status = "payment-pending"
	StatusBookingConfirmed    Status = "booking-confirmed"
	StatusCrewAssigned        Status = "crew-assigned"
	StatusInProgress          Status = "in-progress"
	StatusWorkCompleted       Status = "work-completed"
	StatusAdminReviewed       Status = "admin-reviewed"
	StatusFinalPaymentPending Status = "final-payment-pending"
	StatusCompleted           Status = "completed"
	StatusCancelled           Status = "cancelled"
	StatusRefunded            Status = "refunded"
)

// AllStatuses lists every canonical status in lifecycle order.
var AllStatuses = []Status{
	StatusQuoteRequested,
	StatusQuoteGenerated,
	StatusPendingAdmin,
	StatusAdminQuoted,
	StatusClientApproved,
	StatusPaymentPending,
	StatusBookingConfirmed,
	StatusCrewAssigned,
	StatusInProgress,
	StatusWorkCompleted,
	StatusAdminReviewed,
	StatusFinalPaymentPending,
	StatusCompleted,
	StatusCancelled,
	StatusRefunded,
}

func (s Status) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if !st.Valid() {
		return "", httperr.ErrBusiness("unknown_status")
	}
	return st, nil
}

// Closed reports statuses that no longer accept lifecycle transitions.
func (s Status) Closed() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusRefunded
}

// ===============================
// Flow status (simplified booking-flow view)
// ===============================

type FlowStatus string

const (
	FlowPending   FlowStatus = "pending"
	FlowConfirmed FlowStatus = "confirmed"
	FlowCompleted FlowStatus = "completed"
	FlowCancelled FlowStatus = "cancelled"
	FlowRefunded  FlowStatus = "refunded"
)

// Flow maps the workflow status onto the simplified booking-flow vocabulary.
// It is a read-only projection; the workflow status stays the only stored state.
func (s Status) Flow() FlowStatus {
	switch s {
	case StatusBookingConfirmed, StatusCrewAssigned, StatusInProgress,
		StatusWorkCompleted, StatusAdminReviewed, StatusFinalPaymentPending:
		return FlowConfirmed
	case StatusCompleted:
		return FlowCompleted
	case StatusCancelled:
		return FlowCancelled
	case StatusRefunded:
		return FlowRefunded
	default:
		return FlowPending
	}
}

// ===============================
// Urgency
// ===============================

type Urgency string

const (
	UrgencyStandard  Urgency = "standard"
	UrgencyEmergency Urgency = "emergency"
)

func (u Urgency) Valid() bool {
	return u == UrgencyStandard || u == UrgencyEmergency
}
