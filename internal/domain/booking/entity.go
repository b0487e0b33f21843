package booking

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentType string

const (
	PaymentInitial PaymentType = "initial"
	PaymentFinal   PaymentType = "final"
)

func (t PaymentType) Valid() bool {
	return t == PaymentInitial || t == PaymentFinal
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentSuccess    PaymentStatus = "success"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

type RefundStatus string

const (
	RefundNone      RefundStatus = ""
	RefundProcessed RefundStatus = "processed"
)

type LineItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Total       decimal.Decimal `json:"total"`
	Category    string          `json:"category"`
}

type Quote struct {
	EstimatedPrice decimal.Decimal  `json:"estimatedPrice"`
	FinalPrice     *decimal.Decimal `json:"finalPrice,omitempty"`
	Breakdown      []LineItem       `json:"breakdown"`
	ValidUntil     time.Time        `json:"validUntil"`
	AdminNotes     string           `json:"adminNotes,omitempty"`
}

// Price is the admin price when one was provided, the system estimate otherwise.
func (q Quote) Price() decimal.Decimal {
	if q.FinalPrice != nil {
		return *q.FinalPrice
	}
	return q.EstimatedPrice
}

type Payment struct {
	ID            string          `json:"id"`
	Amount        decimal.Decimal `json:"amount"`
	Type          PaymentType     `json:"type"`
	Status        PaymentStatus   `json:"status"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transactionId,omitempty"`
	FailureReason string          `json:"failureReason,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
}

type HistoryEntry struct {
	Status Status    `json:"status"`
	At     time.Time `json:"timestamp"`
	Actor  string    `json:"actor"`
	Note   string    `json:"note,omitempty"`
}

type Booking struct {
	ID              string `json:"id"`
	ReferenceNumber string `json:"referenceNumber"`

	ClientID    string `json:"clientId"`
	ClientName  string `json:"clientName"`
	ClientEmail string `json:"clientEmail"`
	ClientPhone string `json:"clientPhone,omitempty"`

	ServiceType     string    `json:"serviceType"`
	PropertyAddress string    `json:"propertyAddress"`
	PickupAddress   string    `json:"pickupAddress,omitempty"`
	ScheduledDate   time.Time `json:"scheduledDate"`
	Urgency         Urgency   `json:"urgency"`
	Notes           string    `json:"notes,omitempty"`

	Quote       Quote            `json:"quote"`
	Payments    []Payment        `json:"payments"`
	FinalAmount *decimal.Decimal `json:"finalAmount,omitempty"`

	Status        Status         `json:"status"`
	StatusHistory []HistoryEntry `json:"statusHistory"`

	AssignedCrewIDs []string   `json:"assignedCrewIds,omitempty"`
	AssignedAt      *time.Time `json:"assignedAt,omitempty"`
	WorkStartedAt   *time.Time `json:"workStartedAt,omitempty"`
	WorkCompletedAt *time.Time `json:"workCompletedAt,omitempty"`
	AdminReviewedAt *time.Time `json:"adminReviewedAt,omitempty"`
	AdminReviewedBy string     `json:"adminReviewedBy,omitempty"`
	AdminNotes      string     `json:"adminNotes,omitempty"`

	CancellationReason string           `json:"cancellationReason,omitempty"`
	CancelledBy        string           `json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time       `json:"cancelledAt,omitempty"`
	RefundStatus       RefundStatus     `json:"refundStatus,omitempty"`
	RefundAmount       *decimal.Decimal `json:"refundAmount,omitempty"`
	RefundedAt         *time.Time       `json:"refundedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasDepositPaid reports whether an initial payment has settled successfully.
// A refunded deposit still counts: the deposit can never be un-paid.
func (b *Booking) HasDepositPaid() bool {
	for _, p := range b.Payments {
		if p.Type == PaymentInitial && (p.Status == PaymentSuccess || p.Status == PaymentRefunded) {
			return true
		}
	}
	return false
}

// TotalPaid sums every successful payment.
func (b *Booking) TotalPaid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range b.Payments {
		if p.Status == PaymentSuccess {
			total = total.Add(p.Amount)
		}
	}
	return total
}

// Outstanding is the reviewed final amount still owed, never negative.
func (b *Booking) Outstanding() decimal.Decimal {
	if b.FinalAmount == nil {
		return decimal.Zero
	}
	delta := b.FinalAmount.Sub(b.TotalPaid())
	if delta.IsNegative() {
		return decimal.Zero
	}
	return delta
}

func (b *Booking) HasCrewMember(crewID string) bool {
	for _, id := range b.AssignedCrewIDs {
		if id == crewID {
			return true
		}
	}
	return false
}

func (b *Booking) PaymentByID(id string) (int, bool) {
	for i := range b.Payments {
		if b.Payments[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Clone returns a deep copy so callers never share slices or pointers with the store.
func (b Booking) Clone() Booking {
	out := b

	out.Quote.FinalPrice = cloneDecimal(b.Quote.FinalPrice)
	out.Quote.Breakdown = append([]LineItem(nil), b.Quote.Breakdown...)
	out.Payments = make([]Payment, len(b.Payments))
	for i, p := range b.Payments {
		p.PaidAt = cloneTime(p.PaidAt)
		out.Payments[i] = p
	}
	out.FinalAmount = cloneDecimal(b.FinalAmount)
	out.StatusHistory = append([]HistoryEntry(nil), b.StatusHistory...)
	out.AssignedCrewIDs = append([]string(nil), b.AssignedCrewIDs...)
	out.AssignedAt = cloneTime(b.AssignedAt)
	out.WorkStartedAt = cloneTime(b.WorkStartedAt)
	out.WorkCompletedAt = cloneTime(b.WorkCompletedAt)
	out.AdminReviewedAt = cloneTime(b.AdminReviewedAt)
	out.CancelledAt = cloneTime(b.CancelledAt)
	out.RefundAmount = cloneDecimal(b.RefundAmount)
	out.RefundedAt = cloneTime(b.RefundedAt)

	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
