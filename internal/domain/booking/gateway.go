package booking

import (
	"context"

	"github.com/shopspring/decimal"
)

type ChargeRequest struct {
	BookingID  string
	Reference  string
	PaymentID  string
	Amount     decimal.Decimal
	Method     string
	Type       PaymentType
	PayerEmail string
}

type ChargeResult struct {
	Approved      bool
	TransactionID string
	FailureReason string
}

// Gateway settles a single payment attempt. A returned error is treated as a decline.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}
