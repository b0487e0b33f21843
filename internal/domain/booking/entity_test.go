package booking

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestStatusFlow(t *testing.T) {
	assert.Equal(t, FlowPending, StatusQuoteGenerated.Flow())
	assert.Equal(t, FlowPending, StatusPaymentPending.Flow())
	assert.Equal(t, FlowConfirmed, StatusCrewAssigned.Flow())
	assert.Equal(t, FlowConfirmed, StatusFinalPaymentPending.Flow())
	assert.Equal(t, FlowCompleted, StatusCompleted.Flow())
	assert.Equal(t, FlowCancelled, StatusCancelled.Flow())
	assert.Equal(t, FlowRefunded, StatusRefunded.Flow())
}

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses {
		got, err := ParseStatus(string(s))
		assert.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStatus("archived")
	assert.Error(t, err)
}

func TestBooking_Payments(t *testing.T) {
	final := decimal.NewFromInt(500)
	b := Booking{
		FinalAmount: &final,
		Payments: []Payment{
			{Type: PaymentInitial, Status: PaymentFailed, Amount: decimal.NewFromInt(150)},
			{Type: PaymentInitial, Status: PaymentSuccess, Amount: decimal.NewFromInt(150)},
			{Type: PaymentFinal, Status: PaymentProcessing, Amount: decimal.NewFromInt(350)},
		},
	}

	assert.True(t, b.HasDepositPaid())
	assert.True(t, b.TotalPaid().Equal(decimal.NewFromInt(150)))
	assert.True(t, b.Outstanding().Equal(decimal.NewFromInt(350)))

	b.Payments[1].Status = PaymentFailed
	assert.False(t, b.HasDepositPaid())
}

func TestBooking_CloneIsIsolated(t *testing.T) {
	now := time.Now()
	price := decimal.NewFromInt(100)
	orig := Booking{
		ID:              "b-1",
		Quote:           Quote{FinalPrice: &price, Breakdown: []LineItem{{Description: "x"}}},
		Payments:        []Payment{{ID: "p-1", PaidAt: &now}},
		StatusHistory:   []HistoryEntry{{Status: StatusQuoteGenerated}},
		AssignedCrewIDs: []string{"crew-1"},
	}

	cp := orig.Clone()
	cp.Quote.Breakdown[0].Description = "changed"
	cp.Payments[0].ID = "p-2"
	cp.StatusHistory = append(cp.StatusHistory, HistoryEntry{Status: StatusPendingAdmin})
	cp.AssignedCrewIDs[0] = "crew-2"
	*cp.Quote.FinalPrice = decimal.NewFromInt(1)

	assert.Equal(t, "x", orig.Quote.Breakdown[0].Description)
	assert.Equal(t, "p-1", orig.Payments[0].ID)
	assert.Len(t, orig.StatusHistory, 1)
	assert.Equal(t, "crew-1", orig.AssignedCrewIDs[0])
	assert.True(t, orig.Quote.FinalPrice.Equal(decimal.NewFromInt(100)))
}
