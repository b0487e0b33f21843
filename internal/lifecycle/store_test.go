package lifecycle

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
)

func TestCreateQuoteRequest_EmergencyPricing(t *testing.T) {
	h := newHarness(t)
	req := quoteRequest()
	req.ServiceType = "emergency-clearance"
	req.Urgency = booking.UrgencyEmergency

	b, err := h.store.CreateQuoteRequest(context.Background(), req, "client-1")
	require.NoError(t, err)

	assert.True(t, b.Quote.EstimatedPrice.Equal(dec("300")), "got %s", b.Quote.EstimatedPrice)
	assert.Equal(t, booking.StatusQuoteGenerated, b.Status)
	assert.Len(t, b.StatusHistory, 1)
	assert.Equal(t, "id-1", b.ID)
	assert.Equal(t, "CLR-20260105-0001", b.ReferenceNumber)
	assert.Equal(t, b.CreatedAt.Add(DefaultQuoteValidity), b.Quote.ValidUntil)
	requireConsistent(t, b)
}

func TestCreateQuoteRequest_RejectsInvalidRequest(t *testing.T) {
	h := newHarness(t)
	req := quoteRequest()
	req.ServiceType = "piano-tuning"

	_, err := h.store.CreateQuoteRequest(context.Background(), req, "client-1")

	assert.True(t, httperr.IsBusiness(err, httperr.CodeUnknownServiceType))
	assert.Empty(t, h.store.List(context.Background(), Filter{}))
	assert.Zero(t, h.scheduler.Pending())
}

func TestCreateQuoteRequest_ReferenceNumbersAreUnique(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	first, err := h.store.CreateQuoteRequest(ctx, quoteRequest(), "client-1")
	require.NoError(t, err)
	second, err := h.store.CreateQuoteRequest(ctx, quoteRequest(), "client-1")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.ReferenceNumber, second.ReferenceNumber)
}

func TestTransitions_HappyPathKeepsHistoryConsistent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	b := h.advance(t, booking.StatusWorkCompleted)
	requireConsistent(t, b)

	got, err := h.store.Get(ctx, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Quote.FinalPrice)
	assert.True(t, got.Quote.FinalPrice.Equal(dec("420")))
	assert.Equal(t, "two skips", got.Quote.AdminNotes)
	assert.Equal(t, []string{"crew-1", "crew-2"}, got.AssignedCrewIDs)
	assert.NotNil(t, got.AssignedAt)
	assert.NotNil(t, got.WorkStartedAt)
	assert.NotNil(t, got.WorkCompletedAt)
	assert.True(t, got.HasDepositPaid())

	var statuses []booking.Status
	for _, e := range got.StatusHistory {
		statuses = append(statuses, e.Status)
	}
	assert.Equal(t, []booking.Status{
		booking.StatusQuoteGenerated,
		booking.StatusPendingAdmin,
		booking.StatusAdminQuoted,
		booking.StatusClientApproved,
		booking.StatusPaymentPending,
		booking.StatusBookingConfirmed,
		booking.StatusCrewAssigned,
		booking.StatusInProgress,
		booking.StatusWorkCompleted,
	}, statuses)
}

func TestTransitions_SecondCallIsANoOp(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b := h.advance(t, booking.StatusQuoteGenerated)

	_, err := h.store.SubmitForAdminReview(ctx, b.ID, "client-1")
	require.NoError(t, err)

	_, err = h.store.SubmitForAdminReview(ctx, b.ID, "client-1")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))

	history, err := h.store.History(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestTransitions_WrongStatusLeavesBookingUntouched(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b := h.advance(t, booking.StatusQuoteGenerated)

	calls := []func() (booking.Booking, error){
		func() (booking.Booking, error) { return h.store.AdminProvideQuote(ctx, b.ID, dec("100"), "", "admin-1") },
		func() (booking.Booking, error) { return h.store.ClientApproveQuote(ctx, b.ID, "client-1") },
		func() (booking.Booking, error) { return h.store.AssignCrew(ctx, b.ID, []string{"crew-1"}, "admin-1") },
		func() (booking.Booking, error) { return h.store.StartWork(ctx, b.ID, "crew-1") },
		func() (booking.Booking, error) { return h.store.CompleteWork(ctx, b.ID, "crew-1") },
		func() (booking.Booking, error) { return h.store.AdminReviewWork(ctx, b.ID, dec("100"), "", "admin-1") },
		func() (booking.Booking, error) { return h.store.ProcessRefund(ctx, b.ID, dec("0"), "admin-1") },
	}

	for i, call := range calls {
		_, err := call()
		assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState), "call %d: %v", i, err)
	}

	got, err := h.store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b, got)
}

func TestTransitions_UnknownBooking(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.store.SubmitForAdminReview(ctx, "missing", "client-1")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))

	_, err = h.store.Get(ctx, "missing")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))

	_, err = h.store.History(ctx, "missing")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))

	_, err = h.store.ProcessPayment(ctx, "missing", PaymentRequest{Amount: dec("10")}, "client-1")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeNotFound))
}

func TestTransitions_ValidateArguments(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b := h.advance(t, booking.StatusPendingAdmin)

	_, err := h.store.AdminProvideQuote(ctx, b.ID, dec("0"), "", "admin-1")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidAmount))

	_, err = h.store.AssignCrew(ctx, b.ID, []string{" ", ""}, "admin-1")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))

	_, err = h.store.ProcessPayment(ctx, b.ID, PaymentRequest{Amount: dec("-5")}, "client-1")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidAmount))

	_, err = h.store.ProcessPayment(ctx, b.ID, PaymentRequest{Amount: dec("5"), Type: "tip"}, "client-1")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidRequest))
}

func TestAdminReviewWork_OutstandingBalance(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b := h.advance(t, booking.StatusWorkCompleted)

	got, err := h.store.AdminReviewWork(ctx, b.ID, dec("500"), "extra load", "admin-1")
	require.NoError(t, err)

	assert.Equal(t, booking.StatusFinalPaymentPending, got.Status)
	assert.True(t, got.Outstanding().Equal(dec("350")), "got %s", got.Outstanding())
	require.NotNil(t, got.FinalAmount)
	assert.True(t, got.FinalAmount.Equal(dec("500")))
	assert.Equal(t, "admin-1", got.AdminReviewedBy)
	requireConsistent(t, got)

	n := len(got.StatusHistory)
	assert.Equal(t, booking.StatusAdminReviewed, got.StatusHistory[n-2].Status)
	assert.Equal(t, booking.StatusFinalPaymentPending, got.StatusHistory[n-1].Status)
	assert.Equal(t, "outstanding 350.00", got.StatusHistory[n-1].Note)

	_, err = h.store.ProcessPayment(ctx, b.ID, PaymentRequest{Amount: dec("350"), Type: booking.PaymentFinal}, "client-1")
	require.NoError(t, err)

	final, err := h.store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCompleted, final.Status)
	assert.True(t, final.Outstanding().IsZero())
	requireConsistent(t, final)
}

func TestAdminReviewWork_PaidInFullCompletesDirectly(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b := h.advance(t, booking.StatusWorkCompleted)

	got, err := h.store.AdminReviewWork(ctx, b.ID, dec("150"), "", "admin-1")
	require.NoError(t, err)

	assert.Equal(t, booking.StatusCompleted, got.Status)
	for _, e := range got.StatusHistory {
		assert.NotEqual(t, booking.StatusFinalPaymentPending, e.Status)
	}
	n := len(got.StatusHistory)
	assert.Equal(t, booking.StatusAdminReviewed, got.StatusHistory[n-2].Status)
	requireConsistent(t, got)
}

func TestCancelBooking_BeforeDeposit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b := h.advance(t, booking.StatusClientApproved)

	got, err := h.store.CancelBooking(ctx, b.ID, "  changed plans ", "client-1")
	require.NoError(t, err)

	assert.Equal(t, booking.StatusCancelled, got.Status)
	assert.Equal(t, "changed plans", got.CancellationReason)
	assert.Equal(t, "client-1", got.CancelledBy)
	assert.NotNil(t, got.CancelledAt)
	requireConsistent(t, got)

	_, err = h.store.CancelBooking(ctx, b.ID, "again", "client-1")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))
}

func TestCancelBooking_BlockedOnceDepositPaid(t *testing.T) {
	for _, status := range []booking.Status{
		booking.StatusBookingConfirmed,
		booking.StatusCrewAssigned,
		booking.StatusInProgress,
		booking.StatusWorkCompleted,
	} {
		t.Run(string(status), func(t *testing.T) {
			h := newHarness(t)
			ctx := context.Background()
			b := h.advance(t, status)

			_, err := h.store.CancelBooking(ctx, b.ID, "no longer needed", "admin-1")
			assert.True(t, httperr.IsBusiness(err, httperr.CodeDepositPaid))

			got, err := h.store.Get(ctx, b.ID)
			require.NoError(t, err)
			assert.Equal(t, status, got.Status)
			assert.Len(t, got.StatusHistory, len(b.StatusHistory))
		})
	}
}

func TestProcessRefund(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b := h.advance(t, booking.StatusAdminQuoted)

	_, err := h.store.CancelBooking(ctx, b.ID, "duplicate", "admin-1")
	require.NoError(t, err)

	_, err = h.store.ProcessRefund(ctx, b.ID, dec("-1"), "admin-1")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidAmount))

	got, err := h.store.ProcessRefund(ctx, b.ID, dec("0"), "admin-1")
	require.NoError(t, err)

	assert.Equal(t, booking.StatusRefunded, got.Status)
	assert.Equal(t, booking.RefundProcessed, got.RefundStatus)
	assert.NotNil(t, got.RefundedAt)
	assert.Equal(t, booking.FlowRefunded, got.Status.Flow())
	requireConsistent(t, got)

	_, err = h.store.CancelBooking(ctx, b.ID, "again", "admin-1")
	assert.True(t, httperr.IsBusiness(err, httperr.CodeInvalidState))
}

func TestReads_ReturnCopies(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	b := h.advance(t, booking.StatusCrewAssigned)

	b.Status = booking.StatusCompleted
	b.AssignedCrewIDs[0] = "intruder"
	b.StatusHistory[0].Actor = "intruder"

	got, err := h.store.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCrewAssigned, got.Status)
	assert.Equal(t, "crew-1", got.AssignedCrewIDs[0])
	assert.Equal(t, "client-1", got.StatusHistory[0].Actor)

	history, err := h.store.History(ctx, b.ID)
	require.NoError(t, err)
	history[0].Note = "rewritten"

	again, err := h.store.History(ctx, b.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "rewritten", again[0].Note)
}

func TestList_FiltersAndCounts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	assigned := h.advance(t, booking.StatusCrewAssigned)
	fresh := h.advance(t, booking.StatusQuoteGenerated)

	other := quoteRequest()
	other.ClientID = "client-2"
	_, err := h.store.CreateQuoteRequest(ctx, other, "client-2")
	require.NoError(t, err)

	all := h.store.List(ctx, Filter{})
	require.Len(t, all, 3)
	assert.Equal(t, assigned.ID, all[0].ID)
	assert.Equal(t, fresh.ID, all[1].ID)

	assert.Len(t, h.store.List(ctx, Filter{ClientID: "client-1"}), 2)
	assert.Len(t, h.store.List(ctx, Filter{Status: booking.StatusQuoteGenerated}), 2)

	crew := h.store.List(ctx, Filter{CrewID: "crew-2"})
	require.Len(t, crew, 1)
	assert.Equal(t, assigned.ID, crew[0].ID)

	counts := h.store.CountByStatus(ctx)
	assert.Equal(t, 2, counts[booking.StatusQuoteGenerated])
	assert.Equal(t, 1, counts[booking.StatusCrewAssigned])
	assert.Equal(t, 0, counts[booking.StatusCompleted])
	assert.Len(t, counts, len(booking.AllStatuses))
}

func TestHistory_TimestampsNeverGoBackwards(t *testing.T) {
	h := newHarness(t)
	h.clock.step = -time.Minute
	ctx := context.Background()

	b, err := h.store.CreateQuoteRequest(ctx, quoteRequest(), "client-1")
	require.NoError(t, err)
	_, err = h.store.SubmitForAdminReview(ctx, b.ID, "client-1")
	require.NoError(t, err)
	got, err := h.store.AdminProvideQuote(ctx, b.ID, dec("200"), "", "admin-1")
	require.NoError(t, err)

	requireConsistent(t, got)
	assert.Equal(t, got.StatusHistory[0].At, got.StatusHistory[2].At)
}

func TestHydrate(t *testing.T) {
	source := newHarness(t)
	a := source.advance(t, booking.StatusBookingConfirmed)
	b := source.advance(t, booking.StatusQuoteGenerated)

	broken := b
	broken.ID = "broken"
	broken.Status = booking.StatusCompleted

	h := newHarness(t)
	loaded := h.store.Hydrate([]booking.Booking{b, a, a, broken})
	assert.Equal(t, 2, loaded)
	assert.Zero(t, h.scheduler.Pending())

	list := h.store.List(context.Background(), Filter{})
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)

	next, err := h.store.CreateQuoteRequest(context.Background(), quoteRequest(), "client-9")
	require.NoError(t, err)
	assert.Equal(t, "CLR-20260105-0003", next.ReferenceNumber)
}

func TestMutate_RespectsCancelledContext(t *testing.T) {
	h := newHarness(t)
	b := h.advance(t, booking.StatusQuoteGenerated)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.store.SubmitForAdminReview(ctx, b.ID, "client-1")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestMutate_ListenersSeeCommitOrder(t *testing.T) {
	h := newHarness(t,
		WithIDGenerator(uuid.NewString),
		WithRunner(func(fn func()) {}),
	)
	ctx := context.Background()
	b := h.advance(t, booking.StatusClientApproved)
	h.scheduler.RunPending()

	var seen []int
	h.store.Subscribe(func(changes []Change) {
		for _, c := range changes {
			if c.Booking.ID == b.ID {
				seen = append(seen, len(c.Booking.Payments))
			}
		}
	})

	const attempts = 50
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.store.ProcessPayment(ctx, b.ID, PaymentRequest{Amount: dec("10")}, "client-1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	h.scheduler.RunPending()

	require.Len(t, seen, attempts)
	for i, n := range seen {
		assert.Equal(t, i+1, n)
	}
}
