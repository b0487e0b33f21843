package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
)

type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newStepClock() *stepClock {
	return &stepClock{
		t:    time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
		step: time.Minute,
	}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

type fakeGateway struct {
	mu      sync.Mutex
	results []booking.ChargeResult
	err     error
	calls   []booking.ChargeRequest
}

func (g *fakeGateway) Charge(ctx context.Context, req booking.ChargeRequest) (booking.ChargeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.calls = append(g.calls, req)
	if g.err != nil {
		return booking.ChargeResult{}, g.err
	}
	if len(g.results) == 0 {
		return booking.ChargeResult{Approved: true, TransactionID: "tx-" + req.PaymentID}, nil
	}
	r := g.results[0]
	g.results = g.results[1:]
	return r, nil
}

type harness struct {
	store     *Store
	scheduler *ManualScheduler
	clock     *stepClock
	gateway   *fakeGateway
	logs      *test.Hook
}

func syncRunner(fn func()) { fn() }

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	logger, hook := test.NewNullLogger()
	h := &harness{
		scheduler: NewManualScheduler(),
		clock:     newStepClock(),
		gateway:   &fakeGateway{},
		logs:      hook,
	}

	seq := 0
	base := []Option{
		WithClock(h.clock.Now),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithScheduler(h.scheduler),
		WithGateway(h.gateway),
		WithRunner(syncRunner),
		WithLogger(logrus.NewEntry(logger)),
	}
	h.store = NewStore(append(base, opts...)...)
	return h
}

func quoteRequest() booking.CreateQuoteRequest {
	return booking.CreateQuoteRequest{
		ClientID:        "client-1",
		ClientName:      "Ada Client",
		ClientEmail:     "ada@example.com",
		ServiceType:     "house-clearance",
		PropertyAddress: "1 High Street",
		ScheduledDate:   time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC),
		Urgency:         booking.UrgencyStandard,
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// advance drives a fresh booking through the happy path until it reaches target.
func (h *harness) advance(t *testing.T, target booking.Status) booking.Booking {
	t.Helper()
	ctx := context.Background()
	s := h.store

	b, err := s.CreateQuoteRequest(ctx, quoteRequest(), "client-1")
	require.NoError(t, err)

	steps := []struct {
		reach booking.Status
		run   func() (booking.Booking, error)
	}{
		{booking.StatusPendingAdmin, func() (booking.Booking, error) { return s.SubmitForAdminReview(ctx, b.ID, "client-1") }},
		{booking.StatusAdminQuoted, func() (booking.Booking, error) {
			return s.AdminProvideQuote(ctx, b.ID, dec("420"), "two skips", "admin-1")
		}},
		{booking.StatusClientApproved, func() (booking.Booking, error) { return s.ClientApproveQuote(ctx, b.ID, "client-1") }},
		{booking.StatusBookingConfirmed, func() (booking.Booking, error) {
			if _, err := s.ProcessPayment(ctx, b.ID, PaymentRequest{Amount: dec("150"), Type: booking.PaymentInitial}, "client-1"); err != nil {
				return booking.Booking{}, err
			}
			return s.Get(ctx, b.ID)
		}},
		{booking.StatusCrewAssigned, func() (booking.Booking, error) {
			return s.AssignCrew(ctx, b.ID, []string{"crew-1", "crew-2"}, "admin-1")
		}},
		{booking.StatusInProgress, func() (booking.Booking, error) { return s.StartWork(ctx, b.ID, "crew-1") }},
		{booking.StatusWorkCompleted, func() (booking.Booking, error) { return s.CompleteWork(ctx, b.ID, "crew-1") }},
	}

	if b.Status == target {
		return b
	}
	for _, step := range steps {
		b, err = step.run()
		require.NoError(t, err)
		require.Equal(t, step.reach, b.Status)
		if b.Status == target {
			return b
		}
	}

	t.Fatalf("target status %s not reachable by advance", target)
	return booking.Booking{}
}

func requireConsistent(t *testing.T, b booking.Booking) {
	t.Helper()
	require.NotEmpty(t, b.StatusHistory)
	require.Equal(t, b.Status, b.StatusHistory[len(b.StatusHistory)-1].Status)
	for i := 1; i < len(b.StatusHistory); i++ {
		require.False(t, b.StatusHistory[i].At.Before(b.StatusHistory[i-1].At), "history goes backwards at %d", i)
	}
}
