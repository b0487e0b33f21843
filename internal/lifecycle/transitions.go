package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
)

// CreateQuoteRequest opens a booking priced by the system catalogue.
// The booking starts in quote-generated with a single history entry.
func (s *Store) CreateQuoteRequest(
	ctx context.Context,
	req booking.CreateQuoteRequest,
	actor string,
) (booking.Booking, error) {
	if err := ctx.Err(); err != nil {
		return booking.Booking{}, err
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return booking.Booking{}, err
	}

	estimate, err := booking.PriceQuote(req.ServiceType, req.Urgency)
	if err != nil {
		return booking.Booking{}, err
	}

	now := s.now()
	b := booking.Booking{
		ID:              s.newID(),
		ClientID:        req.ClientID,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ClientPhone:     req.ClientPhone,
		ServiceType:     req.ServiceType,
		PropertyAddress: req.PropertyAddress,
		PickupAddress:   req.PickupAddress,
		ScheduledDate:   req.ScheduledDate,
		Urgency:         req.Urgency,
		Notes:           req.Notes,
		Quote: booking.Quote{
			EstimatedPrice: estimate.Total,
			Breakdown:      estimate.Lines,
			ValidUntil:     now.Add(s.quoteValidity),
		},
		Payments:  []booking.Payment{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	record(&b, booking.StatusQuoteGenerated, now, actor, "system estimate "+estimate.Total.StringFixed(2))

	return s.insert(b, actor), nil
}

func (s *Store) SubmitForAdminReview(ctx context.Context, id, actor string) (booking.Booking, error) {
	return s.mutate(ctx, id, ActionSubmitted, actor, func(b *booking.Booking, now time.Time) error {
		if err := requireStatus(b, booking.StatusQuoteGenerated); err != nil {
			return err
		}
		record(b, booking.StatusPendingAdmin, now, actor, "")
		return nil
	})
}

func (s *Store) AdminProvideQuote(
	ctx context.Context,
	id string,
	finalPrice decimal.Decimal,
	notes string,
	actor string,
) (booking.Booking, error) {
	if !finalPrice.IsPositive() {
		return booking.Booking{}, httperr.ErrBusiness(httperr.CodeInvalidAmount)
	}
	price := finalPrice.Round(2)

	return s.mutate(ctx, id, ActionQuoteProvided, actor, func(b *booking.Booking, now time.Time) error {
		if err := requireStatus(b, booking.StatusPendingAdmin); err != nil {
			return err
		}
		b.Quote.FinalPrice = &price
		b.Quote.AdminNotes = strings.TrimSpace(notes)
		record(b, booking.StatusAdminQuoted, now, actor, "final price "+price.StringFixed(2))
		return nil
	})
}

func (s *Store) ClientApproveQuote(ctx context.Context, id, actor string) (booking.Booking, error) {
	return s.mutate(ctx, id, ActionQuoteApproved, actor, func(b *booking.Booking, now time.Time) error {
		if err := requireStatus(b, booking.StatusAdminQuoted); err != nil {
			return err
		}
		record(b, booking.StatusClientApproved, now, actor, "")
		return nil
	})
}

func (s *Store) AssignCrew(ctx context.Context, id string, crewIDs []string, actor string) (booking.Booking, error) {
	crew := normalizeIDs(crewIDs)
	if len(crew) == 0 {
		return booking.Booking{}, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	return s.mutate(ctx, id, ActionCrewAssigned, actor, func(b *booking.Booking, now time.Time) error {
		if err := requireStatus(b, booking.StatusBookingConfirmed); err != nil {
			return err
		}
		at := now
		b.AssignedCrewIDs = crew
		b.AssignedAt = &at
		record(b, booking.StatusCrewAssigned, now, actor, strings.Join(crew, ","))
		return nil
	})
}

func (s *Store) StartWork(ctx context.Context, id, actor string) (booking.Booking, error) {
	return s.mutate(ctx, id, ActionWorkStarted, actor, func(b *booking.Booking, now time.Time) error {
		if err := requireStatus(b, booking.StatusCrewAssigned); err != nil {
			return err
		}
		at := now
		b.WorkStartedAt = &at
		record(b, booking.StatusInProgress, now, actor, "")
		return nil
	})
}

func (s *Store) CompleteWork(ctx context.Context, id, actor string) (booking.Booking, error) {
	return s.mutate(ctx, id, ActionWorkCompleted, actor, func(b *booking.Booking, now time.Time) error {
		if err := requireStatus(b, booking.StatusInProgress); err != nil {
			return err
		}
		at := now
		b.WorkCompletedAt = &at
		record(b, booking.StatusWorkCompleted, now, actor, "")
		return nil
	})
}

// AdminReviewWork sets the binding final amount. The booking passes through
// admin-reviewed and lands on final-payment-pending when money is still owed,
// completed otherwise.
func (s *Store) AdminReviewWork(
	ctx context.Context,
	id string,
	finalAmount decimal.Decimal,
	notes string,
	actor string,
) (booking.Booking, error) {
	if !finalAmount.IsPositive() {
		return booking.Booking{}, httperr.ErrBusiness(httperr.CodeInvalidAmount)
	}
	amount := finalAmount.Round(2)

	return s.mutate(ctx, id, ActionWorkReviewed, actor, func(b *booking.Booking, now time.Time) error {
		if err := requireStatus(b, booking.StatusWorkCompleted); err != nil {
			return err
		}

		at := now
		b.FinalAmount = &amount
		b.AdminReviewedAt = &at
		b.AdminReviewedBy = actor
		b.AdminNotes = strings.TrimSpace(notes)
		record(b, booking.StatusAdminReviewed, now, actor, "final amount "+amount.StringFixed(2))

		if amount.GreaterThan(b.TotalPaid()) {
			record(b, booking.StatusFinalPaymentPending, now, actor, "outstanding "+b.Outstanding().StringFixed(2))
			return nil
		}
		record(b, booking.StatusCompleted, now, actor, "paid in full")
		return nil
	})
}

// CancelBooking is refused once a deposit has been paid.
func (s *Store) CancelBooking(ctx context.Context, id, reason, cancelledBy string) (booking.Booking, error) {
	reason = strings.TrimSpace(reason)

	return s.mutate(ctx, id, ActionCancelled, cancelledBy, func(b *booking.Booking, now time.Time) error {
		if b.Status.Closed() {
			return httperr.ErrBusiness(httperr.CodeInvalidState)
		}
		if b.HasDepositPaid() {
			return httperr.ErrBusiness(httperr.CodeDepositPaid)
		}

		at := now
		b.CancellationReason = reason
		b.CancelledBy = cancelledBy
		b.CancelledAt = &at
		record(b, booking.StatusCancelled, now, cancelledBy, reason)
		return nil
	})
}

// ProcessRefund closes a cancelled booking. Any settled payment is marked refunded.
func (s *Store) ProcessRefund(ctx context.Context, id string, amount decimal.Decimal, actor string) (booking.Booking, error) {
	if amount.IsNegative() {
		return booking.Booking{}, httperr.ErrBusiness(httperr.CodeInvalidAmount)
	}
	refund := amount.Round(2)

	return s.mutate(ctx, id, ActionRefundProcessed, actor, func(b *booking.Booking, now time.Time) error {
		if err := requireStatus(b, booking.StatusCancelled); err != nil {
			return err
		}

		for i := range b.Payments {
			if b.Payments[i].Status == booking.PaymentSuccess {
				b.Payments[i].Status = booking.PaymentRefunded
			}
		}

		at := now
		b.RefundStatus = booking.RefundProcessed
		b.RefundAmount = &refund
		b.RefundedAt = &at
		record(b, booking.StatusRefunded, now, actor, "refund "+refund.StringFixed(2))
		return nil
	})
}

func normalizeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
