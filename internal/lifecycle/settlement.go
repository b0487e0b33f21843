package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
)

// GatewayActor is recorded in history for transitions driven by settlement.
const GatewayActor = "payment-gateway"

const defaultPaymentMethod = "card"

type PaymentRequest struct {
	Amount decimal.Decimal
	Method string
	Type   booking.PaymentType
}

// ProcessPayment records a processing payment, moves the booking to
// payment-pending and hands the charge to the gateway. The outcome is applied
// later and is only observable through Subscribe or a fresh read.
func (s *Store) ProcessPayment(
	ctx context.Context,
	id string,
	req PaymentRequest,
	actor string,
) (booking.Booking, error) {
	if !req.Amount.IsPositive() {
		return booking.Booking{}, httperr.ErrBusiness(httperr.CodeInvalidAmount)
	}
	if req.Type == "" {
		req.Type = booking.PaymentInitial
	}
	if !req.Type.Valid() {
		return booking.Booking{}, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}
	req.Method = strings.TrimSpace(req.Method)
	if req.Method == "" {
		req.Method = defaultPaymentMethod
	}
	if s.gateway == nil {
		return booking.Booking{}, httperr.ErrBusiness("payment_unavailable")
	}

	amount := req.Amount.Round(2)
	paymentID := s.newID()

	var charge booking.ChargeRequest
	out, err := s.mutate(ctx, id, ActionPaymentStarted, actor, func(b *booking.Booking, now time.Time) error {
		b.Payments = append(b.Payments, booking.Payment{
			ID:        paymentID,
			Amount:    amount,
			Type:      req.Type,
			Status:    booking.PaymentProcessing,
			Method:    req.Method,
			CreatedAt: now,
		})
		if b.Status != booking.StatusPaymentPending {
			record(b, booking.StatusPaymentPending, now, actor, string(req.Type)+" payment "+amount.StringFixed(2))
		}

		charge = booking.ChargeRequest{
			BookingID:  b.ID,
			Reference:  b.ReferenceNumber,
			PaymentID:  paymentID,
			Amount:     amount,
			Method:     req.Method,
			Type:       req.Type,
			PayerEmail: b.ClientEmail,
		}
		return nil
	})
	if err != nil {
		return booking.Booking{}, err
	}

	s.runner(func() { s.settle(charge) })
	return out, nil
}

func (s *Store) settle(req booking.ChargeRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), s.settleTimeout)
	defer cancel()

	result, err := s.gateway.Charge(ctx, req)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"booking_id": req.BookingID,
			"payment_id": req.PaymentID,
		}).WithError(err).Warn("payment gateway error")
		result = booking.ChargeResult{FailureReason: err.Error()}
	}

	if _, err := s.ApplySettlement(context.Background(), req.BookingID, req.PaymentID, result); err != nil {
		s.log.WithFields(logrus.Fields{
			"booking_id": req.BookingID,
			"payment_id": req.PaymentID,
		}).WithError(err).Warn("settlement not applied")
	}
}

// ApplySettlement resolves a processing payment. Approval advances a
// payment-pending booking to booking-confirmed (initial) or completed (final);
// a decline marks the payment failed and puts the booking back in the status
// it had before the attempt, where it can be paid again.
// Payments that already left processing are rejected, so redelivery is harmless.
func (s *Store) ApplySettlement(
	ctx context.Context,
	bookingID string,
	paymentID string,
	result booking.ChargeResult,
) (booking.Booking, error) {
	action := ActionPaymentSettled
	if !result.Approved {
		action = ActionPaymentFailed
	}

	return s.mutate(ctx, bookingID, action, GatewayActor, func(b *booking.Booking, now time.Time) error {
		i, ok := b.PaymentByID(paymentID)
		if !ok {
			return httperr.ErrBusiness("payment_not_found")
		}
		p := &b.Payments[i]
		if p.Status != booking.PaymentProcessing {
			return httperr.ErrBusiness(httperr.CodeInvalidState)
		}

		if !result.Approved {
			p.Status = booking.PaymentFailed
			p.FailureReason = result.FailureReason
			if p.FailureReason == "" {
				p.FailureReason = "declined"
			}
			if b.Status == booking.StatusPaymentPending {
				if prior, ok := statusBeforePayment(b); ok {
					record(b, prior, now, GatewayActor, string(p.Type)+" payment declined: "+p.FailureReason)
				}
			}
			return nil
		}

		paidAt := now
		p.Status = booking.PaymentSuccess
		p.PaidAt = &paidAt
		p.TransactionID = result.TransactionID

		// the booking may have been cancelled while the charge was in flight
		if b.Status != booking.StatusPaymentPending {
			return nil
		}

		next := booking.StatusBookingConfirmed
		if p.Type == booking.PaymentFinal {
			next = booking.StatusCompleted
		}
		record(b, next, now, GatewayActor, "transaction "+result.TransactionID)
		return nil
	})
}

// statusBeforePayment returns the status the booking held when it last
// entered payment-pending.
func statusBeforePayment(b *booking.Booking) (booking.Status, bool) {
	for i := len(b.StatusHistory) - 1; i > 0; i-- {
		if b.StatusHistory[i].Status == booking.StatusPaymentPending &&
			b.StatusHistory[i-1].Status != booking.StatusPaymentPending {
			return b.StatusHistory[i-1].Status, true
		}
	}
	return "", false
}
