package payment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
)

// SimulatedGateway approves every charge after a fixed delay, except for the
// methods listed in Decline.
type SimulatedGateway struct {
	Delay   time.Duration
	Decline map[string]string
}

var _ booking.Gateway = (*SimulatedGateway)(nil)

func NewSimulatedGateway(delay time.Duration) *SimulatedGateway {
	return &SimulatedGateway{
		Delay: delay,
		Decline: map[string]string{
			"test-decline": "card declined",
		},
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req booking.ChargeRequest) (booking.ChargeResult, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return booking.ChargeResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	if reason, ok := g.Decline[req.Method]; ok {
		return booking.ChargeResult{FailureReason: reason}, nil
	}

	return booking.ChargeResult{
		Approved:      true,
		TransactionID: "sim_" + uuid.NewString(),
	}, nil
}
