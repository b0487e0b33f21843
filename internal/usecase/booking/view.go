package booking

import (
	"context"

	domain "github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
	"github.com/BruksfildServices01/clearance-booking/internal/lifecycle"
	"github.com/BruksfildServices01/clearance-booking/internal/permission"
)

// View is a booking as one actor is allowed to see it.
type View struct {
	Booking      domain.Booking
	Capabilities permission.Capabilities
	FlowStatus   domain.FlowStatus
}

func newView(b domain.Booking, caps permission.Capabilities) View {
	if !caps.CanViewPricing {
		b = redactPricing(b)
	}
	return View{
		Booking:      b,
		Capabilities: caps,
		FlowStatus:   b.Status.Flow(),
	}
}

// redactPricing strips money from bookings shown to roles without view-pricing.
func redactPricing(b domain.Booking) domain.Booking {
	b.Quote = domain.Quote{ValidUntil: b.Quote.ValidUntil}
	b.Payments = nil
	b.FinalAmount = nil
	b.RefundAmount = nil
	return b
}

// ======================================================
// GET
// ======================================================

type GetBooking struct {
	deps Deps
}

func NewGetBooking(deps Deps) *GetBooking {
	return &GetBooking{deps: deps}
}

func (uc *GetBooking) Execute(ctx context.Context, actor Actor, id string) (View, error) {
	b, caps, err := uc.deps.authorize(ctx, actor, id, permission.ActionView)
	if err != nil {
		return View{}, err
	}
	return newView(b, caps), nil
}

// ======================================================
// HISTORY
// ======================================================

type GetHistory struct {
	deps Deps
}

func NewGetHistory(deps Deps) *GetHistory {
	return &GetHistory{deps: deps}
}

func (uc *GetHistory) Execute(ctx context.Context, actor Actor, id string) ([]domain.HistoryEntry, error) {
	b, _, err := uc.deps.authorize(ctx, actor, id, permission.ActionView)
	if err != nil {
		return nil, err
	}
	return b.StatusHistory, nil
}

// ======================================================
// LIST
// ======================================================

type ListInput struct {
	Status   domain.Status
	ClientID string
}

type ListBookings struct {
	deps Deps
}

func NewListBookings(deps Deps) *ListBookings {
	return &ListBookings{deps: deps}
}

// Execute returns the bookings the actor may view, scoped to the actor's own
// bookings for clients and crew.
func (uc *ListBookings) Execute(ctx context.Context, actor Actor, in ListInput) ([]View, error) {
	filter := lifecycle.Filter{Status: in.Status, ClientID: in.ClientID}

	switch actor.Role {
	case permission.RoleClient:
		filter.ClientID = actor.Ref()
	case permission.RoleCrew:
		filter.ClientID = ""
		filter.CrewID = actor.Ref()
	}

	all := uc.deps.Store.List(ctx, filter)
	out := make([]View, 0, len(all))
	for _, b := range all {
		caps := uc.deps.Resolver.ResolveFor(b, actor.Role)
		if !caps.CanView {
			continue
		}
		out = append(out, newView(b, caps))
	}
	return out, nil
}

// ======================================================
// STATS
// ======================================================

type BookingStats struct {
	deps Deps
}

func NewBookingStats(deps Deps) *BookingStats {
	return &BookingStats{deps: deps}
}

func (uc *BookingStats) Execute(ctx context.Context, actor Actor) (map[domain.Status]int, error) {
	if !actor.Role.Staff() {
		return nil, httperr.ErrBusiness(httperr.CodeForbidden)
	}
	return uc.deps.Store.CountByStatus(ctx), nil
}
