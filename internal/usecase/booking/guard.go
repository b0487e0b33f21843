package booking

import (
	"context"
	"strconv"

	"github.com/BruksfildServices01/clearance-booking/internal/audit"
	domain "github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
	"github.com/BruksfildServices01/clearance-booking/internal/lifecycle"
	"github.com/BruksfildServices01/clearance-booking/internal/permission"
)

// ======================================================
// ACTOR
// ======================================================

type Actor struct {
	UserID uint
	Role   permission.Role
}

// Ref is the identifier recorded in booking history and ownership fields.
func (a Actor) Ref() string {
	return strconv.FormatUint(uint64(a.UserID), 10)
}

// ======================================================
// DEPENDENCIES
// ======================================================

type Auditor interface {
	Dispatch(ev audit.Event)
}

// CrewDirectory confirms that ids belong to crew accounts.
type CrewDirectory interface {
	AreCrew(ctx context.Context, ids []string) (bool, error)
}

type Deps struct {
	Store    *lifecycle.Store
	Resolver *permission.Resolver
	Audit    Auditor
	Crew     CrewDirectory
}

// ======================================================
// GUARD
// ======================================================

// visible hides bookings that belong to someone else. Clients see their own
// bookings, crew the bookings they are assigned to.
func visible(actor Actor, b domain.Booking) bool {
	switch actor.Role {
	case permission.RoleClient:
		return b.ClientID == actor.Ref()
	case permission.RoleCrew:
		return b.HasCrewMember(actor.Ref())
	default:
		return true
	}
}

// authorize loads the booking and checks the actor may perform action on it
// in its current state.
func (d Deps) authorize(
	ctx context.Context,
	actor Actor,
	id string,
	action permission.Action,
) (domain.Booking, permission.Capabilities, error) {
	b, err := d.Store.Get(ctx, id)
	if err != nil {
		return domain.Booking{}, permission.Capabilities{}, err
	}
	if !visible(actor, b) {
		return domain.Booking{}, permission.Capabilities{}, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	caps := d.Resolver.ResolveFor(b, actor.Role)
	if caps.Allows(action) {
		return b, caps, nil
	}

	if action == permission.ActionCancel && b.HasDepositPaid() &&
		d.Resolver.Resolve(b.Status, actor.Role, false).CanCancel {
		return domain.Booking{}, caps, httperr.ErrBusiness(httperr.CodeDepositPaid)
	}
	return domain.Booking{}, caps, httperr.ErrBusiness(httperr.CodeForbidden)
}

func (d Deps) record(actor Actor, action, bookingID string, metadata any) {
	if d.Audit == nil {
		return
	}
	userID := actor.UserID
	d.Audit.Dispatch(audit.Event{
		UserID:   &userID,
		Role:     string(actor.Role),
		Action:   action,
		Entity:   "booking",
		EntityID: bookingID,
		Metadata: metadata,
	})
}
