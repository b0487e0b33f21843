package booking

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
	"github.com/BruksfildServices01/clearance-booking/internal/lifecycle"
	"github.com/BruksfildServices01/clearance-booking/internal/permission"
)

// ======================================================
// INPUT
// ======================================================

type CreateInput struct {
	ClientID    string
	ClientName  string
	ClientEmail string
	ClientPhone string

	ServiceType     string
	PropertyAddress string
	PickupAddress   string
	ScheduledDate   time.Time
	Urgency         domain.Urgency
	Notes           string
}

// ======================================================
// USE CASE
// ======================================================

type CreateQuoteRequest struct {
	deps Deps
}

func NewCreateQuoteRequest(deps Deps) *CreateQuoteRequest {
	return &CreateQuoteRequest{deps: deps}
}

// Execute opens a booking. Clients always book for themselves; admin and
// sales may book on behalf of a client id.
func (uc *CreateQuoteRequest) Execute(ctx context.Context, actor Actor, in CreateInput) (View, error) {
	switch actor.Role {
	case permission.RoleClient:
		in.ClientID = actor.Ref()
	case permission.RoleAdmin, permission.RoleSales:
	default:
		return View{}, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	b, err := uc.deps.Store.CreateQuoteRequest(ctx, domain.CreateQuoteRequest{
		ClientID:        in.ClientID,
		ClientName:      in.ClientName,
		ClientEmail:     in.ClientEmail,
		ClientPhone:     in.ClientPhone,
		ServiceType:     in.ServiceType,
		PropertyAddress: in.PropertyAddress,
		PickupAddress:   in.PickupAddress,
		ScheduledDate:   in.ScheduledDate,
		Urgency:         in.Urgency,
		Notes:           in.Notes,
	}, actor.Ref())
	if err != nil {
		return View{}, err
	}

	uc.deps.record(actor, lifecycle.ActionCreated, b.ID, map[string]any{
		"reference":       b.ReferenceNumber,
		"service_type":    b.ServiceType,
		"estimated_price": b.Quote.EstimatedPrice.StringFixed(2),
	})

	return newView(b, uc.deps.Resolver.ResolveFor(b, actor.Role)), nil
}
