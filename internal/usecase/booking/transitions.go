package booking

import (
	"context"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
	"github.com/BruksfildServices01/clearance-booking/internal/lifecycle"
	"github.com/BruksfildServices01/clearance-booking/internal/permission"
)

// ======================================================
// SUBMIT FOR ADMIN REVIEW
// ======================================================

type SubmitForReview struct {
	deps Deps
}

func NewSubmitForReview(deps Deps) *SubmitForReview {
	return &SubmitForReview{deps: deps}
}

func (uc *SubmitForReview) Execute(ctx context.Context, actor Actor, id string) (View, error) {
	if _, _, err := uc.deps.authorize(ctx, actor, id, permission.ActionEdit); err != nil {
		return View{}, err
	}

	b, err := uc.deps.Store.SubmitForAdminReview(ctx, id, actor.Ref())
	if err != nil {
		return View{}, err
	}

	uc.deps.record(actor, lifecycle.ActionSubmitted, id, nil)
	return newView(b, uc.deps.Resolver.ResolveFor(b, actor.Role)), nil
}

// ======================================================
// ADMIN QUOTE
// ======================================================

type ProvideQuote struct {
	deps Deps
}

func NewProvideQuote(deps Deps) *ProvideQuote {
	return &ProvideQuote{deps: deps}
}

func (uc *ProvideQuote) Execute(
	ctx context.Context,
	actor Actor,
	id string,
	finalPrice decimal.Decimal,
	notes string,
) (View, error) {
	if _, _, err := uc.deps.authorize(ctx, actor, id, permission.ActionGenerateQuote); err != nil {
		return View{}, err
	}

	b, err := uc.deps.Store.AdminProvideQuote(ctx, id, finalPrice, notes, actor.Ref())
	if err != nil {
		return View{}, err
	}

	uc.deps.record(actor, lifecycle.ActionQuoteProvided, id, map[string]any{
		"final_price": finalPrice.StringFixed(2),
	})
	return newView(b, uc.deps.Resolver.ResolveFor(b, actor.Role)), nil
}

// ======================================================
// CLIENT APPROVAL
// ======================================================

type ApproveQuote struct {
	deps Deps
}

func NewApproveQuote(deps Deps) *ApproveQuote {
	return &ApproveQuote{deps: deps}
}

func (uc *ApproveQuote) Execute(ctx context.Context, actor Actor, id string) (View, error) {
	if _, _, err := uc.deps.authorize(ctx, actor, id, permission.ActionApproveQuote); err != nil {
		return View{}, err
	}

	b, err := uc.deps.Store.ClientApproveQuote(ctx, id, actor.Ref())
	if err != nil {
		return View{}, err
	}

	uc.deps.record(actor, lifecycle.ActionQuoteApproved, id, nil)
	return newView(b, uc.deps.Resolver.ResolveFor(b, actor.Role)), nil
}

// ======================================================
// PAYMENT
// ======================================================

type PayInput struct {
	Amount decimal.Decimal
	Method string
	Type   domain.PaymentType
}

type ProcessPayment struct {
	deps Deps
}

func NewProcessPayment(deps Deps) *ProcessPayment {
	return &ProcessPayment{deps: deps}
}

// Execute starts a payment. The payment type follows from the booking state:
// initial before work, final after admin review.
func (uc *ProcessPayment) Execute(ctx context.Context, actor Actor, id string, in PayInput) (View, error) {
	current, _, err := uc.deps.authorize(ctx, actor, id, permission.ActionPay)
	if err != nil {
		return View{}, err
	}

	expected := domain.PaymentFinal
	if current.Status == domain.StatusClientApproved {
		expected = domain.PaymentInitial
	}
	if in.Type != "" && in.Type != expected {
		return View{}, httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}

	b, err := uc.deps.Store.ProcessPayment(ctx, id, lifecycle.PaymentRequest{
		Amount: in.Amount,
		Method: in.Method,
		Type:   expected,
	}, actor.Ref())
	if err != nil {
		return View{}, err
	}

	uc.deps.record(actor, lifecycle.ActionPaymentStarted, id, map[string]any{
		"amount": in.Amount.StringFixed(2),
		"type":   expected,
		"method": in.Method,
	})
	return newView(b, uc.deps.Resolver.ResolveFor(b, actor.Role)), nil
}

// ======================================================
// CREW ASSIGNMENT
// ======================================================

type AssignCrew struct {
	deps Deps
}

func NewAssignCrew(deps Deps) *AssignCrew {
	return &AssignCrew{deps: deps}
}

func (uc *AssignCrew) Execute(ctx context.Context, actor Actor, id string, crewIDs []string) (View, error) {
	if _, _, err := uc.deps.authorize(ctx, actor, id, permission.ActionAssignCrew); err != nil {
		return View{}, err
	}

	if uc.deps.Crew != nil && len(crewIDs) > 0 {
		ok, err := uc.deps.Crew.AreCrew(ctx, crewIDs)
		if err != nil {
			return View{}, err
		}
		if !ok {
			return View{}, httperr.ErrBusiness("unknown_crew_member")
		}
	}

	b, err := uc.deps.Store.AssignCrew(ctx, id, crewIDs, actor.Ref())
	if err != nil {
		return View{}, err
	}

	uc.deps.record(actor, lifecycle.ActionCrewAssigned, id, map[string]any{
		"crew_ids": b.AssignedCrewIDs,
	})
	return newView(b, uc.deps.Resolver.ResolveFor(b, actor.Role)), nil
}

// ======================================================
// WORK
// ======================================================

type StartWork struct {
	deps Deps
}

func NewStartWork(deps Deps) *StartWork {
	return &StartWork{deps: deps}
}

func (uc *StartWork) Execute(ctx context.Context, actor Actor, id string) (View, error) {
	if _, _, err := uc.deps.authorize(ctx, actor, id, permission.ActionStartWork); err != nil {
		return View{}, err
	}

	b, err := uc.deps.Store.StartWork(ctx, id, actor.Ref())
	if err != nil {
		return View{}, err
	}

	uc.deps.record(actor, lifecycle.ActionWorkStarted, id, nil)
	return newView(b, uc.deps.Resolver.ResolveFor(b, actor.Role)), nil
}

type CompleteWork struct {
	deps Deps
}

func NewCompleteWork(deps Deps) *CompleteWork {
	return &CompleteWork{deps: deps}
}

func (uc *CompleteWork) Execute(ctx context.Context, actor Actor, id string) (View, error) {
	if _, _, err := uc.deps.authorize(ctx, actor, id, permission.ActionCompleteWork); err != nil {
		return View{}, err
	}

	b, err := uc.deps.Store.CompleteWork(ctx, id, actor.Ref())
	if err != nil {
		return View{}, err
	}

	uc.deps.record(actor, lifecycle.ActionWorkCompleted, id, nil)
	return newView(b, uc.deps.Resolver.ResolveFor(b, actor.Role)), nil
}

// ======================================================
// ADMIN REVIEW
// ======================================================

type ReviewWork struct {
	deps Deps
}

func NewReviewWork(deps Deps) *ReviewWork {
	return &ReviewWork{deps: deps}
}

func (uc *ReviewWork) Execute(
	ctx context.Context,
	actor Actor,
	id string,
	finalAmount decimal.Decimal,
	notes string,
) (View, error) {
	if _, _, err := uc.deps.authorize(ctx, actor, id, permission.ActionReview); err != nil {
		return View{}, err
	}

	b, err := uc.deps.Store.AdminReviewWork(ctx, id, finalAmount, notes, actor.Ref())
	if err != nil {
		return View{}, err
	}

	uc.deps.record(actor, lifecycle.ActionWorkReviewed, id, map[string]any{
		"final_amount": finalAmount.StringFixed(2),
		"outstanding":  b.Outstanding().StringFixed(2),
		"status":       b.Status,
	})
	return newView(b, uc.deps.Resolver.ResolveFor(b, actor.Role)), nil
}

// ======================================================
// CANCEL / REFUND
// ======================================================

type CancelBooking struct {
	deps Deps
}

func NewCancelBooking(deps Deps) *CancelBooking {
	return &CancelBooking{deps: deps}
}

func (uc *CancelBooking) Execute(ctx context.Context, actor Actor, id, reason string) (View, error) {
	if _, _, err := uc.deps.authorize(ctx, actor, id, permission.ActionCancel); err != nil {
		return View{}, err
	}

	b, err := uc.deps.Store.CancelBooking(ctx, id, reason, actor.Ref())
	if err != nil {
		return View{}, err
	}

	uc.deps.record(actor, lifecycle.ActionCancelled, id, map[string]any{
		"reason": b.CancellationReason,
	})
	return newView(b, uc.deps.Resolver.ResolveFor(b, actor.Role)), nil
}

type ProcessRefund struct {
	deps Deps
}

func NewProcessRefund(deps Deps) *ProcessRefund {
	return &ProcessRefund{deps: deps}
}

func (uc *ProcessRefund) Execute(ctx context.Context, actor Actor, id string, amount decimal.Decimal) (View, error) {
	if _, _, err := uc.deps.authorize(ctx, actor, id, permission.ActionRefund); err != nil {
		return View{}, err
	}

	b, err := uc.deps.Store.ProcessRefund(ctx, id, amount, actor.Ref())
	if err != nil {
		return View{}, err
	}

	uc.deps.record(actor, lifecycle.ActionRefundProcessed, id, map[string]any{
		"amount": amount.StringFixed(2),
	})
	return newView(b, uc.deps.Resolver.ResolveFor(b, actor.Role)), nil
}

// ======================================================
// CAPABILITIES
// ======================================================

type GetCapabilities struct {
	deps Deps
}

func NewGetCapabilities(deps Deps) *GetCapabilities {
	return &GetCapabilities{deps: deps}
}

// Execute resolves the actor's capabilities. Bookings the actor cannot see
// report not found rather than an all-false record.
func (uc *GetCapabilities) Execute(ctx context.Context, actor Actor, id string) (permission.Capabilities, error) {
	b, err := uc.deps.Store.Get(ctx, id)
	if err != nil {
		return permission.Capabilities{}, err
	}
	if !visible(actor, b) {
		return permission.Capabilities{}, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return uc.deps.Resolver.ResolveFor(b, actor.Role), nil
}
