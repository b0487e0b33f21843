package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/dto"
	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
	"github.com/BruksfildServices01/clearance-booking/internal/httpresp"
	"github.com/BruksfildServices01/clearance-booking/internal/middleware"
	"github.com/BruksfildServices01/clearance-booking/internal/permission"
	ucBooking "github.com/BruksfildServices01/clearance-booking/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	uc       *ucBooking.UseCases
	timezone string
}

func NewBookingHandler(uc *ucBooking.UseCases, tz string) *BookingHandler {
	return &BookingHandler{uc: uc, timezone: tz}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ClientID    string `json:"clientId"`
	ClientName  string `json:"clientName" binding:"required"`
	ClientEmail string `json:"clientEmail" binding:"required,email"`
	ClientPhone string `json:"clientPhone"`

	ServiceType     string `json:"serviceType" binding:"required"`
	PropertyAddress string `json:"propertyAddress" binding:"required"`
	PickupAddress   string `json:"pickupAddress"`
	ScheduledDate   string `json:"scheduledDate" binding:"required"`
	Urgency         string `json:"urgency"`
	Notes           string `json:"notes"`
}

type QuoteRequest struct {
	FinalPrice decimal.Decimal `json:"finalPrice"`
	Notes      string          `json:"notes"`
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Type   string          `json:"type"`
}

type CrewRequest struct {
	CrewIDs []string `json:"crewIds" binding:"required"`
}

type ReviewRequest struct {
	FinalAmount decimal.Decimal `json:"finalAmount"`
	Notes       string          `json:"notes"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type RefundRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ======================================================
// HELPERS
// ======================================================

func actorFrom(c *gin.Context) ucBooking.Actor {
	return ucBooking.Actor{
		UserID: c.MustGet(middleware.ContextUserID).(uint),
		Role:   c.MustGet(middleware.ContextUserRole).(permission.Role),
	}
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Invalid request body.")
		return false
	}
	return true
}

func toDTO(v ucBooking.View) dto.BookingDTO {
	return dto.BookingDTO{
		Booking:      v.Booking,
		Capabilities: v.Capabilities,
		FlowStatus:   v.FlowStatus,
	}
}

func respond(c *gin.Context, v ucBooking.View, err error) {
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, toDTO(v))
}

// ======================================================
// READ
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	in := ucBooking.ListInput{ClientID: c.Query("clientId")}

	if s := c.Query("status"); s != "" {
		status, err := domain.ParseStatus(s)
		if err != nil {
			httperr.FromError(c, err)
			return
		}
		in.Status = status
	}

	views, err := h.uc.List.Execute(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	items := make([]dto.BookingListDTO, 0, len(views))
	for _, v := range views {
		items = append(items, dto.NewBookingListDTO(v.Booking, v.Capabilities))
	}
	httpresp.List(c, items)
}

func (h *BookingHandler) Stats(c *gin.Context) {
	counts, err := h.uc.Stats.Execute(c.Request.Context(), actorFrom(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, gin.H{"byStatus": counts})
}

func (h *BookingHandler) Get(c *gin.Context) {
	v, err := h.uc.Get.Execute(c.Request.Context(), actorFrom(c), c.Param("id"))
	respond(c, v, err)
}

func (h *BookingHandler) Permissions(c *gin.Context) {
	caps, err := h.uc.Capabilities.Execute(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, caps)
}

func (h *BookingHandler) History(c *gin.Context) {
	history, err := h.uc.History.Execute(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, history)
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if !bind(c, &req) {
		return
	}

	scheduled, err := parseScheduledDate(h.timezone, req.ScheduledDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid scheduled date.")
		return
	}

	urgency := domain.Urgency(req.Urgency)
	if urgency == "" {
		urgency = domain.UrgencyStandard
	}

	v, err := h.uc.Create.Execute(c.Request.Context(), actorFrom(c), ucBooking.CreateInput{
		ClientID:        req.ClientID,
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		ClientPhone:     req.ClientPhone,
		ServiceType:     req.ServiceType,
		PropertyAddress: req.PropertyAddress,
		PickupAddress:   req.PickupAddress,
		ScheduledDate:   scheduled,
		Urgency:         urgency,
		Notes:           req.Notes,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, toDTO(v))
}

// ======================================================
// TRANSITIONS
// ======================================================

func (h *BookingHandler) Submit(c *gin.Context) {
	v, err := h.uc.Submit.Execute(c.Request.Context(), actorFrom(c), c.Param("id"))
	respond(c, v, err)
}

func (h *BookingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if !bind(c, &req) {
		return
	}
	v, err := h.uc.Quote.Execute(c.Request.Context(), actorFrom(c), c.Param("id"), req.FinalPrice, req.Notes)
	respond(c, v, err)
}

func (h *BookingHandler) Approve(c *gin.Context) {
	v, err := h.uc.Approve.Execute(c.Request.Context(), actorFrom(c), c.Param("id"))
	respond(c, v, err)
}

// Pay answers 202: the gateway settles the payment asynchronously and the
// outcome shows up on the booking's payments.
func (h *BookingHandler) Pay(c *gin.Context) {
	var req PaymentRequest
	if !bind(c, &req) {
		return
	}

	paymentType := domain.PaymentType(req.Type)
	if paymentType != "" && !paymentType.Valid() {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "Unknown payment type.")
		return
	}

	v, err := h.uc.Pay.Execute(c.Request.Context(), actorFrom(c), c.Param("id"), ucBooking.PayInput{
		Amount: req.Amount,
		Method: req.Method,
		Type:   paymentType,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Accepted(c, toDTO(v))
}

func (h *BookingHandler) AssignCrew(c *gin.Context) {
	var req CrewRequest
	if !bind(c, &req) {
		return
	}
	v, err := h.uc.AssignCrew.Execute(c.Request.Context(), actorFrom(c), c.Param("id"), req.CrewIDs)
	respond(c, v, err)
}

func (h *BookingHandler) Start(c *gin.Context) {
	v, err := h.uc.StartWork.Execute(c.Request.Context(), actorFrom(c), c.Param("id"))
	respond(c, v, err)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	v, err := h.uc.CompleteWork.Execute(c.Request.Context(), actorFrom(c), c.Param("id"))
	respond(c, v, err)
}

func (h *BookingHandler) Review(c *gin.Context) {
	var req ReviewRequest
	if !bind(c, &req) {
		return
	}
	v, err := h.uc.Review.Execute(c.Request.Context(), actorFrom(c), c.Param("id"), req.FinalAmount, req.Notes)
	respond(c, v, err)
}

// Cancel accepts an empty body.
func (h *BookingHandler) Cancel(c *gin.Context) {
	var req CancelRequest
	if c.Request.ContentLength > 0 && !bind(c, &req) {
		return
	}
	v, err := h.uc.Cancel.Execute(c.Request.Context(), actorFrom(c), c.Param("id"), req.Reason)
	respond(c, v, err)
}

func (h *BookingHandler) Refund(c *gin.Context) {
	var req RefundRequest
	if !bind(c, &req) {
		return
	}
	v, err := h.uc.Refund.Execute(c.Request.Context(), actorFrom(c), c.Param("id"), req.Amount)
	respond(c, v, err)
}
