package booking

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
)

var validate = validator.New()

// CreateQuoteRequest carries everything needed to open a booking with a system quote.
type CreateQuoteRequest struct {
	ClientID    string
	ClientName  string
	ClientEmail string
	ClientPhone string

	ServiceType     string
	PropertyAddress string
	PickupAddress   string
	ScheduledDate   time.Time
	Urgency         Urgency
	Notes           string
}

// Normalize trims the free-text fields and defaults the urgency.
func (r *CreateQuoteRequest) Normalize() {
	r.ClientID = strings.TrimSpace(r.ClientID)
	r.ClientName = strings.TrimSpace(r.ClientName)
	r.ClientEmail = strings.ToLower(strings.TrimSpace(r.ClientEmail))
	r.ClientPhone = strings.TrimSpace(r.ClientPhone)
	r.ServiceType = strings.ToLower(strings.TrimSpace(r.ServiceType))
	r.PropertyAddress = strings.TrimSpace(r.PropertyAddress)
	r.PickupAddress = strings.TrimSpace(r.PickupAddress)
	r.Notes = strings.TrimSpace(r.Notes)
	if r.Urgency == "" {
		r.Urgency = UrgencyStandard
	}
}

func (r CreateQuoteRequest) Validate() error {
	if r.ClientID == "" || r.ClientName == "" || r.PropertyAddress == "" {
		return httperr.ErrBusiness(httperr.CodeInvalidRequest)
	}
	if err := validate.Var(r.ClientEmail, "required,email"); err != nil {
		return httperr.ErrBusiness("invalid_email")
	}
	if !r.Urgency.Valid() {
		return httperr.ErrBusiness("invalid_urgency")
	}
	if !IsKnownServiceType(r.ServiceType) {
		return httperr.ErrBusiness(httperr.CodeUnknownServiceType)
	}
	if r.ScheduledDate.IsZero() {
		return httperr.ErrBusiness("invalid_date")
	}
	return nil
}
