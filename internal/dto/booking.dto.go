package dto

import (
	"time"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/permission"
)

type BookingDTO struct {
	Booking      booking.Booking         `json:"booking"`
	Capabilities permission.Capabilities `json:"capabilities"`
	FlowStatus   booking.FlowStatus      `json:"flowStatus"`
}

type BookingListDTO struct {
	ID              string             `json:"id"`
	ReferenceNumber string             `json:"referenceNumber"`
	ClientName      string             `json:"clientName"`
	ServiceType     string             `json:"serviceType"`
	ScheduledDate   time.Time          `json:"scheduledDate"`
	Urgency         booking.Urgency    `json:"urgency"`
	Status          booking.Status     `json:"status"`
	FlowStatus      booking.FlowStatus `json:"flowStatus"`
	Price           string             `json:"price,omitempty"`
	AssignedCrewIDs []string           `json:"assignedCrewIds,omitempty"`
}

// NewBookingListDTO leaves Price empty when the viewer may not see pricing.
func NewBookingListDTO(b booking.Booking, caps permission.Capabilities) BookingListDTO {
	item := BookingListDTO{
		ID:              b.ID,
		ReferenceNumber: b.ReferenceNumber,
		ClientName:      b.ClientName,
		ServiceType:     b.ServiceType,
		ScheduledDate:   b.ScheduledDate,
		Urgency:         b.Urgency,
		Status:          b.Status,
		FlowStatus:      b.Status.Flow(),
		AssignedCrewIDs: b.AssignedCrewIDs,
	}
	if caps.CanViewPricing {
		item.Price = b.Quote.Price().StringFixed(2)
	}
	return item
}
