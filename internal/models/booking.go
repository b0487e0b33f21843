package models

import "time"

// BookingRecord stores the full booking snapshot as a JSON document, with the
// columns needed for lookups promoted next to it.
type BookingRecord struct {
	ID              string `gorm:"primaryKey;size:36" json:"id"`
	ReferenceNumber string `gorm:"size:32;uniqueIndex;not null" json:"reference_number"`
	ClientID        string `gorm:"size:64;index" json:"client_id"`
	Status          string `gorm:"size:32;index" json:"status"`
	Document        string `gorm:"type:text;not null" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BookingStatusEvent is one append-only status history row.
type BookingStatusEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BookingID string    `gorm:"size:36;not null;uniqueIndex:idx_booking_event_seq" json:"booking_id"`
	Seq       int       `gorm:"not null;uniqueIndex:idx_booking_event_seq" json:"seq"`
	Status    string    `gorm:"size:32;not null" json:"status"`
	Actor     string    `gorm:"size:64" json:"actor"`
	Note      string    `gorm:"size:255" json:"note"`
	At        time.Time `json:"at"`
}
