package repository

import (
	"context"
	"encoding/json"
	"errors"
	"unicode/utf8"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
	"github.com/BruksfildServices01/clearance-booking/internal/models"
)

const maxNoteLen = 255

type BookingGormRepository struct {
	db *gorm.DB
}

var _ booking.Repository = (*BookingGormRepository)(nil)

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Write
// --------------------------------------------------

// Save upserts the snapshot and appends the history rows not stored yet.
// Existing history rows are never rewritten.
func (r *BookingGormRepository) Save(ctx context.Context, b booking.Booking) error {
	rec, err := toRecord(b)
	if err != nil {
		return err
	}
	events := toEvents(b)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "document", "updated_at"}),
		}).Create(&rec).Error; err != nil {
			return err
		}

		if len(events) == 0 {
			return nil
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "booking_id"}, {Name: "seq"}},
			DoNothing: true,
		}).Create(&events).Error
	})
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *BookingGormRepository) Get(ctx context.Context, id string) (*booking.Booking, error) {
	var rec models.BookingRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
		return nil, err
	}

	b, err := fromRecord(rec)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) List(ctx context.Context) ([]booking.Booking, error) {
	var recs []models.BookingRecord
	if err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&recs).Error; err != nil {
		return nil, err
	}

	out := make([]booking.Booking, 0, len(recs))
	for _, rec := range recs {
		b, err := fromRecord(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// History reads the stored status rows of one booking in order.
func (r *BookingGormRepository) History(ctx context.Context, id string) ([]models.BookingStatusEvent, error) {
	var events []models.BookingStatusEvent
	if err := r.db.WithContext(ctx).
		Where("booking_id = ?", id).
		Order("seq ASC").
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// --------------------------------------------------
// Mapping
// --------------------------------------------------

func toRecord(b booking.Booking) (models.BookingRecord, error) {
	doc, err := json.Marshal(b)
	if err != nil {
		return models.BookingRecord{}, err
	}

	return models.BookingRecord{
		ID:              b.ID,
		ReferenceNumber: b.ReferenceNumber,
		ClientID:        b.ClientID,
		Status:          string(b.Status),
		Document:        string(doc),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}, nil
}

func fromRecord(rec models.BookingRecord) (booking.Booking, error) {
	var b booking.Booking
	if err := json.Unmarshal([]byte(rec.Document), &b); err != nil {
		return booking.Booking{}, err
	}
	return b, nil
}

func toEvents(b booking.Booking) []models.BookingStatusEvent {
	events := make([]models.BookingStatusEvent, 0, len(b.StatusHistory))
	for i, e := range b.StatusHistory {
		note := truncateNote(e.Note)
		events = append(events, models.BookingStatusEvent{
			BookingID: b.ID,
			Seq:       i + 1,
			Status:    string(e.Status),
			Actor:     e.Actor,
			Note:      note,
			At:        e.At,
		})
	}
	return events
}

// truncateNote cuts note to at most maxNoteLen bytes without splitting a rune.
func truncateNote(note string) string {
	if len(note) <= maxNoteLen {
		return note
	}
	cut := maxNoteLen
	for cut > 0 && !utf8.RuneStart(note[cut]) {
		cut--
	}
	return note[:cut]
}
