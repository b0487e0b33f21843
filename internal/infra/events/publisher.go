package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/lifecycle"
)

const publishTimeout = 2 * time.Second

// Message is the JSON payload published for every committed change.
type Message struct {
	BookingID       string             `json:"bookingId"`
	ReferenceNumber string             `json:"referenceNumber"`
	ClientID        string             `json:"clientId"`
	Action          string             `json:"action"`
	Previous        booking.Status     `json:"previousStatus,omitempty"`
	Status          booking.Status     `json:"status"`
	FlowStatus      booking.FlowStatus `json:"flowStatus"`
	Actor           string             `json:"actor"`
	At              time.Time          `json:"at"`
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

type Publisher struct {
	client  publisher
	channel string
	log     *logrus.Entry
}

func NewPublisher(client publisher, channel string, log *logrus.Entry) *Publisher {
	return &Publisher{
		client:  client,
		channel: channel,
		log:     log.WithField("component", "events"),
	}
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

func NewMessage(c lifecycle.Change) Message {
	return Message{
		BookingID:       c.Booking.ID,
		ReferenceNumber: c.Booking.ReferenceNumber,
		ClientID:        c.Booking.ClientID,
		Action:          c.Action,
		Previous:        c.Previous,
		Status:          c.Booking.Status,
		FlowStatus:      c.Booking.Status.Flow(),
		Actor:           c.Actor,
		At:              c.At,
	}
}

// Listener publishes one message per change, in order.
func (p *Publisher) Listener() lifecycle.Listener {
	return func(changes []lifecycle.Change) {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		for _, c := range changes {
			if err := p.Publish(ctx, NewMessage(c)); err != nil {
				p.log.WithFields(logrus.Fields{
					"booking_id": c.Booking.ID,
					"action":     c.Action,
				}).WithError(err).Warn("failed to publish booking change")
			}
		}
	}
}

func (p *Publisher) Publish(ctx context.Context, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.client.Publish(ctx, p.channel, payload).Err()
}
