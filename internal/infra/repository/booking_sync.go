package repository

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/lifecycle"
)

const saveTimeout = 5 * time.Second

// Persister writes every committed change through to repo. Only the latest
// snapshot of each booking in a batch is saved; it already carries the
// history of the earlier ones.
func Persister(repo booking.Repository, log *logrus.Entry) lifecycle.Listener {
	return func(changes []lifecycle.Change) {
		for _, b := range latestSnapshots(changes) {
			ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			err := repo.Save(ctx, b)
			cancel()

			if err != nil {
				log.WithFields(logrus.Fields{
					"booking_id": b.ID,
					"status":     b.Status,
				}).WithError(err).Error("failed to persist booking")
			}
		}
	}
}

func latestSnapshots(changes []lifecycle.Change) []booking.Booking {
	index := make(map[string]int, len(changes))
	out := make([]booking.Booking, 0, len(changes))

	for _, c := range changes {
		if i, ok := index[c.Booking.ID]; ok {
			out[i] = c.Booking
			continue
		}
		index[c.Booking.ID] = len(out)
		out = append(out, c.Booking)
	}
	return out
}

// Hydrate loads every stored booking into store.
func Hydrate(ctx context.Context, repo booking.Repository, store *lifecycle.Store) (int, error) {
	all, err := repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return store.Hydrate(all), nil
}
