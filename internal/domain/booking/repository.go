package booking

import "context"

// Repository is the durable backing for the in-memory lifecycle store:
// get-by-id, full snapshot save (status history included) and list for hydration.
type Repository interface {
	Save(ctx context.Context, b Booking) error
	Get(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context) ([]Booking, error)
}
