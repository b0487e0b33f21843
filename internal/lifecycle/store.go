package lifecycle

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
	"github.com/BruksfildServices01/clearance-booking/internal/httperr"
)

const (
	DefaultQuoteValidity = 30 * 24 * time.Hour
	DefaultSettleTimeout = 30 * time.Second
	DefaultDebounce      = 16 * time.Millisecond

	referencePrefix = "CLR"
)

// Runner starts payment settlement work.
type Runner func(fn func())

func goRunner(fn func()) { go fn() }

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func WithScheduler(sch Scheduler) Option {
	return func(s *Store) { s.scheduler = sch }
}

func WithGateway(gw booking.Gateway) Option {
	return func(s *Store) { s.gateway = gw }
}

func WithRunner(r Runner) Option {
	return func(s *Store) { s.runner = r }
}

func WithQuoteValidity(d time.Duration) Option {
	return func(s *Store) { s.quoteValidity = d }
}

func WithSettleTimeout(d time.Duration) Option {
	return func(s *Store) { s.settleTimeout = d }
}

func WithLogger(log *logrus.Entry) Option {
	return func(s *Store) { s.log = log }
}

// Store is the system of record for bookings. Every read returns a copy;
// every write goes through a transition method.
type Store struct {
	mu       sync.Mutex
	bookings map[string]*booking.Booking
	order    []string
	seq      int

	now           func() time.Time
	newID         func() string
	scheduler     Scheduler
	gateway       booking.Gateway
	runner        Runner
	quoteValidity time.Duration
	settleTimeout time.Duration
	log           *logrus.Entry

	notifier *Notifier
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		bookings:      make(map[string]*booking.Booking),
		now:           time.Now,
		newID:         uuid.NewString,
		scheduler:     DelayScheduler{Delay: DefaultDebounce},
		runner:        goRunner,
		quoteValidity: DefaultQuoteValidity,
		settleTimeout: DefaultSettleTimeout,
		log:           logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.log = s.log.WithField("component", "lifecycle")
	s.notifier = NewNotifier(s.scheduler, s.log)
	return s
}

// Subscribe registers a listener for committed changes.
func (s *Store) Subscribe(l Listener) func() {
	return s.notifier.Subscribe(l)
}

// ===============================
// Reads
// ===============================

type Filter struct {
	Status   booking.Status
	ClientID string
	CrewID   string
}

func (f Filter) match(b *booking.Booking) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.ClientID != "" && b.ClientID != f.ClientID {
		return false
	}
	if f.CrewID != "" && !b.HasCrewMember(f.CrewID) {
		return false
	}
	return true
}

func (s *Store) Get(ctx context.Context, id string) (booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return booking.Booking{}, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return b.Clone(), nil
}

// List returns matching bookings in creation order.
func (s *Store) List(ctx context.Context, f Filter) []booking.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]booking.Booking, 0, len(s.order))
	for _, id := range s.order {
		b := s.bookings[id]
		if f.match(b) {
			out = append(out, b.Clone())
		}
	}
	return out
}

func (s *Store) History(ctx context.Context, id string) ([]booking.HistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return append([]booking.HistoryEntry(nil), b.StatusHistory...), nil
}

// CountByStatus returns the number of bookings in every status, zeros included.
func (s *Store) CountByStatus(ctx context.Context) map[booking.Status]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[booking.Status]int, len(booking.AllStatuses))
	for _, st := range booking.AllStatuses {
		counts[st] = 0
	}
	for _, b := range s.bookings {
		counts[b.Status]++
	}
	return counts
}

// Hydrate loads previously persisted bookings without notifying listeners.
// Bookings whose id is already present are skipped. Returns how many were loaded.
func (s *Store) Hydrate(bookings []booking.Booking) int {
	sorted := append([]booking.Booking(nil), bookings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := 0
	for _, b := range sorted {
		if b.ID == "" {
			continue
		}
		if _, exists := s.bookings[b.ID]; exists {
			continue
		}
		if n := len(b.StatusHistory); n == 0 || b.StatusHistory[n-1].Status != b.Status {
			s.log.WithField("booking_id", b.ID).Warn("skipping booking with inconsistent status history")
			continue
		}

		c := b.Clone()
		s.bookings[c.ID] = &c
		s.order = append(s.order, c.ID)
		if n := referenceSeq(c.ReferenceNumber); n > s.seq {
			s.seq = n
		}
		loaded++
	}
	return loaded
}

// ===============================
// Mutation plumbing
// ===============================

// mutate applies fn to a working copy and commits it only when fn succeeds,
// so a failed transition never leaves a partial write behind.
func (s *Store) mutate(
	ctx context.Context,
	id string,
	action string,
	actor string,
	fn func(b *booking.Booking, now time.Time) error,
) (booking.Booking, error) {
	if err := ctx.Err(); err != nil {
		return booking.Booking{}, err
	}

	s.mu.Lock()
	current, ok := s.bookings[id]
	if !ok {
		s.mu.Unlock()
		return booking.Booking{}, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	work := current.Clone()
	previous := work.Status
	now := s.now()

	if err := fn(&work, now); err != nil {
		s.mu.Unlock()
		return booking.Booking{}, err
	}

	work.UpdatedAt = now
	*current = work
	out := work.Clone()

	// published under the lock so listeners see commits in commit order
	s.notifier.Publish(Change{
		Booking:  out.Clone(),
		Previous: previous,
		Action:   action,
		Actor:    actor,
		At:       now,
	})
	s.mu.Unlock()

	return out, nil
}

func (s *Store) insert(b booking.Booking, actor string) booking.Booking {
	s.mu.Lock()
	s.seq++
	b.ReferenceNumber = formatReference(b.CreatedAt, s.seq)
	stored := b.Clone()
	s.bookings[b.ID] = &stored
	s.order = append(s.order, b.ID)
	out := stored.Clone()

	s.notifier.Publish(Change{
		Booking: out.Clone(),
		Action:  ActionCreated,
		Actor:   actor,
		At:      b.CreatedAt,
	})
	s.mu.Unlock()
	return out
}

// record moves b to status and appends the matching history entry.
// Timestamps never go backwards within one booking.
func record(b *booking.Booking, status booking.Status, at time.Time, actor, note string) {
	if n := len(b.StatusHistory); n > 0 {
		if last := b.StatusHistory[n-1].At; at.Before(last) {
			at = last
		}
	}
	b.Status = status
	b.StatusHistory = append(b.StatusHistory, booking.HistoryEntry{
		Status: status,
		At:     at,
		Actor:  actor,
		Note:   note,
	})
}

func requireStatus(b *booking.Booking, want booking.Status) error {
	if b.Status != want {
		return httperr.ErrBusiness(httperr.CodeInvalidState)
	}
	return nil
}

func formatReference(at time.Time, seq int) string {
	return fmt.Sprintf("%s-%s-%04d", referencePrefix, at.Format("20060102"), seq)
}

// referenceSeq extracts the trailing sequence of a reference number, 0 when absent.
func referenceSeq(ref string) int {
	i := strings.LastIndexByte(ref, '-')
	if i < 0 || !strings.HasPrefix(ref, referencePrefix+"-") {
		return 0
	}
	n, err := strconv.Atoi(ref[i+1:])
	if err != nil {
		return 0
	}
	return n
}
