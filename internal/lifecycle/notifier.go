package lifecycle

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clearance-booking/internal/domain/booking"
)

// Change names the actions recorded on every committed mutation.
const (
	ActionCreated         = "booking_created"
	ActionSubmitted       = "booking_submitted"
	ActionQuoteProvided   = "quote_provided"
	ActionQuoteApproved   = "quote_approved"
	ActionPaymentStarted  = "payment_started"
	ActionPaymentSettled  = "payment_settled"
	ActionPaymentFailed   = "payment_failed"
	ActionCrewAssigned    = "crew_assigned"
	ActionWorkStarted     = "work_started"
	ActionWorkCompleted   = "work_completed"
	ActionWorkReviewed    = "work_reviewed"
	ActionCancelled       = "booking_cancelled"
	ActionRefundProcessed = "refund_processed"
)

// Change is one committed mutation. Booking is a snapshot taken at commit time.
type Change struct {
	Booking  booking.Booking
	Previous booking.Status
	Action   string
	Actor    string
	At       time.Time
}

type Listener func(changes []Change)

type subscription struct {
	id int
	fn Listener
}

// Notifier coalesces changes published within one scheduler turn into a
// single delivery per listener.
type Notifier struct {
	mu        sync.Mutex
	deliverMu sync.Mutex
	scheduler Scheduler
	log       *logrus.Entry

	subs      []subscription
	nextID    int
	pending   []Change
	scheduled bool
}

func NewNotifier(scheduler Scheduler, log *logrus.Entry) *Notifier {
	return &Notifier{scheduler: scheduler, log: log}
}

// Subscribe registers l and returns a function that removes it.
func (n *Notifier) Subscribe(l Listener) func() {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.subs = append(n.subs, subscription{id: id, fn: l})
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, s := range n.subs {
			if s.id == id {
				n.subs = append(n.subs[:i:i], n.subs[i+1:]...)
				return
			}
		}
	}
}

func (n *Notifier) Publish(c Change) {
	n.mu.Lock()
	n.pending = append(n.pending, c)
	if n.scheduled {
		n.mu.Unlock()
		return
	}
	n.scheduled = true
	n.mu.Unlock()

	n.scheduler.Schedule(n.flush)
}

// flush delivers batches one at a time and in publish order, even when the
// scheduler runs flushes on separate goroutines.
func (n *Notifier) flush() {
	n.deliverMu.Lock()
	defer n.deliverMu.Unlock()

	n.mu.Lock()
	batch := n.pending
	n.pending = nil
	n.scheduled = false
	subs := append([]subscription(nil), n.subs...)
	n.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	for _, s := range subs {
		n.deliver(s, append([]Change(nil), batch...))
	}
}

func (n *Notifier) deliver(s subscription, batch []Change) {
	defer func() {
		if r := recover(); r != nil {
			n.log.WithFields(logrus.Fields{
				"listener": s.id,
				"changes":  len(batch),
				"panic":    r,
			}).Error("change listener panicked")
		}
	}()
	s.fn(batch)
}
