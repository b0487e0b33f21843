package audit

import "github.com/sirupsen/logrus"

const queueSize = 100

type Event struct {
	UserID   *uint
	Role     string
	Action   string
	Entity   string
	EntityID string
	Metadata any
}

// Sink persists one audit event.
type Sink interface {
	Log(ev Event) error
}

type Dispatcher struct {
	sink  Sink
	queue chan Event
	done  chan struct{}
	log   *logrus.Entry
}

func NewDispatcher(sink Sink, log *logrus.Entry) *Dispatcher {
	d := &Dispatcher{
		sink:  sink,
		queue: make(chan Event, queueSize),
		done:  make(chan struct{}),
		log:   log.WithField("component", "audit"),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Log(ev); err != nil {
			d.log.WithFields(logrus.Fields{
				"action":    ev.Action,
				"entity_id": ev.EntityID,
			}).WithError(err).Error("audit write failed")
		}
	}
}

// Dispatch never blocks the request path: when the queue is full the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		d.log.WithField("action", ev.Action).Warn("audit queue full, dropping event")
	}
}

// Close stops accepting events and waits for the queued ones to be written.
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
