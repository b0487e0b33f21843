package audit

import (
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
	block  chan struct{}
}

func (s *recordingSink) Log(ev Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func TestDispatcher_WritesQueuedEvents(t *testing.T) {
	sink := &recordingSink{}
	logger, _ := test.NewNullLogger()
	d := NewDispatcher(sink, logrus.NewEntry(logger))

	d.Dispatch(Event{Action: "booking_created", EntityID: "b-1"})
	d.Dispatch(Event{Action: "booking_submitted", EntityID: "b-1"})
	d.Close()

	require.Len(t, sink.events, 2)
	assert.Equal(t, "booking_created", sink.events[0].Action)
	assert.Equal(t, "booking_submitted", sink.events[1].Action)
}

func TestDispatcher_DropsWhenQueueFull(t *testing.T) {
	sink := &recordingSink{block: make(chan struct{})}
	logger, hook := test.NewNullLogger()
	d := NewDispatcher(sink, logrus.NewEntry(logger))

	// one event may be held by the worker, the rest fill the queue
	for i := 0; i < queueSize+5; i++ {
		d.Dispatch(Event{Action: "flood"})
	}

	close(sink.block)
	d.Close()

	assert.Less(t, len(sink.events), queueSize+5)
	assert.GreaterOrEqual(t, len(sink.events), queueSize)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "audit queue full, dropping event", hook.LastEntry().Message)
}

func TestDispatcher_LogsSinkErrors(t *testing.T) {
	sink := &recordingSink{err: errors.New("insert failed")}
	logger, hook := test.NewNullLogger()
	d := NewDispatcher(sink, logrus.NewEntry(logger))

	d.Dispatch(Event{Action: "booking_cancelled", EntityID: "b-9"})
	d.Close()

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Equal(t, "b-9", hook.LastEntry().Data["entity_id"])
}
