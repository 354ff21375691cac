package events

import (
	"sync/atomic"
	"testing"

	"github.com/go-errors/errors"
	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()

	var first, second int32
	bus.Subscribe("FEEDBACK_CREATION", func(p interface{}) error {
		atomic.AddInt32(&first, 1)
		return nil
	})
	bus.Subscribe("FEEDBACK_CREATION", func(p interface{}) error {
		atomic.AddInt32(&second, 1)
		return nil
	})

	bus.Publish("FEEDBACK_CREATION", FeedbackCreated{FeedbackID: uuid.NewV4()})
	bus.Drain()

	assert.EqualValues(t, 1, atomic.LoadInt32(&first))
	assert.EqualValues(t, 1, atomic.LoadInt32(&second))
}

func TestBusIgnoresUnsubscribedTypes(t *testing.T) {
	bus := NewBus()

	var calls int32
	bus.Subscribe("ISSUE_CREATION", func(p interface{}) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	bus.Publish("FEEDBACK_CREATION", FeedbackCreated{})
	bus.Drain()

	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestBusSwallowsHandlerErrors(t *testing.T) {
	bus := NewBus()

	bus.Subscribe("ISSUE_CREATION", func(p interface{}) error {
		return errors.Errorf("handler blew up")
	})

	var calls int32
	bus.Subscribe("ISSUE_CREATION", func(p interface{}) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	// a failing handler never affects its siblings or the publisher
	bus.Publish("ISSUE_CREATION", IssueCreated{IssueID: uuid.NewV4()})
	bus.Drain()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}
