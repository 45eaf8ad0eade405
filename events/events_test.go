package events

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// TestEventPublishingAndSubscribing creates EventEmitter objects, subscribes EventHandler callbacks to them, and
// ensures that the events are received as intended.
func TestEventPublishingAndSubscribing(t *testing.T) {
	type fileEvent struct{ path string }

	emitter1 := EventEmitter[fileEvent]{}
	emitter2 := EventEmitter[fileEvent]{}

	received := make([]string, 0)
	emitter1.Subscribe(func(event fileEvent) error {
		received = append(received, "first:"+event.path)
		return nil
	})
	emitter1.Subscribe(func(event fileEvent) error {
		received = append(received, "second:"+event.path)
		return nil
	})
	assert.Equal(t, 2, emitter1.SubscriptionCount())
	assert.Equal(t, 0, emitter2.SubscriptionCount())

	assert.NoError(t, emitter1.Publish(fileEvent{"A.sol"}))
	assert.NoError(t, emitter2.Publish(fileEvent{"B.sol"}))
	assert.Equal(t, []string{"first:A.sol", "second:A.sol"}, received)
}

// TestEventHandlerError ensures a failing handler stops publishing and surfaces its error.
func TestEventHandlerError(t *testing.T) {
	emitter := EventEmitter[int]{}
	handlerErr := errors.New("rejected")

	calls := 0
	emitter.Subscribe(func(int) error {
		calls++
		return handlerErr
	})
	emitter.Subscribe(func(int) error {
		calls++
		return nil
	})

	err := emitter.Publish(1)
	assert.ErrorIs(t, err, handlerErr)
	assert.Equal(t, 1, calls)
}
