package events

import "github.com/pkg/errors"

// EventHandler defines a function type where its input type is the generic type. Returning an error aborts the
// operation which published the event.
type EventHandler[T any] func(T) error

// EventEmitter describes a provider which can subscribe EventHandler methods for callback when the event type (generic)
// is published. It additionally provides methods for publishing events. The zero value is ready for use.
type EventEmitter[T any] struct {
	// subscriptions defines the EventHandler methods which should be invoked when a new event is published to this
	// emitter.
	subscriptions []EventHandler[T]
}

// Publish emits the provided event by calling every EventHandler subscribed, in subscription order. The first error
// returned by a handler stops the remaining handlers from being called and is returned.
func (e *EventEmitter[T]) Publish(event T) error {
	for _, subscription := range e.subscriptions {
		if err := subscription(event); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

// Subscribe adds an EventHandler to the list of subscribed EventHandler objects for this emitter. When an event is
// published, the callback will be triggered with the event data.
func (e *EventEmitter[T]) Subscribe(callback EventHandler[T]) {
	e.subscriptions = append(e.subscriptions, callback)
}

// SubscriptionCount returns the number of EventHandler objects subscribed to this emitter.
func (e *EventEmitter[T]) SubscriptionCount() int {
	return len(e.subscriptions)
}
