package events

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	t.Run("SubscribeAndPublish", func(t *testing.T) {
		bus := NewEventBus()
		var received []*Event
		bus.Subscribe(EventBookingCreated, func(ev *Event) error {
			received = append(received, ev)
			return nil
		})

		bus.Publish(&Event{Type: EventBookingCreated, Payload: []byte(`{}`)})
		require.Len(t, received, 1)
		assert.False(t, received[0].CreatedAt.IsZero())
	})

	t.Run("MultipleSubscribers", func(t *testing.T) {
		bus := NewEventBus()
		calls := 0
		for i := 0; i < 3; i++ {
			bus.Subscribe(EventBookingCancelled, func(*Event) error {
				calls++
				return nil
			})
		}

		bus.Publish(&Event{Type: EventBookingCancelled})
		assert.Equal(t, 3, calls)
	})

	t.Run("UnrelatedTypeNotDelivered", func(t *testing.T) {
		bus := NewEventBus()
		called := false
		bus.Subscribe(EventBookingCreated, func(*Event) error {
			called = true
			return nil
		})

		bus.Publish(&Event{Type: EventBookingCancelled})
		assert.False(t, called)
	})

	t.Run("PublishJSONSerializesPayload", func(t *testing.T) {
		bus := NewEventBus()
		var got BookingEventPayload
		bus.Subscribe(EventBookingCreated, func(ev *Event) error {
			return json.Unmarshal(ev.Payload, &got)
		})

		payload := BookingEventPayload{BookingID: "b1", CourtName: "Premium Tennis Court A", TotalAmount: 143}
		require.NoError(t, bus.PublishJSON(EventBookingCreated, payload))
		assert.Equal(t, "b1", got.BookingID)
		assert.Equal(t, 143.0, got.TotalAmount)
	})

	t.Run("PublishJSONRejectsUnserializable", func(t *testing.T) {
		bus := NewEventBus()
		assert.Error(t, bus.PublishJSON(EventBookingCreated, func() {}))
	})

	t.Run("NilBusIsNoop", func(t *testing.T) {
		var bus *EventBus
		assert.NoError(t, bus.PublishJSON(EventBookingCreated, BookingEventPayload{}))
	})
}
