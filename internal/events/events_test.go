package events

import (
	"testing"
	"time"

	"hostelhub/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_LocalDelivery(t *testing.T) {
	bus := New(nil, config.Config{})
	defer bus.Close()

	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe(SERVICE_REQUEST_CHANNEL, func(event Event) error {
		received <- event
		return nil
	}))

	recipient := uuid.New()
	err := bus.Publish(SERVICE_REQUEST_CHANNEL, Event{
		Type:    SERVICE_REQUEST_CREATED,
		UserIDs: []uuid.UUID{recipient},
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.NotEmpty(t, event.ID)
		assert.False(t, event.Timestamp.IsZero())
		assert.Equal(t, SERVICE_REQUEST_CHANNEL, event.Channel)
		assert.Equal(t, []uuid.UUID{recipient}, event.UserIDs)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestEventBus_OtherChannelsIgnored(t *testing.T) {
	bus := New(nil, config.Config{})
	defer bus.Close()

	received := make(chan Event, 1)
	require.NoError(t, bus.Subscribe("other", func(event Event) error {
		received <- event
		return nil
	}))

	require.NoError(t, bus.Publish(SERVICE_REQUEST_CHANNEL, Event{Type: SERVICE_REQUEST_FEEDBACK}))

	select {
	case <-received:
		t.Fatal("handler on another channel was called")
	case <-time.After(50 * time.Millisecond):
	}
}
