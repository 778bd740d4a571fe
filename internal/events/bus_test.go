package events_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tluanga-dev/rental-manager-sub009/internal/events"
)

type stubStore struct {
	inserted []events.Event
}

func (s *stubStore) InsertEvent(_ context.Context, event events.Event) (events.Event, error) {
	s.inserted = append(s.inserted, event)
	return event, nil
}

type captureNotifier struct {
	events []events.Event
}

func (c *captureNotifier) Notify(_ context.Context, event events.Event) error {
	c.events = append(c.events, event)
	return nil
}

func TestEmitPersistsEvent(t *testing.T) {
	store := &stubStore{}
	notifier := &captureNotifier{}
	bus := events.Bus{Store: store, Notifiers: []events.Notifier{notifier}}

	aggregate := uuid.New()
	payload := map[string]any{"rentalId": aggregate.String(), "refundAmount": "200.00"}
	event, err := bus.Emit(context.Background(), events.TopicRentalReturnSettled, aggregate, payload)
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)
	require.Equal(t, events.TopicRentalReturnSettled, store.inserted[0].Topic)
	require.Len(t, notifier.events, 1)
	require.Equal(t, event.ID, notifier.events[0].ID)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	require.Equal(t, "200.00", decoded["refundAmount"])
}

func TestEmitRejectsMissingAggregate(t *testing.T) {
	bus := events.Bus{Store: &stubStore{}}
	_, err := bus.Emit(context.Background(), events.TopicStockMovementRecorded, uuid.Nil, nil)
	require.Error(t, err)
}

func TestEmitRejectsInvalidPayload(t *testing.T) {
	bus := events.Bus{Store: &stubStore{}}
	_, err := bus.Emit(context.Background(), events.TopicStockMovementRecorded, uuid.New(), []byte("{not json"))
	require.Error(t, err)
}
