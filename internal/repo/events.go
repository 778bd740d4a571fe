package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tluanga-dev/rental-manager-sub009/internal/events"
)

// EventStore appends domain events to the events table.
type EventStore struct {
	Pool *pgxpool.Pool
}

// InsertEvent persists one event and returns it unchanged.
func (s *EventStore) InsertEvent(ctx context.Context, event events.Event) (events.Event, error) {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO events (id, topic, aggregate_id, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.ID, event.Topic, event.AggregateID, []byte(event.Payload), event.OccurredAt,
	)
	if err != nil {
		return events.Event{}, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}
