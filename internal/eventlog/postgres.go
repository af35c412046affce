package eventlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"orcaScanner/internal/storage/postgres"
)

// PostgresLog stores one named stream in the event_log table.
type PostgresLog[T Record] struct {
	store  *postgres.Store
	stream string
}

func NewPostgresLog[T Record](store *postgres.Store, stream string) *PostgresLog[T] {
	return &PostgresLog[T]{store: store, stream: stream}
}

func (l *PostgresLog[T]) Append(ctx context.Context, records ...T) error {
	if len(records) == 0 {
		return nil
	}
	events := make([]postgres.Event, 0, len(records))
	for _, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		events = append(events, postgres.Event{
			Stream:  l.stream,
			Time:    record.EventTime(),
			Payload: payload,
		})
	}
	return l.store.AppendEvents(ctx, events)
}

func (l *PostgresLog[T]) Scan(ctx context.Context, since time.Time) ([]T, error) {
	payloads, err := l.store.ScanEvents(ctx, l.stream, since)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(payloads))
	for _, payload := range payloads {
		var record T
		if err := json.Unmarshal(payload, &record); err != nil {
			continue
		}
		if !inWindow(record.EventTime(), since) {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}
