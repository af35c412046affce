// Package eventlog provides append-only event streams read back by windowed scans.
package eventlog

import (
	"context"
	"time"
)

// Record is anything with an event time. A zero time marks an unusable record.
type Record interface {
	EventTime() time.Time
}

// Log is an append-only stream of records.
type Log[T Record] interface {
	Append(ctx context.Context, records ...T) error
	// Scan returns records with EventTime >= since in append order.
	// Records that cannot be decoded or carry no usable time are skipped.
	Scan(ctx context.Context, since time.Time) ([]T, error)
}

func inWindow(ts, since time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return !ts.Before(since)
}
