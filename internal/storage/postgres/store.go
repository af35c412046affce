package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS event_log (
	id         BIGSERIAL PRIMARY KEY,
	stream     TEXT        NOT NULL,
	event_ts   TIMESTAMPTZ NOT NULL,
	payload    JSONB       NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_event_log_stream_ts ON event_log (stream, event_ts);

CREATE TABLE IF NOT EXISTS scanner_state (
	name       TEXT PRIMARY KEY,
	payload    JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Event is one row of an append-only stream.
type Event struct {
	Stream  string
	Time    time.Time
	Payload []byte
}

// Store provides Postgres persistence for event streams and named state.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the tables if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// AppendEvents inserts events in a single batch.
func (s *Store) AppendEvents(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, ev := range events {
		batch.Queue(`INSERT INTO event_log (stream, event_ts, payload) VALUES ($1, $2, $3)`,
			ev.Stream,
			ev.Time.UTC(),
			ev.Payload,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// ScanEvents returns payloads of a stream at or after since, in insertion order.
func (s *Store) ScanEvents(ctx context.Context, stream string, since time.Time) ([][]byte, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT payload FROM event_log
		WHERE stream = $1 AND event_ts >= $2
		ORDER BY event_ts, id
	`, stream, since.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out [][]byte
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		out = append(out, payload)
	}
	return out, rows.Err()
}

// LoadState returns the JSON payload stored under name.
func (s *Store) LoadState(ctx context.Context, name string) ([]byte, bool, error) {
	if name == "" {
		return nil, false, fmt.Errorf("state name required")
	}
	var payload []byte
	row := s.pool.QueryRow(ctx, `SELECT payload FROM scanner_state WHERE name=$1`, name)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return payload, true, nil
}

// SaveState upserts the JSON payload for name.
func (s *Store) SaveState(ctx context.Context, name string, payload []byte) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO scanner_state (name, payload, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = now()
	`, name, payload)
	return err
}
