package eventlog

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JSONLLog stores records as JSON lines in a single file.
type JSONLLog[T Record] struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

func NewJSONLLog[T Record](path string, logger *zap.Logger) *JSONLLog[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JSONLLog[T]{path: path, logger: logger}
}

// Path returns the backing file path.
func (l *JSONLLog[T]) Path() string {
	return l.path
}

// Append writes records to the end of the file.
func (l *JSONLLog[T]) Append(_ context.Context, records ...T) error {
	if len(records) == 0 {
		return nil
	}

	dir := filepath.Dir(l.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := writer.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush log: %w", err)
	}
	return nil
}

// Scan reads the whole file and keeps records inside the window.
// A missing file is an empty log.
func (l *JSONLLog[T]) Scan(ctx context.Context, since time.Time) ([]T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	file, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var out []T
	var total, corrupt, outside int
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			corrupt++
			continue
		}
		if !inWindow(record.EventTime(), since) {
			outside++
			continue
		}
		out = append(out, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan log: %w", err)
	}

	if corrupt > 0 {
		l.logger.Warn("skipped corrupt log lines",
			zap.String("path", l.path),
			zap.Int("corrupt", corrupt),
			zap.Int("total", total),
		)
	}
	l.logger.Debug("log scanned",
		zap.String("path", l.path),
		zap.Int("total", total),
		zap.Int("kept", len(out)),
		zap.Int("outside_window", outside),
	)
	return out, nil
}
