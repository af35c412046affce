package regime

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"orcaScanner/internal/model"
	"orcaScanner/internal/storage/postgres"
)

// StateStore persists the regime state read back by the next run.
type StateStore interface {
	Load(ctx context.Context) (model.RegimeState, bool, error)
	Save(ctx context.Context, state model.RegimeState) error
}

// FileStateStore stores state in a local JSON file.
type FileStateStore struct {
	Path string
}

func (s *FileStateStore) Load(ctx context.Context) (model.RegimeState, bool, error) {
	if s == nil || s.Path == "" {
		return model.RegimeState{}, false, nil
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.RegimeState{}, false, nil
		}
		return model.RegimeState{}, false, fmt.Errorf("read state: %w", err)
	}
	return decodeState(data)
}

func (s *FileStateStore) Save(ctx context.Context, state model.RegimeState) error {
	if s == nil || s.Path == "" {
		return nil
	}
	dir := filepath.Dir(s.Path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	data = append(data, '\n')

	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state tmp: %w", err)
	}
	if err := os.Rename(tmp, s.Path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

// DBStateStore stores state in the scanner_state table.
type DBStateStore struct {
	Store *postgres.Store
	Name  string
}

func (s *DBStateStore) Load(ctx context.Context) (model.RegimeState, bool, error) {
	if s == nil || s.Store == nil {
		return model.RegimeState{}, false, nil
	}
	payload, ok, err := s.Store.LoadState(ctx, s.Name)
	if err != nil || !ok {
		return model.RegimeState{}, false, err
	}
	return decodeState(payload)
}

func (s *DBStateStore) Save(ctx context.Context, state model.RegimeState) error {
	if s == nil || s.Store == nil {
		return nil
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	return s.Store.SaveState(ctx, s.Name, payload)
}

func decodeState(data []byte) (model.RegimeState, bool, error) {
	var state model.RegimeState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.RegimeState{}, false, fmt.Errorf("parse state: %w", err)
	}
	if !state.Regime.Valid() {
		return model.RegimeState{}, false, fmt.Errorf("parse state: unknown regime %q", state.Regime)
	}
	return state, true, nil
}
