// Package outputs owns the output directory layout and whole-file JSON writes.
package outputs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	RegimeStateFile        = "regime_state.json"
	RankedPoolsFile        = "ranked_pools.json"
	ShortlistFile          = "shortlist.json"
	PlansFile              = "plans.json"
	AllocationFile         = "allocation.json"
	AlertsFile             = "alerts.json"
	PerformanceSummaryFile = "performance_summary.json"

	PoolStatsHistoryFile  = "pool_stats_history.jsonl"
	PerformanceLedgerFile = "performance_ledger.jsonl"
)

// Required lists the files every successful run leaves behind.
var Required = []string{
	RegimeStateFile,
	RankedPoolsFile,
	ShortlistFile,
	PlansFile,
	AllocationFile,
	AlertsFile,
	PerformanceSummaryFile,
}

// Dir is an output directory.
type Dir struct {
	Path string
}

// File returns the path of name inside the directory.
func (d Dir) File(name string) string {
	return filepath.Join(d.Path, name)
}

// Missing returns the required paths that do not exist, sorted.
func (d Dir) Missing() []string {
	var missing []string
	for _, name := range Required {
		path := d.File(name)
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	sort.Strings(missing)
	return missing
}

// Encode renders v as indented JSON with a trailing newline.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile replaces path with data via a temp file and rename.
func WriteFile(path string, data []byte) error {
	var st Staged
	if err := st.stage(path, path+".tmp", data); err != nil {
		return err
	}
	return st.Commit()
}

const pendingSuffix = ".pending"

// Staged collects documents written beside their targets that only replace
// them on Commit. A run that fails before Commit leaves the targets untouched.
type Staged struct {
	files []stagedFile
}

type stagedFile struct {
	tmp, path string
}

// Stage writes data to a pending file next to path.
func (s *Staged) Stage(path string, data []byte) error {
	return s.stage(path, path+pendingSuffix, data)
}

func (s *Staged) stage(path, tmp string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s tmp: %w", filepath.Base(path), err)
	}
	s.files = append(s.files, stagedFile{tmp: tmp, path: path})
	return nil
}

// StageJSON encodes v and stages it for path.
func (s *Staged) StageJSON(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return s.Stage(path, data)
}

// Commit renames every staged file into place in staging order.
func (s *Staged) Commit() error {
	for i, f := range s.files {
		if err := os.Rename(f.tmp, f.path); err != nil {
			s.files = s.files[i:]
			return fmt.Errorf("rename %s: %w", filepath.Base(f.path), err)
		}
	}
	s.files = nil
	return nil
}

// Discard removes staged files that were not committed.
func (s *Staged) Discard() {
	for _, f := range s.files {
		_ = os.Remove(f.tmp)
	}
	s.files = nil
}

// WriteJSON encodes v and writes it to path.
func WriteJSON(path string, v any) error {
	data, err := Encode(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return WriteFile(path, data)
}

// ReadJSON decodes path into v.
func ReadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
