package ledger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"orcaScanner/internal/model"
	"orcaScanner/internal/outputs"
	"orcaScanner/internal/ranking"
)

// EntryFromOutputs rebuilds a ledger row from the latest output files. The
// rankings must exist and carry the same regime as the regime state.
func EntryFromOutputs(dir outputs.Dir, runID string, now time.Time) (model.LedgerEntry, error) {
	var state model.RegimeState
	if err := outputs.ReadJSON(dir.File(outputs.RegimeStateFile), &state); err != nil {
		return model.LedgerEntry{}, fmt.Errorf("read regime state: %w", err)
	}
	var ranked ranking.Output
	if err := outputs.ReadJSON(dir.File(outputs.RankedPoolsFile), &ranked); err != nil {
		return model.LedgerEntry{}, fmt.Errorf("read ranked pools: %w", err)
	}
	if ranked.Regime != state.Regime {
		return model.LedgerEntry{}, fmt.Errorf("ranked pools regime %q does not match regime state %q", ranked.Regime, state.Regime)
	}
	var sl model.Shortlist
	if err := outputs.ReadJSON(dir.File(outputs.ShortlistFile), &sl); err != nil {
		return model.LedgerEntry{}, fmt.Errorf("read shortlist: %w", err)
	}
	var alerts []model.Alert
	if err := outputs.ReadJSON(dir.File(outputs.AlertsFile), &alerts); err != nil && !errors.Is(err, os.ErrNotExist) {
		return model.LedgerEntry{}, fmt.Errorf("read alerts: %w", err)
	}
	return NewEntry(runID, now, state, sl, alerts), nil
}

// Job appends one ledger row from the latest outputs and rewrites the summary.
type Job struct {
	Ledger     *Ledger
	Dir        outputs.Dir
	WindowDays int
	Logger     *zap.Logger
	Now        func() time.Time
}

func (j *Job) Run(ctx context.Context) (model.PerformanceSummary, error) {
	logger := j.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}

	entry, err := EntryFromOutputs(j.Dir, uuid.NewString(), now())
	if err != nil {
		return model.PerformanceSummary{}, err
	}
	if err := j.Ledger.Append(ctx, entry); err != nil {
		return model.PerformanceSummary{}, err
	}
	summary, err := j.Ledger.Summarize(ctx, j.WindowDays)
	if err != nil {
		return model.PerformanceSummary{}, err
	}
	if err := outputs.WriteJSON(j.Dir.File(outputs.PerformanceSummaryFile), summary); err != nil {
		return model.PerformanceSummary{}, err
	}

	logger.Info("ledger updated",
		zap.String("run_id", entry.RunID),
		zap.String("regime", string(entry.Regime)),
		zap.Int("entries", summary.Entries),
	)
	return summary, nil
}
