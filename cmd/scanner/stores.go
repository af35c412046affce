package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"orcaScanner/internal/eventlog"
	"orcaScanner/internal/model"
	"orcaScanner/internal/outputs"
	"orcaScanner/internal/regime"
	"orcaScanner/internal/stability"
	"orcaScanner/internal/storage/postgres"
)

const (
	stabilityStream = "pool_stats_history"
	ledgerStream    = "performance_ledger"
	regimeStateName = "regime_state"
)

// stores are the persistent logs and state of one output directory.
type stores struct {
	stability eventlog.Log[stability.Snapshot]
	ledger    eventlog.Log[model.LedgerEntry]
	state     regime.StateStore
	pg        *postgres.Store
}

func (s *stores) Close() {
	if s.pg != nil {
		s.pg.Close()
	}
}

// openStores uses JSONL files in outDir, or Postgres when dsn is set. The
// regime state file is always written with the other outputs.
func openStores(ctx context.Context, outDir, dsn string, logger *zap.Logger) (*stores, error) {
	dir := outputs.Dir{Path: outDir}
	if dsn == "" {
		return &stores{
			stability: eventlog.NewJSONLLog[stability.Snapshot](dir.File(outputs.PoolStatsHistoryFile), logger),
			ledger:    eventlog.NewJSONLLog[model.LedgerEntry](dir.File(outputs.PerformanceLedgerFile), logger),
			state:     &regime.FileStateStore{Path: dir.File(outputs.RegimeStateFile)},
		}, nil
	}

	store, err := postgres.NewStore(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return &stores{
		stability: eventlog.NewPostgresLog[stability.Snapshot](store, stabilityStream),
		ledger:    eventlog.NewPostgresLog[model.LedgerEntry](store, ledgerStream),
		state:     &regime.DBStateStore{Store: store, Name: regimeStateName},
		pg:        store,
	}, nil
}
