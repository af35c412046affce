package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"orcaScanner/internal/config"
	"orcaScanner/internal/ledger"
	"orcaScanner/internal/outputs"
)

func runLedger(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadLedger(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg.OutDir, cfg.PGDSN, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	job := &ledger.Job{
		Ledger:     ledger.New(st.ledger, logger),
		Dir:        outputs.Dir{Path: cfg.OutDir},
		WindowDays: cfg.WindowDays,
		Logger:     logger,
	}
	if !cfg.AsOf.IsZero() {
		asOf := cfg.AsOf
		job.Now = func() time.Time { return asOf }
	}

	logger.Info("ledger start",
		zap.String("out_dir", cfg.OutDir),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Int("window_days", cfg.WindowDays),
		zap.String("cron", cfg.Cron),
	)

	if cfg.Cron == "" {
		_, err := job.Run(ctx)
		return err
	}

	cl := cronLogger{logger.Sugar()}
	c := cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)))
	if _, err := c.AddFunc(cfg.Cron, func() {
		if _, err := job.Run(ctx); err != nil {
			logger.Error("ledger run failed", zap.Error(err))
		}
	}); err != nil {
		return fmt.Errorf("schedule ledger: %w", err)
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("ledger scheduler stopped")
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
