package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"orcaScanner/internal/chain"
	"orcaScanner/internal/config"
	"orcaScanner/internal/pipeline"
	"orcaScanner/internal/provider"
)

func main() {
	root := &cobra.Command{
		Use:          "scanner",
		Short:        "Orca pool regime scanner",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one full scanner cycle",
		RunE:  runScanner,
	}

	runCmd.Flags().String("out-dir", "./data/scanner", "output directory")
	runCmd.Flags().String("fixtures", "", "read pools, prices, funding and enrichment from this directory instead of the network")
	runCmd.Flags().String("pg-dsn", "", "Postgres DSN for event logs and regime state (default: files in out-dir)")
	runCmd.Flags().String("cadence-profile", "./cadence.yaml", "operator cadence profile (YAML)")
	runCmd.Flags().String("as-of", "", "pin the run clock (unix seconds or RFC3339)")
	runCmd.Flags().String("orca-url", "https://api.orca.so/v2/solana", "Orca API base URL")
	runCmd.Flags().Int("orca-page-size", 500, "pools per Orca page")
	runCmd.Flags().Int("orca-max-pages", 20, "page limit for the Orca listing; more pages pending fails the run")
	runCmd.Flags().String("rpc", "https://api.mainnet-beta.solana.com", "Solana RPC URL, empty disables enrichment")
	runCmd.Flags().Int("rpc-batch-size", 100, "accounts per getMultipleAccounts call")
	runCmd.Flags().Float64("rpc-rate", 4, "RPC calls per second")
	runCmd.Flags().String("binance-url", "https://fapi.binance.com", "Binance futures API base URL")
	runCmd.Flags().String("funding-pair", "SOLUSDT", "perpetual symbol used as funding proxy")
	runCmd.Flags().String("coingecko-url", "https://api.coingecko.com/api/v3", "CoinGecko API base URL")
	runCmd.Flags().String("coingecko-api-key", "", "CoinGecko demo API key")
	runCmd.Flags().Int("price-days", 31, "days of daily closes to fetch")
	runCmd.Flags().Duration("http-timeout", 15*time.Second, "HTTP request timeout")
	runCmd.Flags().Int("ledger-window-days", 7, "performance summary window")
	runCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Append the latest outputs to the performance ledger and rewrite the summary",
		RunE:  runLedger,
	}

	ledgerCmd.Flags().String("out-dir", "./data/scanner", "output directory")
	ledgerCmd.Flags().String("pg-dsn", "", "Postgres DSN for the ledger stream (default: JSONL in out-dir)")
	ledgerCmd.Flags().Int("window-days", 7, "summary window in days")
	ledgerCmd.Flags().String("cron", "", "run on this cron schedule instead of once (e.g. \"0 * * * *\")")
	ledgerCmd.Flags().String("as-of", "", "entry timestamp (unix seconds or RFC3339)")
	ledgerCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(ledgerCmd)

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the latest outputs as tables",
		RunE:  runShow,
	}

	showCmd.Flags().String("out-dir", "./data/scanner", "output directory")
	showCmd.Flags().StringSlice("sections", nil, "sections to print (regime,ranked,shortlist,plans,allocation,alerts,summary)")
	showCmd.Flags().Int("top", 10, "ranked pools to print")

	root.AddCommand(showCmd)

	assertCmd := &cobra.Command{
		Use:   "assert-outputs",
		Short: "Fail when any required output file is missing",
		RunE:  runAssertOutputs,
	}

	assertCmd.Flags().String("out-dir", "./data/scanner", "output directory")

	root.AddCommand(assertCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runScanner(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadRun(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	profile, found, err := config.LoadCadenceProfile(cfg.CadenceProfile)
	if err != nil {
		return err
	}
	if !found {
		logger.Info("cadence profile not found, using defaults", zap.String("path", cfg.CadenceProfile))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg.OutDir, cfg.PGDSN, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	deps := pipeline.Deps{
		StabilityLog: st.stability,
		LedgerLog:    st.ledger,
		State:        st.state,
		Logger:       logger,
	}
	if !cfg.AsOf.IsZero() {
		asOf := cfg.AsOf
		deps.Now = func() time.Time { return asOf }
	}

	if cfg.FixtureDir != "" {
		fx := provider.Fixture{Dir: cfg.FixtureDir}
		deps.Pools, deps.Prices, deps.Funding, deps.Enricher = fx, fx, fx, fx
	} else {
		deps.Pools = provider.NewOrcaSource(provider.OrcaConfig{
			BaseURL:  cfg.OrcaURL,
			PageSize: cfg.OrcaPageSize,
			MaxPages: cfg.OrcaMaxPages,
			Timeout:  cfg.HTTPTimeout,
		}, logger)
		deps.Prices = provider.NewCoinGeckoPrices(provider.CoinGeckoConfig{
			BaseURL: cfg.CoinGeckoURL,
			APIKey:  cfg.CoinGeckoKey,
			Timeout: cfg.HTTPTimeout,
		})
		deps.Funding = provider.NewBinanceFunding(provider.BinanceFundingConfig{
			BaseURL: cfg.BinanceURL,
			Symbol:  cfg.FundingPair,
			Timeout: cfg.HTTPTimeout,
		})
		if cfg.RPCURL != "" {
			chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
			if err != nil {
				return fmt.Errorf("connect rpc: %w", err)
			}
			defer chainClient.Close()
			deps.Enricher = provider.NewSolanaEnricher(chainClient, provider.SolanaEnricherConfig{
				BatchSize:  cfg.RPCBatchSize,
				RatePerSec: cfg.RPCRate,
			}, logger)
		}
	}

	p, err := pipeline.New(pipeline.Config{
		OutDir:           cfg.OutDir,
		PriceDays:        cfg.PriceDays,
		LedgerWindowDays: cfg.LedgerWindowDays,
		Profile:          profile,
		Components:       cfg.Components,
	}, deps)
	if err != nil {
		return err
	}

	logger.Info("scanner start",
		zap.String("out_dir", cfg.OutDir),
		zap.String("fixtures", cfg.FixtureDir),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("cadence_profile", profile.Name),
		zap.Int("price_days", cfg.PriceDays),
	)

	if _, err := p.Run(ctx); err != nil {
		return err
	}
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
