package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"orcaScanner/internal/alerts"
	"orcaScanner/internal/allocation"
	"orcaScanner/internal/hedge"
	"orcaScanner/internal/model"
	"orcaScanner/internal/rangeplan"
	"orcaScanner/internal/ranking"
	"orcaScanner/internal/regime"
	"orcaScanner/internal/shortlist"
	"orcaScanner/internal/stability"
	"orcaScanner/internal/tokens"
)

const (
	envPrefix     = "SCANNER"
	defaultOutDir = "./data/scanner"
)

// Components holds the tuning block of every pipeline stage.
type Components struct {
	Tokens     tokens.Config
	Stability  stability.Config
	Regime     regime.Config
	Ranking    ranking.Config
	Shortlist  shortlist.Config
	Ranges     rangeplan.Config
	Hedge      hedge.Config
	Allocation allocation.Config
	Alerts     alerts.Config
}

// DefaultComponents returns the built-in tuning of every stage.
func DefaultComponents() Components {
	return Components{
		Tokens:     tokens.DefaultConfig(),
		Stability:  stability.DefaultConfig(),
		Regime:     regime.DefaultConfig(),
		Ranking:    ranking.DefaultConfig(),
		Shortlist:  shortlist.DefaultConfig(),
		Ranges:     rangeplan.DefaultConfig(),
		Hedge:      hedge.DefaultConfig(),
		Allocation: allocation.DefaultConfig(),
		Alerts:     alerts.DefaultConfig(),
	}
}

// RunConfig holds configuration for the scanner run command.
type RunConfig struct {
	OutDir         string
	FixtureDir     string
	PGDSN          string
	CadenceProfile string
	AsOf           time.Time

	OrcaURL      string
	OrcaPageSize int
	OrcaMaxPages int
	RPCURL       string
	RPCBatchSize int
	RPCRate      float64
	BinanceURL   string
	FundingPair  string
	CoinGeckoURL string
	CoinGeckoKey string
	PriceDays    int
	HTTPTimeout  time.Duration

	LedgerWindowDays int
	LogLevel         string

	Components Components
}

// LoadRun merges .env, config file, environment variables, and flags into RunConfig.
func LoadRun(cfgFile string, flags *pflag.FlagSet) (RunConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("out-dir", defaultOutDir)
		v.SetDefault("cadence-profile", "./cadence.yaml")
		v.SetDefault("orca-url", "https://api.orca.so/v2/solana")
		v.SetDefault("orca-page-size", 500)
		v.SetDefault("orca-max-pages", 20)
		v.SetDefault("rpc", "https://api.mainnet-beta.solana.com")
		v.SetDefault("rpc-batch-size", 100)
		v.SetDefault("rpc-rate", 4.0)
		v.SetDefault("binance-url", "https://fapi.binance.com")
		v.SetDefault("funding-pair", "SOLUSDT")
		v.SetDefault("coingecko-url", "https://api.coingecko.com/api/v3")
		v.SetDefault("price-days", 31)
		v.SetDefault("http-timeout", 15*time.Second)
		v.SetDefault("ledger-window-days", 7)
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return RunConfig{}, err
	}

	asOf, err := ParseTimestamp(v.GetString("as-of"))
	if err != nil {
		return RunConfig{}, fmt.Errorf("parse as-of: %w", err)
	}

	cfg := RunConfig{
		OutDir:           v.GetString("out-dir"),
		FixtureDir:       v.GetString("fixtures"),
		PGDSN:            v.GetString("pg-dsn"),
		CadenceProfile:   v.GetString("cadence-profile"),
		AsOf:             asOf,
		OrcaURL:          v.GetString("orca-url"),
		OrcaPageSize:     v.GetInt("orca-page-size"),
		OrcaMaxPages:     v.GetInt("orca-max-pages"),
		RPCURL:           v.GetString("rpc"),
		RPCBatchSize:     v.GetInt("rpc-batch-size"),
		RPCRate:          v.GetFloat64("rpc-rate"),
		BinanceURL:       v.GetString("binance-url"),
		FundingPair:      v.GetString("funding-pair"),
		CoinGeckoURL:     v.GetString("coingecko-url"),
		CoinGeckoKey:     v.GetString("coingecko-api-key"),
		PriceDays:        v.GetInt("price-days"),
		HTTPTimeout:      v.GetDuration("http-timeout"),
		LedgerWindowDays: v.GetInt("ledger-window-days"),
		LogLevel:         v.GetString("log-level"),
	}
	if cfg.OutDir == "" {
		return RunConfig{}, fmt.Errorf("out-dir is required")
	}
	if cfg.PriceDays < 2 {
		return RunConfig{}, fmt.Errorf("price-days must be at least 2")
	}

	cfg.Components, err = loadComponents(v)
	if err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}

// loadComponents overlays the optional tuning blocks of the config file on the
// defaults. Fields left out keep their default; lists given in the file
// replace the default list instead of being merged into it.
func loadComponents(v *viper.Viper) (Components, error) {
	defaults := DefaultComponents()
	c := DefaultComponents()
	blocks := []struct {
		key string
		out any
	}{
		{"tokens", &c.Tokens},
		{"stability", &c.Stability},
		{"regime", &c.Regime},
		{"ranking", &c.Ranking},
		{"shortlist", &c.Shortlist},
		{"ranges", &c.Ranges},
		{"hedge", &c.Hedge},
		{"allocation", &c.Allocation},
		{"alerts", &c.Alerts},
	}
	replaceLists := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.ZeroFields = true
	})
	for _, b := range blocks {
		if !v.IsSet(b.key) {
			continue
		}
		if err := v.UnmarshalKey(b.key, b.out, replaceLists); err != nil {
			return Components{}, fmt.Errorf("decode %s config: %w", b.key, err)
		}
	}
	c.Ranking.FallbackDepthFraction = mergePoolTypeFractions(defaults.Ranking.FallbackDepthFraction, c.Ranking.FallbackDepthFraction)
	return c, nil
}

// mergePoolTypeFractions overlays file entries on the defaults. Viper
// lower-cases map keys read from files, so keys are upper-cased back to
// their canonical pool type.
func mergePoolTypeFractions(defaults, in map[model.PoolType]float64) map[model.PoolType]float64 {
	out := make(map[model.PoolType]float64, len(defaults))
	for k, v := range defaults {
		out[k] = v
	}
	for k, v := range in {
		out[model.PoolType(strings.ToUpper(string(k)))] = v
	}
	return out
}

// newViper builds a viper instance with the shared env, flag and config file wiring.
func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(v *viper.Viper)) (*viper.Viper, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if defaults != nil {
		defaults(v)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

// loadDotEnv reads ./.env when present. Existing variables win.
func loadDotEnv() error {
	if err := godotenv.Load(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
