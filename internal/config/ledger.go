package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// LedgerConfig holds configuration for the performance ledger job.
type LedgerConfig struct {
	OutDir     string
	PGDSN      string
	WindowDays int
	Cron       string
	AsOf       time.Time
	LogLevel   string
}

// LoadLedger merges .env, config file, environment variables, and flags into LedgerConfig.
func LoadLedger(cfgFile string, flags *pflag.FlagSet) (LedgerConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("out-dir", defaultOutDir)
		v.SetDefault("window-days", 7)
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return LedgerConfig{}, err
	}

	asOf, err := ParseTimestamp(v.GetString("as-of"))
	if err != nil {
		return LedgerConfig{}, fmt.Errorf("parse as-of: %w", err)
	}

	cfg := LedgerConfig{
		OutDir:     v.GetString("out-dir"),
		PGDSN:      v.GetString("pg-dsn"),
		WindowDays: v.GetInt("window-days"),
		Cron:       strings.TrimSpace(v.GetString("cron")),
		AsOf:       asOf,
		LogLevel:   v.GetString("log-level"),
	}
	if cfg.WindowDays <= 0 {
		return LedgerConfig{}, fmt.Errorf("window-days must be positive")
	}
	if cfg.Cron != "" {
		if _, err := cron.ParseStandard(cfg.Cron); err != nil {
			return LedgerConfig{}, fmt.Errorf("parse cron spec: %w", err)
		}
		if !cfg.AsOf.IsZero() {
			return LedgerConfig{}, fmt.Errorf("as-of cannot be combined with cron")
		}
	}
	return cfg, nil
}

// ParseTimestamp parses a timestamp value (unix seconds or RFC3339). Empty input yields the zero time.
func ParseTimestamp(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, nil
	}

	if isNumeric(input) {
		val, err := strconv.ParseInt(input, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(val, 0).UTC(), nil
	}

	tm, err := time.Parse(time.RFC3339, input)
	if err != nil {
		return time.Time{}, err
	}
	return tm.UTC(), nil
}

func isNumeric(input string) bool {
	for _, r := range input {
		if r < '0' || r > '9' {
			return false
		}
	}
	return input != ""
}
