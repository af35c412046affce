package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"orcaScanner/internal/alerts"
	"orcaScanner/internal/model"
	"orcaScanner/internal/regime"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadRunDefaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "log-level: debug\n")

	cfg, err := LoadRun(path, nil)
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if cfg.OutDir != defaultOutDir || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.PriceDays != 31 || cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("price days/timeout = %d/%s", cfg.PriceDays, cfg.HTTPTimeout)
	}
	if !reflect.DeepEqual(cfg.Components, DefaultComponents()) {
		t.Fatalf("components should equal defaults")
	}
	if !cfg.AsOf.IsZero() {
		t.Fatalf("as-of should be zero, got %s", cfg.AsOf)
	}
}

func TestLoadRunComponentOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
out-dir: /tmp/scanner-out
regime:
  high_cutoff: 0.8
  weights:
    volatility: 0.5
ranking:
  min_volume_24h: 75000
  fallback_depth_fraction:
    SOL-STABLE: 0.02
shortlist:
  min_tvl: 300000
tokens:
  stable_symbols: [USDC, DAI]
allocation:
  low: [90]
`)

	cfg, err := LoadRun(path, nil)
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	c := cfg.Components
	if c.Regime.HighCutoff != 0.8 || c.Regime.Weights.Volatility != 0.5 {
		t.Fatalf("regime overrides not applied: %+v", c.Regime)
	}
	def := regime.DefaultConfig()
	if c.Regime.LowCutoff != def.LowCutoff || c.Regime.Weights.VolRatio != def.Weights.VolRatio {
		t.Fatalf("unset regime fields should keep defaults: %+v", c.Regime)
	}
	if c.Ranking.MinVolume24h != 75000 {
		t.Fatalf("ranking min volume = %v", c.Ranking.MinVolume24h)
	}
	if got := c.Ranking.FallbackDepthFraction[model.PoolTypeSOLStable]; got != 0.02 {
		t.Fatalf("SOL-STABLE depth fraction = %v", got)
	}
	if got := c.Ranking.FallbackDepthFraction[model.PoolTypeSOLLST]; got != 0.03 {
		t.Fatalf("SOL-LST depth fraction should keep default, got %v", got)
	}
	if len(c.Ranking.FallbackDepthFraction) != 5 {
		t.Fatalf("depth fractions = %v", c.Ranking.FallbackDepthFraction)
	}
	if c.Shortlist.MinTVL != 300000 {
		t.Fatalf("shortlist min tvl = %v", c.Shortlist.MinTVL)
	}
	if !reflect.DeepEqual(c.Tokens.StableSymbols, []string{"USDC", "DAI"}) {
		t.Fatalf("stable symbols = %v", c.Tokens.StableSymbols)
	}
	defTokens := DefaultComponents().Tokens
	if !reflect.DeepEqual(c.Tokens.LSTSymbols, defTokens.LSTSymbols) {
		t.Fatalf("lst symbols should keep defaults, got %v", c.Tokens.LSTSymbols)
	}
	if !reflect.DeepEqual(c.Allocation.Low, []float64{90}) {
		t.Fatalf("allocation low = %v", c.Allocation.Low)
	}
	if !reflect.DeepEqual(c.Allocation.Moderate, DefaultComponents().Allocation.Moderate) {
		t.Fatalf("allocation moderate should keep defaults, got %v", c.Allocation.Moderate)
	}
	if cfg.OutDir != "/tmp/scanner-out" {
		t.Fatalf("out dir = %s", cfg.OutDir)
	}
}

func TestLoadRunFlagsWin(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "out-dir: ./from-file\n")
	flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
	flags.String("out-dir", "", "")
	flags.String("as-of", "", "")
	if err := flags.Parse([]string{"--out-dir", "./from-flag", "--as-of", "2024-03-01T00:00:00Z"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadRun(path, flags)
	if err != nil {
		t.Fatalf("load run: %v", err)
	}
	if cfg.OutDir != "./from-flag" {
		t.Fatalf("out dir = %s", cfg.OutDir)
	}
	if !cfg.AsOf.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("as-of = %s", cfg.AsOf)
	}
}

func TestLoadLedgerCron(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.yaml", "cron: \"0 * * * *\"\n")
	cfg, err := LoadLedger(good, nil)
	if err != nil {
		t.Fatalf("load ledger: %v", err)
	}
	if cfg.Cron != "0 * * * *" || cfg.WindowDays != 7 {
		t.Fatalf("unexpected config %+v", cfg)
	}

	bad := writeFile(t, dir, "bad.yaml", "cron: \"every hour\"\n")
	if _, err := LoadLedger(bad, nil); err == nil {
		t.Fatalf("expected invalid cron error")
	}
}

func TestLoadShowSections(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "sections: Regime, shortlist\n")
	cfg, err := LoadShow(path, nil)
	if err != nil {
		t.Fatalf("load show: %v", err)
	}
	if !reflect.DeepEqual(cfg.Sections, []string{"regime", "shortlist"}) {
		t.Fatalf("sections = %v", cfg.Sections)
	}

	bad := writeFile(t, dir, "bad.yaml", "sections: nope\n")
	if _, err := LoadShow(bad, nil); err == nil {
		t.Fatalf("expected unknown section error")
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		err  bool
	}{
		{in: "", want: time.Time{}},
		{in: "1700000000", want: time.Unix(1700000000, 0).UTC()},
		{in: "2024-01-02T03:04:05Z", want: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
		{in: "yesterday", err: true},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		if tc.err {
			if err == nil {
				t.Fatalf("%q: expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("%q: got %s want %s", tc.in, got, tc.want)
		}
	}
}

func TestLoadCadenceProfile(t *testing.T) {
	dir := t.TempDir()

	profile, found, err := LoadCadenceProfile(filepath.Join(dir, "missing.yaml"))
	if err != nil || found {
		t.Fatalf("missing profile: found=%v err=%v", found, err)
	}
	if profile != alerts.DefaultProfile() {
		t.Fatalf("missing profile should be default, got %+v", profile)
	}

	path := writeFile(t, dir, "cadence.yaml", "name: twice-daily\ncheckIntervalHours: 12\nwarnEdgePct: 4\n")
	profile, found, err = LoadCadenceProfile(path)
	if err != nil || !found {
		t.Fatalf("load profile: found=%v err=%v", found, err)
	}
	want := alerts.Profile{Name: "twice-daily", CheckIntervalHours: 12, WarnEdgePct: 4, ActEdgePct: 1.5}
	if profile != want {
		t.Fatalf("profile = %+v want %+v", profile, want)
	}

	inverted := writeFile(t, dir, "inverted.yaml", "warnEdgePct: 1\nactEdgePct: 2\n")
	if _, _, err := LoadCadenceProfile(inverted); err == nil {
		t.Fatalf("expected error for act above warn")
	}
}
