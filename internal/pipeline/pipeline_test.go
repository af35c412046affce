package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orcaScanner/internal/config"
	"orcaScanner/internal/eventlog"
	"orcaScanner/internal/model"
	"orcaScanner/internal/outputs"
	"orcaScanner/internal/provider"
	"orcaScanner/internal/regime"
	"orcaScanner/internal/shortlist"
	"orcaScanner/internal/stability"
)

type staticPools []model.Pool

func (s staticPools) ListPools(context.Context) ([]model.Pool, error) { return s, nil }

type staticPrices struct {
	prices []float64
	err    error
}

func (s staticPrices) DailyPrices(context.Context, int) ([]float64, error) { return s.prices, s.err }

type staticFunding struct {
	apr float64
	err error
}

func (s staticFunding) FundingAPR(context.Context) (float64, error) { return s.apr, s.err }

// oscillating returns n closes alternating between base and base*(1+step).
func oscillating(n int, base, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base
		if i%2 == 1 {
			out[i] = base * (1 + step)
		}
	}
	return out
}

func pool(address, a, b string, price, tvl, vol24h float64) model.Pool {
	return model.Pool{
		Address:     address,
		TokenA:      model.Token{Symbol: a, Decimals: model.Uint8(9)},
		TokenB:      model.Token{Symbol: b, Decimals: model.Uint8(6)},
		FeeRate:     0.003,
		TickSpacing: 64,
		Price:       price,
		TVLUSD:      tvl,
		Stats24h:    model.WindowStats{VolumeUSD: vol24h, FeesUSD: vol24h * 0.003},
		Stats7d:     model.WindowStats{VolumeUSD: vol24h * 7},
		Stats30d:    model.WindowStats{VolumeUSD: vol24h * 30},
	}
}

func lowUniverse() staticPools {
	return staticPools{
		pool("POOL_SOL_MSOL", "mSOL", "SOL", 1.25, 3_000_000, 1_500_000),
		pool("POOL_SOL_USDC", "SOL", "USDC", 150, 5_000_000, 2_000_000),
		pool("POOL_USDC_USDT", "USDC", "USDT", 1, 10_000_000, 8_000_000),
		pool("POOL_BONK_SOL", "BONK", "SOL", 0.00001, 1_000_000, 500_000),
	}
}

type harness struct {
	dir  string
	deps Deps
	cfg  Config
	now  time.Time
}

func newHarness(t *testing.T, pools staticPools, prices staticPrices, funding provider.FundingSource) *harness {
	t.Helper()
	dir := t.TempDir()
	h := &harness{
		dir: dir,
		now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		cfg: Config{
			OutDir:     dir,
			PriceDays:  31,
			Components: config.DefaultComponents(),
		},
	}
	h.deps = Deps{
		Pools:        pools,
		Prices:       prices,
		Funding:      funding,
		StabilityLog: eventlog.NewJSONLLog[stability.Snapshot](filepath.Join(dir, outputs.PoolStatsHistoryFile), nil),
		LedgerLog:    eventlog.NewJSONLLog[model.LedgerEntry](filepath.Join(dir, outputs.PerformanceLedgerFile), nil),
		State:        &regime.FileStateStore{Path: filepath.Join(dir, outputs.RegimeStateFile)},
		Now:          func() time.Time { return h.now },
	}
	return h
}

func (h *harness) run(t *testing.T) Result {
	t.Helper()
	p, err := New(h.cfg, h.deps)
	require.NoError(t, err)
	res, err := p.Run(context.Background())
	require.NoError(t, err)
	return res
}

func TestRunLowRegimeScenario(t *testing.T) {
	h := newHarness(t, lowUniverse(), staticPrices{prices: oscillating(31, 100, 0.005)}, staticFunding{apr: 0})
	res := h.run(t)

	require.Equal(t, model.RegimeLow, res.State.Regime)

	require.Len(t, res.Shortlist.Selected, 1, "LOW slot 2 stays empty without an exceptional SOL-STABLE")
	slot1 := res.Shortlist.Selected[0]
	assert.Equal(t, 1, slot1.Slot)
	assert.Equal(t, "POOL_SOL_MSOL", slot1.Pool.Address)
	assert.Equal(t, model.PoolTypeSOLLST, slot1.Pool.Type)
	assert.True(t, shortlist.HasReason(slot1, shortlist.ReasonRegimeLow))
	assert.False(t, shortlist.HasReason(slot1, shortlist.ReasonFallbackAnyType))

	require.Len(t, res.Allocation.Items, 1)
	assert.Equal(t, 100, res.Allocation.Items[0].WeightPct)

	for _, rp := range res.Ranked.Pools {
		assert.NotEqual(t, model.PoolTypeStableStable, rp.Type, "stable-stable pools are hidden")
		assert.GreaterOrEqual(t, rp.Score, 0.0)
		assert.LessOrEqual(t, rp.Score, 100.0)
		assert.Equal(t, 0.25, rp.StabilityScore, "no history yields the fallback stability")
	}
	assert.Equal(t, 1, res.Ranked.Analytics.StableStable)
	assert.Contains(t, res.Ranked.Analytics.UnclassifiedList, "POOL_BONK_SOL")

	require.Len(t, res.Plans.Plans, 1)
	for _, preset := range res.Plans.Plans[0].Presets {
		assert.GreaterOrEqual(t, preset.HalfWidthPct, 2.0)
		assert.LessOrEqual(t, preset.HalfWidthPct, 30.0)
	}

	require.NoError(t, AssertOutputs(h.dir))
	assert.Equal(t, 1, res.Summary.Entries)
	assert.Equal(t, model.RegimeLow, res.Summary.LatestRegime)
}

func TestRunHighRegimePicksTwoStableAnchors(t *testing.T) {
	pools := staticPools{
		pool("POOL_SOL_USDC_A", "SOL", "USDC", 150, 6_000_000, 4_000_000),
		pool("POOL_SOL_USDC_B", "SOL", "USDC", 150, 3_000_000, 1_000_000),
		pool("POOL_SOL_MSOL", "mSOL", "SOL", 1.25, 3_000_000, 1_500_000),
	}
	for i := range pools {
		// rising turnover: the last week ran at twice the monthly pace.
		pools[i].Stats7d.VolumeUSD = pools[i].Stats24h.VolumeUSD * 14
	}
	h := newHarness(t, pools, staticPrices{prices: oscillating(31, 100, 0.1)}, staticFunding{apr: 40})
	res := h.run(t)

	require.Equal(t, model.RegimeHigh, res.State.Regime)
	require.Len(t, res.Shortlist.Selected, 2)
	assert.NotEqual(t, res.Shortlist.Selected[0].Pool.Address, res.Shortlist.Selected[1].Pool.Address)
	for _, item := range res.Shortlist.Selected {
		assert.Equal(t, model.PoolTypeSOLStable, item.Pool.Type)
	}

	weights := []int{res.Allocation.Items[0].WeightPct, res.Allocation.Items[1].WeightPct}
	assert.Equal(t, []int{50, 50}, weights)

	kinds := map[model.AlertKind]bool{}
	for _, a := range res.Alerts {
		kinds[a.Kind] = true
	}
	assert.True(t, kinds[model.AlertFundingSpike], "funding at 40 APR should alert")
}

func TestRunAppliesHysteresisAcrossRuns(t *testing.T) {
	h := newHarness(t, lowUniverse(), staticPrices{prices: oscillating(31, 100, 0.005)}, staticFunding{apr: 0})
	first := h.run(t)
	require.Equal(t, model.RegimeLow, first.State.Regime)

	h.now = h.now.Add(24 * time.Hour)
	second := h.run(t)
	require.NotNil(t, second.State.Hysteresis.PreviousScore)
	assert.Equal(t, model.RegimeLow, second.State.Hysteresis.PreviousRegime)
	assert.Equal(t, 2, second.Summary.Entries)
	assert.Equal(t, 0, second.Summary.RegimeChanges)

	var persisted model.RegimeState
	require.NoError(t, outputs.ReadJSON(filepath.Join(h.dir, outputs.RegimeStateFile), &persisted))
	assert.True(t, persisted.UpdatedAt.Equal(h.now))

	snaps, err := h.deps.StabilityLog.Scan(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Len(t, snaps, 2*len(lowUniverse()))
}

func TestRunFundingFailureIsDegraded(t *testing.T) {
	h := newHarness(t, lowUniverse(), staticPrices{prices: oscillating(31, 100, 0.005)}, staticFunding{err: errors.New("binance down")})
	res := h.run(t)

	assert.Nil(t, res.State.Metrics.FundingAprPct)
	assert.Contains(t, strings.Join(res.State.Notes, "|"), "funding unavailable: binance down")
	assert.Nil(t, res.Entry.FundingAprPct)
	require.NoError(t, AssertOutputs(h.dir))
}

func TestRunPriceFailureWritesNothing(t *testing.T) {
	h := newHarness(t, lowUniverse(), staticPrices{err: errors.New("coingecko down")}, nil)
	p, err := New(h.cfg, h.deps)
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch price series")

	entries, err := os.ReadDir(h.dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

type failingAppend[T eventlog.Record] struct {
	eventlog.Log[T]
	err error
}

func (f failingAppend[T]) Append(context.Context, ...T) error { return f.err }

func readOutputs(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := map[string]string{}
	for _, name := range outputs.Required {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		out[name] = string(data)
	}
	return out
}

func TestRunLedgerFailureKeepsPreviousOutputs(t *testing.T) {
	h := newHarness(t, lowUniverse(), staticPrices{prices: oscillating(31, 100, 0.005)}, staticFunding{apr: 0})
	h.run(t)
	before := readOutputs(t, h.dir)

	h.now = h.now.Add(24 * time.Hour)
	h.deps.Prices = staticPrices{prices: oscillating(31, 100, 0.1)}
	h.deps.LedgerLog = failingAppend[model.LedgerEntry]{Log: h.deps.LedgerLog, err: errors.New("disk full")}
	p, err := New(h.cfg, h.deps)
	require.NoError(t, err)

	_, err = p.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.Equal(t, before, readOutputs(t, h.dir))
	leftovers, err := filepath.Glob(filepath.Join(h.dir, "*.pending"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestRunEmptyUniverse(t *testing.T) {
	h := newHarness(t, staticPools{}, staticPrices{prices: oscillating(31, 100, 0.005)}, nil)
	res := h.run(t)

	assert.Empty(t, res.Shortlist.Selected)
	assert.Empty(t, res.Allocation.Items)
	assert.NotEmpty(t, res.Allocation.Notes)
	assert.Empty(t, res.Plans.Plans)
	require.NoError(t, AssertOutputs(h.dir))
}

func TestRunWithFixtureProviders(t *testing.T) {
	fixtures := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(fixtures, name), []byte(body), 0o644))
	}
	write(provider.FixturePoolsFile, `[
  {"address":"POOL_SOL_JITO","tokenA":{"symbol":"JitoSOL","decimals":9},"tokenB":{"symbol":"SOL","decimals":9},
   "feeRate":0.0001,"tickSpacing":1,"price":1.18,"tvlUsd":4000000,
   "stats24h":{"volumeUsd":3000000},"stats7d":{"volumeUsd":21000000},"stats30d":{"volumeUsd":90000000}}
]`)
	write(provider.FixturePricesFile, `[150,151,150,151,150,151,150,151,150,151,150,151,150,151,150,151,150,151,150,151,150,151,150,151,150,151,150,151,150,151,150]`)
	write(provider.FixtureFundingFile, `{"fundingAprPct": 5}`)

	fx := provider.Fixture{Dir: fixtures}
	h := newHarness(t, nil, staticPrices{}, fx)
	h.deps.Pools = fx
	h.deps.Prices = fx
	h.deps.Enricher = fx
	res := h.run(t)

	require.Len(t, res.Shortlist.Selected, 1)
	assert.Equal(t, "POOL_SOL_JITO", res.Shortlist.Selected[0].Pool.Address)
	require.NotNil(t, res.State.Metrics.FundingAprPct)
	assert.Equal(t, 5.0, *res.State.Metrics.FundingAprPct)
}

func TestAssertOutputsListsMissingSorted(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, outputs.ShortlistFile), []byte("{}"), 0o644))

	err := AssertOutputs(dir)
	require.Error(t, err)

	lines := strings.Split(err.Error(), "\n")[1:]
	require.Len(t, lines, len(outputs.Required)-1)
	paths := make([]string, len(lines))
	for i, l := range lines {
		paths[i] = strings.TrimSpace(l)
	}
	assert.True(t, sort.StringsAreSorted(paths))
	assert.NotContains(t, paths, filepath.Join(dir, outputs.ShortlistFile))
}

func TestNewValidatesDeps(t *testing.T) {
	_, err := New(Config{OutDir: t.TempDir()}, Deps{})
	assert.Error(t, err)
}
