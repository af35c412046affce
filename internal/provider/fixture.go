package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"orcaScanner/internal/model"
)

// Fixture file names inside a fixture directory.
const (
	FixturePoolsFile      = "pools.json"
	FixturePricesFile     = "prices.json"
	FixtureFundingFile    = "funding.json"
	FixtureEnrichmentFile = "enrichment.json"
)

// ErrFixtureMissing is returned when an optional fixture file is absent.
var ErrFixtureMissing = errors.New("fixture file missing")

// Fixture serves every collaborator from JSON files in Dir. It backs offline
// runs and tests.
type Fixture struct {
	Dir string
}

type fundingFixture struct {
	FundingAprPct float64 `json:"fundingAprPct"`
}

func (f Fixture) read(name string, out any) error {
	raw, err := os.ReadFile(filepath.Join(f.Dir, name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFixtureMissing, name)
		}
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (f Fixture) ListPools(ctx context.Context) ([]model.Pool, error) {
	var pools []model.Pool
	if err := f.read(FixturePoolsFile, &pools); err != nil {
		return nil, err
	}
	return pools, nil
}

// DailyPrices returns the last days closes, or all of them when fewer exist.
func (f Fixture) DailyPrices(ctx context.Context, days int) ([]float64, error) {
	var prices []float64
	if err := f.read(FixturePricesFile, &prices); err != nil {
		return nil, err
	}
	if len(prices) == 0 {
		return nil, fmt.Errorf("%s: empty price series", FixturePricesFile)
	}
	if days > 0 && len(prices) > days {
		prices = prices[len(prices)-days:]
	}
	return prices, nil
}

func (f Fixture) FundingAPR(ctx context.Context) (float64, error) {
	var v fundingFixture
	if err := f.read(FixtureFundingFile, &v); err != nil {
		return 0, err
	}
	return v.FundingAprPct, nil
}

// Enrich returns the recorded enrichments; an absent file yields none.
func (f Fixture) Enrich(ctx context.Context, pools []model.Pool) (map[string]model.Enrichment, error) {
	var all map[string]model.Enrichment
	if err := f.read(FixtureEnrichmentFile, &all); err != nil {
		if errors.Is(err, ErrFixtureMissing) {
			return map[string]model.Enrichment{}, nil
		}
		return nil, err
	}
	out := make(map[string]model.Enrichment, len(pools))
	for _, p := range pools {
		if en, ok := all[p.Address]; ok {
			en.Address = p.Address
			out[p.Address] = en
		}
	}
	return out, nil
}
