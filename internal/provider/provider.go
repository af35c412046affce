// Package provider holds the collaborator contracts the pipeline consumes and
// their default HTTP, RPC and fixture-file adapters.
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"orcaScanner/internal/model"
)

// PoolSource lists the pool universe. A failure is fatal to the run.
type PoolSource interface {
	ListPools(ctx context.Context) ([]model.Pool, error)
}

// Enricher looks up on-chain pool state. Per-pool failures are reported in
// Enrichment.Reason; an error means the whole lookup failed.
type Enricher interface {
	Enrich(ctx context.Context, pools []model.Pool) (map[string]model.Enrichment, error)
}

// FundingSource returns the annualized funding proxy in percent.
type FundingSource interface {
	FundingAPR(ctx context.Context) (float64, error)
}

// PriceSeriesSource returns daily closes of the risk asset, oldest first.
// A failure is fatal to the run.
type PriceSeriesSource interface {
	DailyPrices(ctx context.Context, days int) ([]float64, error)
}

const defaultHTTPTimeout = 15 * time.Second

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &http.Client{Timeout: timeout}
}

// getJSON performs one rate-limited GET and decodes the JSON body. No retries.
func getJSON(ctx context.Context, client *http.Client, limiter *rate.Limiter, url string, out any) error {
	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("http %d: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
