package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	defaultBinanceBase = "https://fapi.binance.com"
	fundingsPerDay     = 3
)

// BinanceFundingConfig configures the premium-index funding proxy.
type BinanceFundingConfig struct {
	BaseURL string
	Symbol  string
	Timeout time.Duration
}

// BinanceFunding annualizes the last perpetual funding rate.
type BinanceFunding struct {
	cfg     BinanceFundingConfig
	http    *http.Client
	limiter *rate.Limiter
}

func NewBinanceFunding(cfg BinanceFundingConfig) *BinanceFunding {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBinanceBase
	}
	if cfg.Symbol == "" {
		cfg.Symbol = "SOLUSDT"
	}
	return &BinanceFunding{
		cfg:     cfg,
		http:    newHTTPClient(cfg.Timeout),
		limiter: rate.NewLimiter(rate.Limit(2), 1),
	}
}

type premiumIndex struct {
	Symbol          string          `json:"symbol"`
	LastFundingRate decimal.Decimal `json:"lastFundingRate"`
}

// FundingAPR returns rate × 3 × 365 × 100.
func (b *BinanceFunding) FundingAPR(ctx context.Context) (float64, error) {
	q := url.Values{}
	q.Set("symbol", b.cfg.Symbol)

	var resp premiumIndex
	if err := getJSON(ctx, b.http, b.limiter, b.cfg.BaseURL+"/fapi/v1/premiumIndex?"+q.Encode(), &resp); err != nil {
		return 0, fmt.Errorf("binance premium index: %w", err)
	}
	return AnnualizeFunding(resp.LastFundingRate), nil
}

// AnnualizeFunding converts an 8h funding rate to an APR percentage.
func AnnualizeFunding(rate8h decimal.Decimal) float64 {
	return rate8h.Mul(decimal.NewFromInt(fundingsPerDay * 365 * 100)).Round(6).InexactFloat64()
}
