package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultCoinGeckoBase = "https://api.coingecko.com/api/v3"

// CoinGeckoConfig configures the daily price series client.
type CoinGeckoConfig struct {
	BaseURL string
	CoinID  string
	APIKey  string
	Timeout time.Duration
}

// CoinGeckoPrices fetches daily closes from the market_chart endpoint.
type CoinGeckoPrices struct {
	cfg     CoinGeckoConfig
	http    *http.Client
	limiter *rate.Limiter
}

func NewCoinGeckoPrices(cfg CoinGeckoConfig) *CoinGeckoPrices {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCoinGeckoBase
	}
	if cfg.CoinID == "" {
		cfg.CoinID = "solana"
	}
	return &CoinGeckoPrices{
		cfg:     cfg,
		http:    newHTTPClient(cfg.Timeout),
		limiter: rate.NewLimiter(rate.Limit(0.5), 1),
	}
}

type marketChart struct {
	Prices [][2]float64 `json:"prices"`
}

func (c *CoinGeckoPrices) DailyPrices(ctx context.Context, days int) ([]float64, error) {
	if days <= 0 {
		days = 31
	}
	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", strconv.Itoa(days))
	q.Set("interval", "daily")
	if c.cfg.APIKey != "" {
		q.Set("x_cg_demo_api_key", c.cfg.APIKey)
	}

	var resp marketChart
	endpoint := fmt.Sprintf("%s/coins/%s/market_chart?%s", c.cfg.BaseURL, url.PathEscape(c.cfg.CoinID), q.Encode())
	if err := getJSON(ctx, c.http, c.limiter, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("coingecko market chart: %w", err)
	}
	if len(resp.Prices) == 0 {
		return nil, fmt.Errorf("coingecko market chart: empty price series")
	}
	out := make([]float64, 0, len(resp.Prices))
	for _, point := range resp.Prices {
		out = append(out, point[1])
	}
	return out, nil
}
