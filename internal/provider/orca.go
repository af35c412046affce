package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"orcaScanner/internal/model"
)

const (
	defaultOrcaBase = "https://api.orca.so/v2/solana"
	// fee rates are reported in hundredths of a basis point.
	orcaFeeRateDenominator = 1_000_000
)

// OrcaConfig configures the pool listing client.
type OrcaConfig struct {
	BaseURL    string
	PageSize   int
	MaxPages   int
	RatePerSec float64
	Timeout    time.Duration
}

// OrcaSource pages through the Orca pool listing.
type OrcaSource struct {
	cfg     OrcaConfig
	http    *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewOrcaSource(cfg OrcaConfig, logger *zap.Logger) *OrcaSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultOrcaBase
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 500
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 20
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrcaSource{
		cfg:     cfg,
		http:    newHTTPClient(cfg.Timeout),
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		logger:  logger,
	}
}

type orcaToken struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Decimals *uint8 `json:"decimals"`
}

type orcaWindow struct {
	Volume  decimal.Decimal `json:"volume"`
	Fees    decimal.Decimal `json:"fees"`
	Rewards decimal.Decimal `json:"rewards"`
}

type orcaReward struct {
	Active bool `json:"active"`
}

type orcaPool struct {
	Address     string                `json:"address"`
	TokenA      orcaToken             `json:"tokenA"`
	TokenB      orcaToken             `json:"tokenB"`
	TickSpacing int32                 `json:"tickSpacing"`
	FeeRate     decimal.Decimal       `json:"feeRate"`
	Liquidity   string                `json:"liquidity"`
	SqrtPrice   string                `json:"sqrtPrice"`
	Price       decimal.Decimal       `json:"price"`
	TVLUSDC     decimal.Decimal       `json:"tvlUsdc"`
	Stats       map[string]orcaWindow `json:"stats"`
	Rewards     []orcaReward          `json:"rewards"`
}

type orcaPage struct {
	Data []orcaPool `json:"data"`
	Meta struct {
		Cursor struct {
			Next *string `json:"next"`
		} `json:"cursor"`
	} `json:"meta"`
}

// ListPools fetches every page. Any page failure aborts the listing, and so
// does a cursor still pending after MaxPages.
func (s *OrcaSource) ListPools(ctx context.Context) ([]model.Pool, error) {
	var out []model.Pool
	next := ""
	for page := 0; page < s.cfg.MaxPages; page++ {
		q := url.Values{}
		q.Set("size", strconv.Itoa(s.cfg.PageSize))
		if next != "" {
			q.Set("next", next)
		}

		var resp orcaPage
		if err := getJSON(ctx, s.http, s.limiter, s.cfg.BaseURL+"/pools?"+q.Encode(), &resp); err != nil {
			return nil, fmt.Errorf("orca pools page %d: %w", page, err)
		}
		for _, p := range resp.Data {
			out = append(out, p.toModel())
		}
		s.logger.Debug("orca page fetched", zap.Int("page", page), zap.Int("pools", len(resp.Data)))

		if resp.Meta.Cursor.Next == nil || *resp.Meta.Cursor.Next == "" {
			return out, nil
		}
		next = *resp.Meta.Cursor.Next
	}
	return nil, fmt.Errorf("orca pools: more pages pending after page limit %d", s.cfg.MaxPages)
}

func (p orcaPool) toModel() model.Pool {
	active := 0
	for _, r := range p.Rewards {
		if r.Active {
			active++
		}
	}
	return model.Pool{
		Address:       p.Address,
		TokenA:        model.Token{Mint: p.TokenA.Address, Symbol: p.TokenA.Symbol, Decimals: p.TokenA.Decimals},
		TokenB:        model.Token{Mint: p.TokenB.Address, Symbol: p.TokenB.Symbol, Decimals: p.TokenB.Decimals},
		FeeRate:       p.FeeRate.Div(decimal.NewFromInt(orcaFeeRateDenominator)).InexactFloat64(),
		TickSpacing:   p.TickSpacing,
		Liquidity:     p.Liquidity,
		SqrtPrice:     p.SqrtPrice,
		Price:         p.Price.InexactFloat64(),
		TVLUSD:        p.TVLUSDC.InexactFloat64(),
		Stats24h:      p.window("24h"),
		Stats7d:       p.window("7d"),
		Stats30d:      p.window("30d"),
		ActiveRewards: active,
	}
}

func (p orcaPool) window(key string) model.WindowStats {
	w, ok := p.Stats[key]
	if !ok {
		return model.WindowStats{}
	}
	return model.WindowStats{
		VolumeUSD:  w.Volume.InexactFloat64(),
		FeesUSD:    w.Fees.InexactFloat64(),
		RewardsUSD: w.Rewards.InexactFloat64(),
	}
}
