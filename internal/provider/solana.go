package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"orcaScanner/internal/chain"
	"orcaScanner/internal/dex"
	"orcaScanner/internal/model"
)

// AccountFetcher is the subset of the RPC client the enricher needs.
type AccountFetcher interface {
	GetMultipleAccounts(ctx context.Context, addresses []string) ([]*chain.Account, error)
}

// SolanaEnricherConfig tunes batched account lookups.
type SolanaEnricherConfig struct {
	BatchSize  int
	RatePerSec float64
}

// SolanaEnricher reads Whirlpool accounts and cross-checks them against the
// provider's view of each pool.
type SolanaEnricher struct {
	fetcher AccountFetcher
	cfg     SolanaEnricherConfig
	limiter *rate.Limiter
	logger  *zap.Logger
}

func NewSolanaEnricher(fetcher AccountFetcher, cfg SolanaEnricherConfig, logger *zap.Logger) *SolanaEnricher {
	if cfg.BatchSize <= 0 || cfg.BatchSize > chain.MaxAccountsPerCall {
		cfg.BatchSize = chain.MaxAccountsPerCall
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SolanaEnricher{
		fetcher: fetcher,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1),
		logger:  logger,
	}
}

// Enrich returns one entry per pool. A failed batch marks its pools with a
// reason instead of failing the call; only context cancellation is an error.
func (e *SolanaEnricher) Enrich(ctx context.Context, pools []model.Pool) (map[string]model.Enrichment, error) {
	out := make(map[string]model.Enrichment, len(pools))

	addrs := make([]string, 0, len(pools))
	byAddr := make(map[string]model.Pool, len(pools))
	for _, p := range pools {
		if _, err := chain.ParseAddress(p.Address); err != nil {
			out[p.Address] = model.Enrichment{Address: p.Address, Reason: "invalid pool address"}
			continue
		}
		if _, dup := byAddr[p.Address]; dup {
			continue
		}
		byAddr[p.Address] = p
		addrs = append(addrs, p.Address)
	}

	batches, err := chain.SplitBatches(len(addrs), e.cfg.BatchSize)
	if err != nil {
		return nil, err
	}
	for _, b := range batches {
		chunk := addrs[b.From : b.To+1]
		if err := e.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		accounts, err := e.fetcher.GetMultipleAccounts(ctx, chunk)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			e.logger.Warn("account batch failed", zap.Int("from", b.From), zap.Int("to", b.To), zap.Error(err))
			for _, addr := range chunk {
				out[addr] = model.Enrichment{Address: addr, Reason: "rpc error: " + err.Error()}
			}
			continue
		}
		for i, addr := range chunk {
			out[addr] = enrichOne(byAddr[addr], accounts[i])
		}
	}
	return out, nil
}

func enrichOne(pool model.Pool, acc *chain.Account) model.Enrichment {
	en := model.Enrichment{Address: pool.Address}
	if acc == nil {
		en.Reason = "account not found"
		return en
	}
	wp, err := dex.DecodeWhirlpool(acc)
	if err != nil {
		en.Reason = err.Error()
		return en
	}
	if pool.TokenA.Mint != "" && pool.TokenA.Mint != wp.MintA {
		en.Reason = "token A mint mismatch"
		return en
	}
	if pool.TokenB.Mint != "" && pool.TokenB.Mint != wp.MintB {
		en.Reason = "token B mint mismatch"
		return en
	}

	en.Validated = true
	en.Liquidity = wp.Liquidity.String()
	en.SqrtPrice = wp.SqrtPrice.String()
	en.TickCurrent = wp.TickCurrent
	en.TickSpacing = int32(wp.TickSpacing)
	en.FeeRate = wp.FeeFraction()
	return en
}
