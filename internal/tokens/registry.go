// Package tokens classifies token symbols and maps pool sides to USD prices.
package tokens

import (
	"strings"

	"orcaScanner/internal/model"
)

// Kind is the role a token plays in pair classification.
type Kind int

const (
	KindUnknown Kind = iota
	KindRisk
	KindLST
	KindStable
)

func (k Kind) String() string {
	switch k {
	case KindRisk:
		return "risk"
	case KindLST:
		return "lst"
	case KindStable:
		return "stable"
	default:
		return "unknown"
	}
}

// Config lists the symbols of each set. Matching is case-insensitive.
type Config struct {
	RiskSymbols   []string `mapstructure:"risk_symbols"`
	LSTSymbols    []string `mapstructure:"lst_symbols"`
	StableSymbols []string `mapstructure:"stable_symbols"`
}

func DefaultConfig() Config {
	return Config{
		RiskSymbols:   []string{"SOL", "WSOL"},
		LSTSymbols:    []string{"mSOL", "JitoSOL", "bSOL", "JupSOL", "INF", "stSOL", "hSOL", "bonkSOL", "vSOL", "dSOL", "laineSOL", "compassSOL", "picoSOL", "hubSOL"},
		StableSymbols: []string{"USDC", "USDT", "PYUSD", "USDS", "UXD", "USDH", "USDY"},
	}
}

// Registry answers symbol classification queries.
type Registry struct {
	kinds map[string]Kind
}

func NewRegistry(cfg Config) *Registry {
	r := &Registry{kinds: make(map[string]Kind)}
	r.add(cfg.StableSymbols, KindStable)
	r.add(cfg.LSTSymbols, KindLST)
	r.add(cfg.RiskSymbols, KindRisk)
	return r
}

func (r *Registry) add(symbols []string, kind Kind) {
	for _, symbol := range symbols {
		key := normalize(symbol)
		if key == "" {
			continue
		}
		r.kinds[key] = kind
	}
}

// Kind returns the classification of symbol.
func (r *Registry) Kind(symbol string) Kind {
	return r.kinds[normalize(symbol)]
}

// SOLExposed reports whether the token moves with the risk asset.
func (r *Registry) SOLExposed(symbol string) bool {
	k := r.Kind(symbol)
	return k == KindRisk || k == KindLST
}

// PairType classifies a pair. ok is false for unclassifiable pairs.
func (r *Registry) PairType(symbolA, symbolB string) (model.PoolType, bool) {
	a, b := r.Kind(symbolA), r.Kind(symbolB)
	if a == KindUnknown || b == KindUnknown {
		return "", false
	}
	if a > b {
		a, b = b, a
	}
	switch {
	case a == KindRisk && b == KindStable:
		return model.PoolTypeSOLStable, true
	case a == KindRisk && b == KindLST:
		return model.PoolTypeSOLLST, true
	case a == KindLST && b == KindStable:
		return model.PoolTypeLSTStable, true
	case a == KindLST && b == KindLST:
		return model.PoolTypeLSTLST, true
	case a == KindStable && b == KindStable:
		return model.PoolTypeStableStable, true
	default:
		return "", false
	}
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
