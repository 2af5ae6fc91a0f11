package tracker

import (
	"context"
	"fmt"
	"log"
	"math"
)

// PriceProvider is a source of live prices, e.g. a market data web API.
type PriceProvider interface {
	// Name identifies the provider in logs.
	Name() string
	// Price returns the latest price for symbol.
	Price(ctx context.Context, symbol string) (float64, error)
}

// Quote is a freshly resolved price.
type Quote struct {
	Symbol   string
	Price    float64
	Provider string // name of the provider that answered.
}

// PriceResolver resolves the current price of a symbol.
type PriceResolver interface {
	Resolve(ctx context.Context, symbol string) (Quote, error)
}

// Resolver tries an ordered list of providers until one returns a valid price.
//
// Providers are consulted one at a time, in priority order: a provider is only asked
// once the previous one has failed.
type Resolver struct {
	providers []PriceProvider
}

// NewResolver returns a resolver trying providers in the given order.
func NewResolver(providers ...PriceProvider) *Resolver {
	return &Resolver{providers: providers}
}

// resolveState is the state of a single resolution.
type resolveState int

const (
	trying resolveState = iota
	succeeded
	exhausted
)

// Resolve returns the price from the first provider that succeeds.
//
// A provider succeeds only with a strictly positive price. When every provider failed
// the error wraps ErrNoPriceAvailable.
func (r *Resolver) Resolve(ctx context.Context, symbol string) (Quote, error) {
	symbol = NormalizeSymbol(symbol)
	q := Quote{Symbol: symbol}

	state, i := trying, 0
	for state == trying {
		if i >= len(r.providers) {
			state = exhausted
			break
		}
		p := r.providers[i]
		price, err := p.Price(ctx, symbol)
		switch {
		case err != nil:
			log.Printf("price-provider-failed provider=%s symbol=%q err=%v", p.Name(), symbol, err)
			i++
		case math.IsNaN(price) || math.IsInf(price, 0) || price <= 0:
			log.Printf("price-provider-failed provider=%s symbol=%q err=\"invalid price %v\"", p.Name(), symbol, price)
			i++
		default:
			q.Price, q.Provider = price, p.Name()
			state = succeeded
		}
	}

	if state == exhausted {
		return q, fmt.Errorf("%w for %s: %d provider(s) tried", ErrNoPriceAvailable, symbol, len(r.providers))
	}
	return q, nil
}
