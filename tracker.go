package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
)

// Tracker ties a ledger to its price and history services. It is safe for concurrent use.
type Tracker struct {
	Currency string
	// Persist, if not nil, is called with the holdings after every successful change.
	Persist func(holdings []Holding) error

	mu         sync.Mutex
	ledger     *Ledger
	resolver   PriceResolver
	store      *Store
	backtester *Backtester
}

// New returns a tracker over ledger.
func New(ledger *Ledger, resolver PriceResolver, store *Store, currency string) *Tracker {
	return &Tracker{
		Currency:   currency,
		ledger:     ledger,
		resolver:   resolver,
		store:      store,
		backtester: NewBacktester(store, currency),
	}
}

// Backtester returns the backtester used by RunBacktest.
func (t *Tracker) Backtester() *Backtester { return t.backtester }

// update applies change to a copy of the ledger, the copy replaces the ledger only once
// it is persisted. It must be called with t.mu held.
func (t *Tracker) update(change func(l *Ledger) error) error {
	next := t.ledger.clone()
	if err := change(next); err != nil {
		return err
	}
	if t.Persist != nil {
		if err := t.Persist(next.Holdings()); err != nil {
			return fmt.Errorf("cannot save holdings: %w", err)
		}
	}
	t.ledger = next
	return nil
}

// AddHolding adds shares of symbol to the portfolio, priced at the current price.
//
// shares is user input, it must parse as a positive number. When no provider has a live
// price the last historical close is used instead. The ledger is left unchanged on
// error, including when the holdings cannot be saved.
func (t *Tracker) AddHolding(ctx context.Context, symbol, shares string) (Holding, error) {
	q, err := ParseQuantity(shares)
	if err != nil {
		return Holding{}, err
	}
	h, err := NewHolding(symbol, q)
	if err != nil {
		return Holding{}, err
	}
	t.mu.Lock()
	exists := t.ledger.Has(h.Symbol)
	t.mu.Unlock()
	if exists {
		return Holding{}, fmt.Errorf("%w: %s", ErrDuplicateSymbol, h.Symbol)
	}

	price, err := t.currentPrice(ctx, h.Symbol)
	if err != nil {
		return Holding{}, err
	}
	h.Price = price

	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.update(func(l *Ledger) error { return l.Add(h) }); err != nil {
		return Holding{}, err
	}
	return h, nil
}

// currentPrice resolves a live price, or falls back on the last known close.
func (t *Tracker) currentPrice(ctx context.Context, symbol string) (Price, error) {
	q, err := t.resolver.Resolve(ctx, symbol)
	if err == nil {
		return P(q.Price), nil
	}
	if !errors.Is(err, ErrNoPriceAvailable) {
		return Price{}, err
	}
	series, lerr := t.store.Load(ctx, symbol)
	if lerr == nil && series.Len() > 0 {
		on, last := series.Latest()
		log.Printf("price-fallback symbol=%q date=%s close=%v", symbol, on, last)
		return P(last), nil
	}
	return Price{}, fmt.Errorf("%w: could not fetch price for %s nor load its historical data", ErrNoPriceAvailable, symbol)
}

// RemoveHolding removes symbol from the portfolio.
func (t *Tracker) RemoveHolding(symbol string) (Holding, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var h Holding
	err := t.update(func(l *Ledger) (err error) {
		h, err = l.Remove(symbol)
		return err
	})
	return h, err
}

// RemoveHoldingAt removes the i-th holding from the portfolio.
func (t *Tracker) RemoveHoldingAt(i int) (Holding, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var h Holding
	err := t.update(func(l *Ledger) (err error) {
		h, err = l.RemoveAt(i)
		return err
	})
	return h, err
}

// RefreshPrices updates every holding's price. Failures are per symbol and leave the
// previous price in place.
//
// Prices are fetched without holding the lock, holdings removed meanwhile are ignored.
// When the holdings cannot be saved no price is updated.
func (t *Tracker) RefreshPrices(ctx context.Context) (map[string]error, error) {
	t.mu.Lock()
	symbols := t.ledger.Symbols()
	t.mu.Unlock()

	quotes, errs := resolveAll(ctx, t.resolver, symbols)

	t.mu.Lock()
	defer t.mu.Unlock()
	var failures map[string]error
	err := t.update(func(l *Ledger) error {
		failures = l.applyQuotes(symbols, quotes, errs)
		return nil
	})
	return failures, err
}

// Holdings returns a copy of the current holdings.
func (t *Tracker) Holdings() []Holding {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.Holdings()
}

// Allocations returns the total value and the per holding allocation.
func (t *Tracker) Allocations() (Money, []Allocation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.TotalValue(t.Currency), t.ledger.Allocations(t.Currency)
}

// RunBacktest backtests the current holdings over lookback.
func (t *Tracker) RunBacktest(ctx context.Context, lookback Lookback) (*Backtest, error) {
	holdings := t.Holdings()
	if len(holdings) == 0 {
		return nil, fmt.Errorf("%w: the portfolio is empty", ErrNoValidSymbols)
	}
	return t.backtester.Run(ctx, holdings, lookback)
}
