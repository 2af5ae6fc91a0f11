package tracker

import (
	"context"
	"fmt"
	"log"
	"slices"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds the number of symbols fetched at the same time.
const maxConcurrentFetches = 8

// Ledger is the in-memory record of the user's positions, at most one per symbol.
//
// A Ledger is not safe for concurrent use, see Tracker for a guarded version.
type Ledger struct {
	holdings []Holding
}

// NewLedger returns a ledger holding the given positions, typically decoded from the
// persisted portfolio.
func NewLedger(holdings ...Holding) (*Ledger, error) {
	l := &Ledger{holdings: make([]Holding, 0, len(holdings))}
	for _, h := range holdings {
		if err := l.Add(h); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// index returns the position of symbol in the ledger or -1.
func (l *Ledger) index(symbol string) int {
	symbol = NormalizeSymbol(symbol)
	return slices.IndexFunc(l.holdings, func(h Holding) bool { return h.Symbol == symbol })
}

// Add appends a new holding to the ledger.
func (l *Ledger) Add(h Holding) error {
	h.Symbol = NormalizeSymbol(h.Symbol)
	if err := h.validate(); err != nil {
		return err
	}
	if l.index(h.Symbol) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateSymbol, h.Symbol)
	}
	l.holdings = append(l.holdings, h)
	return nil
}

// Has reports whether the ledger has a position in symbol.
func (l *Ledger) Has(symbol string) bool { return l.index(symbol) >= 0 }

// Get returns the holding for symbol.
func (l *Ledger) Get(symbol string) (Holding, bool) {
	i := l.index(symbol)
	if i < 0 {
		return Holding{}, false
	}
	return l.holdings[i], true
}

// Remove deletes the holding for symbol and returns it.
func (l *Ledger) Remove(symbol string) (Holding, error) {
	i := l.index(symbol)
	if i < 0 {
		return Holding{}, fmt.Errorf("%w: %s", ErrUnknownSymbol, NormalizeSymbol(symbol))
	}
	return l.RemoveAt(i)
}

// RemoveAt deletes the i-th holding and returns it.
func (l *Ledger) RemoveAt(i int) (Holding, error) {
	if i < 0 || i >= len(l.holdings) {
		return Holding{}, fmt.Errorf("%w: no holding at index %d", ErrUnknownSymbol, i)
	}
	h := l.holdings[i]
	l.holdings = slices.Delete(l.holdings, i, i+1)
	return h, nil
}

// SetPrice updates the last known price of symbol.
func (l *Ledger) SetPrice(symbol string, p Price) error {
	i := l.index(symbol)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownSymbol, NormalizeSymbol(symbol))
	}
	l.holdings[i].Price = p
	return nil
}

// Len returns the number of holdings.
func (l *Ledger) Len() int { return len(l.holdings) }

// Holdings returns a copy of the holdings, in insertion order.
func (l *Ledger) Holdings() []Holding { return slices.Clone(l.holdings) }

// Symbols returns the symbols of the holdings, in insertion order.
func (l *Ledger) Symbols() []string {
	symbols := make([]string, len(l.holdings))
	for i, h := range l.holdings {
		symbols[i] = h.Symbol
	}
	return symbols
}

// Refresh resolves a fresh price for every holding.
//
// Symbols are resolved concurrently and prices are applied once all of them are done.
// A holding whose price cannot be resolved keeps its previous price, its error is
// returned in the map keyed by symbol.
func (l *Ledger) Refresh(ctx context.Context, r PriceResolver) map[string]error {
	symbols := l.Symbols()
	quotes, errs := resolveAll(ctx, r, symbols)
	return l.applyQuotes(symbols, quotes, errs)
}

// applyQuotes sets the price of each symbol from its quote, symbols no longer in the
// ledger are ignored. It returns the errors keyed by symbol.
func (l *Ledger) applyQuotes(symbols []string, quotes []Quote, errs []error) map[string]error {
	failures := make(map[string]error)
	for i, symbol := range symbols {
		if errs[i] != nil {
			log.Printf("refresh-failed symbol=%q err=%v", symbol, errs[i])
			failures[symbol] = errs[i]
			continue
		}
		if err := l.SetPrice(symbol, P(quotes[i].Price)); err != nil {
			log.Printf("refresh-skipped symbol=%q err=%v", symbol, err)
		}
	}
	return failures
}

// clone returns an independent copy of the ledger.
func (l *Ledger) clone() *Ledger { return &Ledger{holdings: slices.Clone(l.holdings)} }

// resolveAll resolves the price of every symbol concurrently, results are in the symbols order.
func resolveAll(ctx context.Context, r PriceResolver, symbols []string) ([]Quote, []error) {
	quotes := make([]Quote, len(symbols))
	errs := make([]error, len(symbols))
	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, symbol := range symbols {
		g.Go(func() error {
			quotes[i], errs[i] = r.Resolve(ctx, symbol)
			return nil // a failing symbol never aborts the batch.
		})
	}
	g.Wait()
	return quotes, errs
}

// Allocation is the share of a holding in the portfolio value.
type Allocation struct {
	Symbol  string  `json:"symbol"`
	Value   Money   `json:"value"`
	Percent Percent `json:"percent"`
}

// TotalValue returns the sum of shares × price over the holdings with a known price.
func (l *Ledger) TotalValue(currency string) Money {
	total := M(0, currency)
	for _, h := range l.holdings {
		if v, ok := h.Value(currency); ok {
			total = total.Add(v)
		}
	}
	return total
}

// Allocations returns the value and weight of every priced holding.
// It returns nil when the portfolio has no value.
func (l *Ledger) Allocations(currency string) []Allocation {
	total := l.TotalValue(currency)
	if !total.IsPositive() {
		return nil
	}
	allocations := make([]Allocation, 0, len(l.holdings))
	for _, h := range l.holdings {
		v, ok := h.Value(currency)
		if !ok {
			continue
		}
		allocations = append(allocations, Allocation{
			Symbol:  h.Symbol,
			Value:   v,
			Percent: Percent(100 * v.Ratio(total)),
		})
	}
	return allocations
}
