package tracker

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/tracker/date"
)

// Window is the date range a backtest actually covers.
type Window struct {
	Requested date.Date `json:"requestedStart"`
	Start     date.Date `json:"effectiveStart"`
	End       date.Date `json:"effectiveEnd"`
	// Limited is true when data availability pushed the start after the requested one.
	Limited bool `json:"isLimited"`
}

// Effective returns the range of days actually valued.
func (w Window) Effective() date.Range { return date.NewRange(w.Start, w.End) }

// Backtest is the historical valuation of a fixed set of holdings.
type Backtest struct {
	Lookback    Lookback    `json:"period"`
	Currency    string      `json:"currency"`
	Snapshots   []Snapshot  `json:"snapshots"`
	Window      Window      `json:"window"`
	Performance Performance `json:"performance"`
	// Failures holds the symbols left out because their history could not be loaded.
	Failures map[string]error `json:"-"`
}

// Warnings returns a human readable message for each symbol left out, sorted by symbol.
func (b *Backtest) Warnings() []string {
	symbols := slices.Sorted(maps.Keys(b.Failures))
	warnings := make([]string, 0, len(symbols))
	for _, s := range symbols {
		warnings = append(warnings, b.Failures[s].Error())
	}
	return warnings
}

// Backtester runs backtests against a historical series store.
type Backtester struct {
	Store    *Store
	Currency string
	// Today returns the reference day fixed windows are computed from, date.Today if nil.
	Today func() date.Date
}

// NewBacktester returns a backtester valuing in currency.
func NewBacktester(store *Store, currency string) *Backtester {
	return &Backtester{Store: store, Currency: currency}
}

func (b *Backtester) today() date.Date {
	if b.Today == nil {
		return date.Today()
	}
	return b.Today()
}

// Run backtests the holdings over the lookback.
//
// Symbols whose history fails to load are left out and reported in Backtest.Failures.
// It fails with ErrNoValidSymbols when no symbol loaded at all, and with
// ErrInsufficientHistory when fewer than two days could be valued. In both cases the
// returned Backtest, if not nil, still carries the failures.
func (b *Backtester) Run(ctx context.Context, holdings []Holding, lookback Lookback) (*Backtest, error) {
	if _, ok := lookback.Years(); !ok && lookback != MaxAvailable {
		return nil, fmt.Errorf("%w %v", ErrUnknownLookback, lookback)
	}
	symbols := make([]string, len(holdings))
	for i, h := range holdings {
		symbols[i] = h.Symbol
	}
	series, failures := b.Store.LoadAll(ctx, symbols)
	bt := &Backtest{Lookback: lookback, Currency: b.Currency, Failures: failures}
	if len(series) == 0 {
		return bt, fmt.Errorf("%w: %d holding(s), none loaded", ErrNoValidSymbols, len(holdings))
	}

	requested := lookback.RequestedStart(b.today(), series)

	positions := make([]Position, 0, len(holdings))
	for _, h := range holdings {
		s, ok := series[NormalizeSymbol(h.Symbol)]
		if !ok {
			continue
		}
		positions = append(positions, Position{Symbol: NormalizeSymbol(h.Symbol), Shares: h.Shares, Series: s})
	}

	snapshots, err := Align(requested, positions, b.Currency)
	if err != nil {
		return bt, err
	}
	perf, err := NewPerformance(snapshots, lookback)
	if err != nil {
		return bt, err
	}

	start, end := snapshots[0].Date, snapshots[len(snapshots)-1].Date
	bt.Snapshots = snapshots
	bt.Performance = perf
	bt.Window = Window{
		Requested: requested,
		Start:     start,
		End:       end,
		Limited:   start.After(requested),
	}
	return bt, nil
}
