package tracker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/etnz/tracker/date"
)

func newTestTracker(t *testing.T, prices map[string]float64, series map[string][]Point) (*Tracker, *[][]Holding) {
	t.Helper()
	ledger, _ := NewLedger()
	tr := New(ledger,
		NewResolver(&fakeProvider{name: "fake", prices: prices}),
		NewStore(newMemSource(series)),
		"USD")
	var saved [][]Holding
	tr.Persist = func(holdings []Holding) error {
		saved = append(saved, holdings)
		return nil
	}
	return tr, &saved
}

func TestTracker_AddHolding(t *testing.T) {
	tr, saved := newTestTracker(t,
		map[string]float64{"AAPL": 150},
		map[string][]Point{"OLD": daily("2024-01-01", 10, 11, 12.5)})
	ctx := context.Background()

	h, err := tr.AddHolding(ctx, " aapl ", "10")
	if err != nil {
		t.Fatalf("AddHolding(aapl) unexpected error = %v", err)
	}
	if h.Symbol != "AAPL" || h.Price.String() != "150" {
		t.Errorf("AddHolding(aapl) = %+v, want AAPL at 150", h)
	}

	// no live price, falls back on the last close.
	h, err = tr.AddHolding(ctx, "old", "2.5")
	if err != nil {
		t.Fatalf("AddHolding(old) unexpected error = %v", err)
	}
	if h.Price.String() != "12.5" {
		t.Errorf("AddHolding(old) price = %v, want 12.5", h.Price)
	}

	tests := []struct {
		symbol, shares string
		wantErr        error
	}{
		{"AAPL", "1", ErrDuplicateSymbol},
		{"MSFT", "0", ErrInvalidShares},
		{"MSFT", "-2", ErrInvalidShares},
		{"MSFT", "abc", ErrInvalidShares},
		{"", "1", ErrInvalidSymbol},
		{"NOPE", "1", ErrNoPriceAvailable},
	}
	for _, tt := range tests {
		if _, err := tr.AddHolding(ctx, tt.symbol, tt.shares); !errors.Is(err, tt.wantErr) {
			t.Errorf("AddHolding(%q, %q) error = %v, want %v", tt.symbol, tt.shares, err, tt.wantErr)
		}
	}

	if got := len(tr.Holdings()); got != 2 {
		t.Errorf("Holdings() has %d holdings, want 2", got)
	}
	if len(*saved) != 2 {
		t.Errorf("persisted %d times, want 2", len(*saved))
	}
}

func TestTracker_RemoveHolding(t *testing.T) {
	tr, saved := newTestTracker(t, map[string]float64{"A": 1, "B": 2}, nil)
	ctx := context.Background()
	tr.AddHolding(ctx, "A", "1")
	tr.AddHolding(ctx, "B", "1")

	if _, err := tr.RemoveHolding("a"); err != nil {
		t.Fatalf("RemoveHolding(a) unexpected error = %v", err)
	}
	if _, err := tr.RemoveHolding("a"); !errors.Is(err, ErrUnknownSymbol) {
		t.Errorf("RemoveHolding(a) twice error = %v, want %v", err, ErrUnknownSymbol)
	}
	h, err := tr.RemoveHoldingAt(0)
	if err != nil || h.Symbol != "B" {
		t.Errorf("RemoveHoldingAt(0) = %v, %v, want B", h.Symbol, err)
	}
	last := (*saved)[len(*saved)-1]
	if len(last) != 0 {
		t.Errorf("last persisted holdings = %v, want empty", last)
	}
}

func TestTracker_RefreshPrices(t *testing.T) {
	prices := map[string]float64{"A": 10, "B": 20}
	tr, _ := newTestTracker(t, prices, nil)
	ctx := context.Background()
	tr.AddHolding(ctx, "A", "1")
	tr.AddHolding(ctx, "B", "3")

	prices["A"] = 12
	delete(prices, "B")
	failures, err := tr.RefreshPrices(ctx)
	if err != nil {
		t.Fatalf("RefreshPrices() unexpected error = %v", err)
	}
	if len(failures) != 1 || failures["B"] == nil {
		t.Errorf("RefreshPrices() failures = %v, want B", failures)
	}
	total, allocations := tr.Allocations()
	if !total.Equal(USD(72)) {
		t.Errorf("Allocations() total = %v, want 72", total)
	}
	if len(allocations) != 2 || !allocations[1].Value.Equal(USD(60)) {
		t.Errorf("Allocations() = %v, want B still valued at 60", allocations)
	}
}

func TestTracker_RunBacktest(t *testing.T) {
	tr, _ := newTestTracker(t, map[string]float64{"A": 10}, map[string][]Point{"A": daily("2024-06-01", 10, 11)})
	tr.Backtester().Today = func() date.Date { return d("2024-12-31") }
	ctx := context.Background()

	if _, err := tr.RunBacktest(ctx, OneYear); !errors.Is(err, ErrNoValidSymbols) {
		t.Errorf("RunBacktest(empty) error = %v, want %v", err, ErrNoValidSymbols)
	}
	tr.AddHolding(ctx, "A", "1")
	bt, err := tr.RunBacktest(ctx, OneYear)
	if err != nil {
		t.Fatalf("RunBacktest() unexpected error = %v", err)
	}
	if len(bt.Snapshots) != 2 {
		t.Errorf("RunBacktest() has %d snapshots, want 2", len(bt.Snapshots))
	}
}

var errDiskFull = errors.New("disk full")

func TestTracker_PersistFailure(t *testing.T) {
	tr, _ := newTestTracker(t, map[string]float64{"AAPL": 150, "MSFT": 300}, nil)
	ctx := context.Background()
	if _, err := tr.AddHolding(ctx, "MSFT", "1"); err != nil {
		t.Fatal(err)
	}
	tr.Persist = func([]Holding) error { return errDiskFull }

	if _, err := tr.AddHolding(ctx, "AAPL", "10"); !errors.Is(err, errDiskFull) {
		t.Errorf("AddHolding() error = %v, want %v", err, errDiskFull)
	}
	if _, err := tr.RemoveHolding("MSFT"); !errors.Is(err, errDiskFull) {
		t.Errorf("RemoveHolding() error = %v, want %v", err, errDiskFull)
	}
	if _, err := tr.RemoveHoldingAt(0); !errors.Is(err, errDiskFull) {
		t.Errorf("RemoveHoldingAt() error = %v, want %v", err, errDiskFull)
	}
	if got := tr.Holdings(); len(got) != 1 || got[0].Symbol != "MSFT" {
		t.Fatalf("Holdings() = %v, want only MSFT", got)
	}

	// once the disk is back, the same add succeeds.
	tr.Persist = nil
	if _, err := tr.AddHolding(ctx, "AAPL", "10"); err != nil {
		t.Errorf("AddHolding() retry error = %v", err)
	}
}

func TestTracker_RefreshPersistFailure(t *testing.T) {
	prices := map[string]float64{"A": 10}
	tr, _ := newTestTracker(t, prices, nil)
	ctx := context.Background()
	tr.AddHolding(ctx, "A", "1")
	tr.Persist = func([]Holding) error { return errDiskFull }

	prices["A"] = 12
	if _, err := tr.RefreshPrices(ctx); !errors.Is(err, errDiskFull) {
		t.Errorf("RefreshPrices() error = %v, want %v", err, errDiskFull)
	}
	if total, _ := tr.Allocations(); !total.Equal(USD(10)) {
		t.Errorf("Allocations() total = %v, want the unsaved price discarded", total)
	}
}

// slowProvider answers once released.
type slowProvider struct {
	started chan struct{}
	release chan struct{}
}

func (p *slowProvider) Name() string { return "slow" }

func (p *slowProvider) Price(ctx context.Context, symbol string) (float64, error) {
	p.started <- struct{}{}
	<-p.release
	return 42, nil
}

func TestTracker_RefreshDoesNotBlockReads(t *testing.T) {
	ledger, _ := NewLedger(Holding{Symbol: "A", Shares: Q(1), Price: P(10)})
	slow := &slowProvider{started: make(chan struct{}, 1), release: make(chan struct{})}
	tr := New(ledger, NewResolver(slow), NewStore(newMemSource(nil)), "USD")

	done := make(chan error)
	go func() {
		_, err := tr.RefreshPrices(context.Background())
		done <- err
	}()
	<-slow.started

	read := make(chan []Holding)
	go func() { read <- tr.Holdings() }()
	select {
	case got := <-read:
		if got[0].Price.String() != "10" {
			t.Errorf("Holdings() during refresh = %v, want the previous price", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Holdings() blocked by a refresh in progress")
	}

	close(slow.release)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := tr.Holdings(); got[0].Price.String() != "42" {
		t.Errorf("Holdings() after refresh = %v, want 42", got)
	}
}
