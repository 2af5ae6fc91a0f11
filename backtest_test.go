package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/etnz/tracker/date"
)

func newTestBacktester(series map[string][]Point, today string) (*Backtester, *memSource) {
	src := newMemSource(series)
	b := NewBacktester(NewStore(src), "USD")
	b.Today = func() date.Date { return d(today) }
	return b, src
}

func TestBacktester_Run(t *testing.T) {
	b, _ := newTestBacktester(map[string][]Point{
		"A": daily("2024-06-01", ramp(100, 110, 30)...),
		"B": daily("2024-06-01", ramp(50, 45, 30)...),
	}, "2024-12-31")
	holdings := []Holding{
		{Symbol: "A", Shares: Q(10), Price: P(110)},
		{Symbol: "B", Shares: Q(5)},
	}

	bt, err := b.Run(context.Background(), holdings, OneYear)
	if err != nil {
		t.Fatalf("Run() unexpected error = %v", err)
	}
	if len(bt.Snapshots) != 30 {
		t.Errorf("Run() has %d snapshots, want 30", len(bt.Snapshots))
	}
	perf := bt.Performance
	if !perf.Initial.Equal(USD(1250)) || !perf.Final.Equal(USD(1325)) {
		t.Errorf("Run() values = %v -> %v, want 1250 -> 1325", perf.Initial, perf.Final)
	}
	if !perf.TotalReturn.Equal(6) {
		t.Errorf("TotalReturn = %v, want 6.00%%", perf.TotalReturn)
	}
	if a, err := perf.Annualized(); err != nil || a != perf.TotalReturn {
		t.Errorf("Annualized() = %v, %v, want exactly %v", a, err, perf.TotalReturn)
	}

	want := Window{Requested: d("2023-12-31"), Start: d("2024-06-01"), End: d("2024-06-30"), Limited: true}
	if bt.Window != want {
		t.Errorf("Window = %+v, want %+v", bt.Window, want)
	}
	if len(bt.Warnings()) != 0 {
		t.Errorf("Warnings() = %v, want none", bt.Warnings())
	}
}

func TestBacktester_WindowTruncation(t *testing.T) {
	series := map[string][]Point{
		"A": daily("2015-01-01", ramp(10, 20, 3800)...),
		"B": daily("2020-01-06", ramp(30, 40, 1000)...),
	}
	holdings := []Holding{{Symbol: "A", Shares: Q(1)}, {Symbol: "B", Shares: Q(1)}}

	for _, l := range []Lookback{TenYears, TwentyYears, MaxAvailable} {
		b, _ := newTestBacktester(series, "2025-06-01")
		bt, err := b.Run(context.Background(), holdings, l)
		if err != nil {
			t.Fatalf("Run(%v) unexpected error = %v", l, err)
		}
		if bt.Window.Start.Before(d("2020-01-01")) {
			t.Errorf("Run(%v) effective start = %v, want on or after 2020-01-01", l, bt.Window.Start)
		}
		wantLimited := bt.Window.Requested.Before(d("2020-01-01"))
		if bt.Window.Limited != wantLimited {
			t.Errorf("Run(%v) Limited = %v, want %v (requested %v)", l, bt.Window.Limited, wantLimited, bt.Window.Requested)
		}
	}
}

func TestBacktester_PartialFailure(t *testing.T) {
	b, src := newTestBacktester(map[string][]Point{
		"A": daily("2024-06-01", 10, 11, 12),
	}, "2024-12-31")
	holdings := []Holding{{Symbol: "A", Shares: Q(1)}, {Symbol: "GONE", Shares: Q(1)}}

	bt, err := b.Run(context.Background(), holdings, FiveYears)
	if err != nil {
		t.Fatalf("Run() unexpected error = %v", err)
	}
	if w := bt.Warnings(); len(w) != 1 {
		t.Errorf("Warnings() = %v, want one for GONE", w)
	}
	if !errors.Is(bt.Failures["GONE"], ErrLoadFailure) {
		t.Errorf("Failures[GONE] = %v, want %v", bt.Failures["GONE"], ErrLoadFailure)
	}
	if !bt.Performance.Final.Equal(USD(12)) {
		t.Errorf("Final = %v, want 12", bt.Performance.Final)
	}

	// a second run uses the cache.
	if _, err := b.Run(context.Background(), holdings, FiveYears); err != nil {
		t.Fatalf("Run() unexpected error = %v", err)
	}
	if n := src.count("A"); n != 1 {
		t.Errorf("source loaded A %d times, want 1", n)
	}
}

func TestBacktester_Errors(t *testing.T) {
	b, _ := newTestBacktester(map[string][]Point{
		"ONE": daily("2024-06-01", 10),
	}, "2024-12-31")

	bt, err := b.Run(context.Background(), []Holding{{Symbol: "GONE", Shares: Q(1)}}, OneYear)
	if !errors.Is(err, ErrNoValidSymbols) {
		t.Errorf("Run(no data) error = %v, want %v", err, ErrNoValidSymbols)
	}
	if bt == nil || len(bt.Failures) != 1 {
		t.Errorf("Run(no data) failures = %v, want GONE reported", bt)
	}

	if _, err := b.Run(context.Background(), []Holding{{Symbol: "ONE", Shares: Q(1)}}, OneYear); !errors.Is(err, ErrInsufficientHistory) {
		t.Errorf("Run(single day) error = %v, want %v", err, ErrInsufficientHistory)
	}
}

func TestBacktest_JSON(t *testing.T) {
	b, _ := newTestBacktester(map[string][]Point{"A": daily("2024-06-01", 10, 11)}, "2024-12-31")
	bt, err := b.Run(context.Background(), []Holding{{Symbol: "A", Shares: Q(2)}}, FiveYears)
	if err != nil {
		t.Fatalf("Run() unexpected error = %v", err)
	}
	out, err := json.Marshal(bt)
	if err != nil {
		t.Fatalf("json.Marshal() unexpected error = %v", err)
	}
	var got struct {
		Period    string `json:"period"`
		Snapshots []struct {
			Date       string  `json:"date"`
			TotalValue float64 `json:"totalValue"`
		} `json:"snapshots"`
		Window struct {
			IsLimited bool `json:"isLimited"`
		} `json:"window"`
		Performance struct {
			TotalReturnPct float64 `json:"totalReturnPct"`
		} `json:"performance"`
	}
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("json.Unmarshal(%s) unexpected error = %v", out, err)
	}
	if got.Period != "5y" || len(got.Snapshots) != 2 || got.Snapshots[1].Date != "2024-06-02" || got.Snapshots[1].TotalValue != 22 {
		t.Errorf("json.Marshal() = %s", out)
	}
	if !got.Window.IsLimited || got.Performance.TotalReturnPct < 9.99 || got.Performance.TotalReturnPct > 10.01 {
		t.Errorf("json.Marshal() = %s", out)
	}
}
