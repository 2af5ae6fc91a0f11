package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/provider"
)

// withFlag sets a global flag for the duration of the test.
func withFlag(t *testing.T, p *string, v string) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func TestRemoveTarget(t *testing.T) {
	tests := []struct {
		arg        string
		wantSymbol string
		wantIndex  int
		wantErr    bool
	}{
		{arg: "AAPL", wantSymbol: "AAPL", wantIndex: -1},
		{arg: "#1", wantIndex: 0},
		{arg: "#12", wantIndex: 11},
		{arg: "#0", wantIndex: -1, wantErr: true},
		{arg: "#x", wantIndex: -1, wantErr: true},
		{arg: " ", wantIndex: -1, wantErr: true},
	}
	for _, tt := range tests {
		symbol, index, err := removeTarget(tt.arg)
		if (err != nil) != tt.wantErr || symbol != tt.wantSymbol || index != tt.wantIndex {
			t.Errorf("removeTarget(%q) = %q, %d, %v, want %q, %d, error %v", tt.arg, symbol, index, err, tt.wantSymbol, tt.wantIndex, tt.wantErr)
		}
	}
}

func TestNewPriceProviders(t *testing.T) {
	list, err := NewPriceProviders("eodhd, Yahoo,alphavantage")
	if err != nil {
		t.Fatalf("NewPriceProviders() unexpected error = %v", err)
	}
	var names []string
	for _, p := range list {
		names = append(names, p.Name())
	}
	if len(names) != 3 || names[0] != "eodhd" || names[1] != "yahoo" || names[2] != "alphavantage" {
		t.Errorf("NewPriceProviders() = %v, want eodhd, yahoo, alphavantage in order", names)
	}
	for _, in := range []string{"", " , ", "bloomberg"} {
		if _, err := NewPriceProviders(in); err == nil {
			t.Errorf("NewPriceProviders(%q) expected an error", in)
		}
	}
}

func TestNewSeriesSource(t *testing.T) {
	withFlag(t, dataDir, "somewhere")
	src, err := NewSeriesSource("dir")
	if err != nil || src != provider.Dir("somewhere") {
		t.Errorf("NewSeriesSource(dir) = %v, %v, want the somewhere directory", src, err)
	}
	if _, ok := must(NewSeriesSource("EODHD")).(*provider.EODHDHistory); !ok {
		t.Error("NewSeriesSource(EODHD) is not an EODHD source")
	}
	if _, err := NewSeriesSource("ftp"); err == nil {
		t.Error("NewSeriesSource(ftp) expected an error")
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestHoldingsFile(t *testing.T) {
	dir := t.TempDir()
	withFlag(t, holdingsFile, filepath.Join(dir, "holdings.json"))
	withFlag(t, dataDir, dir)
	withFlag(t, history, "dir")
	withFlag(t, providers, "yahoo")

	holdings, err := DecodeHoldings()
	if err != nil || holdings != nil {
		t.Fatalf("DecodeHoldings() of a missing file = %v, %v, want nil, nil", holdings, err)
	}

	closes := `[{"Date":"2024-01-02","Close":10},{"Date":"2024-01-03","Close":12}]`
	if err := os.WriteFile(filepath.Join(dir, "AAA.json"), []byte(closes), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := EncodeHoldings([]tracker.Holding{{Symbol: "AAA", Shares: tracker.Q(3), Price: tracker.P(11)}}); err != nil {
		t.Fatalf("EncodeHoldings() unexpected error = %v", err)
	}

	tr, err := NewTracker()
	if err != nil {
		t.Fatalf("NewTracker() unexpected error = %v", err)
	}
	if _, err := tr.RemoveHolding("AAA"); err != nil {
		t.Fatalf("RemoveHolding() unexpected error = %v", err)
	}
	holdings, err = DecodeHoldings()
	if err != nil || len(holdings) != 0 {
		t.Errorf("DecodeHoldings() after remove = %v, %v, want an empty portfolio", holdings, err)
	}
	if _, err := tr.RunBacktest(context.Background(), tracker.MaxAvailable); !errors.Is(err, tracker.ErrNoValidSymbols) {
		t.Errorf("RunBacktest() of an empty portfolio error = %v, want %v", err, tracker.ErrNoValidSymbols)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".json" && e.Name() != "holdings.json" && e.Name() != "AAA.json" {
			t.Errorf("leftover file %s", e.Name())
		}
	}
}
