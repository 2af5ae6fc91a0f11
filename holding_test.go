package tracker

import (
	"errors"
	"testing"
)

func TestNewHolding(t *testing.T) {
	tests := []struct {
		symbol  string
		shares  Quantity
		want    string
		wantErr error
	}{
		{symbol: " aapl ", shares: Q(10), want: "AAPL"},
		{symbol: "brk.b", shares: Q(0.5), want: "BRK.B"},
		{symbol: "  ", shares: Q(1), wantErr: ErrInvalidSymbol},
		{symbol: "MSFT", shares: Q(0), wantErr: ErrInvalidShares},
		{symbol: "MSFT", shares: Q(-3), wantErr: ErrInvalidShares},
	}
	for _, tt := range tests {
		h, err := NewHolding(tt.symbol, tt.shares)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewHolding(%q, %v) error = %v, want %v", tt.symbol, tt.shares, err, tt.wantErr)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewHolding(%q, %v) unexpected error = %v", tt.symbol, tt.shares, err)
			continue
		}
		if h.Symbol != tt.want {
			t.Errorf("NewHolding(%q, %v).Symbol = %q, want %q", tt.symbol, tt.shares, h.Symbol, tt.want)
		}
		if h.Price.Known() {
			t.Errorf("NewHolding(%q, %v).Price is known, want unknown", tt.symbol, tt.shares)
		}
	}
}

func TestHolding_Value(t *testing.T) {
	h := Holding{Symbol: "AAPL", Shares: Q(10), Price: P(150.25)}
	got, ok := h.Value("USD")
	if !ok || !got.Equal(USD(1502.5)) {
		t.Errorf("Value() = %v, %v, want %v, true", got, ok, USD(1502.5))
	}

	h.Price = Price{}
	if _, ok := h.Value("USD"); ok {
		t.Error("Value() of an unknown price is ok, want false")
	}

	// a known zero price is a value, not a missing one.
	h.Price = P(0)
	got, ok = h.Value("USD")
	if !ok || !got.Equal(USD(0)) {
		t.Errorf("Value() = %v, %v, want 0, true", got, ok)
	}
}

func TestParseQuantity(t *testing.T) {
	for _, s := range []string{"10", " 2.5 ", "0.001"} {
		if _, err := ParseQuantity(s); err != nil {
			t.Errorf("ParseQuantity(%q) unexpected error = %v", s, err)
		}
	}
	for _, s := range []string{"", "ten", "1,5"} {
		if _, err := ParseQuantity(s); !errors.Is(err, ErrInvalidShares) {
			t.Errorf("ParseQuantity(%q) error = %v, want %v", s, err, ErrInvalidShares)
		}
	}
}
