package tracker

import (
	"bytes"

	"github.com/shopspring/decimal"
)

// Price is a unit price that may be unknown.
//
// The zero Price is unknown, which is not the same as a known price of zero.
type Price struct {
	value decimal.Decimal
	known bool
}

// P returns a known price.
func P[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Price {
	return Price{value: newDecimal(value), known: true}
}

// Known reports whether the price has a value.
func (p Price) Known() bool { return p.known }

// In returns the price as Money in the given currency and true, or false if unknown.
func (p Price) In(currency string) (Money, bool) {
	if !p.known {
		return Money{}, false
	}
	return Money{value: p.value, cur: currency}, true
}

func (p Price) String() string {
	if !p.known {
		return "-"
	}
	return p.value.String()
}

// MarshalJSON writes null for an unknown price.
func (p Price) MarshalJSON() ([]byte, error) {
	if !p.known {
		return []byte("null"), nil
	}
	return []byte(p.value.String()), nil
}

// UnmarshalJSON reads a number, or null for an unknown price.
func (p *Price) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*p = Price{}
		return nil
	}
	if err := p.value.UnmarshalJSON(data); err != nil {
		return err
	}
	p.known = true
	return nil
}
