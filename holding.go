package tracker

import (
	"fmt"
	"strings"
)

// Holding is a position in a single symbol.
//
// Its json form {"symbol", "shares", "price"} is the persisted shape of a portfolio.
type Holding struct {
	Symbol string   `json:"symbol"`
	Shares Quantity `json:"shares"`
	Price  Price    `json:"price"`
}

// NormalizeSymbol returns the canonical form of a user typed symbol.
func NormalizeSymbol(symbol string) string { return strings.ToUpper(strings.TrimSpace(symbol)) }

// NewHolding returns a validated holding with an unknown price.
func NewHolding(symbol string, shares Quantity) (Holding, error) {
	h := Holding{Symbol: NormalizeSymbol(symbol), Shares: shares}
	return h, h.validate()
}

func (h Holding) validate() error {
	if h.Symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidSymbol)
	}
	if !h.Shares.IsPositive() {
		return fmt.Errorf("%w: %s has %v shares, want a positive number", ErrInvalidShares, h.Symbol, h.Shares)
	}
	return nil
}

// Value returns shares × price, and false if the price is unknown.
func (h Holding) Value(currency string) (Money, bool) {
	price, ok := h.Price.In(currency)
	if !ok {
		return Money{}, false
	}
	return price.Mul(h.Shares), true
}
