package tracker

import (
	"encoding/json"
	"fmt"
	"io"
)

// DecodeHoldings reads a json array of {"symbol", "shares", "price"} objects.
func DecodeHoldings(r io.Reader) ([]Holding, error) {
	var holdings []Holding
	if err := json.NewDecoder(r).Decode(&holdings); err != nil {
		if err == io.EOF {
			return nil, nil // an empty file is an empty portfolio.
		}
		return nil, fmt.Errorf("cannot decode holdings: %w", err)
	}
	return holdings, nil
}

// EncodeHoldings writes holdings as an indented json array.
func EncodeHoldings(w io.Writer, holdings []Holding) error {
	if holdings == nil {
		holdings = []Holding{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(holdings); err != nil {
		return fmt.Errorf("cannot encode holdings: %w", err)
	}
	return nil
}
