package tracker

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/etnz/tracker/date"
)

// Performance summarizes a backtest between its first and last snapshot.
type Performance struct {
	Initial     Money   `json:"initialValue"`
	Final       Money   `json:"finalValue"`
	TotalReturn Percent `json:"totalReturnPct"`
	ElapsedDays int     `json:"elapsedDays"`

	annualized Percent
}

// NewPerformance computes the performance of a snapshot series.
//
// For the one year lookback the annualized return is the total return as is: the
// window is already a year long. Other lookbacks use the compound annual growth rate.
func NewPerformance(snapshots []Snapshot, lookback Lookback) (Performance, error) {
	if len(snapshots) < 2 {
		return Performance{}, fmt.Errorf("%w: %d snapshot(s)", ErrInsufficientHistory, len(snapshots))
	}
	first, last := snapshots[0], snapshots[len(snapshots)-1]
	p := Performance{
		Initial:     first.Value,
		Final:       last.Value,
		ElapsedDays: date.DaysBetween(first.Date, last.Date),
	}
	ratio := last.Value.Ratio(first.Value)
	p.TotalReturn = Growth(ratio)

	switch {
	case p.ElapsedDays == 0:
		// unreported, see Annualized.
	case lookback == OneYear:
		p.annualized = p.TotalReturn
	default:
		p.annualized = Growth(math.Pow(ratio, 365/float64(p.ElapsedDays)))
	}
	return p, nil
}

// Annualized returns the annualized return.
//
// It fails with ErrZeroDurationWindow when first and last snapshots are on the same day.
func (p Performance) Annualized() (Percent, error) {
	if p.ElapsedDays == 0 {
		return 0, ErrZeroDurationWindow
	}
	return p.annualized, nil
}

// Change returns the value gained (or lost) over the window.
func (p Performance) Change() Money { return p.Final.Sub(p.Initial) }

// MarshalJSON adds the annualized return, null when it is undefined.
func (p Performance) MarshalJSON() ([]byte, error) {
	type plain Performance
	out := struct {
		plain
		Annualized *Percent `json:"annualizedReturnPct"`
	}{plain: plain(p)}
	if a, err := p.Annualized(); err == nil {
		out.Annualized = &a
	}
	return json.Marshal(out)
}
