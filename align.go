package tracker

import (
	"fmt"

	"github.com/etnz/tracker/date"
	"golang.org/x/sync/errgroup"
)

// Position is a holding paired with its price history, ready to be valued.
type Position struct {
	Symbol string
	Shares Quantity
	Series *Series
}

// Snapshot is the portfolio value on a given day.
type Snapshot struct {
	Date  date.Date `json:"date"`
	Value Money     `json:"totalValue"`
}

// column holds the prices of one position along the date axis.
type column struct {
	prices []float64
	ok     []bool
}

// Align values the positions on every day any of them has a price on or after start.
//
// Each position's series is first restricted to start and later, positions left empty are
// ignored. On a given day a position uses its close of that day, or its latest close
// before it. A day where any position has no price yet is skipped entirely, so is a day
// with no positive value. Snapshots are in strictly ascending date order.
//
// It fails with ErrInsufficientHistory when fewer than two snapshots remain.
func Align(start date.Date, positions []Position, currency string) ([]Snapshot, error) {
	restricted := make([]Position, 0, len(positions))
	for _, p := range positions {
		if p.Series == nil {
			continue
		}
		s := p.Series.Since(start)
		if s.Len() == 0 {
			continue
		}
		restricted = append(restricted, Position{Symbol: p.Symbol, Shares: p.Shares, Series: s})
	}

	histories := make([]*Series, len(restricted))
	for i, p := range restricted {
		histories[i] = p.Series
	}
	var axis []date.Date
	for d := range date.Iterate(histories...) {
		axis = append(axis, d)
	}

	// Lookups are independent per position, they run concurrently and are joined before
	// the per day reduction.
	columns := make([]column, len(restricted))
	var g errgroup.Group
	for i, p := range restricted {
		g.Go(func() error {
			c := column{prices: make([]float64, len(axis)), ok: make([]bool, len(axis))}
			for j, d := range axis {
				c.prices[j], c.ok[j] = p.Series.ValueAsOf(d)
			}
			columns[i] = c
			return nil
		})
	}
	g.Wait()

	snapshots := make([]Snapshot, 0, len(axis))
	for j, d := range axis {
		if s, ok := valueOn(j, restricted, columns, currency); ok {
			snapshots = append(snapshots, Snapshot{Date: d, Value: s})
		}
	}

	if len(snapshots) < 2 {
		return nil, fmt.Errorf("%w: %d valued day(s) since %s", ErrInsufficientHistory, len(snapshots), start)
	}
	return snapshots, nil
}

// valueOn sums the positions value on the j-th day of the axis, in positions order.
// It returns false if any position has no price or if the total is not positive.
func valueOn(j int, positions []Position, columns []column, currency string) (Money, bool) {
	total := M(0, currency)
	for i, p := range positions {
		if !columns[i].ok[j] {
			return Money{}, false
		}
		total = total.Add(M(columns[i].prices[j], currency).Mul(p.Shares))
	}
	return total, total.IsPositive()
}
