package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/etnz/tracker/date"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// d parses a date, panics on error.
func d(s string) date.Date { return date.MustParse(s) }

// fakeProvider answers prices from a map, and errors for unknown symbols.
type fakeProvider struct {
	name   string
	prices map[string]float64
	calls  atomic.Int32
}

func (p *fakeProvider) Name() string { return p.name }

func (p *fakeProvider) Price(ctx context.Context, symbol string) (float64, error) {
	p.calls.Add(1)
	v, ok := p.prices[symbol]
	if !ok {
		return 0, fmt.Errorf("%s: unknown symbol %s", p.name, symbol)
	}
	return v, nil
}

var errSourceDown = errors.New("source down")

// memSource is an in-memory series source counting its loads.
type memSource struct {
	mu     sync.Mutex
	series map[string][]Point
	// failures is the number of times a symbol fails before it loads.
	failures map[string]int
	loads    map[string]int
}

func newMemSource(series map[string][]Point) *memSource {
	return &memSource{series: series, failures: map[string]int{}, loads: map[string]int{}}
}

func (s *memSource) LoadSeries(ctx context.Context, symbol string) ([]Point, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads[symbol]++
	if s.failures[symbol] > 0 {
		s.failures[symbol]--
		return nil, errSourceDown
	}
	points, ok := s.series[symbol]
	if !ok {
		return nil, fmt.Errorf("no file for %s", symbol)
	}
	return points, nil
}

func (s *memSource) count(symbol string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loads[symbol]
}

// daily returns one point per day from start, with the given closes.
func daily(start string, closes ...float64) []Point {
	day := d(start)
	points := make([]Point, len(closes))
	for i, c := range closes {
		points[i] = Point{Date: day.Add(i), Close: c}
	}
	return points
}

// ramp returns n closes evenly spaced from first to last, both included exactly.
func ramp(first, last float64, n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = first + (last-first)*float64(i)/float64(n-1)
	}
	closes[n-1] = last
	return closes
}
