package tracker

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/etnz/tracker/date"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Point is a raw daily close as returned by a SeriesSource.
type Point struct {
	Date  date.Date `json:"date"`
	Close float64   `json:"close"`
}

// SeriesSource loads the raw price history of a symbol.
type SeriesSource interface {
	LoadSeries(ctx context.Context, symbol string) ([]Point, error)
}

// Series is the normalized price history of a symbol: ascending unique dates, positive closes.
type Series = date.History[float64]

// Store loads historical series and caches them for its whole lifetime.
//
// A symbol is fetched from the source at most once per successful load, concurrent
// requests for the same symbol share the same fetch. Failures are not cached. Cached
// series are never modified and are safe to read concurrently.
type Store struct {
	source SeriesSource

	mu     sync.RWMutex
	series map[string]*Series
	group  singleflight.Group
}

// NewStore returns an empty store loading from source.
func NewStore(source SeriesSource) *Store {
	return &Store{
		source: source,
		series: make(map[string]*Series),
	}
}

// cached returns the series of symbol if it is already loaded.
func (s *Store) cached(symbol string) (*Series, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.series[symbol]
	return h, ok
}

// Load returns the series of symbol, fetching it on first use.
//
// The error wraps ErrLoadFailure.
func (s *Store) Load(ctx context.Context, symbol string) (*Series, error) {
	symbol = NormalizeSymbol(symbol)
	if h, ok := s.cached(symbol); ok {
		return h, nil
	}
	v, err, _ := s.group.Do(symbol, func() (any, error) {
		if h, ok := s.cached(symbol); ok {
			return h, nil
		}
		points, err := s.source.LoadSeries(ctx, symbol)
		if err != nil {
			return nil, fmt.Errorf("%w for %s: %w", ErrLoadFailure, symbol, err)
		}
		h := normalize(points)
		s.mu.Lock()
		s.series[symbol] = h
		s.mu.Unlock()
		log.Printf("series-loaded symbol=%q points=%d", symbol, h.Len())
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Series), nil
}

// LoadAll loads the series of every symbol concurrently.
//
// It returns the series that loaded, and the errors of the ones that did not, both keyed
// by symbol. A symbol that loaded an empty series is reported as a failure.
func (s *Store) LoadAll(ctx context.Context, symbols []string) (map[string]*Series, map[string]error) {
	loaded := make([]*Series, len(symbols))
	errs := make([]error, len(symbols))
	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, symbol := range symbols {
		g.Go(func() error {
			loaded[i], errs[i] = s.Load(ctx, symbol)
			return nil
		})
	}
	g.Wait()

	series := make(map[string]*Series, len(symbols))
	failures := make(map[string]error)
	for i, symbol := range symbols {
		symbol = NormalizeSymbol(symbol)
		switch {
		case errs[i] != nil:
			log.Printf("load-failure symbol=%q err=%v", symbol, errs[i])
			failures[symbol] = errs[i]
		case loaded[i].Len() == 0:
			failures[symbol] = fmt.Errorf("%w for %s: empty series", ErrLoadFailure, symbol)
		default:
			series[symbol] = loaded[i]
		}
	}
	return series, failures
}

// normalize builds a series out of raw points, dropping closes that are not positive
// finite numbers.
// When a date appears twice the last point wins.
func normalize(points []Point) *Series {
	h := new(Series)
	for _, p := range points {
		if p.Date.IsZero() || !(p.Close > 0) || math.IsInf(p.Close, 1) {
			continue
		}
		h.Append(p.Date, p.Close)
	}
	return h
}
