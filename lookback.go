package tracker

import (
	"fmt"
	"strings"

	"github.com/etnz/tracker/date"
)

// Lookback selects how far back a backtest starts.
type Lookback int

const (
	OneYear Lookback = iota
	FiveYears
	TenYears
	TwentyYears
	MaxAvailable
)

// Lookbacks lists all the selectors, shortest first.
var Lookbacks = []Lookback{OneYear, FiveYears, TenYears, TwentyYears, MaxAvailable}

func (l Lookback) String() string {
	switch l {
	case OneYear:
		return "1y"
	case FiveYears:
		return "5y"
	case TenYears:
		return "10y"
	case TwentyYears:
		return "20y"
	case MaxAvailable:
		return "max"
	default:
		return fmt.Sprintf("Lookback(%d)", int(l))
	}
}

// Years returns the length of a fixed window, and false for MaxAvailable.
func (l Lookback) Years() (int, bool) {
	switch l {
	case OneYear:
		return 1, true
	case FiveYears:
		return 5, true
	case TenYears:
		return 10, true
	case TwentyYears:
		return 20, true
	default:
		return 0, false
	}
}

// ParseLookback parses "1y", "5y", "10y", "20y" or "max".
func ParseLookback(s string) (Lookback, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1y", "1":
		return OneYear, nil
	case "5y", "5":
		return FiveYears, nil
	case "10y", "10":
		return TenYears, nil
	case "20y", "20":
		return TwentyYears, nil
	case "max", "all":
		return MaxAvailable, nil
	default:
		return OneYear, fmt.Errorf("%w %q, want one of 1y, 5y, 10y, 20y, max", ErrUnknownLookback, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Lookback) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Lookback) UnmarshalText(text []byte) error {
	v, err := ParseLookback(string(text))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// RequestedStart returns the first day of the backtest window.
//
// A fixed window starts N years before today. MaxAvailable starts on the latest of the
// per-symbol first dates, so that every symbol has data from there on; with no data at
// all it falls back to a one year window.
func (l Lookback) RequestedStart(today date.Date, series map[string]*Series) date.Date {
	if years, ok := l.Years(); ok {
		return today.AddYears(-years)
	}
	var latest date.Date
	for _, h := range series {
		if h.Len() == 0 {
			continue
		}
		if first, _ := h.First(); latest.IsZero() || first.After(latest) {
			latest = first
		}
	}
	if latest.IsZero() {
		return today.AddYears(-1)
	}
	return latest
}
