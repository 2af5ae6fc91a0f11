package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/date"
)

// Dir loads historical series from a directory of "<SYMBOL>.json" files, each a json
// array of {"Date": ..., "Close": ...} records.
//
// Records with an unreadable date or close are skipped.
type Dir string

// LoadSeries implements tracker.SeriesSource.
func (d Dir) LoadSeries(ctx context.Context, symbol string) ([]tracker.Point, error) {
	if symbol == "" || strings.ContainsAny(symbol, `/\`) || symbol == "." || symbol == ".." {
		return nil, fmt.Errorf("invalid symbol file name %q", symbol)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	content, err := os.ReadFile(filepath.Join(string(d), symbol+".json"))
	if err != nil {
		return nil, err
	}
	var records []struct {
		Date  string
		Close any
	}
	if err := json.Unmarshal(content, &records); err != nil {
		return nil, fmt.Errorf("cannot decode %s.json: %w", symbol, err)
	}
	points := make([]tracker.Point, 0, len(records))
	for _, r := range records {
		day, err := date.Parse(r.Date)
		if err != nil {
			continue
		}
		price, err := number(r.Close)
		if err != nil {
			continue
		}
		points = append(points, tracker.Point{Date: day, Close: price})
	}
	return points, nil
}

var errNotANumber = errors.New("not a number")

// number reads a json value that is either a number or a numeric string, it must be finite.
func number(v any) (float64, error) {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case string:
		var err error
		if f, err = strconv.ParseFloat(strings.TrimSpace(v), 64); err != nil {
			return 0, err
		}
	default:
		return 0, errNotANumber
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotANumber
	}
	return f, nil
}
