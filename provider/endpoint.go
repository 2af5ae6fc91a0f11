package provider

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

var (
	ErrPriceNotFound = errors.New("price not found")
	ErrRateLimited   = errors.New("rate limit or information note")
)

// Endpoint is a live price web API returning a json payload, where the price is found
// at a fixed json path.
type Endpoint struct {
	// BaseURL is the scheme and host of the API, it can be changed to target a mirror.
	BaseURL string
	Client  *http.Client

	name string
	// addr returns the query address for symbol, relative to BaseURL.
	addr func(symbol string) string
	// path is the jsonpath to the price in the payload.
	path string
	// check, if not nil, rejects payloads that are valid json but not a quote.
	check func(payload any) error
}

// Name implements tracker.PriceProvider.
func (e *Endpoint) Name() string { return e.name }

// Price implements tracker.PriceProvider.
func (e *Endpoint) Price(ctx context.Context, symbol string) (float64, error) {
	client := e.Client
	if client == nil {
		client = newLiveClient()
	}
	var payload any
	if err := jwget(ctx, client, strings.TrimSuffix(e.BaseURL, "/")+e.addr(url.PathEscape(symbol)), &payload); err != nil {
		return math.NaN(), fmt.Errorf("%s: %w", e.name, err)
	}
	if e.check != nil {
		if err := e.check(payload); err != nil {
			return math.NaN(), fmt.Errorf("%s: %w", e.name, err)
		}
	}
	price, err := extractPrice(e.path, payload)
	if err != nil {
		return math.NaN(), fmt.Errorf("%s %s: %w", e.name, symbol, err)
	}
	return price, nil
}

// extractPrice reads a positive number at path in payload.
func extractPrice(path string, payload any) (float64, error) {
	jval, err := jsonpath.Get(path, payload)
	if err != nil {
		return math.NaN(), fmt.Errorf("%w: %q: %v", ErrPriceNotFound, path, err)
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}

	var val float64
	switch v := jval.(type) {
	case float64:
		val = v
	case string:
		// sometimes APIs return the value as a string
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		val, err = strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), fmt.Errorf("%w: %q is an invalid number %q", ErrPriceNotFound, path, v)
		}
	default:
		return math.NaN(), fmt.Errorf("%w: %q is not a number: %v", ErrPriceNotFound, path, jval)
	}
	if !(val > 0) || math.IsInf(val, 1) {
		return math.NaN(), fmt.Errorf("%w: %q is not a positive finite number: %v", ErrPriceNotFound, path, val)
	}
	return val, nil
}
