package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/date"
)

// EODHDURL is the default EOD Historical Data API host.
const EODHDURL = "https://eodhd.com"

// EODHDEnv is the environment variable holding the EODHD API key.
const EODHDEnv = "EODHD_API_KEY"

// eodhdTicker returns the EODHD ticker of a symbol, "SYMBOL.EXCHANGE". Symbols without an
// exchange are assumed to be US listed.
func eodhdTicker(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	return symbol + ".US"
}

func eodhdKey(apiKey string) string {
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(EODHDEnv))
	}
	if apiKey == "" {
		apiKey = "demo"
	}
	return apiKey
}

// NewEODHD returns the EODHD real-time (delayed) quote endpoint.
func NewEODHD(apiKey string) *Endpoint {
	apiKey = eodhdKey(apiKey)
	return &Endpoint{
		BaseURL: EODHDURL,
		name:    "eodhd",
		addr: func(symbol string) string {
			return fmt.Sprintf("/api/real-time/%s?fmt=json&api_token=%s", eodhdTicker(symbol), url.QueryEscape(apiKey))
		},
		path: "$.close",
	}
}

// EODHDHistory loads daily closes from the EODHD end-of-day API.
type EODHDHistory struct {
	BaseURL string
	APIKey  string
	// From is the first day requested, zero means the full history.
	From   date.Date
	Client *http.Client
}

// NewEODHDHistory returns a series source using the EODHD API, responses are cached on
// disk for the day.
func NewEODHDHistory(apiKey string) *EODHDHistory {
	return &EODHDHistory{
		BaseURL: EODHDURL,
		APIKey:  eodhdKey(apiKey),
		Client:  newDailyCachingClient(),
	}
}

// LoadSeries implements tracker.SeriesSource.
func (s *EODHDHistory) LoadSeries(ctx context.Context, symbol string) ([]tracker.Point, error) {
	// https://eodhd.com/api/eod/MCD.US?api_token=demo&fmt=json
	// [
	//	{
	//		"date": "2024-02-13",
	//		"open": 675.066,
	//		"high": 684.219,
	//		"low": 648.659,
	//		"close": 668.445,
	//		"adjusted_close": 67.705,
	//		"volume": 0
	//	  },
	addr := fmt.Sprintf("%s/api/eod/%s?fmt=json&api_token=%s", strings.TrimSuffix(s.BaseURL, "/"), url.PathEscape(eodhdTicker(symbol)), url.QueryEscape(s.APIKey))
	if !s.From.IsZero() {
		addr += "&from=" + s.From.String()
	}
	client := s.Client
	if client == nil {
		client = newDailyCachingClient()
	}

	var content []tracker.Point
	if err := jwget(ctx, client, addr, &content); err != nil {
		return nil, fmt.Errorf("eodhd %s: %w", symbol, err)
	}
	return content, nil
}
