package provider

import (
	"net/url"
	"os"
	"strings"
)

// AlphaVantageURL is the default Alpha Vantage API host.
const AlphaVantageURL = "https://www.alphavantage.co"

// AlphaVantageEnv is the environment variable holding the Alpha Vantage API key.
const AlphaVantageEnv = "ALPHAVANTAGE_API_KEY"

// NewAlphaVantage returns the Alpha Vantage GLOBAL_QUOTE endpoint.
//
// With an empty apiKey it reads the environment, and uses the public "demo" key as a
// last resort.
func NewAlphaVantage(apiKey string) *Endpoint {
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(AlphaVantageEnv))
	}
	if apiKey == "" {
		apiKey = "demo"
	}
	return &Endpoint{
		BaseURL: AlphaVantageURL,
		name:    "alphavantage",
		addr: func(symbol string) string {
			return "/query?function=GLOBAL_QUOTE&symbol=" + symbol + "&apikey=" + url.QueryEscape(apiKey)
		},
		path:  `$["Global Quote"]["05. price"]`,
		check: alphaVantageCheck,
	}
}

// alphaVantageCheck detects the throttling notes Alpha Vantage returns with a 200 status.
func alphaVantageCheck(payload any) error {
	obj, ok := payload.(map[string]any)
	if !ok {
		return ErrPriceNotFound
	}
	if _, ok := obj["Note"]; ok {
		return ErrRateLimited
	}
	if _, ok := obj["Information"]; ok {
		return ErrRateLimited
	}
	return nil
}
