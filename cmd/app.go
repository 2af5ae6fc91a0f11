// Package cmd implements the CLI application to track a portfolio of stocks.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/tracker"
	"github.com/etnz/tracker/provider"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&addCmd{}, "portfolio")
	c.Register(&removeCmd{}, "portfolio")
	c.Register(&listCmd{}, "portfolio")
	c.Register(&refreshCmd{}, "portfolio")

	c.Register(&backtestCmd{}, "analysis")
	c.Register(&AssistCmd{}, "analysis")

	c.Register(&serveCmd{}, "server")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	holdingsFile    = flag.String("holdings-file", envOr(EnvHoldingsFile, "holdings.json"), "Path to the holdings file (JSON array of {symbol, shares, price})")
	dataDir         = flag.String("data-dir", envOr(EnvDataDir, "stock-data"), "Directory of <SYMBOL>.json historical files, used by -history=dir")
	defaultCurrency = flag.String("currency", envOr(EnvCurrency, tracker.DefaultCurrency), "Currency the portfolio is valued in")
	providers       = flag.String("providers", envOr(EnvProviders, "yahoo,alphavantage"), "Comma separated live price providers, in priority order (yahoo, alphavantage, eodhd)")
	history         = flag.String("history", envOr(EnvHistory, "dir"), "Historical data source: dir or eodhd")
	eodhdKey        = flag.String("eodhd-api-key", "", "EODHD API key, defaults to $"+provider.EODHDEnv)
	alphaVantageKey = flag.String("alphavantage-api-key", "", "Alpha Vantage API key, defaults to $"+provider.AlphaVantageEnv+" or demo")
	configFile      = flag.String("config", os.Getenv(EnvConfig), "YAML configuration file, its values apply to flags not set on the command line")
	Verbose         = flag.Bool("v", envOr(EnvVerbose, "false") == "true", "Log requests and fetch failures to stderr")
)

func envOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

// Setup must be called after flag.Parse, it applies the configuration file and the verbosity.
func Setup() error {
	if !*Verbose {
		log.SetOutput(io.Discard)
	}
	if *configFile == "" {
		return nil
	}
	cfg, err := ReadConfigFile(*configFile)
	if err != nil {
		return err
	}
	return cfg.Apply(flag.CommandLine)
}

// DecodeHoldings reads the holdings file. A missing file is an empty portfolio.
func DecodeHoldings() ([]tracker.Holding, error) {
	f, err := os.Open(*holdingsFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("holdings-file-missing path=%q", *holdingsFile)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	holdings, err := tracker.DecodeHoldings(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode holdings file %q: %w", *holdingsFile, err)
	}
	return holdings, nil
}

// EncodeHoldings replaces the holdings file content.
func EncodeHoldings(holdings []tracker.Holding) error {
	return writeHoldings(*holdingsFile, holdings)
}

// writeHoldings writes to a temporary file first, so that a failure never leaves a
// truncated holdings file.
func writeHoldings(path string, holdings []tracker.Holding) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".holdings-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if err := tracker.EncodeHoldings(tmp, holdings); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// NewPriceProviders returns the live price providers named in a comma separated list.
func NewPriceProviders(names string) ([]tracker.PriceProvider, error) {
	var list []tracker.PriceProvider
	for _, name := range strings.Split(names, ",") {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "":
		case "yahoo":
			list = append(list, provider.NewYahoo())
		case "alphavantage":
			list = append(list, provider.NewAlphaVantage(*alphaVantageKey))
		case "eodhd":
			list = append(list, provider.NewEODHD(*eodhdKey))
		default:
			return nil, fmt.Errorf("unknown price provider %q, want yahoo, alphavantage or eodhd", name)
		}
	}
	if len(list) == 0 {
		return nil, errors.New("no price provider configured")
	}
	return list, nil
}

// NewSeriesSource returns the historical data source of the given kind.
func NewSeriesSource(kind string) (tracker.SeriesSource, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "dir":
		return provider.Dir(*dataDir), nil
	case "eodhd":
		return provider.NewEODHDHistory(*eodhdKey), nil
	default:
		return nil, fmt.Errorf("unknown history source %q, want dir or eodhd", kind)
	}
}

// NewTracker opens the holdings file and returns a tracker persisting into it.
func NewTracker() (*tracker.Tracker, error) {
	holdings, err := DecodeHoldings()
	if err != nil {
		return nil, err
	}
	ledger, err := tracker.NewLedger(holdings...)
	if err != nil {
		return nil, fmt.Errorf("invalid holdings file %q: %w", *holdingsFile, err)
	}
	list, err := NewPriceProviders(*providers)
	if err != nil {
		return nil, err
	}
	source, err := NewSeriesSource(*history)
	if err != nil {
		return nil, err
	}
	t := tracker.New(ledger, tracker.NewResolver(list...), tracker.NewStore(source), *defaultCurrency)
	t.Persist = EncodeHoldings
	return t, nil
}

// renderMarkdown formats markdown for the terminal, or returns it as is if it cannot.
func renderMarkdown(md string) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// printMarkdown prints markdown to stdout, formatted for the terminal.
func printMarkdown(md string) {
	fmt.Print(renderMarkdown(md))
}
