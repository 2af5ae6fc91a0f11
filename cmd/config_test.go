package cmd

import (
	"flag"
	"strings"
	"testing"
)

func TestConfig_Apply(t *testing.T) {
	for _, env := range flagEnv {
		t.Setenv(env, "")
	}
	cfg, err := ReadConfig(strings.NewReader(`
holdings-file: /tmp/portfolio.json
currency: EUR
providers: [eodhd, yahoo]
history: eodhd
v: true
`))
	if err != nil {
		t.Fatalf("ReadConfig() unexpected error = %v", err)
	}

	fs := flag.NewFlagSet("trk", flag.ContinueOnError)
	holdings := fs.String("holdings-file", "holdings.json", "")
	currency := fs.String("currency", "USD", "")
	providers := fs.String("providers", "yahoo,alphavantage", "")
	history := fs.String("history", "dir", "")
	dataDir := fs.String("data-dir", "stock-data", "")
	verbose := fs.Bool("v", false, "")
	if err := fs.Parse([]string{"-currency", "CHF"}); err != nil {
		t.Fatal(err)
	}

	if err := cfg.Apply(fs); err != nil {
		t.Fatalf("Apply() unexpected error = %v", err)
	}

	tests := []struct{ name, got, want string }{
		{"holdings-file", *holdings, "/tmp/portfolio.json"},
		{"currency", *currency, "CHF"}, // explicit flags win.
		{"providers", *providers, "eodhd,yahoo"},
		{"history", *history, "eodhd"},
		{"data-dir", *dataDir, "stock-data"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("-%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
	if !*verbose {
		t.Error("-v = false, want true")
	}
}

func TestConfig_ApplyEnvironmentWins(t *testing.T) {
	for _, env := range flagEnv {
		t.Setenv(env, "")
	}
	t.Setenv(EnvHistory, "dir")
	t.Setenv(EnvCurrency, " ")

	cfg, err := ReadConfig(strings.NewReader("history: eodhd\ncurrency: EUR\n"))
	if err != nil {
		t.Fatal(err)
	}
	fs := flag.NewFlagSet("trk", flag.ContinueOnError)
	history := fs.String("history", "dir", "")
	currency := fs.String("currency", "USD", "")
	if err := cfg.Apply(fs); err != nil {
		t.Fatalf("Apply() unexpected error = %v", err)
	}
	if *history != "dir" {
		t.Errorf("-history = %q, want $%s to win over the file", *history, EnvHistory)
	}
	if *currency != "EUR" {
		t.Errorf("-currency = %q, want the file to win over a blank $%s", *currency, EnvCurrency)
	}
}

func TestReadConfig(t *testing.T) {
	if _, err := ReadConfig(strings.NewReader("")); err != nil {
		t.Errorf("ReadConfig(empty) unexpected error = %v", err)
	}
	if _, err := ReadConfig(strings.NewReader("colour: blue\n")); err == nil {
		t.Error("ReadConfig(unknown key) expected an error")
	}
}
