package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/tracker/provider"
	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration file. Its keys are the global flag names.
type Config struct {
	HoldingsFile       string   `yaml:"holdings-file"`
	DataDir            string   `yaml:"data-dir"`
	Currency           string   `yaml:"currency"`
	Providers          []string `yaml:"providers"`
	History            string   `yaml:"history"`
	EODHDAPIKey        string   `yaml:"eodhd-api-key"`
	AlphaVantageAPIKey string   `yaml:"alphavantage-api-key"`
	Verbose            *bool    `yaml:"v"`
}

// ReadConfig decodes a configuration, unknown keys are rejected.
func ReadConfig(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// ReadConfigFile decodes the configuration file at path.
func ReadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := ReadConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// values returns the flag values defined by the configuration.
func (c *Config) values() map[string]string {
	v := map[string]string{
		"holdings-file":        c.HoldingsFile,
		"data-dir":             c.DataDir,
		"currency":             c.Currency,
		"providers":            strings.Join(c.Providers, ","),
		"history":              c.History,
		"eodhd-api-key":        c.EODHDAPIKey,
		"alphavantage-api-key": c.AlphaVantageAPIKey,
	}
	if c.Verbose != nil {
		v["v"] = fmt.Sprint(*c.Verbose)
	}
	return v
}

// flagEnv maps the flags to the environment variables that also set them.
var flagEnv = map[string]string{
	"holdings-file":        EnvHoldingsFile,
	"data-dir":             EnvDataDir,
	"currency":             EnvCurrency,
	"providers":            EnvProviders,
	"history":              EnvHistory,
	"eodhd-api-key":        provider.EODHDEnv,
	"alphavantage-api-key": provider.AlphaVantageEnv,
	"v":                    EnvVerbose,
}

// Apply sets the flags of fs defined in the configuration, except the ones explicitly
// set on the command line or through their environment variable.
func (c *Config) Apply(fs *flag.FlagSet) error {
	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	for name, env := range flagEnv {
		if strings.TrimSpace(os.Getenv(env)) != "" {
			explicit[name] = true
		}
	}

	for name, value := range c.values() {
		if value == "" || explicit[name] || fs.Lookup(name) == nil {
			continue
		}
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("invalid configuration value %s=%q: %w", name, value, err)
		}
	}
	return nil
}
