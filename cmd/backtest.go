package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type backtestCmd struct {
	period string
	table  bool
	json   bool
}

func (*backtestCmd) Name() string     { return "backtest" }
func (*backtestCmd) Synopsis() string { return "value the current holdings over a past period" }
func (*backtestCmd) Usage() string {
	return `trk backtest [-p 1y|5y|10y|20y|max] [-table] [-json]

  Values the current holdings on every past day of the period, using each symbol's
  historical closes, and reports the total and annualized return.
  'max' starts when every symbol has data. A symbol without historical data is left out
  with a warning.

Usage Examples:
$ trk backtest -p 5y
$ trk backtest -p max -table
`
}

func (c *backtestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", "1y", "period: 1y, 5y, 10y, 20y or max")
	f.BoolVar(&c.table, "table", false, "display the portfolio value of every day")
	f.BoolVar(&c.json, "json", false, "print the backtest as json")
}

func (c *backtestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	lookback, err := tracker.ParseLookback(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	t, err := NewTracker()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	bt, err := t.RunBacktest(ctx, lookback)
	if err != nil {
		if bt != nil {
			for _, w := range bt.Warnings() {
				fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
			}
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(bt); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		if w := bt.Warnings(); len(w) > 0 {
			fmt.Fprintf(os.Stderr, "Warning: %s\n", strings.Join(w, "\nWarning: "))
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.BacktestMarkdown(bt, renderer.BacktestRenderOptions{Snapshots: c.table}))
	return subcommands.ExitSuccess
}
