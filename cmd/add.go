package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type addCmd struct{}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a holding priced at the current market price" }
func (*addCmd) Usage() string {
	return `trk add <symbol> <shares>

  Adds a new holding to the portfolio. The symbol is case insensitive, shares must be a
  positive number. The price is fetched from the live price providers, or taken from the
  last historical close when none answers.

Usage Examples:
$ trk add aapl 10
$ trk add BRK.B 2.5
`
}

func (*addCmd) SetFlags(f *flag.FlagSet) {}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "add requires a symbol and a number of shares")
		return subcommands.ExitUsageError
	}
	t, err := NewTracker()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	h, err := t.AddHolding(ctx, f.Arg(0), f.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added %s shares of %s at %s\n", h.Shares, h.Symbol, h.Price)
	return subcommands.ExitSuccess
}
