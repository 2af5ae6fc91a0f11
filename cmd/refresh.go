package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch the current price of every holding" }
func (*refreshCmd) Usage() string {
	return `trk refresh

  Fetches a fresh price for every holding, all symbols at once. A holding whose price
  cannot be fetched keeps its previous price and is reported as a warning.
`
}

func (*refreshCmd) SetFlags(f *flag.FlagSet) {}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := NewTracker()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	failures, err := t.RefreshPrices(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HoldingsMarkdown(t.Holdings(), t.Currency) + renderer.FailuresMarkdown("Warnings", failures))
	return subcommands.ExitSuccess
}
