package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
)

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a holding by symbol or by its number in the list" }
func (*removeCmd) Usage() string {
	return `trk remove <symbol> | #<n>

  Removes a holding from the portfolio. #<n> is the number displayed by 'trk list'.

Usage Examples:
$ trk remove AAPL
$ trk remove #2
`
}

func (*removeCmd) SetFlags(f *flag.FlagSet) {}

// removeTarget parses the argument of remove: a symbol, or "#n" a 1-based index.
func removeTarget(arg string) (symbol string, index int, err error) {
	arg = strings.TrimSpace(arg)
	if n, ok := strings.CutPrefix(arg, "#"); ok {
		i, err := strconv.Atoi(n)
		if err != nil || i < 1 {
			return "", -1, fmt.Errorf("%w: invalid holding number %q", tracker.ErrUnknownSymbol, arg)
		}
		return "", i - 1, nil
	}
	if arg == "" {
		return "", -1, tracker.ErrInvalidSymbol
	}
	return arg, -1, nil
}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "remove requires a symbol or a #number")
		return subcommands.ExitUsageError
	}
	symbol, index, err := removeTarget(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	t, err := NewTracker()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	var h tracker.Holding
	if index >= 0 {
		h, err = t.RemoveHoldingAt(index)
	} else {
		h, err = t.RemoveHolding(symbol)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed %s shares of %s\n", h.Shares, h.Symbol)
	return subcommands.ExitSuccess
}
