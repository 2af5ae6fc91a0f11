package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/tracker/server"
	"github.com/gin-gonic/gin"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the portfolio over a JSON HTTP API" }
func (*serveCmd) Usage() string {
	return `trk serve [-addr :8080]

  Serves the portfolio over HTTP until interrupted:

  GET    /holdings               holdings, total value and allocations
  POST   /holdings               add a holding {"symbol": "AAPL", "shares": 10}
  DELETE /holdings/:symbol       remove a holding
  POST   /holdings/refresh       fetch the current prices
  GET    /backtest?period=5y     backtest the holdings
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":8080", "address to listen on")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	t, err := NewTracker()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if !*Verbose {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	fmt.Fprintf(os.Stderr, "Serving %s on %s\n", *holdingsFile, c.addr)
	if err := server.New(t).ListenAndServe(ctx, c.addr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
