package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/tracker/agent"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// AssistCmd chats with an AI assistant that can read the holdings and run backtests.
type AssistCmd struct {
	quiet bool
}

func (*AssistCmd) Name() string     { return "assist" }
func (*AssistCmd) Synopsis() string { return "ask an AI assistant about the portfolio" }
func (*AssistCmd) Usage() string {
	return `trk assist [-q] [question]

  Starts a chat with an AI assistant that knows the holdings and can backtest them. The
  question, if any, is asked first. It needs a Gemini API key in $GEMINI_API_KEY.

Usage Examples:
$ trk assist how would my portfolio have done over the last 10 years?
$ trk assist -q which holding weighs the most?
`
}

func (c *AssistCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.quiet, "q", false, "exit after answering the question instead of waiting for more")
}

func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	question := strings.TrimSpace(strings.Join(f.Args(), " "))
	if c.quiet && question == "" {
		fmt.Fprintln(os.Stderr, "Error: -q needs a question")
		return subcommands.ExitUsageError
	}
	if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		fmt.Fprintln(os.Stderr, "Error: set $GEMINI_API_KEY to use the assistant")
		return subcommands.ExitFailure
	}

	t, err := NewTracker()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create the Gemini client: %v\n", err)
		return subcommands.ExitFailure
	}

	// with -q the session reads no more questions after the first one.
	var in io.Reader = os.Stdin
	if c.quiet {
		in = strings.NewReader("")
	}
	a := agent.New(os.Stdout, in, agent.NewAnalyst(t, t.Currency), agent.NewTrader())
	a.Render = renderMarkdown
	if err := a.Run(ctx, client, question); err != nil {
		fmt.Fprintf(os.Stderr, "Error: assistant failed: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
