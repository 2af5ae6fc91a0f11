package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"google.golang.org/genai"
)

// Portfolio is what the Analyst needs to know about the user's portfolio.
type Portfolio interface {
	Holdings() []tracker.Holding
	RunBacktest(ctx context.Context, lookback tracker.Lookback) (*tracker.Backtest, error)
}

// HoldingsFunc lists the holdings of p, valued in currency.
func HoldingsFunc(p Portfolio, currency string) *Func {
	const name = "Holdings"
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        name,
			Description: `Holdings lists the symbols held in the portfolio, with their number of shares, last known price, value and allocation.`,
			Parameters:  &genai.Schema{Type: genai.TypeObject},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the holdings, with the total value of the portfolio.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			return success(id, name, renderer.HoldingsMarkdown(p.Holdings(), currency))
		},
	}
}

// BacktestFunc backtests the holdings of p.
func BacktestFunc(p Portfolio) *Func {
	const name = "Backtest"
	periods := make([]string, len(tracker.Lookbacks))
	for i, l := range tracker.Lookbacks {
		periods[i] = l.String()
	}
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: name,
			Description: `Backtest values the current holdings on each past trading day of the period,
			and reports the total and annualized return.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"period": {
						Type:        genai.TypeString,
						Description: "How far back the backtest starts, one of " + strings.Join(periods, ", ") + ". Default is 1y.",
						Enum:        periods,
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted report of the backtest performance and its warnings.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			lookback, err := parseLookback(args)
			if err != nil {
				return failure(id, name, err)
			}
			bt, err := p.RunBacktest(ctx, lookback)
			if err != nil {
				if bt != nil && len(bt.Failures) > 0 {
					err = fmt.Errorf("%w\n%s", err, strings.Join(bt.Warnings(), "\n"))
				}
				return failure(id, name, err)
			}
			return success(id, name, renderer.BacktestMarkdown(bt, renderer.BacktestRenderOptions{}))
		},
	}
}

func parseLookback(args map[string]any) (tracker.Lookback, error) {
	iperiod, ok := args["period"]
	if !ok {
		return tracker.OneYear, nil
	}
	speriod, ok := iperiod.(string)
	if !ok {
		return tracker.OneYear, fmt.Errorf("argument 'period' is not a string as expected but %T", iperiod)
	}
	return tracker.ParseLookback(speriod)
}
