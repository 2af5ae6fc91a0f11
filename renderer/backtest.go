package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/tracker"
	md "github.com/nao1215/markdown"
)

// BacktestRenderOptions holds configuration for rendering a backtest report.
type BacktestRenderOptions struct {
	Snapshots bool // Render the daily value table.
}

// BacktestMarkdown renders a backtest report.
func BacktestMarkdown(bt *tracker.Backtest, opts BacktestRenderOptions) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Backtest over %s", bt.Lookback))
	w := bt.Window
	if w.Limited {
		doc.PlainText(fmt.Sprintf("Limited by available data: requested start %s, data starts %s.", w.Requested, w.Start))
	}

	doc.H2("Performance")
	p := bt.Performance
	annualized := "n/a"
	if a, err := p.Annualized(); err == nil {
		annualized = a.SignedString()
	}
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Period", w.Effective().String()},
			{"Elapsed Days", strconv.Itoa(p.ElapsedDays)},
			{"Initial Value", p.Initial.String()},
			{"Final Value", p.Final.String()},
			{"Change", p.Change().SignedString()},
			{md.Bold("Total Return"), md.Bold(p.TotalReturn.SignedString())},
			{"Annualized Return", annualized},
		},
	})

	if warnings := bt.Warnings(); len(warnings) > 0 {
		doc.H2("Warnings")
		doc.BulletList(warnings...)
	}

	if opts.Snapshots {
		doc.H2("Portfolio Value")
		table := md.TableSet{
			Alignment: []md.TableAlignment{
				md.AlignLeft,
				md.AlignRight,
			},
			Header: []string{"Date", "Value"},
			Rows:   [][]string{},
		}
		for _, s := range bt.Snapshots {
			table.Rows = append(table.Rows, []string{s.Date.String(), s.Value.String()})
		}
		doc.Table(table)
	}

	return doc.String()
}
