// Package renderer renders portfolio and backtest reports as markdown.
package renderer

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/etnz/tracker"
	md "github.com/nao1215/markdown"
)

// HoldingsMarkdown renders the holdings with their value and weight in the portfolio.
//
// Rows are numbered from 1, the number is what `remove #n` expects.
func HoldingsMarkdown(holdings []tracker.Holding, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio")
	if len(holdings) == 0 {
		doc.PlainText("No holdings yet, add one with `trk add <symbol> <shares>`.")
		return doc.String()
	}

	total := tracker.M(0, currency)
	weights := make(map[string]tracker.Percent)
	for _, h := range holdings {
		if v, ok := h.Value(currency); ok {
			total = total.Add(v)
		}
	}
	for _, h := range holdings {
		if v, ok := h.Value(currency); ok && total.IsPositive() {
			weights[h.Symbol] = tracker.Percent(100 * v.Ratio(total))
		}
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignRight,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"#", "Symbol", "Shares", "Price", "Value", "Allocation"},
		Rows:   [][]string{},
	}
	for i, h := range holdings {
		value, allocation := "-", "-"
		if v, ok := h.Value(currency); ok {
			value = v.String()
		}
		if w, ok := weights[h.Symbol]; ok {
			allocation = w.String()
		}
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(i + 1),
			h.Symbol,
			h.Shares.String(),
			h.Price.String(),
			value,
			allocation,
		})
	}
	table.Rows = append(table.Rows, []string{"", md.Bold("Total"), "", "", md.Bold(total.String()), ""})
	doc.Table(table)

	return doc.String()
}

// FailuresMarkdown renders per symbol failures as a bullet list under title, or nothing
// when there are none.
func FailuresMarkdown(title string, failures map[string]error) string {
	if len(failures) == 0 {
		return ""
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2(title)
	items := make([]string, 0, len(failures))
	for _, symbol := range slices.Sorted(maps.Keys(failures)) {
		items = append(items, fmt.Sprintf("%s: %v", symbol, failures[symbol]))
	}
	doc.BulletList(items...)
	return doc.String()
}
