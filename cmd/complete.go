package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/tracker"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// predictSymbols completes with the symbols of the holdings file.
func predictSymbols(prefix string) []string {
	holdings, err := DecodeHoldings()
	if err != nil {
		return nil
	}
	var symbols []string
	for _, h := range holdings {
		if strings.HasPrefix(h.Symbol, strings.ToUpper(prefix)) {
			symbols = append(symbols, h.Symbol)
		}
	}
	return symbols
}

// Completion returns the shell completion of the trk command line.
func Completion() *complete.Command {
	periods := make(predict.Set, len(tracker.Lookbacks))
	for i, l := range tracker.Lookbacks {
		periods[i] = l.String()
	}

	global := map[string]complete.Predictor{}
	flag.VisitAll(func(f *flag.Flag) { global[f.Name] = predict.Something })
	global["holdings-file"] = predict.Files("*.json")
	global["data-dir"] = predict.Dirs("*")
	global["config"] = predict.Files("*.yaml")
	global["history"] = predict.Set{"dir", "eodhd"}
	global["providers"] = predict.Set{"yahoo", "alphavantage", "eodhd"}
	global["v"] = predict.Nothing

	return &complete.Command{
		Flags: global,
		Sub: map[string]*complete.Command{
			"add":     {Args: predict.Something},
			"remove":  {Args: complete.PredictFunc(predictSymbols)},
			"list":    {},
			"refresh": {},
			"backtest": {
				Flags: map[string]complete.Predictor{
					"p":     periods,
					"table": predict.Nothing,
					"json":  predict.Nothing,
				},
			},
			"serve":  {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"assist": {Flags: map[string]complete.Predictor{"q": predict.Nothing}},
			"topic":  {Args: complete.PredictFunc(predictTopics)},
		},
	}
}
