package provider

// YahooURL is the default Yahoo Finance API host.
const YahooURL = "https://query2.finance.yahoo.com"

// NewYahoo returns the Yahoo Finance v8 chart endpoint. It needs no API key.
func NewYahoo() *Endpoint {
	return &Endpoint{
		BaseURL: YahooURL,
		name:    "yahoo",
		addr: func(symbol string) string {
			return "/v8/finance/chart/" + symbol + "?interval=1d&range=1d"
		},
		path: "$.chart.result[0].meta.regularMarketPrice",
	}
}
