package agent

import (
	"log"

	"github.com/etnz/tracker/docs"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here to understand how their portfolio of stocks is doing, today and historically.
			Devise a plan of questions to ask to each experts and come up with the best reponse to the user's request.

			The user will assume that you know about their symbols, ask the Analyst for the holdings first.
			Answer in markdown.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns an expert grounded in Google Search, for news about the held companies.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		Very well aware of all the financial products and institutions,
		about the latest news about the different funds or companies.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a expert in Trading, you can search and find about anything related to
			financial institutions, companies, markets, funds etc. You Leverage Google Search to
			ground your assertions in a solid truth.
			You can get the latests news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewAnalyst returns the expert in charge of the user's holdings and their backtests.
func NewAnalyst(p Portfolio, currency string) *Expert {
	lib := []Function{HoldingsFunc(p, currency), BacktestFunc(p)}

	// the backtest documentation tells the model how returns are computed.
	manual, err := docs.GetTopics("backtest", "history")
	if err != nil {
		log.Printf("analyst-manual-missing err=%q", err)
	}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. It knows the user's holdings: symbols, shares, last prices and allocation.
		It can backtest the current holdings over the last 1, 5, 10, 20 years or the maximum available history.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are an analyst in charge of the user's portfolio.
				You know how to use the Tools to extract relevant information about the user's holdings
				and how they would have performed in the past.
				You are part of a team of experts, yours is everything about the user's portfolio. They might ask
				you questions about the user's portfolio, pardon their approximative language and figure out what they meant.

				A backtest values the current holdings on past prices, it ignores past trades.
				When a backtest is limited by the available data, say so.
			`}, {Text: manual}}},
		},
		Library: NewLibrary(lib),
	}
}
