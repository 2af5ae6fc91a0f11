package tracker

import "errors"

// Ledger errors, caused by user input.
var (
	ErrDuplicateSymbol = errors.New("symbol already in portfolio")
	ErrInvalidShares   = errors.New("invalid number of shares")
	ErrInvalidSymbol   = errors.New("invalid symbol")
	ErrUnknownSymbol   = errors.New("symbol not in portfolio")
)

// ErrNoPriceAvailable is returned when every price provider failed for a symbol.
var ErrNoPriceAvailable = errors.New("no price available")

// ErrLoadFailure is returned when the historical series of a symbol cannot be loaded.
var ErrLoadFailure = errors.New("cannot load historical data")

// Backtest errors.
var (
	ErrNoValidSymbols      = errors.New("no holding has historical data")
	ErrInsufficientHistory = errors.New("not enough historical data in the selected period")
	ErrZeroDurationWindow  = errors.New("backtest window has no duration")
	ErrUnknownLookback     = errors.New("unknown backtest period")
)
