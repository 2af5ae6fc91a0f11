// Package tracker keeps track of a set of equity holdings and evaluates how that exact
// set would have performed historically.
//
// The core functionalities include:
//   - Holdings: a Ledger of (symbol, shares, last known price) positions, refreshed from
//     an ordered list of live price providers (Resolver).
//   - Market history: a Store that loads each symbol's daily closes once and keeps them.
//   - Backtesting: Align merges per symbol histories with irregular calendars into one
//     portfolio value series, NewPerformance reduces it to total and annualized returns.
//
// Transports (web APIs, files) live in the provider package, the command line tool in cmd.
package tracker
