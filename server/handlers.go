package server

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"slices"

	"github.com/etnz/tracker"
	"github.com/gin-gonic/gin"
)

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// portfolio is the json view of the holdings.
type portfolio struct {
	Currency    string               `json:"currency"`
	Holdings    []tracker.Holding    `json:"holdings"`
	TotalValue  tracker.Money        `json:"totalValue"`
	Allocations []tracker.Allocation `json:"allocations"`
	Warnings    []string             `json:"warnings,omitempty"`
}

func (s *Server) portfolio() portfolio {
	holdings := s.tracker.Holdings()
	total, allocations := s.tracker.Allocations()
	if holdings == nil {
		holdings = []tracker.Holding{}
	}
	if allocations == nil {
		allocations = []tracker.Allocation{}
	}
	return portfolio{
		Currency:    s.tracker.Currency,
		Holdings:    holdings,
		TotalValue:  total,
		Allocations: allocations,
	}
}

func (s *Server) listHoldings(c *gin.Context) {
	c.JSON(http.StatusOK, s.portfolio())
}

// addRequest is the body of POST /holdings. Shares may be a number or a string.
type addRequest struct {
	Symbol string          `json:"symbol" binding:"required"`
	Shares json.RawMessage `json:"shares" binding:"required"`
}

func (r addRequest) shares() string {
	var s string
	if err := json.Unmarshal(r.Shares, &s); err == nil {
		return s
	}
	return string(r.Shares)
}

func (s *Server) addHolding(c *gin.Context) {
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}
	h, err := s.tracker.AddHolding(c.Request.Context(), req.Symbol, req.shares())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, h)
}

func (s *Server) removeHolding(c *gin.Context) {
	h, err := s.tracker.RemoveHolding(c.Param("symbol"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, h)
}

func (s *Server) refreshPrices(c *gin.Context) {
	failures, err := s.tracker.RefreshPrices(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	p := s.portfolio()
	for _, symbol := range slices.Sorted(maps.Keys(failures)) {
		p.Warnings = append(p.Warnings, failures[symbol].Error())
	}
	c.JSON(http.StatusOK, p)
}

// backtestResponse adds the warnings to the backtest.
type backtestResponse struct {
	*tracker.Backtest
	Warnings []string `json:"warnings"`
}

func (s *Server) runBacktest(c *gin.Context) {
	lookback, err := tracker.ParseLookback(c.DefaultQuery("period", "1y"))
	if err != nil {
		abort(c, err)
		return
	}
	bt, err := s.tracker.RunBacktest(c.Request.Context(), lookback)
	if err != nil {
		var warnings []string
		if bt != nil {
			warnings = bt.Warnings()
		}
		abort(c, err, warnings...)
		return
	}
	c.JSON(http.StatusOK, backtestResponse{Backtest: bt, Warnings: bt.Warnings()})
}
