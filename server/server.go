// Package server exposes a tracker over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/etnz/tracker"
	"github.com/gin-gonic/gin"
)

// Server serves the holdings and backtests of a tracker.
type Server struct {
	tracker *tracker.Tracker
	engine  *gin.Engine
}

// New returns a server over t, with its routes registered.
func New(t *tracker.Tracker) *Server {
	s := &Server{tracker: t, engine: gin.New()}
	s.engine.Use(gin.Recovery(), requestLogger())

	s.engine.GET("/healthz", s.handleHealthz)
	s.engine.GET("/holdings", s.listHoldings)
	s.engine.POST("/holdings", s.addHolding)
	s.engine.POST("/holdings/refresh", s.refreshPrices)
	s.engine.DELETE("/holdings/:symbol", s.removeHolding)
	s.engine.GET("/backtest", s.runBacktest)
	return s
}

// Handler returns the http handler of the API.
func (s *Server) Handler() http.Handler { return s.engine }

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Printf("server-listening addr=%s", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// requestLogger logs one line per request, in the same key=value format as the rest of the logs.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("http-request method=%s path=%q status=%d duration=%s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

var errBadRequest = errors.New("malformed request")

// status maps tracker errors to http status codes.
func status(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, tracker.ErrInvalidShares),
		errors.Is(err, tracker.ErrInvalidSymbol),
		errors.Is(err, tracker.ErrUnknownLookback):
		return http.StatusBadRequest
	case errors.Is(err, tracker.ErrUnknownSymbol):
		return http.StatusNotFound
	case errors.Is(err, tracker.ErrDuplicateSymbol):
		return http.StatusConflict
	case errors.Is(err, tracker.ErrNoPriceAvailable),
		errors.Is(err, tracker.ErrNoValidSymbols),
		errors.Is(err, tracker.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, err error, warnings ...string) {
	body := gin.H{"error": err.Error()}
	if len(warnings) > 0 {
		body["warnings"] = warnings
	}
	c.AbortWithStatusJSON(status(err), body)
}
