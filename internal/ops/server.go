// Package ops exposes a small admin HTTP surface: liveness and on-demand
// summary downloads, the kind of thing otherwise done by poking the database
// by hand.
package ops

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"expensebot/internal/store"
	"expensebot/internal/summary"
)

// ReportGenerator is the report pipeline's entry point.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, userID int64) ([]byte, error)
}

type Server struct {
	e   *echo.Echo
	gen ReportGenerator
}

func New(gen ReportGenerator) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	s := &Server{e: e, gen: gen}
	e.GET("/healthz", s.health)
	e.GET("/users/:id/summary.pdf", s.summaryPDF)
	return s
}

func (s *Server) Start(addr string) error { return s.e.Start(addr) }

func (s *Server) Shutdown(ctx context.Context) error { return s.e.Shutdown(ctx) }

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) summaryPDF(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	data, err := s.gen.GenerateReport(c.Request().Context(), userID)
	switch {
	case errors.Is(err, summary.ErrEmptyData):
		return echo.NewHTTPError(http.StatusNotFound, "nothing to summarize")
	case errors.Is(err, store.ErrUnavailable):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "store unavailable")
	case err != nil:
		return err
	}
	return c.Blob(http.StatusOK, "application/pdf", data)
}
