package analytics

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/domain/adherence"
)

// HistorySource supplies the adherence histories a summary is computed over.
type HistorySource interface {
	Histories(ctx context.Context) ([]*adherence.PatientHistory, error)
}

type Handler struct {
	source HistorySource
}

func NewHandler(source HistorySource) *Handler {
	return &Handler{source: source}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/analytics/summary", h.HandleSummary)
}

// HandleSummary computes the adherence summary over all stored histories.
// An optional "at" query parameter (RFC 3339) pins the reference time for
// reproducible trend windows.
func (h *Handler) HandleSummary(c echo.Context) error {
	now := time.Now().UTC()
	if at := c.QueryParam("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid 'at' parameter, expected RFC 3339")
		}
		now = parsed.UTC()
	}

	histories, err := h.source.Histories(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load patient histories")
	}

	return c.JSON(http.StatusOK, Aggregate(histories, now))
}
