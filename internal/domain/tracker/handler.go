package tracker

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/simulate/tracker", h.HandleSimulate)
	g.GET("/patients/:id/readings", h.HandleListReadings)
	g.GET("/export/readings.csv", h.HandleExportCSV)
	g.GET("/export/readings.ndjson", h.HandleExportNDJSON)
}

// SimulateRequest is the body of POST /simulate/tracker.
type SimulateRequest struct {
	PatientID string               `json:"patient_id"`
	Start     string               `json:"start"` // YYYY-MM-DD
	End       string               `json:"end"`   // YYYY-MM-DD
	Schedule  []MedicationSchedule `json:"schedule"`
	Seed      int64                `json:"seed"`
}

func (h *Handler) HandleSimulate(c echo.Context) error {
	var req SimulateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "start must be YYYY-MM-DD")
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "end must be YYYY-MM-DD")
	}

	readings, err := h.service.Simulate(c.Request().Context(), req.PatientID, start, end, req.Schedule, req.Seed)
	if err != nil {
		if errors.Is(err, ErrStorage) {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to store simulation results")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"patient_id": req.PatientID,
		"count":      len(readings),
		"readings":   readings,
	})
}

func (h *Handler) HandleListReadings(c echo.Context) error {
	patientID := c.Param("id")
	from, to, err := timeRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	page := pagination.FromContext(c)

	readings, total, err := h.service.Readings(c.Request().Context(), patientID, from, to, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, ErrStorage) {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to load readings")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if readings == nil {
		readings = []Reading{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(readings, total, page.Limit, page.Offset))
}

func (h *Handler) HandleExportCSV(c echo.Context) error {
	from, to, err := timeRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentType, "text/csv")
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="readings.csv"`)
	c.Response().WriteHeader(http.StatusOK)
	return h.service.ExportCSV(c.Request().Context(), c.Response().Writer, from, to)
}

func (h *Handler) HandleExportNDJSON(c echo.Context) error {
	from, to, err := timeRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/x-ndjson")
	c.Response().WriteHeader(http.StatusOK)
	return h.service.ExportNDJSON(c.Request().Context(), c.Response().Writer, from, to)
}

// timeRange parses from/to query params as YYYY-MM-DD, defaulting to the last
// seven days. The "to" bound is extended to end of day so a date-only query
// includes that day's readings.
func timeRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	to := now
	from := now.AddDate(0, 0, -7)

	if fromStr != "" {
		parsed, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.Add(24*time.Hour - time.Second)
	}
	return from, to, nil
}
