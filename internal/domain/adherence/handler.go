package adherence

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
	g.POST("/simulate/adherence", h.HandleSimulate)
	g.GET("/patients", h.HandleListPatients)
	g.GET("/patients/:id/intake-events", h.HandleListEvents)
}

// SimulateRequest is the body of POST /simulate/adherence.
type SimulateRequest struct {
	PatientID       string `json:"patient_id"`
	PatientName     string `json:"patient_name"`
	MonthsBack      int    `json:"months_back"`
	MedicationCount int    `json:"medication_count"`
	Seed            int64  `json:"seed"`
}

func (h *Handler) HandleSimulate(c echo.Context) error {
	var req SimulateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.MonthsBack == 0 {
		req.MonthsBack = 3
	}
	if req.MedicationCount == 0 {
		req.MedicationCount = 3
	}

	history, err := h.service.Simulate(c.Request().Context(), HistoryParams{
		PatientID:       req.PatientID,
		PatientName:     req.PatientName,
		MonthsBack:      req.MonthsBack,
		MedicationCount: req.MedicationCount,
	}, req.Seed)
	if err != nil {
		if errors.Is(err, ErrStorage) {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to store simulation results")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, history)
}

func (h *Handler) HandleListPatients(c echo.Context) error {
	patients, err := h.service.Patients(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if patients == nil {
		patients = []*Patient{}
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) HandleListEvents(c echo.Context) error {
	patientID := c.Param("id")
	from, to, err := dateRange(c.QueryParam("from"), c.QueryParam("to"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	page := pagination.FromContext(c)

	events, total, err := h.service.Events(c.Request().Context(), patientID, from, to, page.Limit, page.Offset)
	if err != nil {
		if errors.Is(err, ErrStorage) {
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to load intake events")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if events == nil {
		events = []IntakeEvent{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(events, total, page.Limit, page.Offset))
}

// dateRange parses from/to query params as YYYY-MM-DD, defaulting to the last
// three months ending today.
func dateRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := time.Now().UTC()
	to := truncateToDay(now)
	from := to.AddDate(0, -3, 0)

	var err error
	if fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
