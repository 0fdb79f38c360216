package demo

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/medtrack/medtrack/internal/domain/adherence"
	"github.com/medtrack/medtrack/internal/domain/tracker"
)

type Handler struct {
	adherenceRepo adherence.Repository
	trackerRepo   tracker.Repository
	defaults      SeedConfig

	mu sync.Mutex // one seed run at a time
}

func NewHandler(adherenceRepo adherence.Repository, trackerRepo tracker.Repository, defaults SeedConfig) *Handler {
	return &Handler{
		adherenceRepo: adherenceRepo,
		trackerRepo:   trackerRepo,
		defaults:      defaults,
	}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/seed", h.HandleSeed)
}

// HandleSeed populates the store with synthetic demo data. Request fields
// default to the server's configured seed volumes; a non-zero seed makes the
// run reproducible.
func (h *Handler) HandleSeed(c echo.Context) error {
	cfg := h.defaults
	if err := c.Bind(&cfg); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := cfg.validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	seeder := NewSeeder(h.adherenceRepo, h.trackerRepo, cfg.Seed)
	result, err := seeder.Generate(c.Request().Context(), cfg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "seeding failed")
	}

	return c.JSON(http.StatusCreated, result)
}
