package settings

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/settings", h.Get)
	api.PUT("/settings", h.Save)
}

func (h *Handler) Get(c echo.Context) error {
	cfg, err := h.svc.Get(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch hospital settings")
	}
	if cfg == nil {
		return c.JSON(http.StatusOK, nil)
	}
	return c.JSON(http.StatusOK, cfg)
}

func (h *Handler) Save(c echo.Context) error {
	var in UpsertInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to update hospital settings")
	}
	cfg, err := h.svc.Save(c.Request().Context(), &in)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Failed to update hospital settings")
	}
	return c.JSON(http.StatusOK, cfg)
}
