package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medbill/medbill/internal/platform/auth"
)

type Handler struct {
	svc    *Service
	tokens *auth.TokenIssuer
}

func NewHandler(svc *Service, tokens *auth.TokenIssuer) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/auth/login", h.Login)
}

func (h *Handler) Login(c echo.Context) error {
	var in LoginInput
	if err := c.Bind(&in); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid credentials")
	}

	u, err := h.svc.Login(c.Request().Context(), in.Username, in.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
	}

	resp := map[string]interface{}{
		"user": map[string]interface{}{
			"id":       u.ID,
			"username": u.Username,
			"name":     u.Name,
			"role":     u.Role,
		},
	}
	if h.tokens != nil {
		tok, err := h.tokens.Issue(u.ID.String(), u.Username, u.Role)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "Login failed")
		}
		resp["token"] = tok
	}
	return c.JSON(http.StatusOK, resp)
}
