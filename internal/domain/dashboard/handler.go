package dashboard

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raysight/portal/internal/platform/middleware"
	"github.com/raysight/portal/internal/upstream"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/dashboard", h.Dashboard)
}

// Dashboard handles GET /dashboard.
func (h *Handler) Dashboard(c echo.Context) error {
	view, err := h.svc.View(c.Request().Context(), middleware.SessionID(c))
	if err != nil {
		msg := upstream.MessageOf(err)
		if msg == "" {
			msg = "Could not load your records. Please try again."
		}
		return c.JSON(upstream.HTTPStatus(err), View{State: StateError, Message: msg})
	}
	if view.State == StateAccessDenied {
		return c.JSON(http.StatusUnauthorized, view)
	}
	return c.JSON(http.StatusOK, view)
}
