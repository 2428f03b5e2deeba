package record

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
	g.GET("/records/:recordId", h.Detail)
	g.POST("/records/:recordId/explanation", h.Explain)
}

func failView(c echo.Context, err error) error {
	msg := upstream.MessageOf(err)
	if msg == "" {
		msg = "Could not load the report. Please try again."
	}
	return c.JSON(upstream.HTTPStatus(err), View{State: StateError, Message: msg})
}

// Detail handles GET /records/:recordId.
func (h *Handler) Detail(c echo.Context) error {
	recordID := c.Param("recordId")
	if recordID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing record id")
	}
	view, err := h.svc.Detail(c.Request().Context(), middleware.SessionID(c), recordID)
	if err != nil {
		return failView(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Explain handles POST /records/:recordId/explanation.
func (h *Handler) Explain(c echo.Context) error {
	recordID := c.Param("recordId")
	if recordID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing record id")
	}
	exp, err := h.svc.Explain(c.Request().Context(), recordID)
	if err != nil {
		return failView(c, err)
	}
	return c.JSON(http.StatusOK, exp)
}
