package account

import (
	"errors"
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
	g.POST("/auth/login", h.Login)
	g.POST("/auth/register", h.Register)
	g.POST("/auth/logout", h.Logout)
	g.GET("/session", h.Session)
}

// errorView is the error render state all portal flows share.
type errorView struct {
	State   string `json:"state"`
	Message string `json:"message"`
}

func failLogin(c echo.Context, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, errorView{State: "error", Message: ve.Message})
	}
	return c.JSON(upstream.HTTPStatus(err), errorView{State: "error", Message: friendlyLoginMessage(err)})
}

func failRegister(c echo.Context, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, errorView{State: "error", Message: ve.Message})
	}
	return c.JSON(upstream.HTTPStatus(err), errorView{State: "error", Message: friendlyRegisterMessage(err)})
}

// Login handles POST /auth/login.
func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	view, err := h.svc.Login(c.Request().Context(), middleware.SessionID(c), req)
	if err != nil {
		return failLogin(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Register handles POST /auth/register.
func (h *Handler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	view, err := h.svc.Register(c.Request().Context(), middleware.SessionID(c), req)
	if err != nil {
		return failRegister(c, err)
	}
	return c.JSON(http.StatusCreated, view)
}

// Logout handles POST /auth/logout.
func (h *Handler) Logout(c echo.Context) error {
	if err := h.svc.Logout(c.Request().Context(), middleware.SessionID(c)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not end session")
	}
	return c.NoContent(http.StatusNoContent)
}

// Session handles GET /session.
func (h *Handler) Session(c echo.Context) error {
	view, err := h.svc.Current(c.Request().Context(), middleware.SessionID(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not resolve session")
	}
	return c.JSON(http.StatusOK, view)
}
