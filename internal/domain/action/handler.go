// Package action serves the one-shot approve/cancel links sent to referring
// physicians by email. No session is required; the record id in the link is
// the only credential, matching the records backend's own access model.
package action

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/raysight/portal/internal/upstream"
	"github.com/raysight/portal/internal/upstream/records"
)

// StatusSetter is the slice of the records backend the action links need.
type StatusSetter interface {
	SetRecordStatus(ctx context.Context, action records.Action, recordID string) error
}

// View is the terminal page state after following an action link. Both
// success and error are final; there is no retry.
type View struct {
	State   string `json:"state"`
	Message string `json:"message"`
}

type Handler struct {
	records StatusSetter
	log     zerolog.Logger
}

func NewHandler(records StatusSetter, log zerolog.Logger) *Handler {
	return &Handler{records: records, log: log}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/actions/:action/:recordId", h.Apply)
}

func successMessage(action records.Action) string {
	if action == records.ActionApprove {
		return "The report has been approved successfully."
	}
	return "The report has been canceled successfully."
}

// Apply handles POST /actions/:action/:recordId.
func (h *Handler) Apply(c echo.Context) error {
	action, ok := records.ParseAction(c.Param("action"))
	if !ok {
		return c.JSON(http.StatusBadRequest, View{
			State:   "error",
			Message: "Unknown action.",
		})
	}
	recordID := c.Param("recordId")
	if recordID == "" {
		return c.JSON(http.StatusBadRequest, View{
			State:   "error",
			Message: "Missing record id.",
		})
	}

	if err := h.records.SetRecordStatus(c.Request().Context(), action, recordID); err != nil {
		h.log.Warn().Err(err).Str("action", string(action)).Str("record_id", recordID).
			Msg("record action failed")
		msg := upstream.MessageOf(err)
		if msg == "" {
			msg = "Unexpected error."
		}
		return c.JSON(upstream.HTTPStatus(err), View{State: "error", Message: msg})
	}
	return c.JSON(http.StatusOK, View{State: "success", Message: successMessage(action)})
}
