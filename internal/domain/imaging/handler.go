// Package imaging serves the image list for the DICOM viewer page.
package imaging

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/raysight/portal/internal/upstream"
)

// URLLister resolves the rendered image URLs for one series of a study.
type URLLister interface {
	ImageURLs(ctx context.Context, studyUID, seriesUID string) ([]string, error)
}

// View is the viewer page state. Empty is distinct from error so the page
// can render a calm "no images" message instead of a failure.
type View struct {
	State     string   `json:"state"`
	Message   string   `json:"message,omitempty"`
	ImageURLs []string `json:"imageUrls,omitempty"`
}

const (
	StateReady = "ready"
	StateEmpty = "empty"
	StateError = "error"
)

type Handler struct {
	imaging URLLister
}

func NewHandler(imaging URLLister) *Handler {
	return &Handler{imaging: imaging}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/images/:studyUID/:seriesUID", h.Images)
}

// Images handles GET /images/:studyUID/:seriesUID.
func (h *Handler) Images(c echo.Context) error {
	urls, err := h.imaging.ImageURLs(c.Request().Context(), c.Param("studyUID"), c.Param("seriesUID"))
	if err != nil {
		msg := upstream.MessageOf(err)
		if msg == "" {
			msg = "Could not load the images. Please try again."
		}
		return c.JSON(upstream.HTTPStatus(err), View{State: StateError, Message: msg})
	}
	if len(urls) == 0 {
		return c.JSON(http.StatusOK, View{
			State:   StateEmpty,
			Message: "No medical images are available for this study.",
		})
	}
	return c.JSON(http.StatusOK, View{State: StateReady, ImageURLs: urls})
}
