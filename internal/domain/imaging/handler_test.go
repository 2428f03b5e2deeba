package imaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/raysight/portal/internal/upstream"
)

type mockLister struct {
	urls []string
	err  error
}

func (m *mockLister) ImageURLs(_ context.Context, _, _ string) ([]string, error) {
	return m.urls, m.err
}

func imagesRequest(t *testing.T, h *Handler, studyUID, seriesUID string) (*httptest.ResponseRecorder, View) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/images/"+studyUID+"/"+seriesUID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("studyUID", "seriesUID")
	c.SetParamValues(studyUID, seriesUID)
	if err := h.Images(c); err != nil {
		t.Fatalf("Images: %v", err)
	}
	var view View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec, view
}

func TestImagesReady(t *testing.T) {
	h := NewHandler(&mockLister{urls: []string{"https://img/1.png", "https://img/2.png"}})
	rec, view := imagesRequest(t, h, "1.2.3", "4.5.6")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if view.State != StateReady || len(view.ImageURLs) != 2 {
		t.Errorf("view = %+v", view)
	}
}

func TestImagesEmpty(t *testing.T) {
	h := NewHandler(&mockLister{})
	rec, view := imagesRequest(t, h, "1.2.3", "4.5.6")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
	if view.State != StateEmpty || view.Message == "" {
		t.Errorf("view = %+v", view)
	}
}

func TestImagesError(t *testing.T) {
	h := NewHandler(&mockLister{err: &upstream.Error{
		Kind:    upstream.KindServer,
		Status:  http.StatusInternalServerError,
		Message: "extraction failed",
	}})
	rec, view := imagesRequest(t, h, "1.2.3", "4.5.6")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if view.State != StateError || view.Message != "extraction failed" {
		t.Errorf("view = %+v", view)
	}
}
