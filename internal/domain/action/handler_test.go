package action

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/raysight/portal/internal/upstream"
	"github.com/raysight/portal/internal/upstream/records"
)

type mockSetter struct {
	calls      int
	lastAction records.Action
	lastRecord string
	err        error
}

func (m *mockSetter) SetRecordStatus(_ context.Context, action records.Action, recordID string) error {
	m.calls++
	m.lastAction = action
	m.lastRecord = recordID
	return m.err
}

func applyRequest(t *testing.T, h *Handler, action, recordID string) (*httptest.ResponseRecorder, View) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/actions/"+action+"/"+recordID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("action", "recordId")
	c.SetParamValues(action, recordID)
	if err := h.Apply(c); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	var view View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec, view
}

func TestApplyApprove(t *testing.T) {
	setter := &mockSetter{}
	h := NewHandler(setter, zerolog.Nop())

	rec, view := applyRequest(t, h, "approve", "r1")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if view.State != "success" || !strings.Contains(view.Message, "approved") {
		t.Errorf("view = %+v", view)
	}
	if setter.lastAction != records.ActionApprove || setter.lastRecord != "r1" {
		t.Errorf("setter got %s/%s", setter.lastAction, setter.lastRecord)
	}
}

func TestApplyCancel(t *testing.T) {
	setter := &mockSetter{}
	h := NewHandler(setter, zerolog.Nop())

	_, view := applyRequest(t, h, "cancel", "r2")
	if view.State != "success" || !strings.Contains(view.Message, "canceled") {
		t.Errorf("view = %+v", view)
	}
}

func TestApplyUnknownAction(t *testing.T) {
	setter := &mockSetter{}
	h := NewHandler(setter, zerolog.Nop())

	rec, view := applyRequest(t, h, "archive", "r1")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if view.State != "error" {
		t.Errorf("view = %+v", view)
	}
	if setter.calls != 0 {
		t.Error("unknown action must not reach the records backend")
	}
}

func TestApplyUpstreamError(t *testing.T) {
	setter := &mockSetter{err: &upstream.Error{
		Kind:    upstream.KindNotFound,
		Status:  http.StatusNotFound,
		Message: "record not found",
	}}
	h := NewHandler(setter, zerolog.Nop())

	rec, view := applyRequest(t, h, "approve", "missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if view.State != "error" || view.Message != "record not found" {
		t.Errorf("view = %+v", view)
	}
}
