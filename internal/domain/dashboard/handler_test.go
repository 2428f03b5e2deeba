package dashboard

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/raysight/portal/internal/platform/middleware"
	"github.com/raysight/portal/internal/platform/session"
	"github.com/raysight/portal/internal/upstream"
	"github.com/raysight/portal/internal/upstream/records"
)

func dashboardRequest(t *testing.T, h *Handler, sessionID string) (*httptest.ResponseRecorder, View) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.SessionIDKey, sessionID)
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	var view View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec, view
}

func TestDashboardAnonymous(t *testing.T) {
	sessions := session.NewManager(session.NewMemoryStore(), zerolog.Nop())
	h := NewHandler(NewService(sessions, &mockLister{}, zerolog.Nop()))

	rec, view := dashboardRequest(t, h, "anon")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if view.State != StateAccessDenied {
		t.Errorf("State = %q", view.State)
	}
}

func TestDashboardReady(t *testing.T) {
	sessions := loggedInSessions(t, "s1", session.Identity{ID: "p1", FirstName: "Jo"})
	lister := &mockLister{records: []records.Record{
		{ID: "r1", PatientID: "p1", Status: records.StatusCompleted, BodyPartExamined: "chest"},
	}}
	h := NewHandler(NewService(sessions, lister, zerolog.Nop()))

	rec, view := dashboardRequest(t, h, "s1")
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if view.State != StateReady || len(view.Cards) != 1 {
		t.Errorf("view = %+v", view)
	}
}

func TestDashboardUpstreamError(t *testing.T) {
	sessions := loggedInSessions(t, "s1", session.Identity{ID: "p1"})
	lister := &mockLister{err: &upstream.Error{
		Kind:    upstream.KindServer,
		Status:  http.StatusInternalServerError,
		Message: "backend exploded",
	}}
	h := NewHandler(NewService(sessions, lister, zerolog.Nop()))

	rec, view := dashboardRequest(t, h, "s1")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if view.State != StateError || view.Message != "backend exploded" {
		t.Errorf("view = %+v", view)
	}
}
