package record

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/raysight/portal/internal/platform/middleware"
	"github.com/raysight/portal/internal/upstream"
	"github.com/raysight/portal/internal/upstream/explain"
	"github.com/raysight/portal/internal/upstream/records"
)

func detailRequest(t *testing.T, h *Handler, recordID string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/records/"+recordID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("recordId")
	c.SetParamValues(recordID)
	c.Set(middleware.SessionIDKey, "s1")
	if err := h.Detail(c); err != nil {
		t.Fatalf("Detail: %v", err)
	}
	return rec
}

func TestHandlerDetailNotFound(t *testing.T) {
	fetcher := &mockFetcher{recordErr: &upstream.Error{
		Kind:    upstream.KindNotFound,
		Status:  http.StatusNotFound,
		Message: "record not found",
	}}
	h := NewHandler(NewService(anonymousSessions(), fetcher, &mockExplainer{}, zerolog.Nop()))

	rec := detailRequest(t, h, "missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	var view View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.State != StateError || view.Message != "record not found" {
		t.Errorf("view = %+v", view)
	}
}

func TestHandlerDetailReady(t *testing.T) {
	fetcher := &mockFetcher{
		record: completedRecord(),
		report: &records.Report{Findings: "opacity"},
		center: &records.Center{Name: "City Imaging"},
	}
	h := NewHandler(NewService(anonymousSessions(), fetcher, &mockExplainer{}, zerolog.Nop()))

	rec := detailRequest(t, h, "r1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var view View
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.State != StateReady || view.CenterName != "City Imaging" {
		t.Errorf("view = %+v", view)
	}
	if view.Claim == nil {
		t.Error("anonymous request should carry the claim prompt")
	}
}

func TestHandlerExplain(t *testing.T) {
	fetcher := &mockFetcher{
		record: completedRecord(),
		report: &records.Report{Findings: "opacity", Impression: "infection"},
	}
	explainer := &mockExplainer{result: &explain.Explanation{
		PatientExplanation: "Plain words.",
		Language:           "en",
		Disclaimer:         "See a doctor.",
	}}
	h := NewHandler(NewService(anonymousSessions(), fetcher, explainer, zerolog.Nop()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/r1/explanation", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("recordId")
	c.SetParamValues("r1")
	if err := h.Explain(c); err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var exp explain.Explanation
	if err := json.Unmarshal(rec.Body.Bytes(), &exp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if exp.PatientExplanation != "Plain words." {
		t.Errorf("explanation = %+v", exp)
	}
}

func TestHandlerExplainUnsuccessful(t *testing.T) {
	fetcher := &mockFetcher{
		record: completedRecord(),
		report: &records.Report{},
	}
	explainer := &mockExplainer{err: &upstream.Error{
		Kind:    upstream.KindUnsuccessful,
		Status:  http.StatusOK,
		Message: "generation failed",
	}}
	h := NewHandler(NewService(anonymousSessions(), fetcher, explainer, zerolog.Nop()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/records/r1/explanation", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("recordId")
	c.SetParamValues("r1")
	if err := h.Explain(c); err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
}
