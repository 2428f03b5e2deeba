// Package explain is the thin HTTP client for the AI explanation service.
// Explanations are transient: nothing is cached, every call is a fresh
// request, and concurrent calls for the same report are not deduplicated.
package explain

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/raysight/portal/internal/upstream"
)

const (
	noFindings   = "No findings available"
	noImpression = "No impression available"
)

// Explanation is the patient-friendly paraphrase returned by the service.
type Explanation struct {
	PatientExplanation string    `json:"patient_explanation"`
	Language           string    `json:"language"`
	Timestamp          time.Time `json:"timestamp"`
	Disclaimer         string    `json:"disclaimer"`
}

type explainRequest struct {
	Report string `json:"report"`
}

type explainResponse struct {
	Success bool        `json:"success"`
	Data    Explanation `json:"data"`
}

// Client talks to the explanation service.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = upstream.NewHTTPClient(0)
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// composeReport joins findings and impression into the labeled block the
// explanation service expects, substituting placeholders for empty sections.
func composeReport(findings, impression string) string {
	if findings == "" {
		findings = noFindings
	}
	if impression == "" {
		impression = noImpression
	}
	return fmt.Sprintf("Findings: %s\n\nImpression: %s", findings, impression)
}

// ExplainReport submits the report text and returns the service's structured
// explanation unchanged. A 2xx response with success=false is a distinct
// failure from an HTTP-level one.
func (c *Client) ExplainReport(ctx context.Context, findings, impression string) (*Explanation, error) {
	var res explainResponse
	err := upstream.PostJSON(ctx, c.http, "explain: explain report",
		c.baseURL+"/gemini/explain-report",
		explainRequest{Report: composeReport(findings, impression)}, &res)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, &upstream.Error{
			Op:      "explain: explain report",
			Kind:    upstream.KindUnsuccessful,
			Status:  http.StatusOK,
			Message: "explanation service returned an unsuccessful response",
		}
	}
	return &res.Data, nil
}
