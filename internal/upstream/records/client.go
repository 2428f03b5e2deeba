// Package records is the thin HTTP client for the records backend: record
// retrieval, report and center lookups, patient record lists, and the
// approve/cancel state transitions.
package records

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/raysight/portal/internal/upstream"
)

// Client talks to the records backend. All methods are pure request/response
// with no retries and no caching; failures come back as *upstream.Error.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a records client. A nil httpClient gets the default upstream
// client with its standard timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = upstream.NewHTTPClient(0)
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) url(parts ...string) string {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

// RecordByID fetches one record.
func (c *Client) RecordByID(ctx context.Context, recordID string) (*Record, error) {
	var rec Record
	err := upstream.GetJSON(ctx, c.http, "records: get record",
		c.url("Record", "getOneRecordById", recordID), &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// ReportByID fetches the diagnostic report for a completed record. Callers
// are responsible for the Completed gate; this client does not re-check it.
func (c *Client) ReportByID(ctx context.Context, reportID string) (*Report, error) {
	var rep Report
	err := upstream.GetJSON(ctx, c.http, "records: get report",
		c.url("AIReports", "getOneAIReport", reportID), &rep)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// CenterByID fetches the originating center for a completed record. Same
// precondition as ReportByID.
func (c *Client) CenterByID(ctx context.Context, centerID string) (*Center, error) {
	var env centerEnvelope
	err := upstream.GetJSON(ctx, c.http, "records: get center",
		c.url("centers", "getCenterById", centerID), &env)
	if err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// PatientRecords fetches every record attached to a patient. An empty
// patientID is a caller bug: the session must be resolved first, and an
// anonymous session is an authorization failure, not an empty list.
func (c *Client) PatientRecords(ctx context.Context, patientID string) ([]Record, error) {
	if patientID == "" {
		return nil, &upstream.Error{
			Op:      "records: list patient records",
			Kind:    upstream.KindValidation,
			Message: "patient id is required",
		}
	}
	var env recordsEnvelope
	err := upstream.GetJSON(ctx, c.http, "records: list patient records",
		c.url("patients", "getPatientRecords", patientID), &env)
	if err != nil {
		return nil, err
	}
	return env.Records, nil
}

// AddRecordToPatient attaches an existing record to a patient's visible
// record set. Callers treat it as best-effort.
func (c *Client) AddRecordToPatient(ctx context.Context, patientID, recordID string) error {
	return upstream.PostJSON(ctx, c.http, "records: add record to patient",
		c.url("patients", "addRecordToPatient", patientID),
		map[string]string{"recordId": recordID}, nil)
}

// SetRecordStatus requests the approve or cancel transition for a record.
// One shot: success and failure are both terminal, there is no retry.
func (c *Client) SetRecordStatus(ctx context.Context, action Action, recordID string) error {
	if _, ok := ParseAction(string(action)); !ok {
		return &upstream.Error{
			Op:      "records: set record status",
			Kind:    upstream.KindValidation,
			Message: fmt.Sprintf("unknown action %q", action),
		}
	}
	return upstream.PostJSON(ctx, c.http, "records: set record status",
		c.url("Record", string(action), recordID), nil, nil)
}
