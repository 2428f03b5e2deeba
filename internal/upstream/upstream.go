// Package upstream holds what the portal's thin HTTP clients share: the
// structured error type every client returns and the request plumbing for
// the JSON contracts of the platform's backend services.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Kind classifies an upstream failure so handlers can pick a user-facing
// message without matching substrings of free-text backend errors.
type Kind int

const (
	KindGeneric Kind = iota
	// KindNetwork covers transport failures: connection refused, timeouts,
	// cancelled contexts.
	KindNetwork
	KindNotFound
	// KindCredentials covers rejected logins and bad passwords.
	KindCredentials
	// KindConflict covers duplicate registrations (email or national id
	// already taken).
	KindConflict
	// KindValidation covers requests the backend rejected as malformed.
	KindValidation
	KindServer
	// KindUnsuccessful marks a 2xx response whose body carried an explicit
	// success=false flag.
	KindUnsuccessful
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindNotFound:
		return "not_found"
	case KindCredentials:
		return "credentials"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindUnsuccessful:
		return "unsuccessful"
	default:
		return "generic"
	}
}

// Error is the failure type returned by every upstream client.
type Error struct {
	Op      string // e.g. "records: get record"
	Kind    Kind
	Status  int    // HTTP status, 0 for transport failures
	Message string // backend message field, or a generic status fallback
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// KindOf extracts the Kind from err, or KindGeneric when err is not an
// upstream Error.
func KindOf(err error) Kind {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Kind
	}
	return KindGeneric
}

// MessageOf extracts the upstream message from err, falling back to the
// plain error text.
func MessageOf(err error) string {
	var ue *Error
	if errors.As(err, &ue) {
		return ue.Message
	}
	return err.Error()
}

// HTTPStatus maps an upstream failure to the status the portal should serve
// for it. Transport failures surface as 502: the portal itself is healthy,
// the upstream is not.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindNotFound:
		return http.StatusNotFound
	case KindCredentials:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	case KindValidation:
		return http.StatusBadRequest
	case KindNetwork, KindServer, KindUnsuccessful:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// NewHTTPClient returns the http.Client the portal uses for upstream calls.
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// errorBody is the JSON shape the backends use for failures.
type errorBody struct {
	Message string `json:"message"`
}

// statusKind maps an HTTP status to a Kind. Backends that put everything in
// 400 or 500 with free-text messages get a second pass in messageKind.
func statusKind(status int) Kind {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindCredentials
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindGeneric
	}
}

// messageKind refines a Kind from the backend's free-text message. The auth
// backend reports credential and duplicate-registration failures with
// ambiguous statuses, so the message is the only signal left. This is the
// one place such matching is allowed.
func messageKind(fallback Kind, message string) Kind {
	if fallback != KindGeneric && fallback != KindValidation && fallback != KindServer {
		return fallback
	}
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "invalid credentials") || strings.Contains(m, "incorrect"):
		return KindCredentials
	case strings.Contains(m, "not found") || strings.Contains(m, "does not exist"):
		return KindNotFound
	case strings.Contains(m, "already"):
		return KindConflict
	case strings.Contains(m, "password"):
		return KindCredentials
	default:
		return fallback
	}
}

// DecodeFailure turns a non-2xx response into an *Error, pulling the
// backend's message field when the body is parseable JSON and falling back
// to a generic status-based message otherwise.
func DecodeFailure(op string, resp *http.Response) *Error {
	msg := fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil && len(body) > 0 {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
			msg = eb.Message
		}
	}
	kind := messageKind(statusKind(resp.StatusCode), msg)
	return &Error{Op: op, Kind: kind, Status: resp.StatusCode, Message: msg}
}

// TransportError wraps a failed round trip.
func TransportError(op string, err error) *Error {
	return &Error{Op: op, Kind: KindNetwork, Message: err.Error()}
}

// GetJSON issues a GET and decodes a 2xx JSON body into out.
func GetJSON(ctx context.Context, client *http.Client, op, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Op: op, Kind: KindGeneric, Message: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	return do(client, op, req, out)
}

// PostJSON issues a POST with an optional JSON body and decodes a 2xx JSON
// response into out. Both in and out may be nil.
func PostJSON(ctx context.Context, client *http.Client, op, url string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return &Error{Op: op, Kind: KindGeneric, Message: err.Error()}
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return &Error{Op: op, Kind: KindGeneric, Message: err.Error()}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return do(client, op, req, out)
}

func do(client *http.Client, op string, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return TransportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return DecodeFailure(op, resp)
	}
	if out == nil {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Kind: KindGeneric, Status: resp.StatusCode,
			Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}
