// Package authapi is the thin HTTP client for the patient auth backend.
// Passwords pass straight through; hashing and verification happen upstream.
package authapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/raysight/portal/internal/platform/session"
	"github.com/raysight/portal/internal/upstream"
)

// AuthResult is the successful outcome of a login or registration: the
// bearer token plus the patient identity it belongs to.
type AuthResult struct {
	Success bool              `json:"success"`
	Token   string            `json:"token"`
	Patient *session.Identity `json:"patient"`
}

// RegisterRequest is the registration payload the auth backend expects.
type RegisterRequest struct {
	FirstName     string `json:"firstName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	NationalID    string `json:"nationalId"`
	ContactNumber string `json:"contactNumber"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Client talks to the patient auth backend.
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

// Login authenticates a patient by email and password.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var res AuthResult
	err := upstream.PostJSON(ctx, c.http, "auth: login",
		c.baseURL+"/patientAuth/loginPatient",
		loginRequest{Email: email, Password: password}, &res)
	if err != nil {
		return nil, err
	}
	if res.Token == "" || res.Patient == nil {
		return nil, &upstream.Error{
			Op:      "auth: login",
			Kind:    upstream.KindGeneric,
			Message: "login response missing token or patient",
		}
	}
	return &res, nil
}

// Register creates a patient account. The backend signals logical failure
// via the success flag even on a 2xx response.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var res AuthResult
	err := upstream.PostJSON(ctx, c.http, "auth: register",
		c.baseURL+"/patientAuth/registerPatient", req, &res)
	if err != nil {
		return nil, err
	}
	if !res.Success || res.Token == "" || res.Patient == nil {
		return nil, &upstream.Error{
			Op:      "auth: register",
			Kind:    upstream.KindUnsuccessful,
			Message: "registration was not accepted",
		}
	}
	return &res, nil
}
