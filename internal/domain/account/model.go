package account

import (
	"fmt"
	"strings"

	"github.com/raysight/portal/internal/platform/session"
	"github.com/raysight/portal/internal/upstream"
)

// LoginRequest is the portal login form. RecordID and Redirect mirror the
// query parameters an emailed report link carries into the login page.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	RecordID string `json:"recordId,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// RegisterRequest is the portal registration form.
type RegisterRequest struct {
	FirstName     string `json:"firstName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	NationalID    string `json:"nationalId"`
	ContactNumber string `json:"contactNumber"`
	RecordID      string `json:"recordId,omitempty"`
	Redirect      string `json:"redirect,omitempty"`
}

const (
	minPasswordLength      = 6
	minContactNumberLength = 10
	defaultRedirect        = "/dashboard"
)

// ValidationError is a form failure caught before any network call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validate applies the same synchronous field rules the portal has always
// enforced before submitting a login.
func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return &ValidationError{Message: "Please enter a valid email address"}
	}
	if r.Password == "" {
		return &ValidationError{Message: "Password is required"}
	}
	return nil
}

// Validate applies the registration field rules. Failures here never reach
// the auth backend.
func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.FirstName) == "" {
		return &ValidationError{Message: "First name is required"}
	}
	if strings.TrimSpace(r.Email) == "" || !strings.Contains(r.Email, "@") {
		return &ValidationError{Message: "Please enter a valid email address"}
	}
	if strings.TrimSpace(r.NationalID) == "" {
		return &ValidationError{Message: "National ID is required"}
	}
	if strings.TrimSpace(r.ContactNumber) == "" || len(r.ContactNumber) < minContactNumberLength {
		return &ValidationError{Message: fmt.Sprintf("Please enter a valid contact number (at least %d digits)", minContactNumberLength)}
	}
	if len(r.Password) < minPasswordLength {
		return &ValidationError{Message: fmt.Sprintf("Password must be at least %d characters long", minPasswordLength)}
	}
	return nil
}

// AuthView is the success response for login and registration: who is signed
// in and where the client should navigate next.
type AuthView struct {
	Message         string            `json:"message"`
	Patient         *session.Identity `json:"patient"`
	Redirect        string            `json:"redirect"`
	RedirectDelayMS int               `json:"redirectDelayMs"`
}

// SessionView describes the current session for the frontend shell.
type SessionView struct {
	Authenticated bool              `json:"authenticated"`
	Patient       *session.Identity `json:"patient,omitempty"`
}

// friendlyLoginMessage picks the user-facing category for a failed login.
func friendlyLoginMessage(err error) string {
	switch upstream.KindOf(err) {
	case upstream.KindCredentials:
		return "Invalid email or password. Please check your credentials and try again."
	case upstream.KindNotFound:
		return "No account found with this email. Please check your email or create a new account."
	case upstream.KindNetwork:
		return "Network error. Please check your internet connection and try again."
	default:
		if m := upstream.MessageOf(err); m != "" {
			return m
		}
		return "Login failed. Please check your credentials and try again."
	}
}

// friendlyRegisterMessage picks the user-facing category for a failed
// registration.
func friendlyRegisterMessage(err error) string {
	switch upstream.KindOf(err) {
	case upstream.KindConflict:
		return "An account with this email or National ID already exists. Please check your details or try logging in."
	case upstream.KindValidation:
		return "Please check all fields and ensure they are filled correctly."
	case upstream.KindCredentials:
		return "Password is too weak. Please choose a stronger password."
	case upstream.KindNetwork:
		return "Network error. Please check your internet connection and try again."
	default:
		if m := upstream.MessageOf(err); m != "" {
			return m
		}
		return "Registration failed. Please check your information and try again."
	}
}
