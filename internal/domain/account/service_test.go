package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/raysight/portal/internal/platform/session"
	"github.com/raysight/portal/internal/upstream"
	"github.com/raysight/portal/internal/upstream/authapi"
)

// ── Mocks ──

type mockAuth struct {
	loginCalls    int
	registerCalls int
	result        *authapi.AuthResult
	err           error
}

func (m *mockAuth) Login(_ context.Context, email, password string) (*authapi.AuthResult, error) {
	m.loginCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockAuth) Register(_ context.Context, _ authapi.RegisterRequest) (*authapi.AuthResult, error) {
	m.registerCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockAttacher struct {
	calls       int
	lastPatient string
	lastRecord  string
	err         error
}

func (m *mockAttacher) AddRecordToPatient(_ context.Context, patientID, recordID string) error {
	m.calls++
	m.lastPatient = patientID
	m.lastRecord = recordID
	return m.err
}

func validToken(t *testing.T) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func newTestService(t *testing.T, auth *mockAuth, attacher *mockAttacher) (*Service, *session.Manager) {
	t.Helper()
	sessions := session.NewManager(session.NewMemoryStore(), zerolog.Nop())
	return NewService(sessions, auth, attacher, 1000, zerolog.Nop()), sessions
}

// ── Login ──

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	auth := &mockAuth{result: &authapi.AuthResult{
		Token:   validToken(t),
		Patient: &session.Identity{ID: "p1", FirstName: "Jo"},
	}}
	svc, sessions := newTestService(t, auth, &mockAttacher{})

	view, err := svc.Login(ctx, "s1", LoginRequest{Email: "a@b.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if view.Redirect != "/dashboard" {
		t.Errorf("Redirect = %q, want /dashboard", view.Redirect)
	}
	if view.RedirectDelayMS != 1000 {
		t.Errorf("RedirectDelayMS = %d, want 1000", view.RedirectDelayMS)
	}
	if view.Patient.FirstName != "Jo" {
		t.Errorf("Patient = %+v", view.Patient)
	}

	sess, err := sessions.Restore(ctx, "s1")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !sess.IsAuthenticated() {
		t.Error("session should be authenticated after login")
	}
	if sess.Identity.ID != "p1" || sess.Identity.FirstName != "Jo" {
		t.Errorf("persisted identity = %+v", sess.Identity)
	}
}

func TestLoginValidationSkipsNetwork(t *testing.T) {
	auth := &mockAuth{}
	svc, _ := newTestService(t, auth, &mockAttacher{})

	cases := []LoginRequest{
		{Email: "", Password: "secret1"},
		{Email: "no-at-sign", Password: "secret1"},
		{Email: "a@b.com", Password: ""},
	}
	for _, req := range cases {
		_, err := svc.Login(context.Background(), "s1", req)
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("Login(%+v) error = %v, want ValidationError", req, err)
		}
	}
	if auth.loginCalls != 0 {
		t.Errorf("auth backend called %d times during local validation failures", auth.loginCalls)
	}
}

func TestLoginCustomRedirect(t *testing.T) {
	auth := &mockAuth{result: &authapi.AuthResult{
		Token:   validToken(t),
		Patient: &session.Identity{ID: "p1"},
	}}
	svc, _ := newTestService(t, auth, &mockAttacher{})

	view, err := svc.Login(context.Background(), "s1", LoginRequest{
		Email: "a@b.com", Password: "secret1", Redirect: "/showReport/r9",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if view.Redirect != "/showReport/r9" {
		t.Errorf("Redirect = %q", view.Redirect)
	}
}

func TestLoginClaimsCarriedRecord(t *testing.T) {
	auth := &mockAuth{result: &authapi.AuthResult{
		Token:   validToken(t),
		Patient: &session.Identity{ID: "p1"},
	}}
	attacher := &mockAttacher{}
	svc, _ := newTestService(t, auth, attacher)

	_, err := svc.Login(context.Background(), "s1", LoginRequest{
		Email: "a@b.com", Password: "secret1", RecordID: "r7",
	})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if attacher.calls != 1 || attacher.lastPatient != "p1" || attacher.lastRecord != "r7" {
		t.Errorf("attach calls = %d (%s/%s)", attacher.calls, attacher.lastPatient, attacher.lastRecord)
	}
}

func TestLoginClaimFailureDoesNotBlock(t *testing.T) {
	auth := &mockAuth{result: &authapi.AuthResult{
		Token:   validToken(t),
		Patient: &session.Identity{ID: "p1"},
	}}
	attacher := &mockAttacher{err: errors.New("backend down")}
	svc, _ := newTestService(t, auth, attacher)

	view, err := svc.Login(context.Background(), "s1", LoginRequest{
		Email: "a@b.com", Password: "secret1", RecordID: "r7",
	})
	if err != nil {
		t.Fatalf("Login should succeed despite claim failure: %v", err)
	}
	if view.Redirect != "/dashboard" {
		t.Errorf("Redirect = %q", view.Redirect)
	}
}

func TestLoginUpstreamFailurePassesThrough(t *testing.T) {
	auth := &mockAuth{err: &upstream.Error{Kind: upstream.KindCredentials, Message: "Invalid credentials"}}
	svc, sessions := newTestService(t, auth, &mockAttacher{})

	_, err := svc.Login(context.Background(), "s1", LoginRequest{Email: "a@b.com", Password: "wrong00"})
	if upstream.KindOf(err) != upstream.KindCredentials {
		t.Errorf("Kind = %v, want credentials", upstream.KindOf(err))
	}
	sess, _ := sessions.Restore(context.Background(), "s1")
	if sess.IsAuthenticated() {
		t.Error("failed login must not establish a session")
	}
}

// ── Register ──

func validRegistration() RegisterRequest {
	return RegisterRequest{
		FirstName:     "Sam",
		Email:         "s@x.com",
		Password:      "secret1",
		NationalID:    "123456",
		ContactNumber: "0123456789",
	}
}

func TestRegisterSuccess(t *testing.T) {
	auth := &mockAuth{result: &authapi.AuthResult{
		Success: true,
		Token:   validToken(t),
		Patient: &session.Identity{ID: "p2", FirstName: "Sam"},
	}}
	svc, sessions := newTestService(t, auth, &mockAttacher{})

	view, err := svc.Register(context.Background(), "s1", validRegistration())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if view.Redirect != "/dashboard" {
		t.Errorf("Redirect = %q", view.Redirect)
	}
	sess, _ := sessions.Restore(context.Background(), "s1")
	if !sess.IsAuthenticated() {
		t.Error("session should be authenticated after registration")
	}
}

func TestRegisterContactNumberLength(t *testing.T) {
	auth := &mockAuth{result: &authapi.AuthResult{
		Success: true,
		Token:   validToken(t),
		Patient: &session.Identity{ID: "p2"},
	}}
	svc, _ := newTestService(t, auth, &mockAttacher{})

	req := validRegistration()
	req.ContactNumber = "012345678" // nine digits
	_, err := svc.Register(context.Background(), "s1", req)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("nine-digit contact number: error = %v, want ValidationError", err)
	}
	if auth.registerCalls != 0 {
		t.Error("no network call expected for local validation failure")
	}

	req.ContactNumber = "0123456789" // ten digits
	if _, err := svc.Register(context.Background(), "s1", req); err != nil {
		t.Errorf("ten-digit contact number should pass validation, got %v", err)
	}
	if auth.registerCalls != 1 {
		t.Errorf("registerCalls = %d, want 1", auth.registerCalls)
	}
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _ := newTestService(t, &mockAuth{}, &mockAttacher{})
	req := validRegistration()
	req.Password = "12345"
	_, err := svc.Register(context.Background(), "s1", req)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

// ── Logout / Current ──

func TestLogout(t *testing.T) {
	ctx := context.Background()
	auth := &mockAuth{result: &authapi.AuthResult{
		Token:   validToken(t),
		Patient: &session.Identity{ID: "p1"},
	}}
	svc, _ := newTestService(t, auth, &mockAttacher{})

	if _, err := svc.Login(ctx, "s1", LoginRequest{Email: "a@b.com", Password: "secret1"}); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, "s1"); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	view, err := svc.Current(ctx, "s1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if view.Authenticated {
		t.Error("session should be anonymous after logout")
	}
}

// ── Message mapping ──

func TestFriendlyMessages(t *testing.T) {
	cred := &upstream.Error{Kind: upstream.KindCredentials, Message: "Invalid credentials"}
	if got := friendlyLoginMessage(cred); got != "Invalid email or password. Please check your credentials and try again." {
		t.Errorf("credentials message = %q", got)
	}
	conflict := &upstream.Error{Kind: upstream.KindConflict, Message: "email already registered"}
	if got := friendlyRegisterMessage(conflict); got == "" || got == conflict.Message {
		t.Errorf("conflict message should be rephrased, got %q", got)
	}
	network := &upstream.Error{Kind: upstream.KindNetwork, Message: "dial tcp: refused"}
	if got := friendlyLoginMessage(network); got != "Network error. Please check your internet connection and try again." {
		t.Errorf("network message = %q", got)
	}
}
