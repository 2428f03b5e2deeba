// Package account owns the login, registration, logout, and session
// introspection flows. It is the only domain that writes session state.
package account

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/raysight/portal/internal/platform/session"
	"github.com/raysight/portal/internal/upstream/authapi"
)

// AuthClient is the slice of the auth backend the account flows need.
type AuthClient interface {
	Login(ctx context.Context, email, password string) (*authapi.AuthResult, error)
	Register(ctx context.Context, req authapi.RegisterRequest) (*authapi.AuthResult, error)
}

// RecordAttacher attaches a record to a patient's visible set. Only the
// best-effort claim after login/registration uses it.
type RecordAttacher interface {
	AddRecordToPatient(ctx context.Context, patientID, recordID string) error
}

type Service struct {
	sessions        *session.Manager
	auth            AuthClient
	records         RecordAttacher
	redirectDelayMS int
	log             zerolog.Logger
}

func NewService(sessions *session.Manager, auth AuthClient, records RecordAttacher, redirectDelayMS int, log zerolog.Logger) *Service {
	return &Service{
		sessions:        sessions,
		auth:            auth,
		records:         records,
		redirectDelayMS: redirectDelayMS,
		log:             log,
	}
}

// Login validates the form, authenticates against the backend, establishes
// the session, and best-effort claims the carried record.
func (s *Service) Login(ctx context.Context, sessionID string, req LoginRequest) (*AuthView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res, err := s.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.Login(ctx, sessionID, res.Patient, res.Token); err != nil {
		return nil, err
	}

	s.claimRecord(ctx, res.Patient, req.RecordID)

	return &AuthView{
		Message:         "Login successful! Redirecting to your records...",
		Patient:         res.Patient,
		Redirect:        redirectOrDefault(req.Redirect),
		RedirectDelayMS: s.redirectDelayMS,
	}, nil
}

// Register validates the form, creates the account, and signs the new
// patient in exactly as Login does.
func (s *Service) Register(ctx context.Context, sessionID string, req RegisterRequest) (*AuthView, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res, err := s.auth.Register(ctx, authapi.RegisterRequest{
		FirstName:     req.FirstName,
		Email:         req.Email,
		Password:      req.Password,
		NationalID:    req.NationalID,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.sessions.Login(ctx, sessionID, res.Patient, res.Token); err != nil {
		return nil, err
	}

	s.claimRecord(ctx, res.Patient, req.RecordID)

	return &AuthView{
		Message:         "Account created successfully! Redirecting to your dashboard...",
		Patient:         res.Patient,
		Redirect:        redirectOrDefault(req.Redirect),
		RedirectDelayMS: s.redirectDelayMS,
	}, nil
}

// Logout tears the session down locally.
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Logout(ctx, sessionID)
}

// Current resolves the session for the frontend shell.
func (s *Service) Current(ctx context.Context, sessionID string) (*SessionView, error) {
	sess, err := s.sessions.Restore(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &SessionView{
		Authenticated: sess.IsAuthenticated(),
		Patient:       sess.Identity,
	}, nil
}

// claimRecord attaches the record carried by an emailed link to the freshly
// signed-in patient. Failure is logged and ignored: the sign-in itself has
// already succeeded and must not be rolled back over this.
func (s *Service) claimRecord(ctx context.Context, patient *session.Identity, recordID string) {
	if recordID == "" || patient == nil || patient.ID == "" {
		return
	}
	if err := s.records.AddRecordToPatient(ctx, patient.ID, recordID); err != nil {
		s.log.Warn().
			Str("patient_id", patient.ID).
			Str("record_id", recordID).
			Err(err).
			Msg("could not attach record to patient")
	}
}

func redirectOrDefault(redirect string) string {
	if redirect == "" {
		return defaultRedirect
	}
	return redirect
}
