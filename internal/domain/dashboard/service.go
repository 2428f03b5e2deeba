package dashboard

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/raysight/portal/internal/platform/session"
	"github.com/raysight/portal/internal/upstream/records"
)

// RecordLister is the slice of the records backend the dashboard needs.
type RecordLister interface {
	PatientRecords(ctx context.Context, patientID string) ([]records.Record, error)
}

type Service struct {
	sessions *session.Manager
	records  RecordLister
	log      zerolog.Logger
}

func NewService(sessions *session.Manager, records RecordLister, log zerolog.Logger) *Service {
	return &Service{sessions: sessions, records: records, log: log}
}

// View composes the dashboard page state for a session. Upstream failures
// are returned as errors; the handler converts them to the error state.
func (s *Service) View(ctx context.Context, sessionID string) (*View, error) {
	sess, err := s.sessions.Restore(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}
	// A session whose identity lost its patient id cannot be tied to any
	// records; treat it the same as not being signed in.
	if !sess.IsAuthenticated() || sess.Identity.ID == "" {
		return &View{
			State:   StateAccessDenied,
			Message: "Please log in to view your medical records.",
		}, nil
	}

	recs, err := s.records.PatientRecords(ctx, sess.Identity.ID)
	if err != nil {
		return nil, fmt.Errorf("list records for patient %s: %w", sess.Identity.ID, err)
	}
	if len(recs) == 0 {
		return &View{
			State:     StateEmpty,
			FirstName: sess.Identity.FirstName,
			Message:   "You don't have any medical records yet. Records will appear here once they are added to your account.",
		}, nil
	}

	cards := make([]Card, 0, len(recs))
	for _, rec := range recs {
		cards = append(cards, newCard(rec))
	}
	return &View{
		State:     StateReady,
		FirstName: sess.Identity.FirstName,
		Cards:     cards,
	}, nil
}
