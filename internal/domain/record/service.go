package record

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/raysight/portal/internal/platform/session"
	"github.com/raysight/portal/internal/upstream"
	"github.com/raysight/portal/internal/upstream/explain"
	"github.com/raysight/portal/internal/upstream/records"
)

// RecordFetcher is the slice of the records backend the detail page needs.
type RecordFetcher interface {
	RecordByID(ctx context.Context, recordID string) (*records.Record, error)
	ReportByID(ctx context.Context, reportID string) (*records.Report, error)
	CenterByID(ctx context.Context, centerID string) (*records.Center, error)
}

// Explainer generates a plain-language explanation of a report.
type Explainer interface {
	ExplainReport(ctx context.Context, findings, impression string) (*explain.Explanation, error)
}

type Service struct {
	sessions *session.Manager
	records  RecordFetcher
	explain  Explainer
	log      zerolog.Logger
}

func NewService(sessions *session.Manager, records RecordFetcher, explain Explainer, log zerolog.Logger) *Service {
	return &Service{sessions: sessions, records: records, explain: explain, log: log}
}

// Detail composes the record detail page. The record is loaded first; its
// report and center are fetched only for a Completed record, concurrently
// with each other. Anonymous sessions get the claim prompt on success.
func (s *Service) Detail(ctx context.Context, sessionID, recordID string) (*View, error) {
	sess, err := s.sessions.Restore(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("restore session: %w", err)
	}

	rec, err := s.records.RecordByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("load record %s: %w", recordID, err)
	}

	if !rec.Status.Completed() {
		return &View{
			State:    StateNotReady,
			RecordID: rec.ID,
			Status:   string(rec.Status),
			Message:  "The report is not ready now, please come back later.",
		}, nil
	}

	var (
		wg        sync.WaitGroup
		report    *records.Report
		center    *records.Center
		reportErr error
		centerErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		report, reportErr = s.records.ReportByID(ctx, rec.ReportID)
	}()
	go func() {
		defer wg.Done()
		center, centerErr = s.records.CenterByID(ctx, rec.CenterID)
	}()
	wg.Wait()
	if reportErr != nil {
		return nil, fmt.Errorf("load report %s: %w", rec.ReportID, reportErr)
	}
	if centerErr != nil {
		return nil, fmt.Errorf("load center %s: %w", rec.CenterID, centerErr)
	}

	view := &View{
		State:      StateReady,
		RecordID:   rec.ID,
		Status:     string(rec.Status),
		CenterName: center.Name,
		Patient:    newPatientInfo(rec),
		Report:     newReportView(report),
		ViewerPath: viewerPath(rec),
	}
	if view.CenterName == "" {
		view.CenterName = "No Center Name"
	}
	if !sess.IsAuthenticated() {
		view.Claim = newClaimPrompt(rec.ID)
	}
	return view, nil
}

// Explain re-reads the record and its report, then asks the explanation
// service for a patient-friendly rendition. Nothing is cached; every call
// is a fresh generation.
func (s *Service) Explain(ctx context.Context, recordID string) (*explain.Explanation, error) {
	rec, err := s.records.RecordByID(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("load record %s: %w", recordID, err)
	}
	if !rec.Status.Completed() {
		return nil, &upstream.Error{
			Op:      "explain record",
			Kind:    upstream.KindValidation,
			Message: "report is not ready yet",
		}
	}
	report, err := s.records.ReportByID(ctx, rec.ReportID)
	if err != nil {
		return nil, fmt.Errorf("load report %s: %w", rec.ReportID, err)
	}
	exp, err := s.explain.ExplainReport(ctx, report.Findings, report.Impression)
	if err != nil {
		return nil, fmt.Errorf("explain report %s: %w", rec.ReportID, err)
	}
	return exp, nil
}
