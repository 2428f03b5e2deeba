package dashboard

import (
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/raysight/portal/internal/upstream/records"
)

// View states the dashboard endpoint can render. Exactly one applies per
// response.
const (
	StateAccessDenied = "access-denied"
	StateEmpty        = "empty"
	StateReady        = "ready"
	StateError        = "error"
)

// View is the dashboard page state for the frontend.
type View struct {
	State     string `json:"state"`
	FirstName string `json:"firstName,omitempty"`
	Message   string `json:"message,omitempty"`
	Cards     []Card `json:"cards,omitempty"`
}

// Card is one record summary on the dashboard grid. ViewPath is set only
// when the record's report is ready to be opened.
type Card struct {
	RecordID       string    `json:"recordId"`
	Title          string    `json:"title"`
	Status         string    `json:"status"`
	StatusColor    string    `json:"statusColor"`
	StatusIcon     string    `json:"statusIcon"`
	PatientID      string    `json:"patientId"`
	Modality       string    `json:"modality"`
	Age            int       `json:"age"`
	Specialization string    `json:"specialization,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	ViewPath       string    `json:"viewPath,omitempty"`
}

func statusColor(s records.Status) string {
	switch s {
	case records.StatusCompleted:
		return "#059669"
	case records.StatusInProgress:
		return "#d97706"
	case records.StatusPending:
		return "#3b82f6"
	default:
		return "#6b7280"
	}
}

func statusIcon(s records.Status) string {
	switch s {
	case records.StatusCompleted:
		return "✅"
	case records.StatusInProgress:
		return "⏳"
	case records.StatusPending:
		return "📋"
	default:
		return "📄"
	}
}

// cardTitle derives the card heading from the examined body part, falling
// back to a generic label when the backend left it blank.
func cardTitle(bodyPart string) string {
	if bodyPart == "" {
		return "Medical Report"
	}
	r, size := utf8.DecodeRuneInString(bodyPart)
	return string(unicode.ToUpper(r)) + bodyPart[size:] + " Examination"
}

func newCard(rec records.Record) Card {
	card := Card{
		RecordID:       rec.ID,
		Title:          cardTitle(rec.BodyPartExamined),
		Status:         string(rec.Status),
		StatusColor:    statusColor(rec.Status),
		StatusIcon:     statusIcon(rec.Status),
		PatientID:      rec.PatientID,
		Modality:       rec.Modality,
		Age:            rec.Age,
		Specialization: rec.SpecializationRequest,
		CreatedAt:      rec.CreatedAt,
	}
	if rec.Status.Completed() {
		card.ViewPath = "/showReport/" + rec.ID
	}
	return card
}
