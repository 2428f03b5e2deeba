package record

import (
	"fmt"

	"github.com/raysight/portal/internal/upstream/records"
)

// View states for the record detail endpoint, checked in this order by the
// composing service: error, not-ready, ready.
const (
	StateNotReady = "not-ready"
	StateReady    = "ready"
	StateError    = "error"
)

// View is the record detail page state.
type View struct {
	State      string       `json:"state"`
	Message    string       `json:"message,omitempty"`
	RecordID   string       `json:"recordId,omitempty"`
	Status     string       `json:"status,omitempty"`
	CenterName string       `json:"centerName,omitempty"`
	Patient    *PatientInfo `json:"patient,omitempty"`
	Report     *ReportView  `json:"report,omitempty"`
	ViewerPath string       `json:"viewerPath,omitempty"`
	Claim      *ClaimPrompt `json:"claim,omitempty"`
}

// PatientInfo is the demographic block at the top of the report. All fields
// are presence-defaulted to "N/A" so the frontend renders them verbatim.
type PatientInfo struct {
	Name     string `json:"name"`
	Age      string `json:"age"`
	Sex      string `json:"sex"`
	BodyPart string `json:"bodyPart"`
}

// ReportView is the diagnostic text with display defaults applied.
type ReportView struct {
	Findings   string `json:"findings"`
	Impression string `json:"impression"`
	Comment    string `json:"comment"`
	Result     string `json:"result"`
	CreatedAt  string `json:"createdAt"`
}

// ClaimPrompt carries the sign-in and registration links shown to anonymous
// visitors so they can attach the report to an account.
type ClaimPrompt struct {
	Message      string `json:"message"`
	SignInPath   string `json:"signInPath"`
	RegisterPath string `json:"registerPath"`
}

const naPlaceholder = "N/A"

func orNA(s string) string {
	if s == "" {
		return naPlaceholder
	}
	return s
}

func newPatientInfo(rec *records.Record) *PatientInfo {
	age := naPlaceholder
	if rec.Age > 0 {
		age = fmt.Sprintf("%d", rec.Age)
	}
	return &PatientInfo{
		Name:     orNA(rec.PatientName),
		Age:      age,
		Sex:      orNA(rec.Sex),
		BodyPart: orNA(rec.BodyPartExamined),
	}
}

func newReportView(rep *records.Report) *ReportView {
	v := &ReportView{
		Findings:   rep.Findings,
		Impression: rep.Impression,
		Comment:    rep.Comment,
		Result:     orNA(rep.Result),
		CreatedAt:  naPlaceholder,
	}
	if v.Findings == "" {
		v.Findings = "No findings yet."
	}
	if v.Impression == "" {
		v.Impression = "No impression yet."
	}
	if v.Comment == "" {
		v.Comment = "No comments yet."
	}
	if !rep.CreatedAt.IsZero() {
		v.CreatedAt = rep.CreatedAt.Format("02/01/2006")
	}
	return v
}

func newClaimPrompt(recordID string) *ClaimPrompt {
	suffix := "?recordId=" + recordID + "&redirect=/showReport/" + recordID
	return &ClaimPrompt{
		Message:      "Sign in to add this medical report to your personal records for easy access.",
		SignInPath:   "/login" + suffix,
		RegisterPath: "/register" + suffix,
	}
}

func viewerPath(rec *records.Record) string {
	if rec.StudyInstanceUID == "" || rec.SeriesInstanceUID == "" {
		return ""
	}
	return "/image-viewer/" + rec.StudyInstanceUID + "/" + rec.SeriesInstanceUID
}
