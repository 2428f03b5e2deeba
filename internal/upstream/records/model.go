package records

import (
	"encoding/json"
	"time"
)

// Status is the record lifecycle state assigned by the records backend. The
// portal never changes it locally; approve/cancel are requests to the
// backend, not mutations.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Completed reports whether the record's report and center may be fetched.
func (s Status) Completed() bool { return s == StatusCompleted }

// Record is a single imaging case belonging to a patient, as served by the
// records backend.
type Record struct {
	ID                    string    `json:"id"`
	PatientID             string    `json:"patient_id"`
	Status                Status    `json:"status"`
	PatientName           string    `json:"patient_name"`
	Age                   int       `json:"age"`
	Sex                   string    `json:"sex"`
	BodyPartExamined      string    `json:"body_part_examined"`
	Modality              string    `json:"modality"`
	SpecializationRequest string    `json:"specializationRequest,omitempty"`
	StudyInstanceUID      string    `json:"Study_Instance_UID,omitempty"`
	SeriesInstanceUID     string    `json:"Series_Instance_UID,omitempty"`
	ReportID              string    `json:"reportId,omitempty"`
	CenterID              string    `json:"centerId,omitempty"`
	CreatedAt             time.Time `json:"createdAt"`
}

// recordWire tolerates the backend's Mongo-style "_id" identifier alongside
// the canonical "id".
type recordWire struct {
	ID                    string    `json:"id"`
	MongoID               string    `json:"_id"`
	PatientID             string    `json:"patient_id"`
	Status                Status    `json:"status"`
	PatientName           string    `json:"patient_name"`
	Age                   int       `json:"age"`
	Sex                   string    `json:"sex"`
	BodyPartExamined      string    `json:"body_part_examined"`
	Modality              string    `json:"modality"`
	SpecializationRequest string    `json:"specializationRequest"`
	StudyInstanceUID      string    `json:"Study_Instance_UID"`
	SeriesInstanceUID     string    `json:"Series_Instance_UID"`
	ReportID              string    `json:"reportId"`
	CenterID              string    `json:"centerId"`
	CreatedAt             time.Time `json:"createdAt"`
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var w recordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := w.ID
	if id == "" {
		id = w.MongoID
	}
	*r = Record{
		ID:                    id,
		PatientID:             w.PatientID,
		Status:                w.Status,
		PatientName:           w.PatientName,
		Age:                   w.Age,
		Sex:                   w.Sex,
		BodyPartExamined:      w.BodyPartExamined,
		Modality:              w.Modality,
		SpecializationRequest: w.SpecializationRequest,
		StudyInstanceUID:      w.StudyInstanceUID,
		SeriesInstanceUID:     w.SeriesInstanceUID,
		ReportID:              w.ReportID,
		CenterID:              w.CenterID,
		CreatedAt:             w.CreatedAt,
	}
	return nil
}

// Report is the diagnostic text generated for a completed record. Read-only;
// the field spellings (including "Impration") are the backend's wire format.
type Report struct {
	Findings   string    `json:"diagnosisReportFinding"`
	Impression string    `json:"diagnosisReportImpration"`
	Comment    string    `json:"diagnosisReportComment"`
	Result     string    `json:"result"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Center is the imaging facility that originated a record.
type Center struct {
	Name     string `json:"centerName"`
	Location string `json:"location,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// centerEnvelope is the backend's wrapper around a center payload.
type centerEnvelope struct {
	Data Center `json:"data"`
}

// recordsEnvelope is the backend's wrapper around a patient's record list.
type recordsEnvelope struct {
	Records []Record `json:"records"`
}

// Action is a one-shot record state transition requested from an emailed
// link.
type Action string

const (
	ActionApprove Action = "approve"
	ActionCancel  Action = "cancel"
)

// ParseAction validates a route parameter against the two allowed actions.
func ParseAction(raw string) (Action, bool) {
	switch Action(raw) {
	case ActionApprove:
		return ActionApprove, true
	case ActionCancel:
		return ActionCancel, true
	default:
		return "", false
	}
}
