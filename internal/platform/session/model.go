package session

import "encoding/json"

// State describes where a portal session is in its lifecycle. Unknown only
// exists before Restore has run; authorization decisions must never be made
// against it.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Identity is the patient identity returned by the upstream auth service and
// mirrored into the session store so it survives restarts.
type Identity struct {
	ID            string `json:"id"`
	FirstName     string `json:"firstName"`
	Email         string `json:"email"`
	NationalID    string `json:"nationalId"`
	ContactNumber string `json:"contactNumber"`
}

// identityWire accepts both identifier spellings the upstream has shipped
// over time. ID is canonical inside the portal; the shim lives only here.
type identityWire struct {
	ID            string `json:"id"`
	MongoID       string `json:"_id"`
	FirstName     string `json:"firstName"`
	Email         string `json:"email"`
	NationalID    string `json:"nationalId"`
	ContactNumber string `json:"contactNumber"`
}

func (i *Identity) UnmarshalJSON(data []byte) error {
	var w identityWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	id := w.ID
	if id == "" {
		id = w.MongoID
	}
	*i = Identity{
		ID:            id,
		FirstName:     w.FirstName,
		Email:         w.Email,
		NationalID:    w.NationalID,
		ContactNumber: w.ContactNumber,
	}
	return nil
}

// Session is the resolved state for one portal session id.
type Session struct {
	ID       string
	State    State
	Identity *Identity
	Token    string
}

// IsAuthenticated is derived from identity presence so it can never drift
// from the identity itself.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.Identity != nil
}
