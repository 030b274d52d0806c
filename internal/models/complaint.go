package models

import "time"

type Complaint struct {
	ID          int       `json:"complain_id" db:"complain_id"`
	Complain    string    `json:"complain" db:"complain"`
	Detail      string    `json:"detail" db:"detail"`
	SubmitterID int       `json:"submitter_id" db:"submitter_id"`
	UserType    string    `json:"user_type" db:"user_type"`
	Version     int       `json:"version" db:"version"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ComplaintSubmission is the body of the submit-complaint endpoints. The
// submitter role comes from the route, never from the body. LessorID is the
// older name of SubmitterID on the lessor route.
type ComplaintSubmission struct {
	Complain    string `json:"complain"`
	Detail      string `json:"detail"`
	SubmitterID int    `json:"submitter_id"`
	LessorID    int    `json:"lessorId,omitempty"`
}

// ComplaintUpdate holds the editable fields of a complaint. The submitter is
// fixed at submission. Version is optional; zero means last write wins.
type ComplaintUpdate struct {
	Complain string `json:"complain"`
	Detail   string `json:"detail"`
	UserType string `json:"user_type"`
	Version  int    `json:"version,omitempty"`
}

// Editable projects a loaded complaint onto its editable fields.
func (c Complaint) Editable() ComplaintUpdate {
	return ComplaintUpdate{
		Complain: c.Complain,
		Detail:   c.Detail,
		UserType: c.UserType,
		Version:  c.Version,
	}
}
