package models

import (
	"bytes"
	"encoding/json"
)

// Status is a workflow state of an issue as reported by the backend.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "INPROGRESS"
	StatusComplete   Status = "COMPLETE"
)

// Settable reports whether an operator may request this status.
// PENDING is only ever set by the backend.
func (s Status) Settable() bool {
	return s == StatusInProgress || s == StatusComplete
}

// IssueRecord is one equipment/room issue as served by
// GET /assetManagement/issue.
//
// JSON names mirror the backend exactly, including the capitalized
// "Location" and "Status" next to lowercase "condition" and
// "equipmentType". Do not normalize them.
type IssueRecord struct {
	IssueID       IssueID `json:"issueId"`
	Username      Text    `json:"username"`
	EnrollmentNo  Text    `json:"enrollmentNo"`
	EquipmentType Text    `json:"equipmentType"`
	IssueHistory  Text    `json:"issueHistory"`
	Condition     Text    `json:"condition"`
	Location      Text    `json:"Location"`
	Status        Text    `json:"Status"`
}

// CurrentStatus returns the record status, or "" when the field is absent.
func (r IssueRecord) CurrentStatus() Status {
	return Status(r.Status.Value)
}

// IssueID is the backend identifier of an issue. The backend may send it
// as a JSON string or number; the original kind is kept for re-encoding.
type IssueID struct {
	value   string
	numeric bool
}

// NewIssueID builds a string-kind id.
func NewIssueID(v string) IssueID {
	return IssueID{value: v}
}

// NumericIssueID builds a number-kind id from its decimal text.
func NumericIssueID(v string) IssueID {
	return IssueID{value: v, numeric: true}
}

func (id IssueID) String() string { return id.value }

// IsZero reports whether the record carried no id.
func (id IssueID) IsZero() bool { return id.value == "" }

func (id *IssueID) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		*id = IssueID{}
		return nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*id = IssueID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return err
	}
	*id = IssueID{value: n.String(), numeric: true}
	return nil
}

func (id IssueID) MarshalJSON() ([]byte, error) {
	if id.value == "" {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// Text is an optional free-text field. Valid is false when the backend
// omitted the field or sent null. Non-string scalars keep their JSON text
// and objects/arrays keep their compact JSON so nothing is lost for display.
type Text struct {
	Value string
	Valid bool
}

// NewText returns a present text value.
func NewText(v string) Text {
	return Text{Value: v, Valid: true}
}

func (t Text) String() string { return t.Value }

func (t *Text) UnmarshalJSON(b []byte) error {
	raw := bytes.TrimSpace(b)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
		*t = Text{}
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*t = Text{Value: s, Valid: true}
	case raw[0] == '{' || raw[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return err
		}
		*t = Text{Value: buf.String(), Valid: true}
	default:
		*t = Text{Value: string(raw), Valid: true}
	}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(t.Value)
}
