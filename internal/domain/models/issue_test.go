package models

import (
	"encoding/json"
	"testing"
)

func TestIssueRecordLenientDecode(t *testing.T) {
	raw := `{
		"issueId": 42,
		"username": "asha",
		"enrollmentNo": 1024,
		"issueHistory": {"note": "cracked lens", "at": ["2025-01-01"]},
		"condition": null,
		"Status": "INPROGRESS",
		"extra": "ignored"
	}`
	var r IssueRecord
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if r.IssueID.String() != "42" || !r.IssueID.numeric {
		t.Fatalf("IssueID = %+v", r.IssueID)
	}
	if r.EnrollmentNo.Value != "1024" || !r.EnrollmentNo.Valid {
		t.Fatalf("EnrollmentNo = %+v", r.EnrollmentNo)
	}
	if r.IssueHistory.Value != `{"note":"cracked lens","at":["2025-01-01"]}` {
		t.Fatalf("IssueHistory = %q", r.IssueHistory.Value)
	}
	if r.Condition.Valid || r.Location.Valid {
		t.Fatalf("null/absent fields must be invalid: %+v %+v", r.Condition, r.Location)
	}
	if r.CurrentStatus() != StatusInProgress {
		t.Fatalf("CurrentStatus = %q", r.CurrentStatus())
	}
}

func TestIssueIDKeepsKind(t *testing.T) {
	for _, raw := range []string{`"a-1"`, `7`, `null`} {
		var id IssueID
		if err := json.Unmarshal([]byte(raw), &id); err != nil {
			t.Fatalf("Unmarshal(%s): %v", raw, err)
		}
		out, err := json.Marshal(id)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", raw, err)
		}
		if string(out) != raw {
			t.Fatalf("round trip %s -> %s", raw, out)
		}
	}
	if !(IssueID{}).IsZero() || NewIssueID("x").IsZero() {
		t.Fatalf("IsZero mismatch")
	}
}

func TestStatusSettable(t *testing.T) {
	if StatusPending.Settable() {
		t.Fatalf("PENDING must not be settable")
	}
	if !StatusInProgress.Settable() || !StatusComplete.Settable() {
		t.Fatalf("INPROGRESS and COMPLETE must be settable")
	}
	if Status("DONE").Settable() {
		t.Fatalf("unknown status settable")
	}
}
