package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func fakeBackend(t *testing.T, puts *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-admin-token") != "cli-token" {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}
		switch r.Method {
		case http.MethodGet:
			_, _ = io.WriteString(w, `[
				{"issueId": 1, "username": "asha", "Location": "Lab A", "Status": "PENDING"},
				{"issueId": 2, "username": "ravi", "Location": "Lab B", "Status": "COMPLETE"}
			]`)
		case http.MethodPut:
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			*puts = append(*puts, r.URL.Path+" "+body["Status"])
		}
	}))
}

func setupEnv(t *testing.T, url string) {
	t.Setenv("INVENSO_CONFIG", "")
	t.Setenv("INVENSO_BACKEND_URL", url)
	t.Setenv("TOKEN_STORE", "env")
	t.Setenv("ADMIN_TOKEN", "cli-token")
}

func TestRunListTable(t *testing.T) {
	srv := fakeBackend(t, nil)
	defer srv.Close()
	setupEnv(t, srv.URL)

	var out bytes.Buffer
	if err := run([]string{"list", "--location", "lab a"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	s := out.String()
	if !strings.Contains(s, "Lab A") || strings.Contains(s, "Lab B") {
		t.Fatalf("output:\n%s", s)
	}
	if !strings.Contains(s, "INPROGRESS,COMPLETE") || !strings.Contains(s, "1 of 2 issues") {
		t.Fatalf("output:\n%s", s)
	}
}

func TestRunListJSON(t *testing.T) {
	srv := fakeBackend(t, nil)
	defer srv.Close()
	setupEnv(t, srv.URL)

	var out bytes.Buffer
	if err := run([]string{"list", "--json", "--status", "complete"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var view struct {
		Rows []struct {
			Record struct {
				IssueID int `json:"issueId"`
			} `json:"record"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(out.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v\n%s", err, out.String())
	}
	if len(view.Rows) != 1 || view.Rows[0].Record.IssueID != 2 {
		t.Fatalf("rows = %+v", view.Rows)
	}
}

func TestRunSetStatus(t *testing.T) {
	var puts []string
	srv := fakeBackend(t, &puts)
	defer srv.Close()
	setupEnv(t, srv.URL)

	var out bytes.Buffer
	if err := run([]string{"set-status", "1", "complete"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(puts) != 1 || puts[0] != "/assetManagement/issue/1 COMPLETE" {
		t.Fatalf("puts = %v", puts)
	}
	if !strings.Contains(out.String(), "issue 1 set to COMPLETE") {
		t.Fatalf("output = %q", out.String())
	}

	if err := run([]string{"set-status", "1", "pending"}, &out); err == nil {
		t.Fatalf("PENDING accepted")
	}
	if len(puts) != 1 {
		t.Fatalf("PENDING reached the backend")
	}
}

func TestRunTokenFileStore(t *testing.T) {
	path := t.TempDir() + "/token"
	t.Setenv("INVENSO_CONFIG", "")
	t.Setenv("TOKEN_STORE", "file")
	t.Setenv("TOKEN_FILE", path)

	var out bytes.Buffer
	if err := run([]string{"token", "set", "abc"}, &out); err != nil {
		t.Fatalf("token set: %v", err)
	}
	out.Reset()
	if err := run([]string{"token", "show"}, &out); err != nil {
		t.Fatalf("token show: %v", err)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatalf("empty label")
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if err := run([]string{"frobnicate"}, io.Discard); err == nil {
		t.Fatalf("unknown command accepted")
	}
	var out bytes.Buffer
	if err := run(nil, &out); err != nil || !strings.Contains(out.String(), "Usage:") {
		t.Fatalf("usage not printed: %v", err)
	}
}
