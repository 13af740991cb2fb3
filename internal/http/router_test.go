package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	intconfig "invenso/internal/config"
	"invenso/internal/http/handlers"
	"invenso/internal/repositories"
	"invenso/internal/services"
	"invenso/internal/tokenstore"

	"github.com/gin-gonic/gin"
)

// fakeInvenso serves the issue collection and applies status updates.
type fakeInvenso struct {
	mu      sync.Mutex
	issues  []map[string]any
	gets    int
	puts    []string
	tokens  []string
	failPut bool
}

func (f *fakeInvenso) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = append(f.tokens, r.Header.Get("x-admin-token"))

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/assetManagement/issue":
		f.gets++
		_ = json.NewEncoder(w).Encode(f.issues)
	case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/assetManagement/issue/"):
		if f.failPut {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, "/assetManagement/issue/")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, is := range f.issues {
			if jsonID(is["issueId"]) == id {
				is["Status"] = body["Status"]
				f.puts = append(f.puts, id+"="+body["Status"])
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		http.Error(w, "issue not found", http.StatusNotFound)
	default:
		http.NotFound(w, r)
	}
}

func jsonID(v any) string {
	b, _ := json.Marshal(v)
	return strings.Trim(string(b), `"`)
}

func labIssues() []map[string]any {
	return []map[string]any{
		{"issueId": 1, "username": "asha", "Location": "Lab A", "condition": "Broken", "Status": "PENDING", "equipmentType": "Projector"},
		{"issueId": 2, "username": "ravi", "Location": "Lab B", "condition": "Good", "Status": "COMPLETE", "equipmentType": "Speaker"},
	}
}

func newTestRouter(t *testing.T, backend *fakeInvenso) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	srv := httptest.NewServer(backend)

	repo := repositories.NewIssueRepository(srv.URL, 0, tokenstore.Static("secret"))
	h := &handlers.Handler{
		Issues:         services.NewIssueService(repo),
		Tokens:         tokenstore.Static("secret"),
		TokenStoreType: "static",
		BackendURL:     srv.URL,
		InventoryUIURL: "http://ui.local",
	}
	env := intconfig.Env{CORSAllowedOrigins: []string{"http://localhost:3000"}}
	return NewRouter(env, h), srv.Close
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRootRedirectsToDashboard(t *testing.T) {
	r, done := newTestRouter(t, &fakeInvenso{})
	defer done()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/admin" {
		t.Fatalf("status=%d location=%q", w.Code, w.Header().Get("Location"))
	}
}

func TestDashboardFiltersAndRenders(t *testing.T) {
	backend := &fakeInvenso{issues: labIssues()}
	r, done := newTestRouter(t, backend)
	defer done()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin?location=lab+a", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Welcome to Admin Dashboard", "<td>Lab A</td>", "All Locations", "http://ui.local/rooms", "/admin/issues/1/status"} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard missing %q", want)
		}
	}
	if strings.Contains(body, "<td>Lab B</td>") {
		t.Fatalf("filtered-out row rendered")
	}
	if backend.gets != 1 {
		t.Fatalf("backend list calls = %d", backend.gets)
	}
	if backend.tokens[0] != "secret" {
		t.Fatalf("token = %q", backend.tokens[0])
	}
}

func TestDashboardEmptyMessages(t *testing.T) {
	r, done := newTestRouter(t, &fakeInvenso{issues: []map[string]any{}})
	defer done()
	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if !strings.Contains(w.Body.String(), services.MsgNoData) {
		t.Fatalf("expected %q", services.MsgNoData)
	}

	r2, done2 := newTestRouter(t, &fakeInvenso{issues: labIssues()})
	defer done2()
	w = serve(r2, httptest.NewRequest(http.MethodGet, "/admin?location=hall", nil))
	if !strings.Contains(w.Body.String(), services.MsgNoMatches) {
		t.Fatalf("expected %q", services.MsgNoMatches)
	}
}

func TestDashboardPager(t *testing.T) {
	issues := make([]map[string]any, 0, 25)
	for i := 1; i <= 25; i++ {
		issues = append(issues, map[string]any{"issueId": i, "Location": "Lab", "Status": "PENDING"})
	}
	r, done := newTestRouter(t, &fakeInvenso{issues: issues})
	defer done()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin?page=3", nil))
	body := w.Body.String()
	if !strings.Contains(body, "<td>5</td>") || strings.Contains(body, "<td>6</td>") {
		t.Fatalf("page 3 should hold issues 5..1 only")
	}
	if !strings.Contains(body, `href="/admin?page=2">Previous`) {
		t.Fatalf("previous link missing")
	}
	if !strings.Contains(body, `btn-page disabled">Next`) {
		t.Fatalf("next should be disabled on the last page")
	}
}

func TestPostStatusUpdatesAndReloads(t *testing.T) {
	backend := &fakeInvenso{issues: labIssues()}
	r, done := newTestRouter(t, backend)
	defer done()

	form := url.Values{"newStatus": {"INPROGRESS"}, "location": {"lab a"}, "page": {"1"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/issues/1/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(r, req)

	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/admin?location=lab+a" {
		t.Fatalf("redirect = %q", loc)
	}
	if len(backend.puts) != 1 || backend.puts[0] != "1=INPROGRESS" {
		t.Fatalf("puts = %v", backend.puts)
	}
	if backend.gets != 1 {
		t.Fatalf("expected one reload after the update, got %d list calls", backend.gets)
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/admin?location=lab+a", nil))
	if !strings.Contains(w.Body.String(), "<td>INPROGRESS</td>") {
		t.Fatalf("updated status not shown")
	}
}

func TestPostStatusRejectsPending(t *testing.T) {
	backend := &fakeInvenso{issues: labIssues()}
	r, done := newTestRouter(t, backend)
	defer done()

	form := url.Values{"newStatus": {"PENDING"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/issues/1/status", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := serve(r, req)
	if w.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", w.Code)
	}
	if len(backend.puts) != 0 {
		t.Fatalf("PENDING must not reach the backend: %v", backend.puts)
	}
}

func TestAPIListIssues(t *testing.T) {
	r, done := newTestRouter(t, &fakeInvenso{issues: labIssues()})
	defer done()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/issues?status=complete", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp struct {
		Rows []struct {
			Record  map[string]any `json:"record"`
			Actions struct {
				InProgress bool `json:"inProgress"`
				Complete   bool `json:"complete"`
			} `json:"actions"`
		} `json:"rows"`
		TotalRecords int  `json:"totalRecords"`
		Stale        bool `json:"stale"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.TotalRecords != 2 || len(resp.Rows) != 1 || resp.Stale {
		t.Fatalf("resp = %+v", resp)
	}
	if resp.Rows[0].Record["Location"] != "Lab B" || resp.Rows[0].Actions.Complete {
		t.Fatalf("row = %+v", resp.Rows[0])
	}
}

func TestAPIHugePage(t *testing.T) {
	r, done := newTestRouter(t, &fakeInvenso{issues: labIssues()})
	defer done()

	for _, path := range []string{"/api/issues?page=922337203685477582", "/admin?page=922337203685477582"} {
		w := serve(r, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, w.Code)
		}
	}
}

func TestAPIListIssuesBackendDown(t *testing.T) {
	backend := &fakeInvenso{issues: labIssues()}
	r, done := newTestRouter(t, backend)
	done()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/issues", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	if !strings.Contains(string(body), `"stale":true`) || !strings.Contains(string(body), `"loadError"`) {
		t.Fatalf("body = %s", body)
	}
}

func TestAPIUpdateStatus(t *testing.T) {
	backend := &fakeInvenso{issues: labIssues()}
	r, done := newTestRouter(t, backend)
	defer done()

	req := httptest.NewRequest(http.MethodPut, "/api/issues/1/status", strings.NewReader(`{"Status":"complete"}`))
	req.Header.Set("Content-Type", "application/json")
	w := serve(r, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	if len(backend.puts) != 1 || backend.puts[0] != "1=COMPLETE" {
		t.Fatalf("puts = %v", backend.puts)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/issues/1/status", strings.NewReader(`{"Status":"PENDING"}`))
	req.Header.Set("Content-Type", "application/json")
	if w = serve(r, req); w.Code != http.StatusBadRequest {
		t.Fatalf("PENDING status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/api/issues/99/status", strings.NewReader(`{"Status":"COMPLETE"}`))
	req.Header.Set("Content-Type", "application/json")
	if w = serve(r, req); w.Code != http.StatusNotFound {
		t.Fatalf("unknown issue status = %d", w.Code)
	}

	backend.failPut = true
	req = httptest.NewRequest(http.MethodPut, "/api/issues/1/status", strings.NewReader(`{"Status":"INPROGRESS"}`))
	req.Header.Set("Content-Type", "application/json")
	if w = serve(r, req); w.Code != http.StatusBadGateway {
		t.Fatalf("backend failure status = %d", w.Code)
	}
}

func TestExportPDF(t *testing.T) {
	r, done := newTestRouter(t, &fakeInvenso{issues: labIssues()})
	defer done()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/admin/export.pdf?location=lab", nil))
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("status=%d type=%q", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Fatalf("not a pdf")
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "issues-") {
		t.Fatalf("disposition = %q", w.Header().Get("Content-Disposition"))
	}
}

func TestHealthAndRoutes(t *testing.T) {
	r, done := newTestRouter(t, &fakeInvenso{})
	defer done()

	w := serve(r, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("health = %d %s", w.Code, w.Body.String())
	}
	w = serve(r, httptest.NewRequest(http.MethodGet, "/api/routes", nil))
	if !strings.Contains(w.Body.String(), "/admin/issues/:id/status") {
		t.Fatalf("routes = %s", w.Body.String())
	}
	w = serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("NoRoute status = %d", w.Code)
	}
}
