package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"invenso/internal/domain"
	"invenso/internal/domain/models"
	"invenso/internal/tokenstore"
	"invenso/internal/utils"
)

const (
	// AdminTokenHeader carries the admin token on every backend call.
	AdminTokenHeader = "x-admin-token"

	issuePath = "/assetManagement/issue"

	maxErrorBody = 512
	maxBody      = 16 << 20
)

// IssueRepository talks to the invenso backend issue collection.
type IssueRepository struct {
	BaseURL     string
	HTTPClient  *http.Client
	Credentials tokenstore.Provider
}

// NewIssueRepository builds a repository with its own HTTP client.
func NewIssueRepository(baseURL string, timeout time.Duration, creds tokenstore.Provider) IssueRepository {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return IssueRepository{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		HTTPClient:  &http.Client{Timeout: timeout},
		Credentials: creds,
	}
}

type statusPayload struct {
	Status models.Status `json:"Status"`
}

// List fetches the whole issue collection.
//
// A 2xx body that is not a JSON array yields an empty list together with
// a MalformedResponseError, so callers can log the shape problem and
// still treat the collection as empty. Array elements that are not
// objects are skipped.
func (r IssueRepository) List(ctx context.Context) ([]models.IssueRecord, error) {
	const op = "list issues"
	req, err := r.newRequest(ctx, http.MethodGet, issuePath, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	body, err := r.do(req, op)
	if err != nil {
		return nil, err
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(body, &elems); err != nil {
		return []models.IssueRecord{}, domain.MalformedResponseError{Op: op, Msg: "body is not a JSON array", Err: err}
	}

	out := make([]models.IssueRecord, 0, len(elems))
	skipped := 0
	for _, raw := range elems {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			skipped++
			continue
		}
		var rec models.IssueRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			skipped++
			continue
		}
		out = append(out, rec)
	}
	if skipped > 0 {
		return out, domain.MalformedResponseError{Op: op, Msg: fmt.Sprintf("%d element(s) skipped", skipped)}
	}
	return out, nil
}

// UpdateStatus sets the Status field of one issue.
func (r IssueRepository) UpdateStatus(ctx context.Context, id models.IssueID, status models.Status) error {
	const op = "update issue status"
	if id.IsZero() {
		return domain.ValidationError{Field: "issueId", Msg: "kosong"}
	}
	payload, err := json.Marshal(statusPayload{Status: status})
	if err != nil {
		return domain.InternalError{Msg: "encode status payload", Err: err}
	}
	req, err := r.newRequest(ctx, http.MethodPut, issuePath+"/"+url.PathEscape(id.String()), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	_, err = r.do(req, op)
	if domain.BackendStatusCode(err) == http.StatusNotFound {
		return domain.NotFoundError{Resource: "issue " + id.String(), Err: err}
	}
	return err
}

func (r IssueRepository) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, body)
	if err != nil {
		return nil, domain.InternalError{Msg: "build request", Err: err}
	}
	token := ""
	if r.Credentials != nil {
		t, err := r.Credentials.Token(ctx)
		if err != nil {
			// the backend decides what an empty token means
			utils.LogError(utils.RequestIDFrom(ctx), "issues", "read_token", err)
		}
		token = t
	}
	req.Header.Set(AdminTokenHeader, token)
	return req, nil
}

func (r IssueRepository) do(req *http.Request, op string) ([]byte, error) {
	client := r.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, domain.TransportError{Op: op, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.BackendStatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       utils.Truncate(strings.TrimSpace(string(body)), maxErrorBody),
		}
	}
	return body, nil
}
