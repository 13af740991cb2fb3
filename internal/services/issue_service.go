package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"invenso/internal/domain"
	"invenso/internal/domain/models"
	"invenso/internal/utils"
)

// IssueBackend is the remote issue collection.
type IssueBackend interface {
	List(ctx context.Context) ([]models.IssueRecord, error)
	UpdateStatus(ctx context.Context, id models.IssueID, status models.Status) error
}

// IssueService keeps the last loaded issue list and applies status
// changes. The list is only ever replaced as a whole.
type IssueService struct {
	Backend IssueBackend

	mu      sync.RWMutex
	records []models.IssueRecord
	loaded  bool
	applied uint64

	issued atomic.Uint64
}

func NewIssueService(backend IssueBackend) *IssueService {
	return &IssueService{Backend: backend, records: []models.IssueRecord{}}
}

// MutationResult reports a status change and the reload that followed it.
type MutationResult struct {
	IssueID     models.IssueID `json:"issueId"`
	Status      models.Status  `json:"Status"`
	Reloaded    bool           `json:"reloaded"`
	ReloadError string         `json:"reloadError,omitempty"`
}

// Load fetches the full list and replaces the in-memory copy.
//
// Transport and status failures keep the previous list. A body of the
// wrong shape replaces the list with whatever could be decoded (usually
// nothing). A response that arrives after a newer load was already
// applied is dropped.
func (s *IssueService) Load(ctx context.Context) error {
	reqID := utils.RequestIDFrom(ctx)
	gen := s.issued.Add(1)

	records, err := s.Backend.List(ctx)
	if err != nil && !domain.IsMalformedResponse(err) {
		utils.LogError(reqID, "issues", "load", err)
		return err
	}
	if err != nil {
		utils.LogError(reqID, "issues", "load_shape", err)
	}
	if records == nil {
		records = []models.IssueRecord{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen <= s.applied {
		utils.LogEvent(reqID, "issues", "load_superseded", fmt.Sprintf("gen=%d applied=%d", gen, s.applied))
		return err
	}
	s.records = records
	s.loaded = true
	s.applied = gen
	utils.LogEvent(reqID, "issues", "load", fmt.Sprintf("count=%d gen=%d", len(records), gen))
	return err
}

// Records returns a copy of the current list in backend order.
func (s *IssueService) Records() []models.IssueRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.IssueRecord(nil), s.records...)
}

// Loaded reports whether any load has been applied.
func (s *IssueService) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// View builds the table view over the current list.
func (s *IssueService) View(criteria domain.FilterCriteria, page int) IssueView {
	return BuildView(s.Records(), criteria, page)
}

// SetStatus asks the backend to move one issue to status and, once the
// backend has accepted it, reloads the list. The transition itself is
// not checked here; the backend is the arbiter.
func (s *IssueService) SetStatus(ctx context.Context, id models.IssueID, status models.Status) (MutationResult, error) {
	reqID := utils.RequestIDFrom(ctx)
	res := MutationResult{IssueID: id, Status: status}

	if id.IsZero() {
		return res, domain.ValidationError{Field: "issueId", Msg: "kosong"}
	}
	if !status.Settable() {
		return res, domain.ValidationError{Field: "Status", Msg: fmt.Sprintf("harus %s atau %s", models.StatusInProgress, models.StatusComplete)}
	}

	utils.LogEvent(reqID, "issues", "set_status", fmt.Sprintf("issue_id=%s status=%s", id, status))
	if err := s.Backend.UpdateStatus(ctx, id, status); err != nil {
		utils.LogError(reqID, "issues", "set_status", err)
		return res, err
	}

	if err := s.Load(ctx); err != nil {
		res.ReloadError = err.Error()
		return res, nil
	}
	res.Reloaded = true
	return res, nil
}
