package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"invenso/internal/domain/models"
	"invenso/internal/services"

	tea "github.com/charmbracelet/bubbletea"
)

type memoryBackend struct {
	mu      sync.Mutex
	records []models.IssueRecord
	updates []string
}

func (b *memoryBackend) List(ctx context.Context) ([]models.IssueRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]models.IssueRecord(nil), b.records...), nil
}

func (b *memoryBackend) UpdateStatus(ctx context.Context, id models.IssueID, status models.Status) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates = append(b.updates, id.String()+"="+string(status))
	for i := range b.records {
		if b.records[i].IssueID == id {
			b.records[i].Status = models.NewText(string(status))
		}
	}
	return nil
}

func issue(id int, location, status string) models.IssueRecord {
	return models.IssueRecord{
		IssueID:  models.NumericIssueID(fmt.Sprint(id)),
		Username: models.NewText("user" + fmt.Sprint(id)),
		Location: models.NewText(location),
		Status:   models.NewText(status),
	}
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// runCmd executes cmd and any batch it expands to, returning the
// messages produced. Spinner ticks are dropped.
func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	switch msg.(type) {
	case loadedMsg, mutatedMsg, tea.QuitMsg:
		return []tea.Msg{msg}
	}
	return nil
}

func feed(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		updated, cmd := m.Update(msg)
		m = updated.(Model)
		if follow := runCmd(cmd); len(follow) > 0 {
			m = feed(t, m, follow...)
		}
	}
	return m
}

func started(t *testing.T, backend *memoryBackend) Model {
	t.Helper()
	m := NewModel(services.NewIssueService(backend), time.Second)
	m = feed(t, m, tea.WindowSizeMsg{Width: 160, Height: 40})
	return feed(t, m, runCmd(m.Init())...)
}

func TestModelViewBeforeSize(t *testing.T) {
	m := NewModel(services.NewIssueService(&memoryBackend{}), time.Second)
	if got := m.View(); got != "Loading..." {
		t.Fatalf("View before size = %q", got)
	}
}

func TestModelLoadsAndRenders(t *testing.T) {
	m := started(t, &memoryBackend{records: []models.IssueRecord{
		issue(1, "Lab A", "PENDING"),
		issue(2, "Lab B", "COMPLETE"),
	}})
	if m.loading {
		t.Fatalf("still loading after load message")
	}
	if len(m.view.Rows) != 2 || m.view.Rows[0].Record.IssueID.String() != "2" {
		t.Fatalf("rows = %+v", m.view.Rows)
	}
	view := m.View()
	for _, want := range []string{"Welcome to Admin Dashboard", "Lab A", "Lab B", "All Locations", "Page 1 of 1", "q quit"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelEmptyState(t *testing.T) {
	m := started(t, &memoryBackend{})
	if !strings.Contains(m.View(), services.MsgNoData) {
		t.Fatalf("empty view should show %q", services.MsgNoData)
	}
}

func TestModelCycleFilter(t *testing.T) {
	m := started(t, &memoryBackend{records: []models.IssueRecord{
		issue(1, "Lab A", "PENDING"),
		issue(2, "Lab B", "COMPLETE"),
	}})

	m = feed(t, m, keyPress('1'))
	if m.nav.Criteria.Location != "Lab A" || len(m.view.Rows) != 1 {
		t.Fatalf("first press: criteria=%+v rows=%d", m.nav.Criteria, len(m.view.Rows))
	}
	m = feed(t, m, keyPress('1'))
	if m.nav.Criteria.Location != "Lab B" {
		t.Fatalf("second press: %+v", m.nav.Criteria)
	}
	m = feed(t, m, keyPress('1'))
	if m.nav.Criteria.Location != "" || len(m.view.Rows) != 2 {
		t.Fatalf("third press should clear: %+v", m.nav.Criteria)
	}

	m = feed(t, m, keyPress('3'), keyPress('0'))
	if !m.nav.Criteria.IsZero() {
		t.Fatalf("clear left criteria %+v", m.nav.Criteria)
	}
}

func TestModelPaging(t *testing.T) {
	backend := &memoryBackend{}
	for i := 1; i <= 25; i++ {
		backend.records = append(backend.records, issue(i, "Lab", "PENDING"))
	}
	m := started(t, backend)

	m = feed(t, m, keyPress('l'), keyPress('l'), keyPress('l'))
	if m.nav.Page != 3 || len(m.view.Rows) != 5 {
		t.Fatalf("page=%d rows=%d", m.nav.Page, len(m.view.Rows))
	}
	m = feed(t, m, keyPress('h'), keyPress('h'), keyPress('h'))
	if m.nav.Page != 1 {
		t.Fatalf("page after h x3 = %d", m.nav.Page)
	}

	m = feed(t, m, keyPress('l'), keyPress('1'))
	if m.nav.Page != 1 {
		t.Fatalf("filter change must reset the page, got %d", m.nav.Page)
	}
}

func TestModelSetStatus(t *testing.T) {
	backend := &memoryBackend{records: []models.IssueRecord{
		issue(1, "Lab A", "PENDING"),
		issue(2, "Lab B", "COMPLETE"),
	}}
	m := started(t, backend)

	// row 0 is issue 2 (COMPLETE): nothing offered
	m = feed(t, m, keyPress('c'))
	if len(backend.updates) != 0 || !strings.Contains(m.notice, "not available") {
		t.Fatalf("updates=%v notice=%q", backend.updates, m.notice)
	}

	m = feed(t, m, keyPress('j'), keyPress('p'))
	if len(backend.updates) != 1 || backend.updates[0] != "1=INPROGRESS" {
		t.Fatalf("updates = %v", backend.updates)
	}
	if m.loading {
		t.Fatalf("still loading after mutation")
	}
	if got := m.view.Rows[1].Record.CurrentStatus(); got != models.StatusInProgress {
		t.Fatalf("status after reload = %s", got)
	}
	if !strings.Contains(m.notice, "issue 1 set to INPROGRESS") {
		t.Fatalf("notice = %q", m.notice)
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(services.NewIssueService(&memoryBackend{}), time.Second)
	_, cmd := m.Update(keyPress('q'))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}

func TestCell(t *testing.T) {
	if got := cell("ab", 5); got != "ab   " {
		t.Fatalf("cell pad = %q", got)
	}
	if got := cell("abcdefgh", 5); got != "abc… " {
		t.Fatalf("cell cut = %q", got)
	}
}

func TestModelActionIgnoredWhileBusy(t *testing.T) {
	backend := &memoryBackend{records: []models.IssueRecord{issue(1, "Lab A", "PENDING")}}
	m := started(t, backend)

	updated, cmd := m.Update(keyPress('r'))
	m = updated.(Model)
	if cmd == nil || !m.loading {
		t.Fatalf("reload did not start")
	}
	updated, cmd = m.Update(keyPress('p'))
	m = updated.(Model)
	if cmd != nil || len(backend.updates) != 0 {
		t.Fatalf("action accepted while a request is in flight")
	}
}
