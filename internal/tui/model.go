// Package tui is the terminal rendition of the admin dashboard. It drives
// the same IssueService and view-model as the web pages.
package tui

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"invenso/internal/domain"
	"invenso/internal/domain/models"
	"invenso/internal/services"
	"invenso/internal/utils"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// IssueSource is what the dashboard needs from the issue service.
type IssueSource interface {
	Load(ctx context.Context) error
	View(criteria domain.FilterCriteria, page int) services.IssueView
	SetStatus(ctx context.Context, id models.IssueID, status models.Status) (services.MutationResult, error)
}

type loadedMsg struct{ err error }

type mutatedMsg struct {
	result services.MutationResult
	err    error
}

type column struct {
	title string
	width int
	value func(models.IssueRecord) string
}

var columns = []column{
	{"ID", 6, func(r models.IssueRecord) string { return r.IssueID.String() }},
	{"Username", 12, func(r models.IssueRecord) string { return r.Username.Value }},
	{"EnrollmentNo", 13, func(r models.IssueRecord) string { return r.EnrollmentNo.Value }},
	{"Type", 14, func(r models.IssueRecord) string { return r.EquipmentType.Value }},
	{"History", 20, func(r models.IssueRecord) string { return r.IssueHistory.Value }},
	{"Condition", 11, func(r models.IssueRecord) string { return r.Condition.Value }},
	{"Location", 12, func(r models.IssueRecord) string { return r.Location.Value }},
	{"Status", 11, func(r models.IssueRecord) string { return r.Status.Value }},
}

// Model is the bubbletea model of the dashboard.
type Model struct {
	source  IssueSource
	keys    KeyMap
	timeout time.Duration

	nav    services.Navigator
	view   services.IssueView
	cursor int

	width  int
	height int

	loading bool
	spinner spinner.Model
	notice  string
	errText string
}

// NewModel builds a dashboard over source. Backend calls made from the
// model are bounded by timeout.
func NewModel(source IssueSource, timeout time.Duration) Model {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	m := Model{
		source:  source,
		keys:    DefaultKeyMap,
		timeout: timeout,
		nav:     services.NewNavigator(),
		spinner: s,
		loading: true,
	}
	m.refresh()
	return m
}

// Init loads the list once, like opening the page.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	source, timeout := m.source, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return loadedMsg{err: source.Load(ctx)}
	}
}

func (m Model) setStatus(id models.IssueID, status models.Status) tea.Cmd {
	source, timeout := m.source, m.timeout
	return func() tea.Msg {
		// update plus reload
		ctx, cancel := context.WithTimeout(context.Background(), 2*timeout)
		defer cancel()
		res, err := source.SetStatus(ctx, id, status)
		return mutatedMsg{result: res, err: err}
	}
}

func (m *Model) refresh() {
	m.view = m.source.View(m.nav.Criteria, m.nav.Page)
	m.cursor = min(m.cursor, len(m.view.Rows)-1)
	m.cursor = max(m.cursor, 0)
}

func (m Model) selected() (services.IssueRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.view.Rows) {
		return services.IssueRow{}, false
	}
	return m.view.Rows[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case loadedMsg:
		m.loading = false
		m.errText = ""
		if msg.err != nil {
			m.errText = "load failed: " + msg.err.Error()
		}
		m.refresh()
		return m, nil

	case mutatedMsg:
		m.loading = false
		m.errText, m.notice = "", ""
		switch {
		case msg.err != nil:
			m.errText = fmt.Sprintf("issue %s: %v", msg.result.IssueID, msg.err)
		case msg.result.ReloadError != "":
			m.notice = fmt.Sprintf("issue %s set to %s", msg.result.IssueID, msg.result.Status)
			m.errText = "reload failed: " + msg.result.ReloadError
		default:
			m.notice = fmt.Sprintf("issue %s set to %s", msg.result.IssueID, msg.result.Status)
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.view.Rows)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		m.nav.Previous()
		m.cursor = 0
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.NextPage):
		m.nav.Next(m.view.Pagination.PageCount)
		m.cursor = 0
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.nav = services.NewNavigator()
		m.cursor = 0
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load())

	case key.Matches(msg, m.keys.InProgress):
		return m.act(models.StatusInProgress)

	case key.Matches(msg, m.keys.Complete):
		return m.act(models.StatusComplete)
	}

	for i, b := range m.keys.Filters {
		if key.Matches(msg, b) && i < len(services.FilterFields) {
			m.cycleFilter(services.FilterFields[i])
			return m, nil
		}
	}
	return m, nil
}

// cycleFilter steps the criterion for field through "" and each distinct
// value of the loaded list, in dropdown order.
func (m *Model) cycleFilter(field services.IssueField) {
	var values []string
	for _, f := range m.view.Filters {
		if f.Field == field {
			values = f.Values
		}
	}
	current := field.Criterion(m.nav.Criteria)
	next := ""
	switch i := slices.Index(values, current); {
	case current == "" && len(values) > 0:
		next = values[0]
	case i >= 0 && i+1 < len(values):
		next = values[i+1]
	}
	m.nav.SetFilter(field, next)
	m.cursor = 0
	m.refresh()
}

// act is a no-op while a load or mutation is in flight, so one key press
// never queues a second request.
func (m Model) act(status models.Status) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	row, ok := m.selected()
	if !ok {
		return m, nil
	}
	if !row.Actions.Allows(status) {
		m.notice = fmt.Sprintf("issue %s is %s; %s not available", row.Record.IssueID, utils.Safe(row.Record.Status.Value, "-"), status)
		return m, nil
	}
	m.loading = true
	m.notice, m.errText = "", ""
	return m, tea.Batch(m.spinner.Tick, m.setStatus(row.Record.IssueID, status))
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	var b strings.Builder

	b.WriteString(titleStyle.Render("Welcome to Admin Dashboard"))
	b.WriteString("\n\n")
	b.WriteString(m.filterLine())
	b.WriteString("\n\n")

	header := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		header = append(header, cell(c.title, c.width))
	}
	header = append(header, cell("Actions", 8))
	b.WriteString(headerStyle.Render(strings.Join(header, "")))
	b.WriteString("\n")

	if len(m.view.Rows) == 0 {
		b.WriteString(dimStyle.Render(m.view.EmptyMessage))
		b.WriteString("\n")
	}
	for i, row := range m.view.Rows {
		b.WriteString(m.renderRow(row, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.keys.helpLine()))
	return b.String()
}

func (m Model) filterLine() string {
	parts := make([]string, 0, len(m.view.Filters))
	for i, f := range m.view.Filters {
		label := fmt.Sprintf("%d %s: ", i+1, f.Label)
		if f.Selected == "" {
			parts = append(parts, label+dimStyle.Render(f.AllLabel))
			continue
		}
		parts = append(parts, label+filterOn.Render(f.Selected))
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderRow(row services.IssueRow, selected bool) string {
	cells := make([]string, 0, len(columns)+1)
	for _, c := range columns {
		text := cell(c.value(row.Record), c.width)
		if c.title == "Status" && !selected {
			text = statusStyle(row.Record.Status.Value).Render(text)
		}
		cells = append(cells, text)
	}
	actions := dimStyle.Render("-")
	if row.Actions.InProgress || row.Actions.Complete {
		var a []string
		if row.Actions.InProgress {
			a = append(a, "p")
		}
		if row.Actions.Complete {
			a = append(a, "c")
		}
		actions = strings.Join(a, " ")
	}
	cells = append(cells, actions)
	line := strings.Join(cells, "")
	if selected {
		return selectedStyle.Render(line)
	}
	return line
}

func (m Model) statusLine() string {
	p := m.view.Pagination
	line := fmt.Sprintf("Page %d of %d · %d of %d records", p.Page, max(p.PageCount, 1), p.Total, m.view.TotalRecords)
	if m.loading {
		line += " " + m.spinner.View()
	}
	if m.notice != "" {
		line += "  " + noticeStyle.Render(m.notice)
	}
	if m.errText != "" {
		line += "  " + errorStyle.Render(m.errText)
	}
	return line
}

// cell fits s into a column of width w, padding with spaces.
func cell(s string, w int) string {
	s = utils.NormalizeSpace(s)
	if lipgloss.Width(s) > w-1 {
		r := []rune(s)
		for len(r) > 0 && lipgloss.Width(string(r)) > w-2 {
			r = r[:len(r)-1]
		}
		s = string(r) + "…"
	}
	return s + strings.Repeat(" ", max(w-lipgloss.Width(s), 0))
}
