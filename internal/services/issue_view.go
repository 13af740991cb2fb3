package services

import (
	"slices"
	"strings"

	"invenso/internal/domain"
	"invenso/internal/domain/models"
)

// PageSize is the number of issues shown per page.
const PageSize = 10

// Empty-table messages. Which one is shown depends on whether the
// unfiltered list is empty.
const (
	MsgNoData    = "No data available"
	MsgNoMatches = "No records match your filters"
)

// IssueField is one of the four filterable backend fields. The value is
// the backend JSON name.
type IssueField string

const (
	FieldLocation      IssueField = "Location"
	FieldCondition     IssueField = "condition"
	FieldStatus        IssueField = "Status"
	FieldEquipmentType IssueField = "equipmentType"
)

// FilterFields lists the filterable fields in display order.
var FilterFields = []IssueField{FieldLocation, FieldCondition, FieldStatus, FieldEquipmentType}

// Value returns the field of r.
func (f IssueField) Value(r models.IssueRecord) models.Text {
	switch f {
	case FieldLocation:
		return r.Location
	case FieldCondition:
		return r.Condition
	case FieldStatus:
		return r.Status
	case FieldEquipmentType:
		return r.EquipmentType
	}
	return models.Text{}
}

// Param is the query/form parameter name of the criterion.
func (f IssueField) Param() string {
	switch f {
	case FieldLocation:
		return "location"
	case FieldCondition:
		return "condition"
	case FieldStatus:
		return "status"
	case FieldEquipmentType:
		return "equipmentType"
	}
	return ""
}

// Label is the column/filter heading.
func (f IssueField) Label() string {
	switch f {
	case FieldLocation:
		return "Location"
	case FieldCondition:
		return "Condition"
	case FieldStatus:
		return "Status"
	case FieldEquipmentType:
		return "Equipment Type"
	}
	return string(f)
}

// AllLabel is the wildcard entry of the filter dropdown.
func (f IssueField) AllLabel() string {
	switch f {
	case FieldLocation:
		return "All Locations"
	case FieldCondition:
		return "All Conditions"
	case FieldStatus:
		return "All Status"
	case FieldEquipmentType:
		return "All Equipment Types"
	}
	return "All"
}

// Criterion returns the criterion for f in c.
func (f IssueField) Criterion(c domain.FilterCriteria) string {
	switch f {
	case FieldLocation:
		return c.Location
	case FieldCondition:
		return c.Condition
	case FieldStatus:
		return c.Status
	case FieldEquipmentType:
		return c.EquipmentType
	}
	return ""
}

// WithCriterion returns a copy of c with the criterion for f set to v.
func (f IssueField) WithCriterion(c domain.FilterCriteria, v string) domain.FilterCriteria {
	switch f {
	case FieldLocation:
		c.Location = v
	case FieldCondition:
		c.Condition = v
	case FieldStatus:
		c.Status = v
	case FieldEquipmentType:
		c.EquipmentType = v
	}
	return c
}

// Reversed returns records newest-appended first. The input is not modified.
func Reversed(records []models.IssueRecord) []models.IssueRecord {
	out := make([]models.IssueRecord, len(records))
	for i, r := range records {
		out[len(records)-1-i] = r
	}
	return out
}

// matches is the per-field predicate: an empty criterion accepts
// everything, an absent field never matches a non-empty criterion.
func matches(value models.Text, criterion string) bool {
	if criterion == "" {
		return true
	}
	if !value.Valid {
		return false
	}
	return strings.Contains(strings.ToLower(value.Value), strings.ToLower(criterion))
}

// Filter returns the reversed records that satisfy every non-empty
// criterion, keeping reversed order.
func Filter(records []models.IssueRecord, criteria domain.FilterCriteria) []models.IssueRecord {
	out := make([]models.IssueRecord, 0, len(records))
	for _, r := range Reversed(records) {
		ok := true
		for _, f := range FilterFields {
			if !matches(f.Value(r), f.Criterion(criteria)) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, r)
		}
	}
	return out
}

// DistinctValues returns the sorted, duplicate-free non-empty values of
// field across records.
func DistinctValues(records []models.IssueRecord, field IssueField) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, r := range Reversed(records) {
		v := field.Value(r)
		if !v.Valid || v.Value == "" {
			continue
		}
		if _, ok := seen[v.Value]; ok {
			continue
		}
		seen[v.Value] = struct{}{}
		out = append(out, v.Value)
	}
	slices.Sort(out)
	return out
}

// PageCount is ceil(n / PageSize).
func PageCount(n int) int {
	if n <= 0 {
		return 0
	}
	return (n + PageSize - 1) / PageSize
}

// Paginate returns the 1-based page of items. Pages outside
// [1, PageCount] are empty.
func Paginate[T any](items []T, page int) []T {
	if page < 1 || page > PageCount(len(items)) {
		return []T{}
	}
	start := (page - 1) * PageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+PageSize, len(items))
	return items[start:end]
}

// ActionState says which status actions are offered for a row.
type ActionState struct {
	InProgress bool `json:"inProgress"`
	Complete   bool `json:"complete"`
}

// Actions derives action availability from the current status.
// PENDING may go straight to COMPLETE; nothing goes back.
func Actions(status models.Status) ActionState {
	return ActionState{
		InProgress: status == models.StatusPending,
		Complete:   status != models.StatusComplete,
	}
}

// Allows reports whether target is offered from the current state.
func (a ActionState) Allows(target models.Status) bool {
	switch target {
	case models.StatusInProgress:
		return a.InProgress
	case models.StatusComplete:
		return a.Complete
	}
	return false
}

type IssueRow struct {
	Record  models.IssueRecord `json:"record"`
	Actions ActionState        `json:"actions"`
}

// FilterOption feeds one filter dropdown.
type FilterOption struct {
	Field    IssueField `json:"field"`
	Param    string     `json:"param"`
	Label    string     `json:"label"`
	AllLabel string     `json:"allLabel"`
	Selected string     `json:"selected"`
	Values   []string   `json:"values"`
}

// Pager describes the pagination controls.
type Pager struct {
	Show        bool  `json:"show"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
	Previous    int   `json:"previous"`
	Next        int   `json:"next"`
	Pages       []int `json:"pages"`
}

// IssueView is everything a renderer needs for one screen of the table.
type IssueView struct {
	Rows         []IssueRow            `json:"rows"`
	Criteria     domain.FilterCriteria `json:"criteria"`
	Pagination   domain.Pagination     `json:"pagination"`
	Pager        Pager                 `json:"pager"`
	Filters      []FilterOption        `json:"filters"`
	TotalRecords int                   `json:"totalRecords"`
	EmptyMessage string                `json:"emptyMessage,omitempty"`
}

// BuildView derives the visible table from the loaded records, the
// filter criteria and the 1-based page. It has no side effects.
func BuildView(records []models.IssueRecord, criteria domain.FilterCriteria, page int) IssueView {
	filtered := Filter(records, criteria)
	pageCount := PageCount(len(filtered))
	visible := Paginate(filtered, page)

	rows := make([]IssueRow, 0, len(visible))
	for _, r := range visible {
		rows = append(rows, IssueRow{Record: r, Actions: Actions(r.CurrentStatus())})
	}

	v := IssueView{
		Rows:     rows,
		Criteria: criteria,
		Pagination: domain.Pagination{
			Page:      page,
			PageSize:  PageSize,
			Total:     len(filtered),
			PageCount: pageCount,
		},
		Pager:        buildPager(len(filtered), page, pageCount),
		Filters:      FilterOptions(records, criteria),
		TotalRecords: len(records),
	}
	if len(rows) == 0 {
		if len(records) == 0 {
			v.EmptyMessage = MsgNoData
		} else {
			v.EmptyMessage = MsgNoMatches
		}
	}
	return v
}

// FilterOptions returns one dropdown per filterable field, offering the
// distinct values of the unfiltered list.
func FilterOptions(records []models.IssueRecord, criteria domain.FilterCriteria) []FilterOption {
	out := make([]FilterOption, 0, len(FilterFields))
	for _, f := range FilterFields {
		out = append(out, FilterOption{
			Field:    f,
			Param:    f.Param(),
			Label:    f.Label(),
			AllLabel: f.AllLabel(),
			Selected: f.Criterion(criteria),
			Values:   DistinctValues(records, f),
		})
	}
	return out
}

func buildPager(total, page, pageCount int) Pager {
	p := Pager{
		Show:        total > PageSize,
		HasPrevious: page != 1,
		HasNext:     page != pageCount,
		Previous:    max(page-1, 1),
		Next:        min(page+1, pageCount),
		Pages:       make([]int, 0, pageCount),
	}
	for i := 1; i <= pageCount; i++ {
		p.Pages = append(p.Pages, i)
	}
	return p
}

// Navigator holds the operator's filter criteria and current page.
type Navigator struct {
	Criteria domain.FilterCriteria
	Page     int
}

func NewNavigator() Navigator {
	return Navigator{Page: 1}
}

// SetFilter changes one criterion and goes back to page 1.
func (n *Navigator) SetFilter(field IssueField, value string) {
	n.Criteria = field.WithCriterion(n.Criteria, value)
	n.Page = 1
}

// GoToPage jumps to page without bounds checks; callers only offer
// valid targets.
func (n *Navigator) GoToPage(page int) {
	n.Page = page
}

// Previous moves back one page, stopping at 1.
func (n *Navigator) Previous() {
	if n.Page > 1 {
		n.Page--
		return
	}
	n.Page = 1
}

// Next moves forward one page, stopping at pageCount.
func (n *Navigator) Next(pageCount int) {
	if n.Page < pageCount {
		n.Page++
		return
	}
	n.Page = max(pageCount, 1)
}
