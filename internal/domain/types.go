package domain

// FilterCriteria holds the four optional substring filters of the issue
// table. An empty value means "no constraint".
type FilterCriteria struct {
	Location      string `json:"location" form:"location"`
	Condition     string `json:"condition" form:"condition"`
	Status        string `json:"status" form:"status"`
	EquipmentType string `json:"equipmentType" form:"equipmentType"`
}

// IsZero reports whether no criterion is set.
func (f FilterCriteria) IsZero() bool {
	return f.Location == "" && f.Condition == "" && f.Status == "" && f.EquipmentType == ""
}

// Pagination carries paging params and totals.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	Total     int `json:"total"`
	PageCount int `json:"pageCount"`
}
