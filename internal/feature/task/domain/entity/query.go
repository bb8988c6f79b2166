package entity

// SortField names a sortable task attribute as it appears in the API.
type SortField string

const (
	SortTitle     SortField = "title"
	SortDueDate   SortField = "dueDate"
	SortPriority  SortField = "priority"
	SortStatus    SortField = "status"
	SortCreatedAt SortField = "createdAt"
	SortUpdatedAt SortField = "updatedAt"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ListQuery selects one page of an owner's tasks. The owner scope is always applied
// first; zero-valued filters are ignored.
type ListQuery struct {
	OwnerID   uint
	Status    Status
	Priority  Priority
	Important *bool
	Search    string
	Sort      SortField
	Order     SortOrder
	Page      int
	Limit     int
}

// Offset is the number of rows skipped before the page starts.
func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Pagination describes the page returned for a ListQuery.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// NewPagination computes the page count as ceil(total/limit).
func NewPagination(page, limit int, total int64) Pagination {
	p := Pagination{Page: page, Limit: limit, Total: total}
	if limit > 0 {
		p.Pages = (total + int64(limit) - 1) / int64(limit)
	}
	return p
}
