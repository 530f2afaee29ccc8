package paging

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = 25
)

// Page captures the 1-based page request of a list endpoint.
type Page struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Meta describes a paginated result.
type Meta struct {
	TotalItems   int `json:"totalItems"`
	ItemCount    int `json:"itemCount"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
}

// LoadDefault fills unset values with the given entity default limit.
func (p *Page) LoadDefault(defaultLimit int) {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
}

// Offset returns the number of rows to skip for this page.
func (p Page) Offset() int {
	return CalculateOffset(p.Limit, p.Page)
}

// CalculateOffset returns (page-1)*limit, treating unset values as defaults.
func CalculateOffset(limit, page int) int {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}
	return (page - 1) * limit
}

// NewMeta builds pagination metadata. itemCount is the size of the returned page.
func NewMeta(limit, page, totalCount, itemCount int) Meta {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}
	totalPages := totalCount / limit
	if totalCount%limit != 0 {
		totalPages++
	}
	return Meta{
		TotalItems:   totalCount,
		ItemCount:    itemCount,
		ItemsPerPage: limit,
		TotalPages:   totalPages,
		CurrentPage:  page,
	}
}
