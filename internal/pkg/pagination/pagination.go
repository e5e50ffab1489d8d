package pagination

import "math"

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// Pagination is the page metadata returned alongside list responses
type Pagination struct {
	Page    int   `json:"page"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"hasNext"`
	HasPrev bool  `json:"hasPrev"`
}

// Normalize clamps page and limit into the accepted range.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset returns how many records precede the page.
func Offset(page, limit int) int64 {
	page, limit = Normalize(page, limit)
	return int64((page - 1) * limit)
}

func New(page, limit int, total int64) *Pagination {
	page, limit = Normalize(page, limit)

	pages := int(math.Ceil(float64(total) / float64(limit)))
	if pages < 1 {
		pages = 1
	}

	return &Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   pages,
		HasNext: page < pages,
		HasPrev: page > 1,
	}
}
