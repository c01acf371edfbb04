// Package pagination implements limit/offset list windows with a total
// count and a has-more flag.
package pagination

import "gorm.io/gorm"

const (
	defaultLimit = 50
	maxLimit     = 100
)

// ListParams holds pagination parameters parsed from query strings.
type ListParams struct {
	Limit  int `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Defaults fills in the default window when limit is not provided and
// caps oversized limits.
func (p *ListParams) Defaults() {
	if p.Limit == 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
}

// Meta describes the window a list response covers.
type Meta struct {
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"has_more"`
}

// NewMeta builds list metadata. HasMore is true exactly when rows exist
// beyond the current window.
func NewMeta(params ListParams, total int64) Meta {
	return Meta{
		Total:   total,
		Limit:   params.Limit,
		Offset:  params.Offset,
		HasMore: total > int64(params.Offset+params.Limit),
	}
}

// Scope returns a GORM scope applying the window's OFFSET and LIMIT.
func Scope(params ListParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(params.Offset).Limit(params.Limit)
	}
}
