package pagination

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any page query can request.
	MaxLimit = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
	Sort  string
	Desc  bool
}

// Page wraps one result page together with its counters.
type Page[T any] struct {
	Content    []T   `json:"content"`
	PageNumber int   `json:"page_number"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
	LastPage   bool  `json:"last_page"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize clamps page and limit to sane values.
func (p Params) Normalize() Params {
	p.Limit = NormalizeLimit(p.Limit)
	if p.Page < 0 {
		p.Page = 0
	}
	return p
}

// Offset returns the row offset for the normalized params.
func (p Params) Offset() int {
	normalized := p.Normalize()
	return normalized.Page * normalized.Limit
}

// OrderClause renders the SQL order expression for allowed sort columns.
// Unknown columns fall back to created_at so callers cannot inject arbitrary
// expressions through query params.
func (p Params) OrderClause(allowed map[string]string) string {
	column, ok := allowed[p.Sort]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if p.Desc {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s", column, direction)
}

// FromRequest parses page, limit and sort query params from an HTTP request.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()

	params := Params{}
	if raw := strings.TrimSpace(query.Get("page")); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			params.Page = page
		}
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			params.Limit = limit
		}
	}
	params.Sort = strings.TrimSpace(query.Get("sort"))
	params.Desc = strings.EqualFold(strings.TrimSpace(query.Get("order")), "desc")

	return params.Normalize()
}

// NewPage assembles a Page from a fetched slice and the total row count.
func NewPage[T any](content []T, params Params, total int64) Page[T] {
	normalized := params.Normalize()

	totalPages := int(total) / normalized.Limit
	if int(total)%normalized.Limit != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	return Page[T]{
		Content:    content,
		PageNumber: normalized.Page,
		PageSize:   normalized.Limit,
		TotalItems: total,
		TotalPages: totalPages,
		LastPage:   normalized.Page >= totalPages-1,
	}
}
