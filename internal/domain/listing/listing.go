package listing

import (
	"slices"
	"strings"

	"github.com/riskibarqy/carelink/internal/domain/profile"
)

const (
	DefaultPageSize = 6
	MaxPageSize     = 50
	CategoryAll     = "all"
)

type Query struct {
	Role     profile.Role
	Search   string
	Category string
	Location string
	Page     int
	PageSize int
}

// Normalized clamps paging to 1-based pages and the allowed page size range.
func (q Query) Normalized(defaultPageSize int) Query {
	if defaultPageSize <= 0 || defaultPageSize > MaxPageSize {
		defaultPageSize = DefaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.PageSize <= 0:
		q.PageSize = defaultPageSize
	case q.PageSize > MaxPageSize:
		q.PageSize = MaxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	q.Category = strings.ToLower(strings.TrimSpace(q.Category))
	q.Location = strings.TrimSpace(q.Location)
	return q
}

type Page struct {
	Items      []profile.Profile
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// Matches applies the search, category and location filters to one profile.
func (q Query) Matches(p profile.Profile) bool {
	if q.Search != "" {
		term := strings.ToLower(q.Search)
		if !containsFold(p.FullName, term) && !containsFold(p.Bio, term) && !containsFold(p.Location, term) {
			return false
		}
	}
	if q.Category != "" && q.Category != CategoryAll {
		if !slices.Contains(p.Categories(), q.Category) {
			return false
		}
	}
	if q.Location != "" && !containsFold(p.Location, strings.ToLower(q.Location)) {
		return false
	}
	return true
}

// Apply filters profiles and cuts out the requested page. A page past the end
// yields no items but still reports totals.
func Apply(profiles []profile.Profile, q Query) Page {
	matched := make([]profile.Profile, 0, len(profiles))
	for _, p := range profiles {
		if q.Matches(p) {
			matched = append(matched, p)
		}
	}

	total := len(matched)
	result := Page{
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalItems: total,
		TotalPages: (total + q.PageSize - 1) / q.PageSize,
		Items:      []profile.Profile{},
	}

	start := (q.Page - 1) * q.PageSize
	if start >= total {
		return result
	}
	end := min(start+q.PageSize, total)
	result.Items = matched[start:end]
	return result
}

func containsFold(value, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(value), lowerTerm)
}
