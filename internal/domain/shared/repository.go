package shared

// Paging bounds applied by Filter.Normalize
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter is the list query every repository accepts. OrderBy is checked
// against a per-table whitelist by the persistence layer; Filters holds
// exact-match columns such as status or customer_id.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

// DefaultFilter is the first page, newest first.
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
}

// Normalize clamps Page to at least 1 and PageSize to 1..MaxPageSize
// (zero means DefaultPageSize). Any direction but "asc" is "desc".
func (f Filter) Normalize() Filter {
	f.Page = max(f.Page, 1)
	switch {
	case f.PageSize < 1:
		f.PageSize = DefaultPageSize
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
	return f
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
