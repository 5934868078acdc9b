package request

import "net/http"

// ListParams holds pagination, search, filter, and sort parameters for
// template catalog queries.
type ListParams struct {
	Limit    int
	Cursor   string
	Search   string
	Category string
	Kind     string
	Sort     string
	Order    string // "asc" or "desc"
}

// ParseListParams extracts list parameters from the query string.
// defaultSort specifies which field to sort by when none is provided.
func ParseListParams(r *http.Request, defaultSort string) ListParams {
	pg := ParsePagination(r)
	order := stringOr(r.URL.Query().Get("order"), "desc")
	if order != "asc" && order != "desc" {
		order = "desc"
	}
	return ListParams{
		Limit:    pg.Limit,
		Cursor:   pg.Cursor,
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		Kind:     r.URL.Query().Get("kind"),
		Sort:     stringOr(r.URL.Query().Get("sort"), defaultSort),
		Order:    order,
	}
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
