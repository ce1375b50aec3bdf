package validation

import (
	"net/http"
	"strconv"

	"ms-eventplatform/internal/apperr"

	"github.com/go-chi/chi/v5"
)

const DefaultLimit = 100

type Page struct {
	Skip  int
	Limit int
}

// PathID parses a positive integer chi URL parameter.
func PathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidField(name, "must be a positive integer")
	}
	return id, nil
}

// PageFrom reads skip/limit query parameters, defaulting to 0 and DefaultLimit.
func PageFrom(r *http.Request) (Page, error) {
	page := Page{Skip: 0, Limit: DefaultLimit}
	fields := map[string]string{}

	q := r.URL.Query()
	if raw := q.Get("skip"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fields["skip"] = "must be a non-negative integer"
		}
		page.Skip = n
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			fields["limit"] = "must be a non-negative integer"
		}
		page.Limit = n
	}

	if len(fields) > 0 {
		return Page{}, apperr.Validation(fields)
	}
	return page, nil
}

// QueryID reads an optional positive integer filter such as ?order_id=3.
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, apperr.InvalidField(name, "must be a positive integer")
	}
	return &id, nil
}
