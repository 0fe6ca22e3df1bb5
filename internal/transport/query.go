package transport

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"nesswear/internal/catalog"
	"nesswear/internal/domain"
	"nesswear/internal/middleware"

	"github.com/shopspring/decimal"
)

// queryErrors collects malformed query parameters
type queryErrors []middleware.ValidationError

func (q *queryErrors) add(field, message string) {
	*q = append(*q, middleware.ValidationError{Field: field, Message: message})
}

// positiveInt reads an optional positive integer; zero means absent
func (q *queryErrors) positiveInt(values url.Values, name string) int {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		q.add(name, "Must be a positive integer")
		return 0
	}
	return n
}

func (q *queryErrors) boolean(values url.Values, name string) *bool {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		q.add(name, "Must be true or false")
		return nil
	}
	return &b
}

func (q *queryErrors) price(values url.Values, name string) *decimal.Decimal {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		q.add(name, "Must be a non-negative number")
		return nil
	}
	return &d
}

func (q *queryErrors) sortOrder(values url.Values, name string) string {
	raw := strings.ToLower(strings.TrimSpace(values.Get(name)))
	switch raw {
	case "", "asc", "desc":
		return raw
	default:
		q.add(name, "Value must be one of asc desc")
		return ""
	}
}

// parseListParams reads the product list parameters shared by the listing
// endpoints. Unset values are left to the service defaults.
func parseListParams(r *http.Request) (domain.ListParams, queryErrors) {
	values := r.URL.Query()
	var errs queryErrors

	params := domain.ListParams{
		Page:          errs.positiveInt(values, "page"),
		Limit:         errs.positiveInt(values, "limit"),
		CategoryID:    strings.TrimSpace(values.Get("categoryId")),
		SubCategoryID: strings.TrimSpace(values.Get("subCategoryId")),
		IsActive:      errs.boolean(values, "isActive"),
		IsTrending:    errs.boolean(values, "isTrending"),
		IsNewArrival:  errs.boolean(values, "isNewArrival"),
		Search:        strings.TrimSpace(values.Get("search")),
		SortBy:        strings.TrimSpace(values.Get("sortBy")),
		SortOrder:     errs.sortOrder(values, "sortOrder"),
	}
	return params, errs
}

// parseLimit reads the limit of the trending and new arrival endpoints.
// Zero leaves the page size to the catalog service.
func parseLimit(r *http.Request) (int, queryErrors) {
	var errs queryErrors
	limit := errs.positiveInt(r.URL.Query(), "limit")
	return limit, errs
}

// parseAdminFilter reads the dashboard list filter: q, categoryId and status
func parseAdminFilter(r *http.Request) (catalog.AdminFilter, queryErrors) {
	values := r.URL.Query()
	var errs queryErrors

	status, ok := catalog.ParseStatus(values.Get("status"))
	if !ok {
		errs.add("status", "Value must be one of all active inactive")
	}
	filter := catalog.AdminFilter{
		Search:     strings.TrimSpace(values.Get("q")),
		CategoryID: strings.TrimSpace(values.Get("categoryId")),
		Status:     status,
	}
	return filter, errs
}
