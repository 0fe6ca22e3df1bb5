package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// ProductList is the canonical shape of every product list endpoint. The
// remote service answers either a bare array or {"products": [...], ...};
// both decode into Products, with any sibling fields kept in Meta.
type ProductList struct {
	Products []Product
	Meta     map[string]json.RawMessage
}

// Pagination is the paging block some list endpoints carry
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// UnmarshalJSON accepts both list shapes
func (l *ProductList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	l.Products = []Product{}
	l.Meta = nil

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '[' {
		return json.Unmarshal(data, &l.Products)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to decode product list: %w", err)
	}

	if raw, ok := fields["products"]; ok {
		var products []Product
		if err := json.Unmarshal(raw, &products); err != nil {
			return fmt.Errorf("failed to decode products: %w", err)
		}
		if products != nil {
			l.Products = products
		}
		delete(fields, "products")
	}

	if len(fields) > 0 {
		l.Meta = fields
	}
	return nil
}

// MarshalJSON always emits the object shape
func (l ProductList) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(l.Meta)+1)
	for k, v := range l.Meta {
		out[k] = v
	}
	products := l.Products
	if products == nil {
		products = []Product{}
	}
	out["products"] = products
	return json.Marshal(out)
}

// Pagination decodes the "pagination" meta block, if the server sent one
func (l ProductList) Pagination() (*Pagination, bool) {
	raw, ok := l.Meta["pagination"]
	if !ok {
		return nil, false
	}
	var p Pagination
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false
	}
	return &p, true
}

// ListParams are the query parameters accepted by GET /products
type ListParams struct {
	Page          int    `json:"page,omitempty"`
	Limit         int    `json:"limit,omitempty"`
	CategoryID    string `json:"categoryId,omitempty"`
	SubCategoryID string `json:"subCategoryId,omitempty"`
	IsActive      *bool  `json:"isActive,omitempty"`
	IsTrending    *bool  `json:"isTrending,omitempty"`
	IsNewArrival  *bool  `json:"isNewArrival,omitempty"`
	Search        string `json:"search,omitempty"`
	SortBy        string `json:"sortBy,omitempty"`
	SortOrder     string `json:"sortOrder,omitempty"`
}

// Defaults used by the storefront when a parameter is not set
const (
	DefaultPage      = 1
	DefaultLimit     = 10
	DefaultSortBy    = "createdAt"
	DefaultSortOrder = "desc"
)

// WithDefaults fills unset paging and sort parameters
func (p ListParams) WithDefaults() ListParams {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}
	if p.SortOrder == "" {
		p.SortOrder = DefaultSortOrder
	}
	return p
}

// Values encodes the parameters, omitting unset ones
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.CategoryID != "" {
		v.Set("categoryId", p.CategoryID)
	}
	if p.SubCategoryID != "" {
		v.Set("subCategoryId", p.SubCategoryID)
	}
	if p.IsActive != nil {
		v.Set("isActive", strconv.FormatBool(*p.IsActive))
	}
	if p.IsTrending != nil {
		v.Set("isTrending", strconv.FormatBool(*p.IsTrending))
	}
	if p.IsNewArrival != nil {
		v.Set("isNewArrival", strconv.FormatBool(*p.IsNewArrival))
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	if p.SortBy != "" {
		v.Set("sortBy", p.SortBy)
	}
	if p.SortOrder != "" {
		v.Set("sortOrder", p.SortOrder)
	}
	return v
}
