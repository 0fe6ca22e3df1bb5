package catalog

import (
	"strings"

	"nesswear/internal/domain"
)

// Status narrows admin lists by the active flag
type Status string

const (
	StatusAll      Status = "all"
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// ParseStatus accepts all, active and inactive. Empty means all.
func ParseStatus(s string) (Status, bool) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, true
	case StatusActive:
		return StatusActive, true
	case StatusInactive:
		return StatusInactive, true
	default:
		return "", false
	}
}

// AdminFilter is the management dashboard's list filter. Search matches
// name or description case-insensitively; an empty CategoryID (or "all")
// keeps every category. Categories ignore CategoryID.
type AdminFilter struct {
	Search     string
	CategoryID string
	Status     Status
}

func (f AdminFilter) text(name, description string) bool {
	term := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(name), term) ||
		strings.Contains(strings.ToLower(description), term)
}

func (f AdminFilter) category(id domain.Ref) bool {
	return f.CategoryID == "" || f.CategoryID == string(StatusAll) || id.String() == f.CategoryID
}

func (f AdminFilter) status(active bool) bool {
	switch f.Status {
	case StatusActive:
		return active
	case StatusInactive:
		return !active
	default:
		return true
	}
}

// FilterProducts keeps the products matching f in source order
func FilterProducts(products []domain.Product, f AdminFilter) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if f.text(p.Name, p.Description) && f.category(p.CategoryID) && f.status(p.IsActive) {
			out = append(out, p)
		}
	}
	return out
}

func FilterCategories(categories []domain.Category, f AdminFilter) []domain.Category {
	out := []domain.Category{}
	for _, c := range categories {
		if f.text(c.Name, c.Description) && f.status(c.IsActive) {
			out = append(out, c)
		}
	}
	return out
}

func FilterSubCategories(subcategories []domain.SubCategory, f AdminFilter) []domain.SubCategory {
	out := []domain.SubCategory{}
	for _, s := range subcategories {
		if f.text(s.Name, s.Description) && f.category(s.CategoryID) && f.status(s.IsActive) {
			out = append(out, s)
		}
	}
	return out
}
