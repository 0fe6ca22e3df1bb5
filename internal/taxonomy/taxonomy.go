// Package taxonomy models the two-level category → subcategory hierarchy.
package taxonomy

import (
	"strings"

	"nesswear/internal/domain"
)

// Placeholder is rendered in place of a name that cannot be resolved
const Placeholder = "—"

// Names are the display names resolved for a product. Empty means unknown.
type Names struct {
	Category    string `json:"categoryName,omitempty"`
	SubCategory string `json:"subCategoryName,omitempty"`
}

// DisplayCategory returns the category name or the placeholder
func (n Names) DisplayCategory() string {
	return orPlaceholder(n.Category)
}

// DisplaySubCategory returns the subcategory name or the placeholder
func (n Names) DisplaySubCategory() string {
	return orPlaceholder(n.SubCategory)
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// Taxonomy is a snapshot of the catalog hierarchy. Lookups for unknown ids
// report false, they never fail. A Taxonomy is not safe for concurrent
// mutation; Clone before removing from a shared snapshot.
type Taxonomy struct {
	categories    []domain.Category
	subcategories []domain.SubCategory
	categoryIdx   map[string]int
	subIdx        map[string]int
}

// New builds a taxonomy from the category list and the flat subcategory
// list. Subcategories embedded in a category are merged in; the flat list
// wins when both describe the same id.
func New(categories []domain.Category, subcategories []domain.SubCategory) *Taxonomy {
	t := &Taxonomy{
		categoryIdx: make(map[string]int, len(categories)),
		subIdx:      make(map[string]int, len(subcategories)),
	}

	for _, c := range categories {
		if _, dup := t.categoryIdx[c.ID]; dup {
			continue
		}
		t.categoryIdx[c.ID] = len(t.categories)
		c.SubCategories = nil
		t.categories = append(t.categories, c)
	}

	for _, s := range subcategories {
		t.putSubCategory(s, true)
	}
	for _, c := range categories {
		for _, s := range c.SubCategories {
			if s.CategoryID == "" {
				s.CategoryID = domain.Ref(c.ID)
			}
			t.putSubCategory(s, false)
		}
	}

	return t
}

func (t *Taxonomy) putSubCategory(s domain.SubCategory, overwrite bool) {
	if s.ID == "" {
		return
	}
	if i, ok := t.subIdx[s.ID]; ok {
		if overwrite {
			t.subcategories[i] = s
		}
		return
	}
	t.subIdx[s.ID] = len(t.subcategories)
	t.subcategories = append(t.subcategories, s)
}

// Clone returns an independent copy
func (t *Taxonomy) Clone() *Taxonomy {
	c := &Taxonomy{}
	c.reindex(t.Categories(), t.SubCategories())
	return c
}

// Categories returns the categories in source order
func (t *Taxonomy) Categories() []domain.Category {
	return append([]domain.Category(nil), t.categories...)
}

// SubCategories returns every subcategory in source order
func (t *Taxonomy) SubCategories() []domain.SubCategory {
	return append([]domain.SubCategory(nil), t.subcategories...)
}

// Category looks up a category by id
func (t *Taxonomy) Category(id string) (domain.Category, bool) {
	i, ok := t.categoryIdx[id]
	if !ok {
		return domain.Category{}, false
	}
	return t.categories[i], true
}

// SubCategory looks up a subcategory by id
func (t *Taxonomy) SubCategory(id string) (domain.SubCategory, bool) {
	i, ok := t.subIdx[id]
	if !ok {
		return domain.SubCategory{}, false
	}
	return t.subcategories[i], true
}

// NameOf returns the name of a category
func (t *Taxonomy) NameOf(categoryID string) (string, bool) {
	c, ok := t.Category(categoryID)
	if !ok {
		return "", false
	}
	return c.Name, true
}

// SubCategoryNameOf returns the name of a subcategory
func (t *Taxonomy) SubCategoryNameOf(id string) (string, bool) {
	s, ok := t.SubCategory(id)
	if !ok {
		return "", false
	}
	return s.Name, true
}

// SubcategoriesOf returns the subcategories owned by a category, in source
// order. Unknown categories yield an empty slice.
func (t *Taxonomy) SubcategoriesOf(categoryID string) []domain.SubCategory {
	out := []domain.SubCategory{}
	for _, s := range t.subcategories {
		if s.CategoryID.String() == categoryID {
			out = append(out, s)
		}
	}
	return out
}

// CategoryByName finds a category by case-insensitive name
func (t *Taxonomy) CategoryByName(name string) (domain.Category, bool) {
	for _, c := range t.categories {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return domain.Category{}, false
}

// ResolveProductCategoryNames prefers a name the server put on the product
// and falls back to looking the foreign key up.
func (t *Taxonomy) ResolveProductCategoryNames(p domain.Product) Names {
	var n Names

	if p.Category != "" {
		n.Category = string(p.Category)
	} else if name, ok := t.NameOf(p.CategoryID.String()); ok {
		n.Category = name
	}

	if p.SubCategory != "" {
		n.SubCategory = string(p.SubCategory)
	} else if name, ok := t.SubCategoryNameOf(p.SubCategoryID.String()); ok {
		n.SubCategory = name
	}

	return n
}

// RemoveCategory drops a category and every subcategory it owns, returning
// the removed subcategories.
func (t *Taxonomy) RemoveCategory(id string) []domain.SubCategory {
	owned := t.SubcategoriesOf(id)
	if _, ok := t.categoryIdx[id]; !ok && len(owned) == 0 {
		return owned
	}

	categories := make([]domain.Category, 0, len(t.categories))
	for _, c := range t.categories {
		if c.ID != id {
			categories = append(categories, c)
		}
	}
	subcategories := make([]domain.SubCategory, 0, len(t.subcategories))
	for _, s := range t.subcategories {
		if s.CategoryID.String() != id {
			subcategories = append(subcategories, s)
		}
	}

	t.reindex(categories, subcategories)
	return owned
}

func (t *Taxonomy) reindex(categories []domain.Category, subcategories []domain.SubCategory) {
	t.categories = categories
	t.subcategories = subcategories
	t.categoryIdx = make(map[string]int, len(categories))
	for i, c := range categories {
		t.categoryIdx[c.ID] = i
	}
	t.subIdx = make(map[string]int, len(subcategories))
	for i, s := range subcategories {
		t.subIdx[s.ID] = i
	}
}
