// Package catalog turns a loaded product set into the ordered, display-ready
// list a storefront view shows. Everything here is pure: no I/O, no shared
// state, and inputs are never modified.
package catalog

import (
	"slices"
	"strings"

	"nesswear/internal/domain"

	"github.com/shopspring/decimal"
)

// PlaceholderImage is assigned to products that carry no image at all
const PlaceholderImage = "/images/placeholder.svg"

// FilterMode selects how CategoryFilter decides membership
type FilterMode string

const (
	FilterAll         FilterMode = "all"
	FilterCategory    FilterMode = "category"
	FilterSubCategory FilterMode = "subcategory"
	FilterKeywords    FilterMode = "keywords"
	FilterNone        FilterMode = "none"
)

// CategoryFilter is the membership stage of a query
type CategoryFilter struct {
	Mode     FilterMode
	TargetID string
	// Keywords are matched case-insensitively as substrings of the product
	// name. Only used by FilterKeywords.
	Keywords []string
}

// AllCategories keeps every product
func AllCategories() CategoryFilter {
	return CategoryFilter{Mode: FilterAll}
}

// PriceRange is an inclusive price interval
type PriceRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// Contains reports whether min <= price <= max
func (r PriceRange) Contains(price decimal.Decimal) bool {
	return price.GreaterThanOrEqual(r.Min) && price.LessThanOrEqual(r.Max)
}

// SortKey orders the filtered result
type SortKey string

const (
	SortFeatured  SortKey = "featured"
	SortNewest    SortKey = "newest"
	SortTrending  SortKey = "trending"
	SortPriceLow  SortKey = "price-low"
	SortPriceHigh SortKey = "price-high"
	SortRating    SortKey = "rating"
)

// ParseSortKey maps user input to a sort key; anything unknown is featured
func ParseSortKey(s string) SortKey {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortNewest, SortTrending, SortPriceLow, SortPriceHigh, SortRating:
		return k
	default:
		return SortFeatured
	}
}

// QuerySpec is the filter and sort request for one view
type QuerySpec struct {
	// Scope restricts the input to products whose categoryId is listed.
	// nil means unscoped; an empty non-nil slice keeps nothing.
	Scope    []string
	Category CategoryFilter
	// PriceRange is nil when the price is not constrained
	PriceRange *PriceRange
	Sort       SortKey
}

// Run applies scope, membership, price, sort and image normalization, in
// that order. The result is a new slice; an empty result is never nil.
func Run(products []domain.Product, spec QuerySpec) []domain.Product {
	out := make([]domain.Product, 0, len(products))

	var scope map[string]struct{}
	if spec.Scope != nil {
		scope = make(map[string]struct{}, len(spec.Scope))
		for _, id := range spec.Scope {
			scope[id] = struct{}{}
		}
	}

	if spec.PriceRange != nil && spec.PriceRange.Min.GreaterThan(spec.PriceRange.Max) {
		return out
	}

	for _, p := range products {
		if scope != nil {
			if _, ok := scope[p.CategoryID.String()]; !ok {
				continue
			}
		}
		if !spec.Category.matches(p) {
			continue
		}
		if spec.PriceRange != nil && !spec.PriceRange.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}

	sortProducts(out, spec.Sort)
	return normalizeInPlace(out)
}

func (f CategoryFilter) matches(p domain.Product) bool {
	switch f.Mode {
	case FilterAll, "":
		return true
	case FilterCategory:
		return p.CategoryID.String() == f.TargetID
	case FilterSubCategory:
		return p.SubCategoryID.String() == f.TargetID
	case FilterKeywords:
		name := strings.ToLower(p.Name)
		for _, kw := range f.Keywords {
			if strings.Contains(name, strings.ToLower(kw)) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func sortProducts(products []domain.Product, key SortKey) {
	var cmp func(a, b domain.Product) int

	switch ParseSortKey(string(key)) {
	case SortPriceLow:
		cmp = func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	case SortPriceHigh:
		cmp = func(a, b domain.Product) int { return b.Price.Cmp(a.Price) }
	case SortRating:
		cmp = func(a, b domain.Product) int { return b.RatingValue().Cmp(a.RatingValue()) }
	case SortNewest:
		cmp = func(a, b domain.Product) int { return trueFirst(a.IsNewArrival, b.IsNewArrival) }
	case SortTrending:
		cmp = func(a, b domain.Product) int { return trueFirst(a.IsTrending, b.IsTrending) }
	default:
		return
	}

	slices.SortStableFunc(products, cmp)
}

func trueFirst(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

// NormalizeImages returns a copy of products where image equals images[0],
// a lone legacy image is promoted into images, and products without any
// image get PlaceholderImage with an empty images list. Applying it twice
// gives the same result as applying it once.
func NormalizeImages(products []domain.Product) []domain.Product {
	return normalizeInPlace(slices.Clone(products))
}

func normalizeInPlace(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	for i := range products {
		products[i] = NormalizeImage(products[i])
	}
	return products
}

// NormalizeImage restores the image invariant on a single product. Blank
// entries in images count as absent.
func NormalizeImage(p domain.Product) domain.Product {
	if slices.ContainsFunc(p.Images, blank) {
		p.Images = slices.DeleteFunc(slices.Clone(p.Images), blank)
	}
	if blank(p.Image) {
		p.Image = ""
	}
	switch {
	case len(p.Images) > 0:
		p.Image = p.Images[0]
	case p.Image != "" && p.Image != PlaceholderImage:
		p.Images = []string{p.Image}
	default:
		p.Image = PlaceholderImage
		p.Images = []string{}
	}
	return p
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
