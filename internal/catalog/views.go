package catalog

import (
	"strings"

	"nesswear/internal/domain"
	"nesswear/internal/taxonomy"

	"github.com/shopspring/decimal"
)

// SelectAll is the selection value that disables category filtering
const SelectAll = "all"

// Bucket is a keyword group used to filter by product name when the backing
// category has no real subcategories to select.
type Bucket struct {
	Value    string
	Label    string
	Keywords []string
}

// Option is one entry of a view's category filter control
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// View describes a storefront listing page
type View struct {
	Name     string
	AllLabel string

	// Category is the name of the category backing the view. Empty means
	// the view lists the whole catalog.
	Category string
	// FallbackCategories are used as the scope, by name, when Category
	// does not exist.
	FallbackCategories []string
	// MatchCategoryNames makes a selection that is not a subcategory
	// filter by category name.
	MatchCategoryNames bool
	// PluralizeLabels appends "s" to option labels that lack one
	PluralizeLabels bool
	Buckets         []Bucket

	MaxPriceFallback decimal.Decimal
}

var (
	ClothesView = View{
		Name:               "clothes",
		AllLabel:           "All Clothes",
		Category:           "Clothes",
		FallbackCategories: []string{"T-Shirt", "Hoodie", "Trousers"},
		MatchCategoryNames: true,
		PluralizeLabels:    true,
		MaxPriceFallback:   decimal.NewFromInt(200),
	}

	ShoesView = View{
		Name:     "shoes",
		AllLabel: "All Shoes",
		Category: "Shoes",
		Buckets: []Bucket{
			{Value: "sneakers", Label: "Sneakers", Keywords: []string{"sneaker", "canvas"}},
			{Value: "boots", Label: "Boots", Keywords: []string{"boot"}},
			{Value: "slip-on", Label: "Slip-On", Keywords: []string{"slip-on"}},
		},
		MaxPriceFallback: decimal.NewFromInt(200),
	}

	AccessoriesView = View{
		Name:     "accessories",
		AllLabel: "All Accessories",
		Category: "Accessories",
		Buckets: []Bucket{
			{Value: "bags", Label: "Bags", Keywords: []string{"bag", "tote"}},
			{Value: "jewelry", Label: "Jewelry", Keywords: []string{"jewelry", "earring", "necklace"}},
			{Value: "hair", Label: "Hair Accessories", Keywords: []string{"hair", "clip"}},
			{Value: "tech", Label: "Tech Accessories", Keywords: []string{"phone", "case"}},
			{Value: "eyewear", Label: "Eyewear", Keywords: []string{"sunglass", "glasses"}},
			{Value: "headwear", Label: "Headwear", Keywords: []string{"cap", "hat"}},
			{Value: "belts", Label: "Belts", Keywords: []string{"belt"}},
			{Value: "scarves", Label: "Scarves", Keywords: []string{"scarf"}},
			{Value: "wallets", Label: "Wallets", Keywords: []string{"wallet"}},
		},
		MaxPriceFallback: decimal.NewFromInt(100),
	}

	AllView = View{
		Name:             "all",
		AllLabel:         "All",
		MaxPriceFallback: decimal.NewFromInt(200),
	}
)

var views = map[string]View{
	ClothesView.Name:     ClothesView,
	ShoesView.Name:       ShoesView,
	AccessoriesView.Name: AccessoriesView,
	AllView.Name:         AllView,
}

// LookupView finds a view by name
func LookupView(name string) (View, bool) {
	v, ok := views[strings.ToLower(name)]
	return v, ok
}

// Scope returns the category ids the view lists. nil means every category;
// an empty slice means the backing category does not exist.
func (v View) Scope(tax *taxonomy.Taxonomy) []string {
	if v.Category == "" {
		return nil
	}
	if c, ok := tax.CategoryByName(v.Category); ok {
		return []string{c.ID}
	}

	ids := []string{}
	for _, name := range v.FallbackCategories {
		if c, ok := tax.CategoryByName(name); ok {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// subcategories are the real subcategories selectable in the view
func (v View) subcategories(tax *taxonomy.Taxonomy) []domain.SubCategory {
	if v.Category == "" {
		return nil
	}
	c, ok := tax.CategoryByName(v.Category)
	if !ok {
		return nil
	}
	return tax.SubcategoriesOf(c.ID)
}

// Resolve turns a filter selection into the scope and membership stages of
// a query. A real subcategory always wins over a keyword bucket of the same
// name.
func (v View) Resolve(tax *taxonomy.Taxonomy, selection string) QuerySpec {
	spec := QuerySpec{Scope: v.Scope(tax), Category: AllCategories()}

	selection = strings.TrimSpace(selection)
	if selection == "" || strings.EqualFold(selection, SelectAll) {
		return spec
	}

	if sub, ok := v.matchSubCategory(tax, selection); ok {
		spec.Category = CategoryFilter{Mode: FilterSubCategory, TargetID: sub.ID}
		return spec
	}

	if c, ok := tax.Category(selection); ok && v.inScope(spec.Scope, c.ID) {
		spec.Category = CategoryFilter{Mode: FilterCategory, TargetID: c.ID}
		return spec
	}

	if len(v.Buckets) > 0 {
		for _, b := range v.Buckets {
			if strings.EqualFold(b.Value, selection) {
				spec.Category = CategoryFilter{Mode: FilterKeywords, Keywords: b.Keywords}
				return spec
			}
		}
		// Unknown bucket labels keep everything in scope
		return spec
	}

	if v.MatchCategoryNames {
		if c, ok := tax.CategoryByName(selection); ok {
			spec.Category = CategoryFilter{Mode: FilterCategory, TargetID: c.ID}
			return spec
		}
	}

	spec.Category = CategoryFilter{Mode: FilterNone}
	return spec
}

func (v View) matchSubCategory(tax *taxonomy.Taxonomy, selection string) (domain.SubCategory, bool) {
	subs := v.subcategories(tax)
	if v.Category == "" {
		subs = tax.SubCategories()
	}
	for _, s := range subs {
		if s.ID == selection {
			return s, true
		}
	}
	for _, s := range subs {
		if s.Name == selection {
			return s, true
		}
	}
	return domain.SubCategory{}, false
}

func (v View) inScope(scope []string, id string) bool {
	if scope == nil {
		return true
	}
	for _, s := range scope {
		if s == id {
			return true
		}
	}
	return false
}

// FilterOptions lists the selectable values of the view's category control
func (v View) FilterOptions(tax *taxonomy.Taxonomy) []Option {
	options := []Option{{Label: v.AllLabel, Value: SelectAll}}

	if v.Category == "" {
		for _, c := range tax.Categories() {
			options = append(options, Option{Label: c.Name, Value: c.ID})
		}
		return options
	}

	if subs := v.subcategories(tax); len(subs) > 0 {
		for _, s := range subs {
			options = append(options, Option{Label: v.label(s.Name), Value: s.Name})
		}
		return options
	}

	if len(v.Buckets) > 0 {
		for _, b := range v.Buckets {
			options = append(options, Option{Label: b.Label, Value: b.Value})
		}
		return options
	}

	for _, name := range v.FallbackCategories {
		options = append(options, Option{Label: v.label(name), Value: name})
	}
	return options
}

func (v View) label(name string) string {
	if v.PluralizeLabels && !strings.HasSuffix(name, "s") {
		return name + "s"
	}
	return name
}
