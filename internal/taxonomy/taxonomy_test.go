package taxonomy

import (
	"encoding/json"
	"testing"

	"nesswear/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTaxonomy() *Taxonomy {
	categories := []domain.Category{
		{ID: "c1", Name: "Shoes"},
		{ID: "c2", Name: "Accessories", SubCategories: []domain.SubCategory{
			{ID: "s3", Name: "Bags (embedded)"},
			{ID: "s4", Name: "Belts"},
		}},
	}
	subcategories := []domain.SubCategory{
		{ID: "s1", CategoryID: "c1", Name: "Sneakers"},
		{ID: "s2", CategoryID: "c1", Name: "Boots"},
		{ID: "s3", CategoryID: "c2", Name: "Bags"},
	}
	return New(categories, subcategories)
}

func TestNew_MergesEmbeddedSubCategories(t *testing.T) {
	tax := sampleTaxonomy()

	name, ok := tax.SubCategoryNameOf("s3")
	require.True(t, ok)
	assert.Equal(t, "Bags", name, "flat list wins over embedded summary")

	belts, ok := tax.SubCategory("s4")
	require.True(t, ok)
	assert.Equal(t, domain.Ref("c2"), belts.CategoryID, "embedded subcategory inherits its owner")

	assert.Len(t, tax.SubCategories(), 4)
	c2, _ := tax.Category("c2")
	assert.Nil(t, c2.SubCategories)
}

func TestNameOf(t *testing.T) {
	tax := sampleTaxonomy()

	name, ok := tax.NameOf("c1")
	assert.True(t, ok)
	assert.Equal(t, "Shoes", name)

	_, ok = tax.NameOf("missing")
	assert.False(t, ok)
	_, ok = tax.NameOf("")
	assert.False(t, ok)
}

func TestSubcategoriesOf_PreservesOrder(t *testing.T) {
	tax := sampleTaxonomy()

	subs := tax.SubcategoriesOf("c1")
	require.Len(t, subs, 2)
	assert.Equal(t, "s1", subs[0].ID)
	assert.Equal(t, "s2", subs[1].ID)

	assert.Empty(t, tax.SubcategoriesOf("missing"))
	assert.NotNil(t, tax.SubcategoriesOf("missing"))
}

func TestByName(t *testing.T) {
	tax := sampleTaxonomy()

	c, ok := tax.CategoryByName("shoes")
	require.True(t, ok)
	assert.Equal(t, "c1", c.ID)

	_, ok = tax.CategoryByName("hats")
	assert.False(t, ok)
}

func TestResolveProductCategoryNames(t *testing.T) {
	tax := sampleTaxonomy()

	tests := []struct {
		name    string
		product string
		want    Names
	}{
		{
			name:    "lookup by id",
			product: `{"id":"p1","categoryId":"c1","subCategoryId":"s2"}`,
			want:    Names{Category: "Shoes", SubCategory: "Boots"},
		},
		{
			name:    "inline string wins",
			product: `{"id":"p1","categoryId":"c1","category":"Footwear","subCategoryId":"s2","subCategory":"Winter Boots"}`,
			want:    Names{Category: "Footwear", SubCategory: "Winter Boots"},
		},
		{
			name:    "populated object ids",
			product: `{"id":"p1","categoryId":{"id":"c2","name":"ignored"},"subCategoryId":{"id":"s4"}}`,
			want:    Names{Category: "Accessories", SubCategory: "Belts"},
		},
		{
			name:    "inline object is not a name",
			product: `{"id":"p1","categoryId":"c1","category":{"id":"c1","name":"Shoes"}}`,
			want:    Names{Category: "Shoes"},
		},
		{
			name:    "unknown ids",
			product: `{"id":"p1","categoryId":"nope","subCategoryId":"nope"}`,
			want:    Names{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p domain.Product
			require.NoError(t, json.Unmarshal([]byte(tt.product), &p))
			assert.Equal(t, tt.want, tax.ResolveProductCategoryNames(p))
		})
	}
}

func TestNames_Display(t *testing.T) {
	assert.Equal(t, Placeholder, Names{}.DisplayCategory())
	assert.Equal(t, Placeholder, Names{}.DisplaySubCategory())
	assert.Equal(t, "Shoes", Names{Category: "Shoes"}.DisplayCategory())
}

func TestRemoveCategory_Cascades(t *testing.T) {
	tax := sampleTaxonomy()

	removed := tax.RemoveCategory("c1")
	require.Len(t, removed, 2)
	assert.Equal(t, "s1", removed[0].ID)
	assert.Equal(t, "s2", removed[1].ID)

	_, ok := tax.NameOf("c1")
	assert.False(t, ok)
	_, ok = tax.SubCategory("s1")
	assert.False(t, ok)
	assert.Empty(t, tax.SubcategoriesOf("c1"))

	name, ok := tax.SubCategoryNameOf("s3")
	assert.True(t, ok)
	assert.Equal(t, "Bags", name)

	assert.Empty(t, tax.RemoveCategory("missing"))
}

func TestClone_IsIndependent(t *testing.T) {
	tax := sampleTaxonomy()
	clone := tax.Clone()

	clone.RemoveCategory("c1")

	_, ok := tax.NameOf("c1")
	assert.True(t, ok)
	assert.Len(t, tax.SubcategoriesOf("c1"), 2)
}
