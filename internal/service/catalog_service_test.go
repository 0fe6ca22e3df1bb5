package service

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"nesswear/internal/apiclient"
	"nesswear/internal/catalog"
	"nesswear/internal/domain"
	"nesswear/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func productIDs(products []domain.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestCatalogService_ReadsAreCached(t *testing.T) {
	fx := newFixture(t)
	fx.remote.seed(storefrontSeed())
	ctx := context.Background()

	first, err := fx.catalog.ListProducts(ctx, domain.ListParams{})
	require.NoError(t, err)
	second, err := fx.catalog.ListProducts(ctx, domain.ListParams{Page: 1, Limit: 10, SortBy: "createdAt", SortOrder: "desc"})
	require.NoError(t, err)

	assert.Equal(t, productIDs(first.Products), productIDs(second.Products))
	assert.Equal(t, 1, fx.remote.callsTo(http.MethodGet, "/products"), "defaulted params share one key")

	_, err = fx.catalog.ListProducts(ctx, domain.ListParams{Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, fx.remote.callsTo(http.MethodGet, "/products"))
}

func TestCatalogService_ConcurrentReadsShareOneFetch(t *testing.T) {
	fx := newFixture(t)
	fx.remote.seed(storefrontSeed())

	var wg sync.WaitGroup
	results := make([][]domain.Category, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = fx.catalog.Categories(context.Background())
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Len(t, r, 2)
	}
	// Late starters may hit the retained entry instead of the flight, but
	// never issue their own request.
	assert.Equal(t, 1, fx.remote.callsTo(http.MethodGet, "/categories"))
}

func TestCatalogService_ErrorsAreNotCached(t *testing.T) {
	fx := newFixture(t)
	fx.remote.seed(storefrontSeed())
	ctx := context.Background()

	fx.remote.fail(http.MethodGet, "/categories", http.StatusInternalServerError)
	_, err := fx.catalog.Categories(ctx)
	var rejected *apiclient.RemoteRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusInternalServerError, rejected.Status)

	categories, err := fx.catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Len(t, categories, 2)
	assert.Equal(t, 2, fx.remote.callsTo(http.MethodGet, "/categories"))
}

func TestCatalogService_RejectsInvalidIDsLocally(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	for _, id := range []string{"", "  ", "undefined", "null"} {
		_, err := fx.catalog.Product(ctx, id)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "id %q", id)

		_, err = fx.catalog.SubCategoriesOf(ctx, id)
		require.ErrorAs(t, err, &verr)
	}
	assert.Zero(t, fx.remote.totalCalls())
}

func TestCatalogService_SearchRequiresTerm(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.catalog.Search(context.Background(), "   ", domain.ListParams{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Zero(t, fx.remote.totalCalls())
}

func TestCatalogService_NotFound(t *testing.T) {
	fx := newFixture(t)
	fx.remote.seed(storefrontSeed())

	_, err := fx.catalog.Product(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
}

func TestCatalogService_Taxonomy(t *testing.T) {
	fx := newFixture(t)
	fx.remote.seed(storefrontSeed())

	tax, err := fx.catalog.Taxonomy(context.Background())
	require.NoError(t, err)

	name, ok := tax.NameOf("c1")
	require.True(t, ok)
	assert.Equal(t, "Shoes", name)

	subs := tax.SubcategoriesOf("c1")
	require.Len(t, subs, 2)
	assert.Equal(t, "Sneakers", subs[0].Name)
	assert.Equal(t, "Boots", subs[1].Name)
}

func TestCatalogService_BrowseView(t *testing.T) {
	fx := newFixture(t)
	fx.remote.seed(storefrontSeed())
	ctx := context.Background()

	t.Run("whole shoes view", func(t *testing.T) {
		res, err := fx.catalog.BrowseView(ctx, ViewRequest{View: "shoes"})
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p2", "p3"}, productIDs(res.Products))
		assert.Equal(t, catalog.SortFeatured, res.Sort)
		assert.Equal(t, catalog.SelectAll, res.Selected)
		assert.True(t, decimal.NewFromInt(150).Equal(res.MaxPrice), "ceil of the highest price")
		assert.True(t, res.PriceRange.Min.IsZero())
		assert.True(t, res.PriceRange.Max.Equal(res.MaxPrice))
		assert.Equal(t, []catalog.Option{
			{Label: "All Shoes", Value: "all"},
			{Label: "Sneakers", Value: "Sneakers"},
			{Label: "Boots", Value: "Boots"},
		}, res.Filters)
	})

	t.Run("subcategory selection with sort", func(t *testing.T) {
		res, err := fx.catalog.BrowseView(ctx, ViewRequest{View: "shoes", Category: "Boots", Sort: "price-high"})
		require.NoError(t, err)
		assert.Equal(t, []string{"p2", "p3"}, productIDs(res.Products))
		assert.Equal(t, 2, res.Total)
	})

	t.Run("price range", func(t *testing.T) {
		min, max := decimal.NewFromInt(70), decimal.NewFromInt(120)
		res, err := fx.catalog.BrowseView(ctx, ViewRequest{View: "shoes", MinPrice: &min, MaxPrice: &max})
		require.NoError(t, err)
		assert.Equal(t, []string{"p1", "p3"}, productIDs(res.Products))
		assert.True(t, res.PriceRange.Max.Equal(max))
	})

	t.Run("upper bound only keeps default minimum", func(t *testing.T) {
		max := decimal.NewFromInt(60)
		res, err := fx.catalog.BrowseView(ctx, ViewRequest{View: "all", MaxPrice: &max})
		require.NoError(t, err)
		assert.Equal(t, []string{"p4"}, productIDs(res.Products))
		assert.True(t, res.PriceRange.Min.IsZero())
	})

	t.Run("inverted range is empty", func(t *testing.T) {
		min, max := decimal.NewFromInt(100), decimal.NewFromInt(10)
		res, err := fx.catalog.BrowseView(ctx, ViewRequest{View: "all", MinPrice: &min, MaxPrice: &max})
		require.NoError(t, err)
		assert.NotNil(t, res.Products)
		assert.Empty(t, res.Products)
	})

	t.Run("images are normalized", func(t *testing.T) {
		res, err := fx.catalog.BrowseView(ctx, ViewRequest{View: "shoes", Category: "Boots"})
		require.NoError(t, err)
		for _, p := range res.Products {
			switch p.ID {
			case "p2":
				assert.Equal(t, catalog.PlaceholderImage, p.Image)
				assert.Empty(t, p.Images)
			case "p3":
				assert.Equal(t, "/img/trail.jpg", p.Image)
			}
		}
	})

	t.Run("missing backing category", func(t *testing.T) {
		res, err := fx.catalog.BrowseView(ctx, ViewRequest{View: "accessories"})
		require.NoError(t, err)
		assert.Empty(t, res.Products)
		assert.True(t, decimal.NewFromInt(150).Equal(res.MaxPrice), "max price spans every loaded product")
	})

	// Every sub-test reuses the same cached catalog and taxonomy
	assert.Equal(t, 1, fx.remote.callsTo(http.MethodGet, "/products"))
	assert.Equal(t, 1, fx.remote.callsTo(http.MethodGet, "/categories"))
	assert.Equal(t, 1, fx.remote.callsTo(http.MethodGet, "/subcategories"))
}

func TestCatalogService_BrowseUnknownView(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.catalog.BrowseView(context.Background(), ViewRequest{View: "hats"})
	assert.ErrorIs(t, err, ErrUnknownView)
	assert.Zero(t, fx.remote.totalCalls())
}

func TestCatalogService_BrowseViewEmptyCatalog(t *testing.T) {
	fx := newFixture(t)

	res, err := fx.catalog.BrowseView(context.Background(), ViewRequest{View: "accessories"})
	require.NoError(t, err)
	assert.Empty(t, res.Products)
	assert.True(t, decimal.NewFromInt(100).Equal(res.MaxPrice), "fallback when nothing is loaded")
}

func TestCatalogService_ProductDetail(t *testing.T) {
	fx := newFixture(t)
	fx.remote.seed(storefrontSeed())
	ctx := context.Background()

	detail, err := fx.catalog.ProductDetail(ctx, "p3")
	require.NoError(t, err)
	assert.Equal(t, "Trail Boot", detail.Name)
	assert.Equal(t, "Shoes", detail.CategoryName)
	assert.Equal(t, "Boots", detail.SubCategoryName)
	assert.Equal(t, "/img/trail.jpg", detail.Image)
	assert.False(t, detail.HasDiscount)
	assert.Nil(t, detail.DiscountPercentage)
	assert.True(t, decimal.NewFromInt(120).Equal(detail.EffectivePrice))
}

func TestCatalogService_ProductDetailWithoutTaxonomy(t *testing.T) {
	fx := newFixture(t)
	fx.remote.seed(storefrontSeed())

	fx.remote.fail(http.MethodGet, "/categories", http.StatusServiceUnavailable)
	detail, err := fx.catalog.ProductDetail(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "—", detail.CategoryName)
	assert.Equal(t, "—", detail.SubCategoryName)
}

func TestCatalogService_EveryProductReadRestoresImages(t *testing.T) {
	fx := newFixture(t)
	fx.remote.seed(nil, nil, []fakeProduct{
		{ID: "p1", Name: "Runner", Price: 80, CategoryID: "c1", SubCategoryID: "s1", Images: []string{"a.jpg", "b.jpg"}},
		{ID: "p2", Name: "Slider", Price: 30, CategoryID: "c1", SubCategoryID: "s1"},
	})
	ctx := context.Background()

	lists := map[string]func() ([]domain.Product, error){
		"list": func() ([]domain.Product, error) {
			l, err := fx.catalog.ListProducts(ctx, domain.ListParams{})
			return l.Products, err
		},
		"trending": func() ([]domain.Product, error) { return fx.catalog.Trending(ctx, 8) },
		"new arrivals": func() ([]domain.Product, error) {
			return fx.catalog.NewArrivals(ctx, 8)
		},
		"search": func() ([]domain.Product, error) {
			l, err := fx.catalog.Search(ctx, "r", domain.ListParams{})
			return l.Products, err
		},
		"by category": func() ([]domain.Product, error) {
			l, err := fx.catalog.ProductsByCategory(ctx, "c1", domain.ListParams{})
			return l.Products, err
		},
		"by subcategory": func() ([]domain.Product, error) {
			l, err := fx.catalog.ProductsBySubCategory(ctx, "s1", domain.ListParams{})
			return l.Products, err
		},
		"single": func() ([]domain.Product, error) {
			a, err := fx.catalog.Product(ctx, "p1")
			if err != nil {
				return nil, err
			}
			b, err := fx.catalog.Product(ctx, "p2")
			return []domain.Product{a, b}, err
		},
	}

	for name, load := range lists {
		t.Run(name, func(t *testing.T) {
			products, err := load()
			require.NoError(t, err)
			require.Len(t, products, 2)

			assert.Equal(t, "a.jpg", products[0].Image)
			assert.Equal(t, []string{"a.jpg", "b.jpg"}, products[0].Images)
			assert.Equal(t, catalog.PlaceholderImage, products[1].Image)
			assert.Equal(t, []string{}, products[1].Images)
		})
	}
}
