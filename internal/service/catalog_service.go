package service

import (
	"context"
	"fmt"
	"strings"

	"nesswear/internal/cache"
	"nesswear/internal/catalog"
	"nesswear/internal/domain"
	"nesswear/internal/repository"
	"nesswear/internal/taxonomy"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultFetchLimit is the page size used to load the whole catalog
const DefaultFetchLimit = 1000

// CatalogService defines the read side of the storefront. Every remote read
// goes through the catalog cache.
type CatalogService interface {
	ListProducts(ctx context.Context, params domain.ListParams) (domain.ProductList, error)
	AllProducts(ctx context.Context) ([]domain.Product, error)
	Trending(ctx context.Context, limit int) ([]domain.Product, error)
	NewArrivals(ctx context.Context, limit int) ([]domain.Product, error)
	Search(ctx context.Context, query string, params domain.ListParams) (domain.ProductList, error)
	ProductsByCategory(ctx context.Context, categoryID string, params domain.ListParams) (domain.ProductList, error)
	ProductsBySubCategory(ctx context.Context, subCategoryID string, params domain.ListParams) (domain.ProductList, error)
	Product(ctx context.Context, id string) (domain.Product, error)
	ProductDetail(ctx context.Context, id string) (*ProductDetail, error)

	Categories(ctx context.Context) ([]domain.Category, error)
	Category(ctx context.Context, id string) (domain.Category, error)
	SubCategories(ctx context.Context) ([]domain.SubCategory, error)
	SubCategoriesOf(ctx context.Context, categoryID string) (domain.CategorySubCategories, error)
	SubCategory(ctx context.Context, id string) (domain.SubCategory, error)
	Taxonomy(ctx context.Context) (*taxonomy.Taxonomy, error)

	BrowseView(ctx context.Context, req ViewRequest) (*ViewResult, error)
}

// ViewRequest is one storefront listing query
type ViewRequest struct {
	View     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Sort     string
}

// ViewResult is a display-ready storefront listing
type ViewResult struct {
	View       string             `json:"view"`
	Selected   string             `json:"category"`
	Sort       catalog.SortKey    `json:"sort"`
	MaxPrice   decimal.Decimal    `json:"maxPrice"`
	PriceRange catalog.PriceRange `json:"priceRange"`
	Filters    []catalog.Option   `json:"filters"`
	Total      int                `json:"total"`
	Products   []domain.Product   `json:"products"`
}

// ProductDetail is a product with its resolved names and derived pricing
type ProductDetail struct {
	domain.Product
	CategoryName       string           `json:"categoryName"`
	SubCategoryName    string           `json:"subCategoryName"`
	EffectivePrice     decimal.Decimal  `json:"effectivePrice"`
	HasDiscount        bool             `json:"hasDiscount"`
	DiscountPercentage *decimal.Decimal `json:"discountPercentage"`
	Savings            decimal.Decimal  `json:"savings"`
}

type catalogService struct {
	products      repository.ProductRepository
	categories    repository.CategoryRepository
	subcategories repository.SubCategoryRepository
	cache         *cache.Cache
	fetchLimit    int
	logger        *zap.Logger
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	subcategories repository.SubCategoryRepository,
	c *cache.Cache,
	fetchLimit int,
	logger *zap.Logger,
) CatalogService {
	if fetchLimit <= 0 {
		fetchLimit = DefaultFetchLimit
	}
	return &catalogService{
		products:      products,
		categories:    categories,
		subcategories: subcategories,
		cache:         c,
		fetchLimit:    fetchLimit,
		logger:        logger,
	}
}

func (s *catalogService) ListProducts(ctx context.Context, params domain.ListParams) (domain.ProductList, error) {
	params = params.WithDefaults()
	return cache.Query(ctx, s.cache, productListKey(params), func(ctx context.Context) (domain.ProductList, error) {
		return withImages(s.products.List(ctx, params))
	})
}

// withImages restores the image invariant on a fetched list so the cached
// value already carries it.
func withImages(list domain.ProductList, err error) (domain.ProductList, error) {
	if err != nil {
		return domain.ProductList{}, err
	}
	list.Products = catalog.NormalizeImages(list.Products)
	return list, nil
}

func withProductImages(products []domain.Product, err error) ([]domain.Product, error) {
	if err != nil {
		return nil, err
	}
	return catalog.NormalizeImages(products), nil
}

// AllProducts loads the catalog in one page of fetchLimit products
func (s *catalogService) AllProducts(ctx context.Context) ([]domain.Product, error) {
	list, err := s.ListProducts(ctx, domain.ListParams{Page: 1, Limit: s.fetchLimit})
	if err != nil {
		return nil, err
	}
	if p, ok := list.Pagination(); ok && p.HasNext {
		s.logger.Warn("Catalog larger than fetch limit, views are truncated",
			zap.Int("limit", s.fetchLimit),
			zap.Int("total", p.Total),
		)
	}
	return list.Products, nil
}

func (s *catalogService) Trending(ctx context.Context, limit int) ([]domain.Product, error) {
	return cache.Query(ctx, s.cache, trendingKey(limit), func(ctx context.Context) ([]domain.Product, error) {
		return withProductImages(s.products.Trending(ctx, limit))
	})
}

func (s *catalogService) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	return cache.Query(ctx, s.cache, newArrivalsKey(limit), func(ctx context.Context) ([]domain.Product, error) {
		return withProductImages(s.products.NewArrivals(ctx, limit))
	})
}

func (s *catalogService) Search(ctx context.Context, query string, params domain.ListParams) (domain.ProductList, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		verr := &ValidationError{}
		verr.add("q", "A search term is required")
		return domain.ProductList{}, verr
	}
	params = domain.ListParams{Page: params.Page, Limit: params.Limit}
	return cache.Query(ctx, s.cache, searchKey(query, params), func(ctx context.Context) (domain.ProductList, error) {
		return withImages(s.products.Search(ctx, query, params))
	})
}

func (s *catalogService) ProductsByCategory(ctx context.Context, categoryID string, params domain.ListParams) (domain.ProductList, error) {
	if err := checkID(categoryID); err != nil {
		return domain.ProductList{}, err
	}
	return cache.Query(ctx, s.cache, categoryProductsKey(categoryID, params), func(ctx context.Context) (domain.ProductList, error) {
		return withImages(s.products.ByCategory(ctx, categoryID, params))
	})
}

func (s *catalogService) ProductsBySubCategory(ctx context.Context, subCategoryID string, params domain.ListParams) (domain.ProductList, error) {
	if err := checkID(subCategoryID); err != nil {
		return domain.ProductList{}, err
	}
	return cache.Query(ctx, s.cache, subCategoryProductsKey(subCategoryID, params), func(ctx context.Context) (domain.ProductList, error) {
		return withImages(s.products.BySubCategory(ctx, subCategoryID, params))
	})
}

func (s *catalogService) Product(ctx context.Context, id string) (domain.Product, error) {
	if err := checkID(id); err != nil {
		return domain.Product{}, err
	}
	return cache.Query(ctx, s.cache, productKey(id), func(ctx context.Context) (domain.Product, error) {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			return domain.Product{}, err
		}
		return catalog.NormalizeImage(*p), nil
	})
}

// ProductDetail resolves names through the taxonomy. A taxonomy that cannot
// be loaded leaves the names unresolved rather than failing the page.
func (s *catalogService) ProductDetail(ctx context.Context, id string) (*ProductDetail, error) {
	p, err := s.Product(ctx, id)
	if err != nil {
		return nil, err
	}

	var names taxonomy.Names
	if tax, err := s.Taxonomy(ctx); err != nil {
		s.logger.Warn("Failed to load taxonomy for product detail", zap.String("product_id", id), zap.Error(err))
		names = taxonomy.New(nil, nil).ResolveProductCategoryNames(p)
	} else {
		names = tax.ResolveProductCategoryNames(p)
	}

	detail := &ProductDetail{
		Product:         p,
		CategoryName:    names.DisplayCategory(),
		SubCategoryName: names.DisplaySubCategory(),
		EffectivePrice:  p.EffectivePrice(),
		HasDiscount:     p.HasDiscount(),
		Savings:         p.Savings(),
	}
	if pct, ok := p.Discount(); ok {
		detail.DiscountPercentage = &pct
	}
	return detail, nil
}

func (s *catalogService) Categories(ctx context.Context) ([]domain.Category, error) {
	return cache.Query(ctx, s.cache, categoriesKey(), func(ctx context.Context) ([]domain.Category, error) {
		return s.categories.List(ctx)
	})
}

func (s *catalogService) Category(ctx context.Context, id string) (domain.Category, error) {
	if err := checkID(id); err != nil {
		return domain.Category{}, err
	}
	return cache.Query(ctx, s.cache, categoryKey(id), func(ctx context.Context) (domain.Category, error) {
		c, err := s.categories.FindByID(ctx, id)
		if err != nil {
			return domain.Category{}, err
		}
		return *c, nil
	})
}

func (s *catalogService) SubCategories(ctx context.Context) ([]domain.SubCategory, error) {
	return cache.Query(ctx, s.cache, subCategoriesKey(), func(ctx context.Context) ([]domain.SubCategory, error) {
		return s.subcategories.List(ctx)
	})
}

func (s *catalogService) SubCategoriesOf(ctx context.Context, categoryID string) (domain.CategorySubCategories, error) {
	if err := checkID(categoryID); err != nil {
		return domain.CategorySubCategories{}, err
	}
	return cache.Query(ctx, s.cache, categorySubCategoriesKey(categoryID), func(ctx context.Context) (domain.CategorySubCategories, error) {
		out, err := s.categories.SubCategories(ctx, categoryID)
		if err != nil {
			return domain.CategorySubCategories{}, err
		}
		return *out, nil
	})
}

func (s *catalogService) SubCategory(ctx context.Context, id string) (domain.SubCategory, error) {
	if err := checkID(id); err != nil {
		return domain.SubCategory{}, err
	}
	return cache.Query(ctx, s.cache, subCategoryKey(id), func(ctx context.Context) (domain.SubCategory, error) {
		sub, err := s.subcategories.FindByID(ctx, id)
		if err != nil {
			return domain.SubCategory{}, err
		}
		return *sub, nil
	})
}

// Taxonomy assembles the hierarchy from the cached category and subcategory
// lists. The result is a fresh value the caller may modify.
func (s *catalogService) Taxonomy(ctx context.Context) (*taxonomy.Taxonomy, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	subcategories, err := s.SubCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load subcategories: %w", err)
	}
	return taxonomy.New(categories, subcategories), nil
}

// BrowseView loads the catalog and taxonomy, derives the price slider from
// the loaded products and runs the query pipeline for the view.
func (s *catalogService) BrowseView(ctx context.Context, req ViewRequest) (*ViewResult, error) {
	view, ok := catalog.LookupView(req.View)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, req.View)
	}

	products, err := s.AllProducts(ctx)
	if err != nil {
		return nil, err
	}
	tax, err := s.Taxonomy(ctx)
	if err != nil {
		return nil, err
	}

	prices := catalog.NewPriceRangeControl(view.MaxPriceFallback)
	prices.Sync(products)
	if req.MinPrice != nil || req.MaxPrice != nil {
		selected := prices.Range()
		if req.MinPrice != nil {
			selected.Min = *req.MinPrice
		}
		if req.MaxPrice != nil {
			selected.Max = *req.MaxPrice
		}
		prices.Select(selected.Min, selected.Max)
	}

	selection := strings.TrimSpace(req.Category)
	if selection == "" {
		selection = catalog.SelectAll
	}

	spec := view.Resolve(tax, selection)
	priceRange := prices.Range()
	spec.PriceRange = &priceRange
	spec.Sort = catalog.ParseSortKey(req.Sort)

	result := catalog.Run(products, spec)

	s.logger.Debug("Storefront view resolved",
		zap.String("view", view.Name),
		zap.String("category", selection),
		zap.String("filter_mode", string(spec.Category.Mode)),
		zap.Int("products", len(result)),
	)

	return &ViewResult{
		View:       view.Name,
		Selected:   selection,
		Sort:       spec.Sort,
		MaxPrice:   prices.Max(),
		PriceRange: priceRange,
		Filters:    view.FilterOptions(tax),
		Total:      len(result),
		Products:   result,
	}, nil
}
