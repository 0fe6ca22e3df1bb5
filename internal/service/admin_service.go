package service

import (
	"context"
	"fmt"

	"nesswear/internal/cache"
	"nesswear/internal/catalog"
	"nesswear/internal/domain"
	"nesswear/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// AdminService defines catalog mutations. Input is validated before any
// request is sent, and every successful mutation has invalidated the cache
// entries it affects by the time the call returns.
type AdminService interface {
	CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, input domain.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, input domain.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateSubCategory(ctx context.Context, input domain.SubCategoryInput) (*domain.SubCategory, error)
	UpdateSubCategory(ctx context.Context, id string, input domain.SubCategoryInput) (*domain.SubCategory, error)
	DeleteSubCategory(ctx context.Context, id string) error

	// Dashboard lists, read through the catalog cache and filtered locally
	Products(ctx context.Context, filter catalog.AdminFilter) ([]domain.Product, error)
	Categories(ctx context.Context, filter catalog.AdminFilter) ([]domain.Category, error)
	SubCategories(ctx context.Context, filter catalog.AdminFilter) ([]domain.SubCategory, error)
}

type adminService struct {
	products      repository.ProductRepository
	categories    repository.CategoryRepository
	subcategories repository.SubCategoryRepository
	catalog       CatalogService
	invalidate    invalidator
	logger        *zap.Logger
}

// NewAdminService creates a new instance of AdminService. The catalog
// service must share c so owner lookups see the same entries that get
// invalidated.
func NewAdminService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	subcategories repository.SubCategoryRepository,
	catalog CatalogService,
	c *cache.Cache,
	logger *zap.Logger,
) AdminService {
	return &adminService{
		products:      products,
		categories:    categories,
		subcategories: subcategories,
		catalog:       catalog,
		invalidate:    invalidator{cache: c, logger: logger},
		logger:        logger,
	}
}

func (s *adminService) CreateProduct(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	input = input.Normalize()
	if err := validateProduct(input, true); err != nil {
		return nil, err
	}

	product, err := s.products.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.invalidate.product(product.ID)

	s.logger.Info("Product created", zap.String("product_id", product.ID))
	return product, nil
}

func (s *adminService) UpdateProduct(ctx context.Context, id string, input domain.ProductInput) (*domain.Product, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	input = input.Normalize()
	if err := validateProduct(input, false); err != nil {
		return nil, err
	}

	product, err := s.products.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	s.invalidate.product(id)

	s.logger.Info("Product updated", zap.String("product_id", id))
	return product, nil
}

func (s *adminService) DeleteProduct(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	s.invalidate.product(id)

	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

func (s *adminService) CreateCategory(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	input = input.Normalize()
	verr := &ValidationError{}
	requireText(verr, "name", input.Name, true)
	checkStruct(input, verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	category, err := s.categories.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	s.invalidate.category(category.ID)

	s.logger.Info("Category created", zap.String("category_id", category.ID))
	return category, nil
}

func (s *adminService) UpdateCategory(ctx context.Context, id string, input domain.CategoryInput) (*domain.Category, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	input = input.Normalize()
	verr := &ValidationError{}
	requireText(verr, "name", input.Name, false)
	checkStruct(input, verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	category, err := s.categories.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	s.invalidate.category(id)

	s.logger.Info("Category updated", zap.String("category_id", id))
	return category, nil
}

// DeleteCategory resolves the owned subcategories before the delete, since
// afterwards the remote service no longer knows them.
func (s *adminService) DeleteCategory(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	var owned []domain.SubCategory
	resolved := false
	if tax, err := s.catalog.Taxonomy(ctx); err != nil {
		s.logger.Warn("Failed to resolve subcategories before category delete",
			zap.String("category_id", id),
			zap.Error(err),
		)
	} else {
		owned = tax.Clone().RemoveCategory(id)
		resolved = true
	}

	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	s.invalidate.categoryDeleted(id, owned, resolved)

	s.logger.Info("Category deleted",
		zap.String("category_id", id),
		zap.Int("subcategories", len(owned)),
		zap.Bool("resolved", resolved),
	)
	return nil
}

func (s *adminService) CreateSubCategory(ctx context.Context, input domain.SubCategoryInput) (*domain.SubCategory, error) {
	input = input.Normalize()
	verr := &ValidationError{}
	requireText(verr, "name", input.Name, true)
	requireID(verr, "categoryId", input.CategoryID, true)
	checkStruct(input, verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	sub, err := s.subcategories.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}
	s.invalidate.subCategory(sub.ID, *input.CategoryID, sub.CategoryID.String())

	s.logger.Info("Subcategory created", zap.String("subcategory_id", sub.ID))
	return sub, nil
}

// UpdateSubCategory invalidates both the previous and the new owner, so a
// move between categories leaves neither listing stale.
func (s *adminService) UpdateSubCategory(ctx context.Context, id string, input domain.SubCategoryInput) (*domain.SubCategory, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	input = input.Normalize()
	verr := &ValidationError{}
	requireText(verr, "name", input.Name, false)
	requireID(verr, "categoryId", input.CategoryID, false)
	checkStruct(input, verr)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	previous, known := s.ownerOf(id)

	sub, err := s.subcategories.Update(ctx, id, input)
	if err != nil {
		return nil, fmt.Errorf("failed to update subcategory: %w", err)
	}

	if known {
		owners := []string{previous, sub.CategoryID.String()}
		if input.CategoryID != nil {
			owners = append(owners, *input.CategoryID)
		}
		s.invalidate.subCategory(id, owners...)
	} else {
		s.invalidate.subCategory(id)
	}

	s.logger.Info("Subcategory updated", zap.String("subcategory_id", id))
	return sub, nil
}

func (s *adminService) DeleteSubCategory(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	owner, known := s.ownerOf(id)

	if err := s.subcategories.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", err)
	}
	if known {
		s.invalidate.subCategoryDeleted(id, owner)
	} else {
		s.invalidate.subCategoryDeleted(id)
	}

	s.logger.Info("Subcategory deleted", zap.String("subcategory_id", id))
	return nil
}

// Products filters the catalog as loaded by AllProducts
func (s *adminService) Products(ctx context.Context, filter catalog.AdminFilter) ([]domain.Product, error) {
	products, err := s.catalog.AllProducts(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.FilterProducts(products, filter), nil
}

func (s *adminService) Categories(ctx context.Context, filter catalog.AdminFilter) ([]domain.Category, error) {
	categories, err := s.catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.FilterCategories(categories, filter), nil
}

func (s *adminService) SubCategories(ctx context.Context, filter catalog.AdminFilter) ([]domain.SubCategory, error) {
	subcategories, err := s.catalog.SubCategories(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.FilterSubCategories(subcategories, filter), nil
}

// ownerOf looks up the category currently owning a subcategory. Only a
// value already in the cache is used; a mutation never waits on a read.
func (s *adminService) ownerOf(subCategoryID string) (string, bool) {
	if sub, ok := cache.Lookup[domain.SubCategory](s.invalidate.cache, subCategoryKey(subCategoryID)); ok && sub.CategoryID != "" {
		return sub.CategoryID.String(), true
	}
	if subs, ok := cache.Lookup[[]domain.SubCategory](s.invalidate.cache, subCategoriesKey()); ok {
		for _, sub := range subs {
			if sub.ID == subCategoryID && sub.CategoryID != "" {
				return sub.CategoryID.String(), true
			}
		}
	}
	return "", false
}

// validateProduct applies the product rules. On create the required fields
// must be present; on update only the fields that were sent are checked.
func validateProduct(in domain.ProductInput, create bool) error {
	verr := &ValidationError{}
	requireText(verr, "name", in.Name, create)
	requireText(verr, "description", in.Description, create)
	requirePositive(verr, "price", in.Price, create)
	requireID(verr, "categoryId", in.CategoryID, create)
	requireID(verr, "subCategoryId", in.SubCategoryID, create)

	if in.OfferPrice != nil && in.OfferPrice.IsNegative() {
		verr.add("offerPrice", "Offer price cannot be negative")
	}
	if d := in.DiscountPercentage; d != nil && (d.IsNegative() || d.GreaterThan(decimal.NewFromInt(100))) {
		verr.add("discountPercentage", "Discount must be between 0 and 100")
	}

	checkStruct(in, verr)
	return verr.orNil()
}

func requireText(verr *ValidationError, field string, v *string, required bool) {
	switch {
	case v == nil:
		if required {
			verr.add(field, "This field is required")
		}
	case *v == "":
		verr.add(field, "This field cannot be empty")
	}
}

func requireID(verr *ValidationError, field string, v *string, required bool) {
	switch {
	case v == nil:
		if required {
			verr.add(field, "This field is required")
		}
	case !validID(*v):
		verr.add(field, "A valid id is required")
	}
}

func requirePositive(verr *ValidationError, field string, v *decimal.Decimal, required bool) {
	switch {
	case v == nil:
		if required {
			verr.add(field, "This field is required")
		}
	case !v.IsPositive():
		verr.add(field, "Value must be greater than 0")
	}
}
