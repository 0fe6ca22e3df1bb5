package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nesswear/internal/domain"
)

var (
	ErrCategoryNotFound    = errors.New("category not found")
	ErrSubCategoryNotFound = errors.New("subcategory not found")
)

// CategoryRepository defines the interface for category data access
type CategoryRepository interface {
	List(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	SubCategories(ctx context.Context, categoryID string) (*domain.CategorySubCategories, error)
	Create(ctx context.Context, input domain.CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id string, input domain.CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	client RemoteClient
}

// NewCategoryRepository creates a new instance of CategoryRepository
func NewCategoryRepository(client RemoteClient) CategoryRepository {
	return &categoryRepository{client: client}
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	raw, err := r.client.Get(ctx, pathOf("categories"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	var categories []domain.Category
	if err := decodeCollection(raw, "categories", &categories); err != nil {
		return nil, fmt.Errorf("failed to decode categories: %w", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*domain.Category, error) {
	raw, err := r.client.Get(ctx, pathOf("categories", id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find category: %w", wrapNotFound(err, ErrCategoryNotFound))
	}
	return decodeCategory(raw)
}

// SubCategories fetches GET /categories/{id}/subcategories
func (r *categoryRepository) SubCategories(ctx context.Context, categoryID string) (*domain.CategorySubCategories, error) {
	raw, err := r.client.Get(ctx, pathOf("categories", categoryID, "subcategories"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list category subcategories: %w", wrapNotFound(err, ErrCategoryNotFound))
	}

	var out domain.CategorySubCategories
	if err := json.Unmarshal(raw, &out); err != nil {
		// Some deployments answer with the bare subcategory array
		var subs []domain.SubCategory
		if arrErr := json.Unmarshal(raw, &subs); arrErr != nil {
			return nil, fmt.Errorf("failed to decode category subcategories: %w", err)
		}
		out.SubCategories = subs
	}
	if out.SubCategories == nil {
		out.SubCategories = []domain.SubCategory{}
	}
	return &out, nil
}

func (r *categoryRepository) Create(ctx context.Context, input domain.CategoryInput) (*domain.Category, error) {
	raw, err := r.client.Post(ctx, pathOf("categories"), input)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return decodeCategory(raw)
}

func (r *categoryRepository) Update(ctx context.Context, id string, input domain.CategoryInput) (*domain.Category, error) {
	raw, err := r.client.Put(ctx, pathOf("categories", id), input)
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", wrapNotFound(err, ErrCategoryNotFound))
	}
	return decodeCategory(raw)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Delete(ctx, pathOf("categories", id)); err != nil {
		return fmt.Errorf("failed to delete category: %w", wrapNotFound(err, ErrCategoryNotFound))
	}
	return nil
}

func decodeCategory(raw json.RawMessage) (*domain.Category, error) {
	var c domain.Category
	if err := decodeEntity(raw, "category", &c); err != nil {
		return nil, fmt.Errorf("failed to decode category: %w", err)
	}
	return &c, nil
}

// decodeCollection accepts a bare array or {"<key>": [...]}
func decodeCollection(raw json.RawMessage, key string, v any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		if inner, ok := fields[key]; ok {
			return json.Unmarshal(inner, v)
		}
	}
	return json.Unmarshal(raw, v)
}
