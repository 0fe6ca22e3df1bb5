package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"nesswear/internal/domain"
)

// SubCategoryRepository defines the interface for subcategory data access
type SubCategoryRepository interface {
	List(ctx context.Context) ([]domain.SubCategory, error)
	FindByID(ctx context.Context, id string) (*domain.SubCategory, error)
	Create(ctx context.Context, input domain.SubCategoryInput) (*domain.SubCategory, error)
	Update(ctx context.Context, id string, input domain.SubCategoryInput) (*domain.SubCategory, error)
	Delete(ctx context.Context, id string) error
}

type subCategoryRepository struct {
	client RemoteClient
}

// NewSubCategoryRepository creates a new instance of SubCategoryRepository
func NewSubCategoryRepository(client RemoteClient) SubCategoryRepository {
	return &subCategoryRepository{client: client}
}

func (r *subCategoryRepository) List(ctx context.Context) ([]domain.SubCategory, error) {
	raw, err := r.client.Get(ctx, pathOf("subcategories"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list subcategories: %w", err)
	}

	var subs []domain.SubCategory
	if err := decodeCollection(raw, "subcategories", &subs); err != nil {
		return nil, fmt.Errorf("failed to decode subcategories: %w", err)
	}
	if subs == nil {
		subs = []domain.SubCategory{}
	}
	return subs, nil
}

func (r *subCategoryRepository) FindByID(ctx context.Context, id string) (*domain.SubCategory, error) {
	raw, err := r.client.Get(ctx, pathOf("subcategories", id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find subcategory: %w", wrapNotFound(err, ErrSubCategoryNotFound))
	}
	return decodeSubCategory(raw)
}

func (r *subCategoryRepository) Create(ctx context.Context, input domain.SubCategoryInput) (*domain.SubCategory, error) {
	raw, err := r.client.Post(ctx, pathOf("subcategories"), input)
	if err != nil {
		return nil, fmt.Errorf("failed to create subcategory: %w", err)
	}
	return decodeSubCategory(raw)
}

func (r *subCategoryRepository) Update(ctx context.Context, id string, input domain.SubCategoryInput) (*domain.SubCategory, error) {
	raw, err := r.client.Put(ctx, pathOf("subcategories", id), input)
	if err != nil {
		return nil, fmt.Errorf("failed to update subcategory: %w", wrapNotFound(err, ErrSubCategoryNotFound))
	}
	return decodeSubCategory(raw)
}

func (r *subCategoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Delete(ctx, pathOf("subcategories", id)); err != nil {
		return fmt.Errorf("failed to delete subcategory: %w", wrapNotFound(err, ErrSubCategoryNotFound))
	}
	return nil
}

func decodeSubCategory(raw json.RawMessage) (*domain.SubCategory, error) {
	var s domain.SubCategory
	if err := decodeEntity(raw, "subcategory", &s); err != nil {
		return nil, fmt.Errorf("failed to decode subcategory: %w", err)
	}
	return &s, nil
}
