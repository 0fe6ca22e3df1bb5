package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"nesswear/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	List(ctx context.Context, params domain.ListParams) (domain.ProductList, error)
	Trending(ctx context.Context, limit int) ([]domain.Product, error)
	NewArrivals(ctx context.Context, limit int) ([]domain.Product, error)
	Search(ctx context.Context, query string, params domain.ListParams) (domain.ProductList, error)
	ByCategory(ctx context.Context, categoryID string, params domain.ListParams) (domain.ProductList, error)
	BySubCategory(ctx context.Context, subCategoryID string, params domain.ListParams) (domain.ProductList, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, input domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	client RemoteClient
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(client RemoteClient) ProductRepository {
	return &productRepository{client: client}
}

// List fetches GET /products. Both the bare array and the object shape are
// accepted.
func (r *productRepository) List(ctx context.Context, params domain.ListParams) (domain.ProductList, error) {
	raw, err := r.client.Get(ctx, pathOf("products"), params.Values())
	if err != nil {
		return domain.ProductList{}, fmt.Errorf("failed to list products: %w", err)
	}
	return decodeList(raw)
}

func (r *productRepository) Trending(ctx context.Context, limit int) ([]domain.Product, error) {
	raw, err := r.client.Get(ctx, pathOf("products", "trending"), limitParams(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch trending products: %w", err)
	}
	list, err := decodeList(raw)
	if err != nil {
		return nil, err
	}
	return list.Products, nil
}

func (r *productRepository) NewArrivals(ctx context.Context, limit int) ([]domain.Product, error) {
	raw, err := r.client.Get(ctx, pathOf("products", "new-arrivals"), limitParams(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch new arrivals: %w", err)
	}
	list, err := decodeList(raw)
	if err != nil {
		return nil, err
	}
	return list.Products, nil
}

// Search fetches GET /products/search?q=...; only paging is forwarded
func (r *productRepository) Search(ctx context.Context, query string, params domain.ListParams) (domain.ProductList, error) {
	values := url.Values{}
	values.Set("q", query)
	if params.Page > 0 {
		values.Set("page", strconv.Itoa(params.Page))
	}
	if params.Limit > 0 {
		values.Set("limit", strconv.Itoa(params.Limit))
	}

	raw, err := r.client.Get(ctx, pathOf("products", "search"), values)
	if err != nil {
		return domain.ProductList{}, fmt.Errorf("failed to search products: %w", err)
	}
	return decodeList(raw)
}

func (r *productRepository) ByCategory(ctx context.Context, categoryID string, params domain.ListParams) (domain.ProductList, error) {
	raw, err := r.client.Get(ctx, pathOf("categories", categoryID, "products"), params.Values())
	if err != nil {
		return domain.ProductList{}, fmt.Errorf("failed to list category products: %w", wrapNotFound(err, ErrCategoryNotFound))
	}
	return decodeList(raw)
}

func (r *productRepository) BySubCategory(ctx context.Context, subCategoryID string, params domain.ListParams) (domain.ProductList, error) {
	raw, err := r.client.Get(ctx, pathOf("subcategories", subCategoryID, "products"), params.Values())
	if err != nil {
		return domain.ProductList{}, fmt.Errorf("failed to list subcategory products: %w", wrapNotFound(err, ErrSubCategoryNotFound))
	}
	return decodeList(raw)
}

func (r *productRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	raw, err := r.client.Get(ctx, pathOf("products", id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", wrapNotFound(err, ErrProductNotFound))
	}
	return decodeProduct(raw)
}

func (r *productRepository) Create(ctx context.Context, input domain.ProductInput) (*domain.Product, error) {
	raw, err := r.client.Post(ctx, pathOf("products"), input)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return decodeProduct(raw)
}

func (r *productRepository) Update(ctx context.Context, id string, input domain.ProductInput) (*domain.Product, error) {
	raw, err := r.client.Put(ctx, pathOf("products", id), input)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", wrapNotFound(err, ErrProductNotFound))
	}
	return decodeProduct(raw)
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.client.Delete(ctx, pathOf("products", id)); err != nil {
		return fmt.Errorf("failed to delete product: %w", wrapNotFound(err, ErrProductNotFound))
	}
	return nil
}

func decodeList(raw json.RawMessage) (domain.ProductList, error) {
	var list domain.ProductList
	if err := json.Unmarshal(raw, &list); err != nil {
		return domain.ProductList{}, fmt.Errorf("failed to decode product list: %w", err)
	}
	return list, nil
}

func decodeProduct(raw json.RawMessage) (*domain.Product, error) {
	var p domain.Product
	if err := decodeEntity(raw, "product", &p); err != nil {
		return nil, fmt.Errorf("failed to decode product: %w", err)
	}
	return &p, nil
}

func limitParams(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}
