package service

import (
	"nesswear/internal/cache"
	"nesswear/internal/domain"
)

// Cache key roots. Every product list key starts with keyProducts so one
// prefix invalidation covers lists, trending, new arrivals, search results
// and category or subcategory scoped lists.
const (
	keyProducts      = "products"
	keyProduct       = "product"
	keyCategories    = "categories"
	keyCategory      = "category"
	keySubCategories = "subcategories"
	keySubCategory   = "subcategory"
)

func productListKey(params domain.ListParams) cache.Key {
	return cache.NewKey(keyProducts, params)
}

func trendingKey(limit int) cache.Key {
	return cache.NewKey(keyProducts, "trending", limit)
}

func newArrivalsKey(limit int) cache.Key {
	return cache.NewKey(keyProducts, "new-arrivals", limit)
}

func searchKey(q string, params domain.ListParams) cache.Key {
	return cache.NewKey(keyProducts, "search", q, params)
}

func categoryProductsKey(categoryID string, params domain.ListParams) cache.Key {
	return cache.NewKey(keyProducts, keyCategory, categoryID, params)
}

func subCategoryProductsKey(subCategoryID string, params domain.ListParams) cache.Key {
	return cache.NewKey(keyProducts, keySubCategory, subCategoryID, params)
}

func productKey(id string) cache.Key {
	return cache.NewKey(keyProduct, id)
}

func categoriesKey() cache.Key {
	return cache.NewKey(keyCategories)
}

func categoryKey(id string) cache.Key {
	return cache.NewKey(keyCategory, id)
}

func subCategoriesKey() cache.Key {
	return cache.NewKey(keySubCategories)
}

func categorySubCategoriesKey(categoryID string) cache.Key {
	return cache.NewKey(keySubCategories, keyCategory, categoryID)
}

func subCategoryKey(id string) cache.Key {
	return cache.NewKey(keySubCategory, id)
}
