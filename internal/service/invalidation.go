package service

import (
	"nesswear/internal/cache"
	"nesswear/internal/domain"

	"go.uber.org/zap"
)

// invalidator removes every cache entry a successful mutation could have
// made stale. All removals are synchronous.
type invalidator struct {
	cache  *cache.Cache
	logger *zap.Logger
}

func (i invalidator) drop(keys ...cache.Key) {
	removed := 0
	for _, k := range keys {
		removed += i.cache.Invalidate(k)
	}
	i.logger.Debug("Invalidated cache after mutation",
		zap.Int("prefixes", len(keys)),
		zap.Int("removed", removed),
	)
}

// product covers every product list (including trending, new arrivals,
// search and scoped lists) and the product's own entry.
func (i invalidator) product(id string) {
	keys := []cache.Key{cache.NewKey(keyProducts)}
	if id != "" {
		keys = append(keys, productKey(id))
	}
	i.drop(keys...)
}

// subCategory covers the subcategory lists, its own entry and the owning
// categories, which may embed subcategory summaries. With no known owner
// every category entry goes.
func (i invalidator) subCategory(id string, owners ...string) {
	keys := []cache.Key{subCategoriesKey(), categoriesKey(), subCategoryKey(id)}

	known := false
	for _, owner := range owners {
		if owner == "" {
			continue
		}
		known = true
		keys = append(keys, categorySubCategoriesKey(owner), categoryKey(owner))
	}
	if !known {
		keys = append(keys, cache.NewKey(keySubCategories, keyCategory), cache.NewKey(keyCategory))
	}
	i.drop(keys...)
}

// subCategoryDeleted also drops every product entry: products under the
// subcategory are gone with it.
func (i invalidator) subCategoryDeleted(id string, owners ...string) {
	i.subCategory(id, owners...)
	i.drop(cache.NewKey(keyProducts), cache.NewKey(keyProduct))
}

func (i invalidator) category(id string) {
	i.drop(categoriesKey(), categoryKey(id))
}

// categoryDeleted applies the subcategory deletion rules for every owned
// subcategory. When the owned set could not be resolved every subcategory
// entry is dropped instead.
func (i invalidator) categoryDeleted(id string, owned []domain.SubCategory, resolved bool) {
	if resolved {
		for _, s := range owned {
			i.subCategoryDeleted(s.ID, id)
		}
	} else {
		i.drop(cache.NewKey(keySubCategory))
	}
	i.drop(
		subCategoriesKey(),
		categorySubCategoriesKey(id),
		categoriesKey(),
		categoryKey(id),
		cache.NewKey(keyProducts),
		cache.NewKey(keyProduct),
	)
}
