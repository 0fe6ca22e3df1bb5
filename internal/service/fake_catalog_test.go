package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"

	"nesswear/internal/apiclient"
	"nesswear/internal/cache"
	"nesswear/internal/config"
	"nesswear/internal/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fakeCategory struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type fakeSubCategory struct {
	ID         string `json:"_id"`
	CategoryID string `json:"categoryId"`
	Name       string `json:"name"`
}

type fakeProduct struct {
	ID            string   `json:"_id"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	CategoryID    string   `json:"categoryId"`
	SubCategoryID string   `json:"subCategoryId"`
	IsNewArrival  bool     `json:"isNewArrival"`
	IsTrending    bool     `json:"isTrending"`
	Images        []string `json:"images,omitempty"`
}

// fakeCatalog is an in-memory remote catalog that cascades deletes the way
// the real service does and counts every request by "METHOD /path".
type fakeCatalog struct {
	mu            sync.Mutex
	categories    []fakeCategory
	subcategories []fakeSubCategory
	products      []fakeProduct
	calls         map[string]int
	failNext      map[string]int
}

type fixture struct {
	remote  *fakeCatalog
	cache   *cache.Cache
	catalog CatalogService
	admin   AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fakeCatalog{calls: map[string]int{}, failNext: map[string]int{}}

	r := chi.NewRouter()
	r.Use(f.count)
	r.Get("/products", f.listProducts)
	r.Post("/products", f.createProduct)
	r.Get("/products/trending", f.bareProducts)
	r.Get("/products/new-arrivals", f.bareProducts)
	r.Get("/products/search", f.listProducts)
	r.Get("/products/{id}", f.getProduct)
	r.Delete("/products/{id}", f.deleteProduct)
	r.Get("/categories", f.listCategories)
	r.Post("/categories", f.createCategory)
	r.Delete("/categories/{id}", f.deleteCategory)
	r.Get("/categories/{id}/subcategories", f.categorySubCategories)
	r.Get("/categories/{id}/products", f.categoryProducts)
	r.Get("/subcategories", f.listSubCategories)
	r.Get("/subcategories/{id}", f.getSubCategory)
	r.Put("/subcategories/{id}", f.updateSubCategory)
	r.Delete("/subcategories/{id}", f.deleteSubCategory)
	r.Get("/subcategories/{id}/products", f.subCategoryProducts)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	client := apiclient.New(config.CatalogConfig{BaseURL: srv.URL}, nil, nil, logger)
	products := repository.NewProductRepository(client)
	categories := repository.NewCategoryRepository(client)
	subcategories := repository.NewSubCategoryRepository(client)

	c := cache.New(nil, logger)
	t.Cleanup(c.Dispose)

	catalogSvc := NewCatalogService(products, categories, subcategories, c, 0, logger)
	return &fixture{
		remote:  f,
		cache:   c,
		catalog: catalogSvc,
		admin:   NewAdminService(products, categories, subcategories, catalogSvc, c, logger),
	}
}

func (f *fakeCatalog) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		f.mu.Lock()
		f.calls[key]++
		status := f.failNext[key]
		delete(f.failNext, key)
		f.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"message": "simulated failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (f *fakeCatalog) callsTo(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+path]
}

func (f *fakeCatalog) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeCatalog) fail(method, path string, status int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failNext[method+" "+path] = status
}

func (f *fakeCatalog) seed(categories []fakeCategory, subcategories []fakeSubCategory, products []fakeProduct) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories = slices.Clone(categories)
	f.subcategories = slices.Clone(subcategories)
	f.products = slices.Clone(products)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	writeJSON(w, http.StatusNotFound, map[string]string{"message": "Not found"})
}

func (f *fakeCatalog) listProducts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"products":   f.products,
		"pagination": map[string]any{"page": 1, "total": len(f.products), "totalPages": 1},
	})
}

// bareProducts answers with the array shape some endpoints use
func (f *fakeCatalog) bareProducts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.products)
}

func (f *fakeCatalog) createProduct(w http.ResponseWriter, r *http.Request) {
	var in fakeProduct
	_ = json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	in.ID = "p" + string(rune('a'+len(f.products)))
	f.products = append(f.products, in)
	writeJSON(w, http.StatusCreated, map[string]any{"message": "Product created", "product": in})
}

func (f *fakeCatalog) getProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == chi.URLParam(r, "id") {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	notFound(w)
}

func (f *fakeCatalog) deleteProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := chi.URLParam(r, "id")
	n := len(f.products)
	f.products = slices.DeleteFunc(f.products, func(p fakeProduct) bool { return p.ID == id })
	if len(f.products) == n {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}

func (f *fakeCatalog) listCategories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.categories)
}

func (f *fakeCatalog) createCategory(w http.ResponseWriter, r *http.Request) {
	var in fakeCategory
	_ = json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	in.ID = "c" + string(rune('a'+len(f.categories)))
	f.categories = append(f.categories, in)
	writeJSON(w, http.StatusCreated, map[string]any{"category": in})
}

func (f *fakeCatalog) deleteCategory(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := chi.URLParam(r, "id")
	n := len(f.categories)
	f.categories = slices.DeleteFunc(f.categories, func(c fakeCategory) bool { return c.ID == id })
	if len(f.categories) == n {
		notFound(w)
		return
	}
	f.subcategories = slices.DeleteFunc(f.subcategories, func(s fakeSubCategory) bool { return s.CategoryID == id })
	f.products = slices.DeleteFunc(f.products, func(p fakeProduct) bool { return p.CategoryID == id })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Category deleted"})
}

func (f *fakeCatalog) categorySubCategories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := chi.URLParam(r, "id")
	for _, c := range f.categories {
		if c.ID != id {
			continue
		}
		subs := []fakeSubCategory{}
		for _, s := range f.subcategories {
			if s.CategoryID == id {
				subs = append(subs, s)
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"category": c, "subcategories": subs})
		return
	}
	notFound(w)
}

func (f *fakeCatalog) categoryProducts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := chi.URLParam(r, "id")
	out := []fakeProduct{}
	for _, p := range f.products {
		if p.CategoryID == id {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (f *fakeCatalog) listSubCategories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, http.StatusOK, f.subcategories)
}

func (f *fakeCatalog) getSubCategory(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subcategories {
		if s.ID == chi.URLParam(r, "id") {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	notFound(w)
}

func (f *fakeCatalog) updateSubCategory(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CategoryID *string `json:"categoryId"`
		Name       *string `json:"name"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, s := range f.subcategories {
		if s.ID != chi.URLParam(r, "id") {
			continue
		}
		if in.CategoryID != nil {
			s.CategoryID = *in.CategoryID
		}
		if in.Name != nil {
			s.Name = *in.Name
		}
		f.subcategories[i] = s
		writeJSON(w, http.StatusOK, map[string]any{"subcategory": s})
		return
	}
	notFound(w)
}

func (f *fakeCatalog) deleteSubCategory(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := chi.URLParam(r, "id")
	n := len(f.subcategories)
	f.subcategories = slices.DeleteFunc(f.subcategories, func(s fakeSubCategory) bool { return s.ID == id })
	if len(f.subcategories) == n {
		notFound(w)
		return
	}
	f.products = slices.DeleteFunc(f.products, func(p fakeProduct) bool { return p.SubCategoryID == id })
	writeJSON(w, http.StatusOK, map[string]string{"message": "Subcategory deleted"})
}

func (f *fakeCatalog) subCategoryProducts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := chi.URLParam(r, "id")
	out := []fakeProduct{}
	for _, p := range f.products {
		if p.SubCategoryID == id {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// storefrontSeed is a small catalog: Shoes owns Sneakers and Boots, Clothes
// owns Hoodies.
func storefrontSeed() ([]fakeCategory, []fakeSubCategory, []fakeProduct) {
	categories := []fakeCategory{
		{ID: "c1", Name: "Shoes"},
		{ID: "c2", Name: "Clothes"},
	}
	subcategories := []fakeSubCategory{
		{ID: "s1", CategoryID: "c1", Name: "Sneakers"},
		{ID: "s2", CategoryID: "c1", Name: "Boots"},
		{ID: "s3", CategoryID: "c2", Name: "Hoodies"},
	}
	products := []fakeProduct{
		{ID: "p1", Name: "Runner", Price: 80, CategoryID: "c1", SubCategoryID: "s1", IsNewArrival: true},
		{ID: "p2", Name: "Chelsea Boot", Price: 149.5, CategoryID: "c1", SubCategoryID: "s2", IsTrending: true},
		{ID: "p3", Name: "Trail Boot", Price: 120, CategoryID: "c1", SubCategoryID: "s2", Images: []string{"/img/trail.jpg"}},
		{ID: "p4", Name: "Zip Hoodie", Price: 60, CategoryID: "c2", SubCategoryID: "s3"},
	}
	return categories, subcategories, products
}
