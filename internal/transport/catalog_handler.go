package transport

import (
	"net/http"

	"nesswear/internal/domain"
	"nesswear/internal/middleware"
	"nesswear/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoriesResponse lists every category
type CategoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

// SubCategoriesResponse lists every subcategory
type SubCategoriesResponse struct {
	SubCategories []domain.SubCategory `json:"subcategories"`
}

// ProductsResponse is an unpaginated product listing
type ProductsResponse struct {
	Products []domain.Product `json:"products"`
}

// CatalogHandler serves the storefront's read endpoints
type CatalogHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// RegisterRoutes registers the storefront routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/views/{view}", h.BrowseView)

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/trending", h.Trending)
		r.Get("/new-arrivals", h.NewArrivals)
		r.Get("/search", h.Search)
		r.Get("/{id}", h.GetProduct)
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Get("/{id}", h.GetCategory)
		r.Get("/{id}/subcategories", h.CategorySubCategories)
		r.Get("/{id}/products", h.CategoryProducts)
	})

	r.Route("/api/subcategories", func(r chi.Router) {
		r.Get("/", h.ListSubCategories)
		r.Get("/{id}", h.GetSubCategory)
		r.Get("/{id}/products", h.SubCategoryProducts)
	})
}

// BrowseView answers one storefront listing: the filtered and sorted
// products plus everything the price and category controls need
func (h *CatalogHandler) BrowseView(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	var errs queryErrors
	req := service.ViewRequest{
		View:     chi.URLParam(r, "view"),
		Category: values.Get("category"),
		MinPrice: errs.price(values, "minPrice"),
		MaxPrice: errs.price(values, "maxPrice"),
		Sort:     values.Get("sort"),
	}
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	result, err := h.catalog.BrowseView(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, result)
}

// ListProducts handles the paginated product listing
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params, errs := parseListParams(r)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	list, err := h.catalog.ListProducts(r.Context(), params)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit, errs := parseLimit(r)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	products, err := h.catalog.Trending(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ProductsResponse{Products: nonNil(products)})
}

func (h *CatalogHandler) NewArrivals(w http.ResponseWriter, r *http.Request) {
	limit, errs := parseLimit(r)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	products, err := h.catalog.NewArrivals(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ProductsResponse{Products: nonNil(products)})
}

// Search handles keyword search. An empty term is rejected before any
// request reaches the catalog service.
func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	params, errs := parseListParams(r)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	list, err := h.catalog.Search(r.Context(), r.URL.Query().Get("q"), params)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, list)
}

// GetProduct returns the product detail page model
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalog.ProductDetail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, detail)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalog.Categories(r.Context())
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.catalog.Category(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

func (h *CatalogHandler) CategorySubCategories(w http.ResponseWriter, r *http.Request) {
	out, err := h.catalog.SubCategoriesOf(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	if out.SubCategories == nil {
		out.SubCategories = []domain.SubCategory{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, out)
}

func (h *CatalogHandler) CategoryProducts(w http.ResponseWriter, r *http.Request) {
	params, errs := parseListParams(r)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	list, err := h.catalog.ProductsByCategory(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, list)
}

func (h *CatalogHandler) ListSubCategories(w http.ResponseWriter, r *http.Request) {
	subcategories, err := h.catalog.SubCategories(r.Context())
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	if subcategories == nil {
		subcategories = []domain.SubCategory{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, SubCategoriesResponse{SubCategories: subcategories})
}

func (h *CatalogHandler) GetSubCategory(w http.ResponseWriter, r *http.Request) {
	sub, err := h.catalog.SubCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sub)
}

func (h *CatalogHandler) SubCategoryProducts(w http.ResponseWriter, r *http.Request) {
	params, errs := parseListParams(r)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	list, err := h.catalog.ProductsBySubCategory(r.Context(), chi.URLParam(r, "id"), params)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, list)
}

func nonNil(products []domain.Product) []domain.Product {
	if products == nil {
		return []domain.Product{}
	}
	return products
}
