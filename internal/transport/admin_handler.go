package transport

import (
	"net/http"

	"nesswear/internal/domain"
	"nesswear/internal/middleware"
	"nesswear/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AdminHandler serves the catalog management endpoints
type AdminHandler struct {
	admin  service.AdminService
	logger *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin service.AdminService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		logger: logger,
	}
}

// RegisterRoutes registers the admin routes behind guards
func (h *AdminHandler) RegisterRoutes(r chi.Router, guards ...func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Use(guards...)

		r.Get("/products", h.ListProducts)
		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)

		r.Get("/categories", h.ListCategories)
		r.Post("/categories", h.CreateCategory)
		r.Put("/categories/{id}", h.UpdateCategory)
		r.Delete("/categories/{id}", h.DeleteCategory)

		r.Get("/subcategories", h.ListSubCategories)
		r.Post("/subcategories", h.CreateSubCategory)
		r.Put("/subcategories/{id}", h.UpdateSubCategory)
		r.Delete("/subcategories/{id}", h.DeleteSubCategory)
	})
}

// decode reads a JSON body, answering the request itself on failure
func (h *AdminHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		h.logger.Debug("Admin payload rejected", zap.String("path", r.URL.Path), zap.Error(err))
		middleware.RespondWithDecodeError(w, err)
		return false
	}
	return true
}

// auditFields names the signed-in user making a change
func auditFields(r *http.Request) []zap.Field {
	userID, _ := middleware.GetUserID(r.Context())
	return []zap.Field{zap.String("user_id", userID), zap.String("path", r.URL.Path)}
}

// ListProducts serves the dashboard product table
func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseAdminFilter(r)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	products, err := h.admin.Products(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, ProductsResponse{Products: nonNil(products)})
}

func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseAdminFilter(r)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	categories, err := h.admin.Categories(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, CategoriesResponse{Categories: categories})
}

func (h *AdminHandler) ListSubCategories(w http.ResponseWriter, r *http.Request) {
	filter, errs := parseAdminFilter(r)
	if len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	subcategories, err := h.admin.SubCategories(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	if subcategories == nil {
		subcategories = []domain.SubCategory{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, SubCategoriesResponse{SubCategories: subcategories})
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input domain.ProductInput
	if !h.decode(w, r, &input) {
		return
	}

	product, err := h.admin.CreateProduct(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	h.logger.Info("Product created via admin", append(auditFields(r), zap.String("product_id", product.ID))...)
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var input domain.ProductInput
	if !h.decode(w, r, &input) {
		return
	}

	product, err := h.admin.UpdateProduct(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	h.logger.Info("Product deleted via admin", auditFields(r)...)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input domain.CategoryInput
	if !h.decode(w, r, &input) {
		return
	}

	category, err := h.admin.CreateCategory(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var input domain.CategoryInput
	if !h.decode(w, r, &input) {
		return
	}

	category, err := h.admin.UpdateCategory(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// DeleteCategory removes a category. The catalog service also removes its
// subcategories and their products.
func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	h.logger.Info("Category deleted via admin", auditFields(r)...)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) CreateSubCategory(w http.ResponseWriter, r *http.Request) {
	var input domain.SubCategoryInput
	if !h.decode(w, r, &input) {
		return
	}

	sub, err := h.admin.CreateSubCategory(r.Context(), input)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, sub)
}

func (h *AdminHandler) UpdateSubCategory(w http.ResponseWriter, r *http.Request) {
	var input domain.SubCategoryInput
	if !h.decode(w, r, &input) {
		return
	}

	sub, err := h.admin.UpdateSubCategory(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, sub)
}

func (h *AdminHandler) DeleteSubCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteSubCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondWithServiceError(w, err, h.logger)
		return
	}
	h.logger.Info("Subcategory deleted via admin", auditFields(r)...)
	w.WriteHeader(http.StatusNoContent)
}
