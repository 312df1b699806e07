package handler

import (
	"encoding/json"
	"net/http"

	"credpal/internal/api/middleware"
	"credpal/internal/app/service"
	"credpal/internal/common"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productService *service.ProductService
	resolver       *middleware.Resolver
}

func NewProductHandler(productService *service.ProductService, resolver *middleware.Resolver) *ProductHandler {
	return &ProductHandler{productService: productService, resolver: resolver}
}

func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProducts)          // GET /api/products
	r.Get("/{productID}", h.getProduct) // GET /api/products/{id}

	r.Group(func(protected chi.Router) {
		protected.Use(h.resolver.Authenticator)
		protected.Post("/", h.createProduct)
		protected.Put("/{productID}", h.updateProduct)
		protected.Patch("/{productID}", h.updateProduct)
		protected.Delete("/{productID}", h.deleteProduct)
	})
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	page, limit := paginationParams(r)
	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("search")

	products, total, err := h.productService.List(r.Context(), page, limit, category, search)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusOK, "", map[string]interface{}{
		"products":   products,
		"pagination": newPagination(page, limit, total),
	})
}

func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.Get(r.Context(), chi.URLParam(r, "productID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusOK, "", map[string]interface{}{"product": product})
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	product, err := h.productService.Create(r.Context(), principal, req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusCreated, "Product created", map[string]interface{}{"product": product})
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	product, err := h.productService.Update(r.Context(), principal, chi.URLParam(r, "productID"), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusOK, "Product updated", map[string]interface{}{"product": product})
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	if err := h.productService.Delete(r.Context(), principal, chi.URLParam(r, "productID")); err != nil {
		respondServiceError(w, err)
		return
	}
	common.RespondWithSuccess(w, http.StatusOK, "Product deleted", nil)
}
