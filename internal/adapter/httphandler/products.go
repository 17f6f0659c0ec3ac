package httphandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/niksmo/vip-store/internal/core/port"
)

type ProductsHandler struct {
	catalog port.ProductCatalog
	manager port.ProductManager
}

func NewProductsHandler(
	catalog port.ProductCatalog, manager port.ProductManager,
) ProductsHandler {
	if catalog == nil || manager == nil {
		panic("nil product dependency") // develop mistake
	}
	return ProductsHandler{catalog, manager}
}

func (h ProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productsResponse(ps))
}

func (h ProductsHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	ps, err := h.catalog.ListProductsByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productsResponse(ps))
}

func (h ProductsHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse(p))
}

func (h ProductsHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.manager.CreateProduct(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, productResponse(p))
}

func (h ProductsHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.manager.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, productResponse(p))
}

func (h ProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}
