package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"cotizador/go_backend/internal/domain/catalog"
	"cotizador/go_backend/internal/domain/validate"
)

type productRequest struct {
	SKU   string      `json:"sku"`
	Name  string      `json:"name"`
	Price json.Number `json:"price"`
}

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		out := h.Catalog.Search(q)
		if out == nil {
			out = []catalog.Product{}
		}
		writeJSON(w, http.StatusOK, out)
		return
	}
	writeJSON(w, http.StatusOK, h.Catalog.List())
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, "", http.StatusCreated)
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, chi.URLParam(r, "sku"), http.StatusOK)
}

func (h *Handlers) saveProduct(w http.ResponseWriter, r *http.Request, originalSKU string, status int) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	price := validate.Price(req.Price.String())
	if !price.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Errors: map[string]string{"price": price.Err}})
		return
	}

	p, err := h.Catalog.Upsert(r.Context(), originalSKU, catalog.Product{SKU: req.SKU, Name: req.Name, Price: price.Value})
	if err != nil {
		h.catalogError(w, err)
		return
	}
	h.Log.Info("catalog: product saved", "sku", p.SKU, "original_sku", originalSKU)
	writeJSON(w, status, p)
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	sku := chi.URLParam(r, "sku")
	if err := h.Catalog.Delete(r.Context(), sku); err != nil {
		h.catalogError(w, err)
		return
	}
	h.Log.Info("catalog: product deleted", "sku", sku)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ResetProducts(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.ResetToDefaults(r.Context()); err != nil {
		h.catalogError(w, err)
		return
	}
	h.Log.Info("catalog: reset to defaults")
	writeJSON(w, http.StatusOK, h.Catalog.List())
}

func (h *Handlers) catalogError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, catalog.ErrDuplicateSKU):
		writeError(w, http.StatusConflict, "Ya existe un producto con ese SKU.")
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, catalog.ErrInvalidProduct):
		writeError(w, http.StatusUnprocessableEntity, strings.TrimPrefix(err.Error(), catalog.ErrInvalidProduct.Error()+": "))
	default:
		h.Log.Error("catalog: write failed", "error", err)
		writeError(w, http.StatusInternalServerError, "catalog unavailable")
	}
}
