package handlers

import (
	"net/http"
	"strconv"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Catalog-Size", strconv.Itoa(len(h.Catalog.SKUs())))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}
