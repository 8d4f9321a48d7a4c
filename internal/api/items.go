package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/drazba/internal/store"
)

// ItemsHandler handles the public catalog endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// List handles GET /items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /item/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// GetImage handles GET /item/{id}/image.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	if len(data) == 0 {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}
