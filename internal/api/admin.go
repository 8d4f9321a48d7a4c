package api

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/erazemk/drazba/internal/imaging"
	"github.com/erazemk/drazba/internal/store"
)

// AdminHandler handles the admin-only endpoints.
type AdminHandler struct {
	DB *sql.DB
}

// maxImageUpload bounds item photo uploads (decoded server-side).
const maxImageUpload = 10 << 20 // 10 MiB

type itemRequest struct {
	Title             string `json:"title"`
	Image             string `json:"image"`
	Author            string `json:"author"`
	AuthorDescription string `json:"author_description"`
	MinimumBid        int64  `json:"minimum_bid"`
	Year              int    `json:"year"`
	Description       string `json:"description"`
	ShowOrder         int    `json:"show_order"`
}

type itemBidEntry struct {
	BidderName string    `json:"bidder_name"`
	Amount     int64     `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`
}

type itemBidGroup struct {
	ItemID    int64          `json:"item_id"`
	ItemTitle string         `json:"item_title"`
	Bids      []itemBidEntry `json:"bids"`
}

// ListBids handles GET /admin/bids: every bid grouped by item, newest
// first within each item.
func (h *AdminHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	bids, err := store.ListAllBids(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}

	// Rows arrive ordered by item, so grouping is a single pass.
	groups := []itemBidGroup{}
	for _, b := range bids {
		if len(groups) == 0 || groups[len(groups)-1].ItemID != b.ItemID {
			groups = append(groups, itemBidGroup{ItemID: b.ItemID, ItemTitle: b.ItemTitle})
		}
		g := &groups[len(groups)-1]
		g.Bids = append(g.Bids, itemBidEntry{
			BidderName: b.BidderName,
			Amount:     b.Amount,
			CreatedAt:  b.CreatedAt,
		})
	}
	jsonResponse(w, http.StatusOK, groups)
}

// ListDonations handles GET /admin/donations.
func (h *AdminHandler) ListDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := store.ListDonations(r.Context(), h.DB)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, donations)
}

// CreateItem handles POST /admin/items.
func (h *AdminHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		jsonError(w, http.StatusBadRequest, "title required")
		return
	}
	if req.MinimumBid < 0 {
		jsonError(w, http.StatusBadRequest, "minimum bid cannot be negative")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, itemParams(req))
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// UpdateItem handles PUT /admin/items/{id}.
func (h *AdminHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		jsonError(w, http.StatusBadRequest, "title required")
		return
	}

	if err := store.UpdateItem(r.Context(), h.DB, id, itemParams(req)); err != nil {
		storeError(w, err)
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// CloseItem handles POST /admin/items/{id}/close. Closing is one-way.
func (h *AdminHandler) CloseItem(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := store.CloseItem(r.Context(), h.DB, id); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item closed"})
}

// UploadImage handles PUT /admin/items/{id}/image: normalizes the photo
// and stores it on the item.
func (h *AdminHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	data, err := imaging.Normalize(http.MaxBytesReader(w, r.Body, maxImageUpload))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, id, data, imaging.OutputMIME); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "image updated"})
}

func itemParams(req itemRequest) store.ItemParams {
	return store.ItemParams{
		Title:             req.Title,
		Image:             req.Image,
		Author:            req.Author,
		AuthorDescription: req.AuthorDescription,
		MinimumBid:        req.MinimumBid,
		Year:              req.Year,
		Description:       req.Description,
		ShowOrder:         req.ShowOrder,
	}
}
