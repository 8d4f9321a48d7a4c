package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/drazba/internal/store"
)

// BidsHandler handles bidder-facing bid endpoints.
type BidsHandler struct {
	DB     *sql.DB
	Secret string
}

type placeBidRequest struct {
	ItemID int64 `json:"item_id"`
	Amount int64 `json:"amount"`
}

// Place handles POST /bid. Requires a session; the bid engine decides
// acceptance.
func (h *BidsHandler) Place(w http.ResponseWriter, r *http.Request) {
	accountID := GetAccountID(r.Context())

	var req placeBidRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		jsonError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	bid, err := store.PlaceBid(r.Context(), h.DB, req.ItemID, accountID, req.Amount)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, bid)
}

// Status handles GET /bid/{item_id}: the caller's latest bid on the item
// plus whether it is currently the winning bid. Authentication failures
// report 404 instead of 401 so unauthenticated callers cannot probe which
// bids exist.
func (h *BidsHandler) Status(w http.ResponseWriter, r *http.Request) {
	accountID, err := sessionAccountID(r, h.Secret)
	if err != nil {
		jsonError(w, http.StatusNotFound, "not found")
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("item_id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusNotFound, "not found")
		return
	}

	status, err := store.UserBidStatus(r.Context(), h.DB, accountID, itemID)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, status)
}

// Delete handles DELETE /bid/{id}: withdraws the caller's own bid while
// the item is still open.
func (h *BidsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID := GetAccountID(r.Context())
	bidUUID := r.PathValue("id")

	if err := store.DeleteBid(r.Context(), h.DB, bidUUID, accountID); err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "bid deleted"})
}
