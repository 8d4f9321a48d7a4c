package api

import (
	"database/sql"
	"net/http"

	"github.com/erazemk/drazba/internal/store"
)

// DonationsHandler handles bidder-facing donation endpoints.
type DonationsHandler struct {
	DB *sql.DB
}

type donateRequest struct {
	Amount int64 `json:"amount"`
}

// Donate handles POST /donate: upserts the caller's donation (one record
// per account, re-donating overwrites).
func (h *DonationsHandler) Donate(w http.ResponseWriter, r *http.Request) {
	accountID := GetAccountID(r.Context())

	var req donateRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Amount <= 0 {
		jsonError(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	donation, err := store.UpsertDonation(r.Context(), h.DB, accountID, req.Amount)
	if err != nil {
		storeError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, donation)
}

// Get handles GET /donations: the caller's own donation record.
func (h *DonationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := GetAccountID(r.Context())

	donation, err := store.GetDonation(r.Context(), h.DB, accountID)
	if err != nil {
		storeError(w, err)
		return
	}
	if donation == nil {
		jsonError(w, http.StatusNotFound, "no donation")
		return
	}
	jsonResponse(w, http.StatusOK, donation)
}
