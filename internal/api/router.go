package api

import (
	"database/sql"
	"net/http"
)

// NewRouter creates the router with all endpoints registered.
// adminPasswordHash is the bcrypt hash of the operator-configured admin
// password; pass nil to disable admin login.
func NewRouter(db *sql.DB, secret string, adminPasswordHash []byte) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, Secret: secret, AdminPasswordHash: adminPasswordHash}
	itemsHandler := &ItemsHandler{DB: db}
	bidsHandler := &BidsHandler{DB: db, Secret: secret}
	donationsHandler := &DonationsHandler{DB: db}
	adminHandler := &AdminHandler{DB: db}
	healthHandler := &HealthHandler{DB: db}

	sessionMW := SessionAuth(secret)
	adminMW := AdminAuth(secret)

	// Public.
	mux.HandleFunc("GET /items", itemsHandler.List)
	mux.HandleFunc("GET /item/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /item/{id}/image", itemsHandler.GetImage)
	mux.HandleFunc("POST /login", authHandler.Login)
	mux.HandleFunc("POST /logout", authHandler.Logout)
	mux.HandleFunc("POST /admin/login", authHandler.AdminLogin)
	mux.HandleFunc("POST /admin/logout", authHandler.AdminLogout)
	mux.HandleFunc("GET /healthcheck", healthHandler.Check)

	// Bidder session required.
	mux.Handle("POST /bid", sessionMW(http.HandlerFunc(bidsHandler.Place)))
	mux.Handle("DELETE /bid/{id}", sessionMW(http.HandlerFunc(bidsHandler.Delete)))
	mux.Handle("POST /donate", sessionMW(http.HandlerFunc(donationsHandler.Donate)))
	mux.Handle("GET /donations", sessionMW(http.HandlerFunc(donationsHandler.Get)))

	// Validates its own session and answers 404 (not 401) when missing,
	// so bid existence is not leaked.
	mux.HandleFunc("GET /bid/{item_id}", bidsHandler.Status)

	// Admin session required.
	mux.Handle("GET /admin/bids", adminMW(http.HandlerFunc(adminHandler.ListBids)))
	mux.Handle("GET /admin/donations", adminMW(http.HandlerFunc(adminHandler.ListDonations)))
	mux.Handle("POST /admin/items", adminMW(http.HandlerFunc(adminHandler.CreateItem)))
	mux.Handle("PUT /admin/items/{id}", adminMW(http.HandlerFunc(adminHandler.UpdateItem)))
	mux.Handle("POST /admin/items/{id}/close", adminMW(http.HandlerFunc(adminHandler.CloseItem)))
	mux.Handle("PUT /admin/items/{id}/image", adminMW(http.HandlerFunc(adminHandler.UploadImage)))

	return mux
}
