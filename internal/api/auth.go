package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/drazba/internal/auth"
	"github.com/erazemk/drazba/internal/model"
	"github.com/erazemk/drazba/internal/store"
)

// AuthHandler handles bidder and admin authentication endpoints.
type AuthHandler struct {
	DB     *sql.DB
	Secret string

	// AdminPasswordHash is the bcrypt hash of the operator-configured admin
	// password. Empty means admin login is disabled.
	AdminPasswordHash []byte
}

type loginRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /login: upserts the account by email and sets the
// session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Name == "" || req.Email == "" {
		jsonError(w, http.StatusBadRequest, "name and email required")
		return
	}

	account, err := store.LoginOrCreateAccount(r.Context(), h.DB, req.Name, req.Email)
	if err != nil {
		slog.Error("login failed", "email", req.Email, "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	token, err := auth.Issue(h.Secret, account.ID)
	if err != nil {
		slog.Error("issuing session token", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setTokenCookie(w, sessionCookie, token, auth.SessionMaxAge)
	slog.Info("bidder logged in", "account", account.ID)
	jsonResponse(w, http.StatusOK, account)
}

// Logout handles POST /logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearTokenCookie(w, sessionCookie)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// AdminLogin handles POST /admin/login: compares the supplied password
// against the operator-configured secret and sets the short-lived admin
// cookie on success.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	var req adminLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(h.AdminPasswordHash) == 0 {
		slog.Warn("admin login attempted but no admin password is configured")
		jsonError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	if err := bcrypt.CompareHashAndPassword(h.AdminPasswordHash, []byte(req.Password)); err != nil {
		slog.Warn("admin login failed", "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid password")
		return
	}

	token, err := auth.Issue(h.Secret, model.AdminAccountID)
	if err != nil {
		slog.Error("issuing admin token", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	setTokenCookie(w, adminCookie, token, auth.AdminMaxAge)
	slog.Info("admin logged in", "remote", r.RemoteAddr)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged in"})
}

// AdminLogout handles POST /admin/logout.
func (h *AuthHandler) AdminLogout(w http.ResponseWriter, r *http.Request) {
	clearTokenCookie(w, adminCookie)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func setTokenCookie(w http.ResponseWriter, name, token string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func clearTokenCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
