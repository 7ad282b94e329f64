package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/avelez/tonewheel/internal/gateway/middleware"
	"github.com/avelez/tonewheel/internal/modules/user/domain"
)

// CredentialService defines the credential operations the handlers use.
type CredentialService interface {
	CreateUser(ctx context.Context, username, password string) error
	CheckUser(ctx context.Context, username, password string) (*domain.Principal, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	MakeAdmin(ctx context.Context, username string) error
	CheckAdmin(ctx context.Context, username string) (bool, error)
}

// SessionStore defines the session operations the handlers use.
type SessionStore interface {
	Create(ctx context.Context, principal domain.Principal) (string, error)
	Destroy(ctx context.Context, cookieValue string) error
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthHandler struct {
	service    CredentialService
	sessions   SessionStore
	cookieName string
	sessionTTL time.Duration
}

func NewAuthHandler(service CredentialService, sessions SessionStore, cookieName string, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		service:    service,
		sessions:   sessions,
		cookieName: cookieName,
		sessionTTL: sessionTTL,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	if err := h.service.CreateUser(r.Context(), req.Username, req.Password); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]bool{"user_inserted": true})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	principal, err := h.service.CheckUser(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	cookieValue, err := h.sessions.Create(r.Context(), *principal)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, h.sessionCookie(cookieValue, h.sessionTTL))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(principal)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.cookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			writeError(w, err)
			return
		}
	}
	// Expire the cookie regardless of whether a session existed.
	http.SetCookie(w, h.sessionCookie("", -time.Hour))
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, `{"error": "authentication required"}`, http.StatusUnauthorized)
		return
	}

	user, err := h.service.GetUserByUsername(r.Context(), principal.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	if user == nil {
		http.Error(w, `{"error": "user not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}

func (h *AuthHandler) sessionCookie(value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
