package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avelez/tonewheel/internal/gateway/middleware"
)

// RelationshipService defines the favorites/friends operations the handlers
// use. The acting username always comes from the session principal, never
// from the request body.
type RelationshipService interface {
	FavoriteSong(ctx context.Context, username, songID string) error
	RemoveFavoriteSong(ctx context.Context, username, songID string) error
	FavoriteAlbum(ctx context.Context, username, albumID string) error
	RemoveFavoriteAlbum(ctx context.Context, username, albumID string) error
	AddFriend(ctx context.Context, username, friendUsername string) error
	RemoveFriend(ctx context.Context, username, friendUsername string) error
}

type AccountHandler struct {
	relationships RelationshipService
	credentials   CredentialService
}

func NewAccountHandler(relationships RelationshipService, credentials CredentialService) *AccountHandler {
	return &AccountHandler{relationships: relationships, credentials: credentials}
}

func (h *AccountHandler) FavoriteSong(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, username string) error {
		return h.relationships.FavoriteSong(ctx, username, r.PathValue("id"))
	})
}

func (h *AccountHandler) RemoveFavoriteSong(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, username string) error {
		return h.relationships.RemoveFavoriteSong(ctx, username, r.PathValue("id"))
	})
}

func (h *AccountHandler) FavoriteAlbum(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, username string) error {
		return h.relationships.FavoriteAlbum(ctx, username, r.PathValue("id"))
	})
}

func (h *AccountHandler) RemoveFavoriteAlbum(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, username string) error {
		return h.relationships.RemoveFavoriteAlbum(ctx, username, r.PathValue("id"))
	})
}

func (h *AccountHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, username string) error {
		return h.relationships.AddFriend(ctx, username, r.PathValue("username"))
	})
}

func (h *AccountHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(ctx context.Context, username string) error {
		return h.relationships.RemoveFriend(ctx, username, r.PathValue("username"))
	})
}

// PromoteAdmin promotes the named user; the route is gated by RequireAdmin.
func (h *AccountHandler) PromoteAdmin(w http.ResponseWriter, r *http.Request) {
	if err := h.credentials.MakeAdmin(r.Context(), r.PathValue("username")); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"updated_user": true})
}

func (h *AccountHandler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	isAdmin, err := h.credentials.CheckAdmin(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"admin": isAdmin})
}

// mutate runs a relationship mutation for the authenticated user and renders
// the uniform success envelope.
func (h *AccountHandler) mutate(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, username string) error) {
	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		http.Error(w, `{"error": "authentication required"}`, http.StatusUnauthorized)
		return
	}
	if err := op(r.Context(), principal.Username); err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"updated_user": true})
}
