package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/avelez/tonewheel/internal/gateway/middleware"
	"github.com/avelez/tonewheel/internal/modules/library/application"
	"github.com/avelez/tonewheel/internal/shared/apperror"
)

// BrowseService defines the read-side composition operations.
type BrowseService interface {
	ListPlaylists(ctx context.Context) ([]application.PlaylistSummary, error)
	GetPlaylistDetail(ctx context.Context, playlistID, requestingUserID string) (*application.PlaylistDetail, error)
	GetProfile(ctx context.Context, username string) (*application.Profile, error)
}

type BrowseHandler struct {
	service BrowseService
}

func NewBrowseHandler(service BrowseService) *BrowseHandler {
	return &BrowseHandler{service: service}
}

func (h *BrowseHandler) ListPlaylists(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.service.ListPlaylists(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, summaries)
}

// GetPlaylistDetail resolves one playlist. The session is optional: guests
// see the playlist too, just never as its owner.
func (h *BrowseHandler) GetPlaylistDetail(w http.ResponseWriter, r *http.Request) {
	requestingUserID := ""
	if principal, ok := middleware.PrincipalFrom(r.Context()); ok {
		requestingUserID = principal.UserID
	}

	detail, err := h.service.GetPlaylistDetail(r.Context(), r.PathValue("id"), requestingUserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, detail)
}

func (h *BrowseHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.GetProfile(r.Context(), r.PathValue("username"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, profile)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperror.KindOf(err) {
	case apperror.KindValidation:
		status = http.StatusBadRequest
	case apperror.KindAuth:
		status = http.StatusUnauthorized
	case apperror.KindNotFound:
		status = http.StatusNotFound
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal server error"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
