package http

import (
	"encoding/json"
	"net/http"

	"github.com/avelez/tonewheel/internal/modules/catalog/domain"
	"github.com/avelez/tonewheel/internal/shared/apperror"
)

// CatalogHandler serves the read-only song and album pages.
type CatalogHandler struct {
	songs  domain.SongFinder
	albums domain.AlbumFinder
}

func NewCatalogHandler(songs domain.SongFinder, albums domain.AlbumFinder) *CatalogHandler {
	return &CatalogHandler{songs: songs, albums: albums}
}

func (h *CatalogHandler) ListSongs(w http.ResponseWriter, r *http.Request) {
	songs, err := h.songs.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, songs)
}

func (h *CatalogHandler) GetSong(w http.ResponseWriter, r *http.Request) {
	song, err := h.songs.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if song == nil {
		writeError(w, apperror.New(apperror.KindNotFound, "there is no song with that id"))
		return
	}
	writeJSON(w, song)
}

func (h *CatalogHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	albums, err := h.albums.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, albums)
}

func (h *CatalogHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := h.albums.FindByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if album == nil {
		writeError(w, apperror.New(apperror.KindNotFound, "there is no album with that id"))
		return
	}
	writeJSON(w, album)
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
