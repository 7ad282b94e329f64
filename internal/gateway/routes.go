package gateway

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avelez/tonewheel/internal/gateway/middleware"
	catalog_http "github.com/avelez/tonewheel/internal/modules/catalog/interfaces/http"
	library_http "github.com/avelez/tonewheel/internal/modules/library/interfaces/http"
	user_http "github.com/avelez/tonewheel/internal/modules/user/interfaces/http"
)

// RouterConfig holds all the handlers and middleware needed for routing
type RouterConfig struct {
	AuthHandler       *user_http.AuthHandler
	AccountHandler    *user_http.AccountHandler
	CatalogHandler    *catalog_http.CatalogHandler
	BrowseHandler     *library_http.BrowseHandler
	SessionMiddleware *middleware.SessionMiddleware
}

// SetupRoutes creates and configures all application routes
func SetupRoutes(config RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()
	sessions := config.SessionMiddleware

	// Health Check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus Metrics Endpoint
	mux.Handle("GET /metrics", promhttp.Handler())

	// Auth Routes
	mux.HandleFunc("POST /auth/register", config.AuthHandler.Register)
	mux.HandleFunc("POST /auth/login", config.AuthHandler.Login)
	mux.HandleFunc("POST /auth/logout", config.AuthHandler.Logout)
	mux.Handle("GET /me", sessions.RequireSession(http.HandlerFunc(config.AuthHandler.Me)))

	// Favorites / Friends Routes
	mux.Handle("POST /favorites/songs/{id}", sessions.RequireSession(http.HandlerFunc(config.AccountHandler.FavoriteSong)))
	mux.Handle("DELETE /favorites/songs/{id}", sessions.RequireSession(http.HandlerFunc(config.AccountHandler.RemoveFavoriteSong)))
	mux.Handle("POST /favorites/albums/{id}", sessions.RequireSession(http.HandlerFunc(config.AccountHandler.FavoriteAlbum)))
	mux.Handle("DELETE /favorites/albums/{id}", sessions.RequireSession(http.HandlerFunc(config.AccountHandler.RemoveFavoriteAlbum)))
	mux.Handle("PUT /friends/{username}", sessions.RequireSession(http.HandlerFunc(config.AccountHandler.AddFriend)))
	mux.Handle("DELETE /friends/{username}", sessions.RequireSession(http.HandlerFunc(config.AccountHandler.RemoveFriend)))

	// Admin Routes
	mux.Handle("POST /admin/users/{username}/promote", sessions.RequireAdmin(http.HandlerFunc(config.AccountHandler.PromoteAdmin)))
	mux.Handle("GET /admin/users/{username}/admin", sessions.RequireAdmin(http.HandlerFunc(config.AccountHandler.CheckAdmin)))

	// Catalog Routes
	mux.HandleFunc("GET /songs", config.CatalogHandler.ListSongs)
	mux.HandleFunc("GET /songs/{id}", config.CatalogHandler.GetSong)
	mux.HandleFunc("GET /albums", config.CatalogHandler.ListAlbums)
	mux.HandleFunc("GET /albums/{id}", config.CatalogHandler.GetAlbum)

	// Playlist / Profile Routes
	mux.HandleFunc("GET /playlists", config.BrowseHandler.ListPlaylists)
	mux.Handle("GET /playlists/{id}", sessions.OptionalSession(http.HandlerFunc(config.BrowseHandler.GetPlaylistDetail)))
	mux.HandleFunc("GET /profiles/{username}", config.BrowseHandler.GetProfile)

	return mux
}
