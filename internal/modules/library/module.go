package library

import (
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	catalogDomain "github.com/avelez/tonewheel/internal/modules/catalog/domain"
	"github.com/avelez/tonewheel/internal/modules/library/application"
	"github.com/avelez/tonewheel/internal/modules/library/infrastructure/persistence/mongodb"
	library_http "github.com/avelez/tonewheel/internal/modules/library/interfaces/http"
)

// Module wires the aggregation layer over playlists, reviews and the
// collaborating user and catalog lookups.
type Module struct {
	repository *mongodb.MongoLibraryRepository
	browse     *application.BrowseService
	handler    *library_http.BrowseHandler
}

// NewModule creates and initializes the library module.
func NewModule(db *mongo.Database, opTimeout time.Duration, users application.UserDirectory, songs catalogDomain.SongFinder, albums catalogDomain.AlbumFinder, log zerolog.Logger) *Module {
	repository := mongodb.NewLibraryRepository(db, opTimeout)
	browse := application.NewBrowseService(repository, repository, users, songs, albums, log)

	return &Module{
		repository: repository,
		browse:     browse,
		handler:    library_http.NewBrowseHandler(browse),
	}
}

// Browse returns the aggregation service.
func (m *Module) Browse() *application.BrowseService {
	return m.browse
}

// HTTPHandler returns the HTTP handler for playlist and profile pages.
func (m *Module) HTTPHandler() *library_http.BrowseHandler {
	return m.handler
}
