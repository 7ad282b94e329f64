package catalog

import (
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avelez/tonewheel/internal/modules/catalog/domain"
	"github.com/avelez/tonewheel/internal/modules/catalog/infrastructure/persistence/mongodb"
	catalog_http "github.com/avelez/tonewheel/internal/modules/catalog/interfaces/http"
)

// Module wires the read-only catalog and exposes the finder seams the user
// and library modules use to validate song/album references.
type Module struct {
	repository *mongodb.MongoCatalogRepository
	handler    *catalog_http.CatalogHandler
}

// NewModule creates and initializes the catalog module.
func NewModule(db *mongo.Database, opTimeout time.Duration) *Module {
	repository := mongodb.NewCatalogRepository(db, opTimeout)
	return &Module{
		repository: repository,
		handler:    catalog_http.NewCatalogHandler(repository, repository.Albums()),
	}
}

// Songs returns the song finder for use by other modules.
func (m *Module) Songs() domain.SongFinder {
	return m.repository
}

// Albums returns the album finder for use by other modules.
func (m *Module) Albums() domain.AlbumFinder {
	return m.repository.Albums()
}

// HTTPHandler returns the HTTP handler for the catalog pages.
func (m *Module) HTTPHandler() *catalog_http.CatalogHandler {
	return m.handler
}
