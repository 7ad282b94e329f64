package user

import (
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	catalogDomain "github.com/avelez/tonewheel/internal/modules/catalog/domain"
	"github.com/avelez/tonewheel/internal/modules/user/application"
	"github.com/avelez/tonewheel/internal/modules/user/infrastructure/persistence/mongodb"
	user_http "github.com/avelez/tonewheel/internal/modules/user/interfaces/http"
	"github.com/avelez/tonewheel/internal/shared/infrastructure/session"
)

// Module wires the account core: credential store, relationship manager and
// their HTTP adapters.
type Module struct {
	credentials    *application.CredentialService
	relationships  *application.RelationshipService
	repository     *mongodb.MongoUserRepository
	authHandler    *user_http.AuthHandler
	accountHandler *user_http.AccountHandler
}

// NewModule creates and initializes the user module.
func NewModule(db *mongo.Database, opTimeout time.Duration, hashCost int, songs catalogDomain.SongFinder, albums catalogDomain.AlbumFinder, sessions *session.Store, cookieName string, sessionTTL time.Duration, log zerolog.Logger) *Module {
	repository := mongodb.NewUserRepository(db, opTimeout)
	credentials := application.NewCredentialService(repository, hashCost, log)
	relationships := application.NewRelationshipService(repository, songs, albums, log)

	return &Module{
		credentials:    credentials,
		relationships:  relationships,
		repository:     repository,
		authHandler:    user_http.NewAuthHandler(credentials, sessions, cookieName, sessionTTL),
		accountHandler: user_http.NewAccountHandler(relationships, credentials),
	}
}

// Credentials returns the credential service for use by other modules and
// the gateway middleware.
func (m *Module) Credentials() *application.CredentialService {
	return m.credentials
}

// Relationships returns the relationship service.
func (m *Module) Relationships() *application.RelationshipService {
	return m.relationships
}

// AuthHandler returns the HTTP handler for register/login/logout.
func (m *Module) AuthHandler() *user_http.AuthHandler {
	return m.authHandler
}

// AccountHandler returns the HTTP handler for favorites, friends and admin
// operations.
func (m *Module) AccountHandler() *user_http.AccountHandler {
	return m.accountHandler
}
