package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/avelez/tonewheel/internal/gateway"
	"github.com/avelez/tonewheel/internal/gateway/middleware"
	"github.com/avelez/tonewheel/internal/modules/catalog"
	"github.com/avelez/tonewheel/internal/modules/library"
	"github.com/avelez/tonewheel/internal/modules/user"
	"github.com/avelez/tonewheel/internal/shared/infrastructure/config"
	"github.com/avelez/tonewheel/internal/shared/infrastructure/database"
	"github.com/avelez/tonewheel/internal/shared/infrastructure/session"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load()

	log.Info().Msg("connecting to mongodb")
	db, err := database.NewMongo(cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer db.Client().Disconnect(context.Background())

	log.Info().Msg("connecting to redis")
	redisClient, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	sessions := session.NewStore(redisClient, cfg.Session.Secret, cfg.Session.TTL)

	catalogModule := catalog.NewModule(db, cfg.Mongo.OpTimeout)
	userModule := user.NewModule(
		db,
		cfg.Mongo.OpTimeout,
		cfg.Bcrypt.Cost,
		catalogModule.Songs(),
		catalogModule.Albums(),
		sessions,
		cfg.Session.CookieName,
		cfg.Session.TTL,
		log,
	)
	libraryModule := library.NewModule(
		db,
		cfg.Mongo.OpTimeout,
		userModule.Credentials(),
		catalogModule.Songs(),
		catalogModule.Albums(),
		log,
	)

	sessionMiddleware := middleware.NewSessionMiddleware(sessions, userModule.Credentials(), cfg.Session.CookieName)

	mux := gateway.SetupRoutes(gateway.RouterConfig{
		AuthHandler:       userModule.AuthHandler(),
		AccountHandler:    userModule.AccountHandler(),
		CatalogHandler:    catalogModule.HTTPHandler(),
		BrowseHandler:     libraryModule.HTTPHandler(),
		SessionMiddleware: sessionMiddleware,
	})

	handler := middleware.CORSMiddleware(middleware.MetricsMiddleware(mux), cfg.Server.AllowedOrigins)

	server := gateway.NewServer(cfg.Server.Port, handler, log)
	if err := server.Start(); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
