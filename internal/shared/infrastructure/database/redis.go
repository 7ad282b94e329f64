package database

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds the connection settings for the session store.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// NewRedis connects the client backing the session store and verifies the
// connection before anything starts depending on it.
func NewRedis(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("could not reach redis at %s:%s: %w", cfg.Host, cfg.Port, err)
	}
	return client, nil
}
