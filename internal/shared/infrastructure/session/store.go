// Package session implements the cookie-session layer: opaque session ids
// stored in Redis, carried to the browser inside a signed JWT so a tampered
// cookie is rejected before any Redis round-trip.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	userDomain "github.com/avelez/tonewheel/internal/modules/user/domain"
	"github.com/avelez/tonewheel/internal/shared/apperror"
)

const keyPrefix = "session:"

// Store manages server-side sessions.
type Store struct {
	client *redis.Client
	secret []byte
	ttl    time.Duration
}

func NewStore(client *redis.Client, secret string, ttl time.Duration) *Store {
	return &Store{client: client, secret: []byte(secret), ttl: ttl}
}

// Create opens a session for the principal and returns the cookie value.
func (s *Store) Create(ctx context.Context, principal userDomain.Principal) (string, error) {
	id := uuid.NewString()

	payload, err := json.Marshal(principal)
	if err != nil {
		return "", fmt.Errorf("could not encode principal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", apperror.Wrap(apperror.KindStorage, "could not open session", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("could not sign session token: %w", err)
	}
	return signed, nil
}

// Resolve returns the principal for a cookie value. Any tampering, expiry
// or missing server-side state yields an Auth error.
func (s *Store) Resolve(ctx context.Context, cookieValue string) (*userDomain.Principal, error) {
	id, err := s.sessionID(cookieValue)
	if err != nil {
		return nil, err
	}

	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.New(apperror.KindAuth, "session expired")
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, "could not load session", err)
	}

	principal := &userDomain.Principal{}
	if err := json.Unmarshal(payload, principal); err != nil {
		return nil, apperror.Wrap(apperror.KindStorage, "corrupt session state", err)
	}
	return principal, nil
}

// Destroy closes the session behind a cookie value. Destroying an already
// closed session is a no-op.
func (s *Store) Destroy(ctx context.Context, cookieValue string) error {
	id, err := s.sessionID(cookieValue)
	if err != nil {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return apperror.Wrap(apperror.KindStorage, "could not destroy session", err)
	}
	return nil
}

// sessionID verifies the cookie's signature and extracts the session id.
func (s *Store) sessionID(cookieValue string) (string, error) {
	token, err := jwt.ParseWithClaims(cookieValue, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperror.New(apperror.KindAuth, "invalid session")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", apperror.New(apperror.KindAuth, "invalid session")
	}
	return claims.Subject, nil
}
