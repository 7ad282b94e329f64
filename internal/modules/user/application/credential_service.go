package application

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelez/tonewheel/internal/modules/user/domain"
	"github.com/avelez/tonewheel/internal/shared/apperror"
)

// credentialFailMsg is intentionally identical for an unknown username and a
// wrong password so a caller cannot probe which one failed.
const credentialFailMsg = "either the username or password is invalid"

// CredentialService owns account creation, credential verification and the
// admin flag.
type CredentialService struct {
	users    domain.UserRepository
	hashCost int
	log      zerolog.Logger
}

func NewCredentialService(users domain.UserRepository, hashCost int, log zerolog.Logger) *CredentialService {
	return &CredentialService{users: users, hashCost: hashCost, log: log}
}

// DoesUserExist reports whether a user with the normalized username exists.
func (s *CredentialService) DoesUserExist(ctx context.Context, username string) (bool, error) {
	user, err := s.users.FindByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		return false, s.storage("existence check failed", err)
	}
	return user != nil, nil
}

// CreateUser registers a new account. The username is normalized to
// lowercase before the uniqueness check so "Alice" and "alice" conflict.
// Only a success/error comes back; the hash never leaves this service.
func (s *CredentialService) CreateUser(ctx context.Context, username, password string) error {
	username = NormalizeUsername(username)
	if err := ValidateUsername(username); err != nil {
		return err
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return s.storage("uniqueness check failed", err)
	}
	if existing != nil {
		return apperror.New(apperror.KindConflict, "there is already a user with that username")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return s.storage("password hashing failed", err)
	}

	user := &domain.User{
		Username:       username,
		PasswordHash:   string(hash),
		FavoriteSongs:  []string{},
		FavoriteAlbums: []string{},
		Friends:        []string{},
		AdminFlag:      false,
		CreatedAt:      time.Now(),
	}

	if err := s.users.Insert(ctx, user); err != nil {
		// Two racing registrations can both pass the pre-check; the unique
		// index is the arbiter.
		var dup domain.ErrDuplicateUsername
		if errors.As(err, &dup) {
			return apperror.New(apperror.KindConflict, "there is already a user with that username")
		}
		return s.storage("could not add user", err)
	}
	return nil
}

// CheckUser verifies a username/password pair and returns a minimal session
// principal. Any credential failure yields the same Auth error.
func (s *CredentialService) CheckUser(ctx context.Context, username, password string) (*domain.Principal, error) {
	username = NormalizeUsername(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, apperror.New(apperror.KindValidation, "password must be provided")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, s.storage("credential lookup failed", err)
	}
	if user == nil {
		return nil, apperror.New(apperror.KindAuth, credentialFailMsg)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperror.New(apperror.KindAuth, credentialFailMsg)
	}

	return &domain.Principal{UserID: user.ID.Hex(), Username: user.Username}, nil
}

// MakeAdmin promotes a user. Promoting an existing admin is a silent
// success.
func (s *CredentialService) MakeAdmin(ctx context.Context, username string) error {
	username = NormalizeUsername(username)
	if err := ValidateUsername(username); err != nil {
		return err
	}
	matched, err := s.users.SetAdminFlag(ctx, username)
	if err != nil {
		return s.storage("could not update user", err)
	}
	if !matched {
		return apperror.New(apperror.KindNotFound, "there is no user with that username")
	}
	return nil
}

// CheckAdmin returns the current admin flag for a user.
func (s *CredentialService) CheckAdmin(ctx context.Context, username string) (bool, error) {
	username = NormalizeUsername(username)
	if err := ValidateUsername(username); err != nil {
		return false, err
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return false, s.storage("admin lookup failed", err)
	}
	if user == nil {
		return false, apperror.New(apperror.KindNotFound, "there is no user with that username")
	}
	return user.AdminFlag, nil
}

// GetUserByUsername returns the user or (nil, nil) when absent.
func (s *CredentialService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		return nil, s.storage("user lookup failed", err)
	}
	return user, nil
}

// GetUserByID returns the user or (nil, nil) when absent.
func (s *CredentialService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, s.storage("user lookup failed", err)
	}
	return user, nil
}

// storage logs the underlying failure with full detail and returns a
// classified error whose message carries no store-level detail.
func (s *CredentialService) storage(msg string, err error) error {
	s.log.Error().Err(err).Msg(msg)
	return apperror.Wrap(apperror.KindStorage, msg, err)
}
