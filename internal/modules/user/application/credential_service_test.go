package application

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/avelez/tonewheel/internal/modules/user/domain"
	"github.com/avelez/tonewheel/internal/shared/apperror"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Insert(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) SetAdminFlag(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) AddFavoriteSong(ctx context.Context, username, songID string) (bool, error) {
	args := m.Called(ctx, username, songID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) RemoveFavoriteSong(ctx context.Context, username, songID string) (bool, error) {
	args := m.Called(ctx, username, songID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) AddFavoriteAlbum(ctx context.Context, username, albumID string) (bool, error) {
	args := m.Called(ctx, username, albumID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) RemoveFavoriteAlbum(ctx context.Context, username, albumID string) (bool, error) {
	args := m.Called(ctx, username, albumID)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) AddFriend(ctx context.Context, username, friendUsername string) (bool, error) {
	args := m.Called(ctx, username, friendUsername)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) RemoveFriend(ctx context.Context, username, friendUsername string) (bool, error) {
	args := m.Called(ctx, username, friendUsername)
	return args.Bool(0), args.Error(1)
}

func newCredentialService(repo domain.UserRepository) *CredentialService {
	return NewCredentialService(repo, bcrypt.MinCost, zerolog.Nop())
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestCreateUser_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newCredentialService(repo)
	ctx := context.Background()

	repo.On("FindByUsername", ctx, "carol").Return(nil, nil).Once()
	repo.On("Insert", ctx, mock.AnythingOfType("*domain.User")).Return(nil).Once()

	err := svc.CreateUser(ctx, "Carol", "Secret123")
	assert.NoError(t, err)

	inserted := repo.Calls[1].Arguments.Get(1).(*domain.User)
	assert.Equal(t, "carol", inserted.Username)
	assert.NotEqual(t, "Secret123", inserted.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(inserted.PasswordHash), []byte("Secret123")))
	assert.Empty(t, inserted.FavoriteSongs)
	assert.Empty(t, inserted.Friends)
	assert.False(t, inserted.AdminFlag)
}

func TestCreateUser_DuplicateRegardlessOfCasing(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newCredentialService(repo)
	ctx := context.Background()

	existing := &domain.User{ID: primitive.NewObjectID(), Username: "alice"}
	// "Alice" normalizes to "alice" before the uniqueness check.
	repo.On("FindByUsername", ctx, "alice").Return(existing, nil).Once()

	err := svc.CreateUser(ctx, "Alice", "Secret123")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCreateUser_InsertRaceYieldsConflict(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newCredentialService(repo)
	ctx := context.Background()

	repo.On("FindByUsername", ctx, "carol").Return(nil, nil).Once()
	repo.On("Insert", ctx, mock.AnythingOfType("*domain.User")).
		Return(domain.ErrDuplicateUsername{Username: "carol"}).Once()

	err := svc.CreateUser(ctx, "carol", "Secret123")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestCreateUser_InvalidInput(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newCredentialService(repo)
	ctx := context.Background()

	err := svc.CreateUser(ctx, "", "Secret123")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	err = svc.CreateUser(ctx, "carol", "")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	err = svc.CreateUser(ctx, "carol", "short1")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))

	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestCheckUser_UniformFailureMessage(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newCredentialService(repo)
	ctx := context.Background()

	user := &domain.User{
		ID:           primitive.NewObjectID(),
		Username:     "carol",
		PasswordHash: hashOf(t, "Secret123"),
	}
	repo.On("FindByUsername", ctx, "nobody").Return(nil, nil).Once()
	repo.On("FindByUsername", ctx, "carol").Return(user, nil).Once()

	_, errUnknownUser := svc.CheckUser(ctx, "nobody", "Secret123")
	_, errWrongPassword := svc.CheckUser(ctx, "carol", "wrong-password")

	assert.Equal(t, apperror.KindAuth, apperror.KindOf(errUnknownUser))
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(errWrongPassword))
	// Same message either way, so callers cannot tell which field failed.
	assert.Equal(t, errUnknownUser.Error(), errWrongPassword.Error())
}

func TestCheckUser_Success(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newCredentialService(repo)
	ctx := context.Background()

	user := &domain.User{
		ID:           primitive.NewObjectID(),
		Username:     "carol",
		PasswordHash: hashOf(t, "Secret123"),
	}
	repo.On("FindByUsername", ctx, "carol").Return(user, nil).Once()

	principal, err := svc.CheckUser(ctx, "Carol", "Secret123")
	assert.NoError(t, err)
	assert.Equal(t, "carol", principal.Username)
	assert.Equal(t, user.ID.Hex(), principal.UserID)
}

func TestMakeAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("promotes existing user", func(t *testing.T) {
		repo := new(mockUserRepository)
		svc := newCredentialService(repo)
		repo.On("SetAdminFlag", ctx, "carol").Return(true, nil).Once()
		assert.NoError(t, svc.MakeAdmin(ctx, "Carol"))
	})

	t.Run("idempotent on an existing admin", func(t *testing.T) {
		repo := new(mockUserRepository)
		svc := newCredentialService(repo)
		repo.On("SetAdminFlag", ctx, "carol").Return(true, nil).Twice()
		assert.NoError(t, svc.MakeAdmin(ctx, "carol"))
		assert.NoError(t, svc.MakeAdmin(ctx, "carol"))
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockUserRepository)
		svc := newCredentialService(repo)
		repo.On("SetAdminFlag", ctx, "ghost").Return(false, nil).Once()
		err := svc.MakeAdmin(ctx, "ghost")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestCheckAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("reports the flag", func(t *testing.T) {
		repo := new(mockUserRepository)
		svc := newCredentialService(repo)
		repo.On("FindByUsername", ctx, "carol").Return(&domain.User{Username: "carol", AdminFlag: true}, nil).Once()
		isAdmin, err := svc.CheckAdmin(ctx, "carol")
		assert.NoError(t, err)
		assert.True(t, isAdmin)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockUserRepository)
		svc := newCredentialService(repo)
		repo.On("FindByUsername", ctx, "ghost").Return(nil, nil).Once()
		_, err := svc.CheckAdmin(ctx, "ghost")
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestGetUser_AbsenceIsNotAnError(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newCredentialService(repo)
	ctx := context.Background()

	repo.On("FindByUsername", ctx, "ghost").Return(nil, nil).Once()
	repo.On("FindByID", ctx, "deadbeefdeadbeefdeadbeef").Return(nil, nil).Once()

	user, err := svc.GetUserByUsername(ctx, "ghost")
	assert.NoError(t, err)
	assert.Nil(t, user)

	user, err = svc.GetUserByID(ctx, "deadbeefdeadbeefdeadbeef")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestStorageFailureNeverLeaksDetail(t *testing.T) {
	repo := new(mockUserRepository)
	svc := newCredentialService(repo)
	ctx := context.Background()

	repo.On("FindByUsername", ctx, "carol").Return(nil, assert.AnError).Once()

	_, err := svc.CheckUser(ctx, "carol", "Secret123")
	assert.Equal(t, apperror.KindStorage, apperror.KindOf(err))
	assert.NotContains(t, err.Error(), assert.AnError.Error())
	assert.ErrorIs(t, err, assert.AnError)
}
