package application

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	catalogDomain "github.com/avelez/tonewheel/internal/modules/catalog/domain"
	"github.com/avelez/tonewheel/internal/modules/user/domain"
	"github.com/avelez/tonewheel/internal/shared/apperror"
)

// fakeUserRepository is an in-memory stand-in with the same contract as the
// Mongo repository: lookups return (nil, nil) on absence and the list fields
// behave as sets.
type fakeUserRepository struct {
	users map[string]*domain.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: map[string]*domain.User{}}
}

func (f *fakeUserRepository) Insert(_ context.Context, user *domain.User) error {
	if _, ok := f.users[user.Username]; ok {
		return domain.ErrDuplicateUsername{Username: user.Username}
	}
	user.ID = primitive.NewObjectID()
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	return f.users[username], nil
}

func (f *fakeUserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, user := range f.users {
		if user.ID.Hex() == id {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepository) SetAdminFlag(_ context.Context, username string) (bool, error) {
	user, ok := f.users[username]
	if !ok {
		return false, nil
	}
	user.AdminFlag = true
	return true, nil
}

func (f *fakeUserRepository) AddFavoriteSong(_ context.Context, username, songID string) (bool, error) {
	return f.addToSet(username, func(u *domain.User) *[]string { return &u.FavoriteSongs }, songID)
}

func (f *fakeUserRepository) RemoveFavoriteSong(_ context.Context, username, songID string) (bool, error) {
	return f.pull(username, func(u *domain.User) *[]string { return &u.FavoriteSongs }, songID)
}

func (f *fakeUserRepository) AddFavoriteAlbum(_ context.Context, username, albumID string) (bool, error) {
	return f.addToSet(username, func(u *domain.User) *[]string { return &u.FavoriteAlbums }, albumID)
}

func (f *fakeUserRepository) RemoveFavoriteAlbum(_ context.Context, username, albumID string) (bool, error) {
	return f.pull(username, func(u *domain.User) *[]string { return &u.FavoriteAlbums }, albumID)
}

func (f *fakeUserRepository) AddFriend(_ context.Context, username, friendUsername string) (bool, error) {
	return f.addToSet(username, func(u *domain.User) *[]string { return &u.Friends }, friendUsername)
}

func (f *fakeUserRepository) RemoveFriend(_ context.Context, username, friendUsername string) (bool, error) {
	return f.pull(username, func(u *domain.User) *[]string { return &u.Friends }, friendUsername)
}

func (f *fakeUserRepository) addToSet(username string, field func(*domain.User) *[]string, value string) (bool, error) {
	user, ok := f.users[username]
	if !ok {
		return false, nil
	}
	list := field(user)
	for _, v := range *list {
		if v == value {
			return true, nil
		}
	}
	*list = append(*list, value)
	return true, nil
}

func (f *fakeUserRepository) pull(username string, field func(*domain.User) *[]string, value string) (bool, error) {
	user, ok := f.users[username]
	if !ok {
		return false, nil
	}
	list := field(user)
	kept := (*list)[:0]
	for _, v := range *list {
		if v != value {
			kept = append(kept, v)
		}
	}
	*list = kept
	return true, nil
}

// TestAccountLifecycle walks the whole account flow over one store: register
// two users, authenticate, favorite, friend, and verify the set semantics the
// real repository gets from $addToSet / $pull.
func TestAccountLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newFakeUserRepository()

	songs := new(mockSongFinder)
	songs.On("FindByID", mock.Anything, "song42").Return(&catalogDomain.Song{Title: "Answer"}, nil)
	albums := new(mockAlbumFinder)

	credentials := NewCredentialService(repo, bcrypt.MinCost, zerolog.Nop())
	relationships := NewRelationshipService(repo, songs, albums, zerolog.Nop())

	// Registration, with the duplicate rejected regardless of casing.
	assert.NoError(t, credentials.CreateUser(ctx, "Alice", "Secret123"))
	assert.NoError(t, credentials.CreateUser(ctx, "bob", "Hunter202"))
	err := credentials.CreateUser(ctx, "ALICE", "Another99")
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	// Login: wrong password and unknown user fail identically.
	_, errWrong := credentials.CheckUser(ctx, "bob", "wrong-pass-1")
	_, errGhost := credentials.CheckUser(ctx, "ghost", "Hunter202")
	assert.Equal(t, apperror.KindAuth, apperror.KindOf(errWrong))
	assert.Equal(t, errGhost.Error(), errWrong.Error())

	principal, err := credentials.CheckUser(ctx, "Bob", "Hunter202")
	assert.NoError(t, err)
	assert.Equal(t, "bob", principal.Username)

	// Favoriting the same song twice leaves a single entry.
	assert.NoError(t, relationships.FavoriteSong(ctx, "bob", "song42"))
	assert.NoError(t, relationships.FavoriteSong(ctx, "bob", "song42"))
	bob, err := credentials.GetUserByUsername(ctx, "bob")
	assert.NoError(t, err)
	assert.Equal(t, []string{"song42"}, bob.FavoriteSongs)

	// Friends: self is rejected, a real user is added once.
	err = relationships.AddFriend(ctx, "bob", "bob")
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	assert.NoError(t, relationships.AddFriend(ctx, "bob", "alice"))
	assert.NoError(t, relationships.AddFriend(ctx, "bob", "alice"))
	assert.Equal(t, []string{"alice"}, bob.Friends)

	// Friendship is asymmetric: alice's document never changed.
	alice, err := credentials.GetUserByUsername(ctx, "alice")
	assert.NoError(t, err)
	assert.Empty(t, alice.Friends)

	// Removing something never favorited is a quiet success.
	assert.NoError(t, relationships.RemoveFavoriteAlbum(ctx, "bob", "album7"))

	// Promotion is idempotent and visible through CheckAdmin.
	assert.NoError(t, credentials.MakeAdmin(ctx, "alice"))
	assert.NoError(t, credentials.MakeAdmin(ctx, "alice"))
	isAdmin, err := credentials.CheckAdmin(ctx, "alice")
	assert.NoError(t, err)
	assert.True(t, isAdmin)

	// Cleanup: un-favorite and un-friend return the lists to empty.
	assert.NoError(t, relationships.RemoveFavoriteSong(ctx, "bob", "song42"))
	assert.NoError(t, relationships.RemoveFriend(ctx, "bob", "alice"))
	assert.Empty(t, bob.FavoriteSongs)
	assert.Empty(t, bob.Friends)
}
