package mongodb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/avelez/tonewheel/internal/modules/user/domain"
)

func newMockTest(t *testing.T) *mtest.T {
	t.Helper()
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func usersNS(mt *mtest.T) string {
	return mt.DB.Name() + ".users"
}

func TestInsert(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("assigns the generated id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		user := &domain.User{Username: "carol", PasswordHash: "hash"}
		err := repo.Insert(context.Background(), user)
		assert.NoError(mt.T, err)
		assert.False(mt.T, user.ID.IsZero())
	})

	mt.Run("duplicate username", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error",
		}))

		err := repo.Insert(context.Background(), &domain.User{Username: "carol"})
		var dup domain.ErrDuplicateUsername
		assert.True(mt.T, errors.As(err, &dup))
		assert.Equal(mt.T, "carol", dup.Username)
	})
}

func TestFindByUsername(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("hit", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, 0)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(1, usersNS(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "username", Value: "carol"},
			{Key: "password", Value: "hash"},
			{Key: "favoriteSongs", Value: bson.A{"s1", "s2"}},
			{Key: "adminFlag", Value: true},
		}))

		user, err := repo.FindByUsername(context.Background(), "carol")
		assert.NoError(mt.T, err)
		assert.Equal(mt.T, oid, user.ID)
		assert.Equal(mt.T, "carol", user.Username)
		assert.Equal(mt.T, []string{"s1", "s2"}, user.FavoriteSongs)
		assert.True(mt.T, user.AdminFlag)
	})

	mt.Run("miss is nil, nil", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, usersNS(mt), mtest.FirstBatch))

		user, err := repo.FindByUsername(context.Background(), "ghost")
		assert.NoError(mt.T, err)
		assert.Nil(mt.T, user)
	})
}

func TestFindByID_MalformedIDIsAMiss(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("no round trip for bad hex", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, 0)

		user, err := repo.FindByID(context.Background(), "not-a-hex-id")
		assert.NoError(mt.T, err)
		assert.Nil(mt.T, user)
	})
}

func TestSetAdminFlag(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("matched", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		matched, err := repo.SetAdminFlag(context.Background(), "carol")
		assert.NoError(mt.T, err)
		assert.True(mt.T, matched)
	})

	mt.Run("no such user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		matched, err := repo.SetAdminFlag(context.Background(), "ghost")
		assert.NoError(mt.T, err)
		assert.False(mt.T, matched)
	})
}

func TestListMutations(t *testing.T) {
	mt := newMockTest(t)

	mt.Run("add favorite song matches the user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		matched, err := repo.AddFavoriteSong(context.Background(), "carol", "song42")
		assert.NoError(mt.T, err)
		assert.True(mt.T, matched)
	})

	mt.Run("adding a present value still matches", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, 0)
		// $addToSet on a value already in the set: matched but not modified.
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
		))

		matched, err := repo.AddFriend(context.Background(), "carol", "alice")
		assert.NoError(mt.T, err)
		assert.True(mt.T, matched)
	})

	mt.Run("remove against a missing user", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB, 0)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		matched, err := repo.RemoveFavoriteAlbum(context.Background(), "ghost", "album7")
		assert.NoError(mt.T, err)
		assert.False(mt.T, matched)
	})
}
