package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avelez/tonewheel/internal/modules/user/domain"
)

// MongoUserRepository persists users in the users collection. The handle is
// injected so services can run against a substitute store in tests. Every
// call is bounded by opTimeout.
type MongoUserRepository struct {
	coll      *mongo.Collection
	opTimeout time.Duration
}

// NewUserRepository creates a user repository over the given database.
func NewUserRepository(db *mongo.Database, opTimeout time.Duration) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection("users"), opTimeout: opTimeout}
}

// Insert implements domain.UserRepository. A unique-index violation on
// username surfaces as domain.ErrDuplicateUsername.
func (r *MongoUserRepository) Insert(ctx context.Context, user *domain.User) error {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	res, err := r.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateUsername{Username: user.Username}
		}
		return err
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}
	return nil
}

// FindByUsername implements domain.UserRepository; (nil, nil) when absent.
func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	user := &domain.User{}
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID implements domain.UserRepository. A malformed id is a not-found
// signal, not an error.
func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	user := &domain.User{}
	err = r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetAdminFlag implements domain.UserRepository; idempotent by construction.
func (r *MongoUserRepository) SetAdminFlag(ctx context.Context, username string) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"adminFlag": true}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoUserRepository) AddFavoriteSong(ctx context.Context, username, songID string) (bool, error) {
	return r.addToSet(ctx, username, "favoriteSongs", songID)
}

func (r *MongoUserRepository) RemoveFavoriteSong(ctx context.Context, username, songID string) (bool, error) {
	return r.pull(ctx, username, "favoriteSongs", songID)
}

func (r *MongoUserRepository) AddFavoriteAlbum(ctx context.Context, username, albumID string) (bool, error) {
	return r.addToSet(ctx, username, "favoriteAlbums", albumID)
}

func (r *MongoUserRepository) RemoveFavoriteAlbum(ctx context.Context, username, albumID string) (bool, error) {
	return r.pull(ctx, username, "favoriteAlbums", albumID)
}

func (r *MongoUserRepository) AddFriend(ctx context.Context, username, friendUsername string) (bool, error) {
	return r.addToSet(ctx, username, "friends", friendUsername)
}

func (r *MongoUserRepository) RemoveFriend(ctx context.Context, username, friendUsername string) (bool, error) {
	return r.pull(ctx, username, "friends", friendUsername)
}

// addToSet performs the conditional "add if not present" update. $addToSet
// is atomic on the document, which is what keeps the lists duplicate-free
// under concurrent writers; an unconditional $push would not be.
func (r *MongoUserRepository) addToSet(ctx context.Context, username, field, value string) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$addToSet": bson.M{field: value}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// pull removes a value from a list field. Pulling an absent value still
// matches the user document, which makes removal a natural no-op.
func (r *MongoUserRepository) pull(ctx context.Context, username, field, value string) (bool, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$pull": bson.M{field: value}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *MongoUserRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opTimeout)
}
