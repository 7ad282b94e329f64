package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avelez/tonewheel/internal/modules/library/domain"
)

// MongoLibraryRepository reads playlists and reviews. The aggregation layer
// is read-only, so no write methods exist here.
type MongoLibraryRepository struct {
	playlists    *mongo.Collection
	songReviews  *mongo.Collection
	albumReviews *mongo.Collection
	opTimeout    time.Duration
}

func NewLibraryRepository(db *mongo.Database, opTimeout time.Duration) *MongoLibraryRepository {
	return &MongoLibraryRepository{
		playlists:    db.Collection("playlists"),
		songReviews:  db.Collection("songReviews"),
		albumReviews: db.Collection("albumReviews"),
		opTimeout:    opTimeout,
	}
}

// FindAll implements domain.PlaylistRepository.
func (r *MongoLibraryRepository) FindAll(ctx context.Context) ([]domain.Playlist, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	cursor, err := r.playlists.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	playlists := []domain.Playlist{}
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// FindByID implements domain.PlaylistRepository; (nil, nil) when absent.
func (r *MongoLibraryRepository) FindByID(ctx context.Context, id string) (*domain.Playlist, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	playlist := &domain.Playlist{}
	err = r.playlists.FindOne(ctx, bson.M{"_id": oid}).Decode(playlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

// FindByOwnerID implements domain.PlaylistRepository.
func (r *MongoLibraryRepository) FindByOwnerID(ctx context.Context, ownerID string) ([]domain.Playlist, error) {
	oid, err := primitive.ObjectIDFromHex(ownerID)
	if err != nil {
		return []domain.Playlist{}, nil
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	cursor, err := r.playlists.Find(ctx, bson.M{"userId": oid})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	playlists := []domain.Playlist{}
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// FindSongReviewsByUserID implements domain.ReviewRepository.
func (r *MongoLibraryRepository) FindSongReviewsByUserID(ctx context.Context, userID string) ([]domain.SongReview, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []domain.SongReview{}, nil
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	cursor, err := r.songReviews.Find(ctx, bson.M{"userId": oid})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []domain.SongReview{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindAlbumReviewsByUserID implements domain.ReviewRepository.
func (r *MongoLibraryRepository) FindAlbumReviewsByUserID(ctx context.Context, userID string) ([]domain.AlbumReview, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []domain.AlbumReview{}, nil
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	cursor, err := r.albumReviews.Find(ctx, bson.M{"userId": oid})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	reviews := []domain.AlbumReview{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *MongoLibraryRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opTimeout)
}
