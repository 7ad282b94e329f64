package mongodb

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/avelez/tonewheel/internal/modules/catalog/domain"
)

// MongoCatalogRepository serves read-only song and album lookups. It backs
// both finder seams consumed by the user and library modules.
type MongoCatalogRepository struct {
	songs     *mongo.Collection
	albums    *mongo.Collection
	opTimeout time.Duration
}

func NewCatalogRepository(db *mongo.Database, opTimeout time.Duration) *MongoCatalogRepository {
	return &MongoCatalogRepository{
		songs:     db.Collection("songs"),
		albums:    db.Collection("albums"),
		opTimeout: opTimeout,
	}
}

// FindByID implements domain.SongFinder.
func (r *MongoCatalogRepository) FindByID(ctx context.Context, id string) (*domain.Song, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := r.bound(ctx)
	defer cancel()

	song := &domain.Song{}
	err = r.songs.FindOne(ctx, bson.M{"_id": oid}).Decode(song)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return song, nil
}

// List implements domain.SongFinder.
func (r *MongoCatalogRepository) List(ctx context.Context) ([]domain.Song, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	cursor, err := r.songs.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	songs := []domain.Song{}
	if err := cursor.All(ctx, &songs); err != nil {
		return nil, err
	}
	return songs, nil
}

// albumFinder adapts the repository to domain.AlbumFinder. Both finders
// want a FindByID/List pair, so the album side lives on a separate receiver.
type albumFinder struct {
	repo *MongoCatalogRepository
}

// Albums returns the domain.AlbumFinder view of the repository.
func (r *MongoCatalogRepository) Albums() domain.AlbumFinder {
	return albumFinder{repo: r}
}

func (f albumFinder) FindByID(ctx context.Context, id string) (*domain.Album, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	ctx, cancel := f.repo.bound(ctx)
	defer cancel()

	album := &domain.Album{}
	err = f.repo.albums.FindOne(ctx, bson.M{"_id": oid}).Decode(album)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return album, nil
}

func (f albumFinder) List(ctx context.Context) ([]domain.Album, error) {
	ctx, cancel := f.repo.bound(ctx)
	defer cancel()

	cursor, err := f.repo.albums.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	albums := []domain.Album{}
	if err := cursor.All(ctx, &albums); err != nil {
		return nil, err
	}
	return albums, nil
}

func (r *MongoCatalogRepository) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.opTimeout)
}
