package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Song is a catalog entry. The catalog is read-only from the account and
// library cores; songs are referenced elsewhere by hex id string.
type Song struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title  string             `bson:"title" json:"title"`
	Artist string             `bson:"artist" json:"artist"`
	Album  string             `bson:"album,omitempty" json:"album,omitempty"`
	Year   int                `bson:"year,omitempty" json:"year,omitempty"`
}

// Album is a catalog entry.
type Album struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title  string             `bson:"title" json:"title"`
	Artist string             `bson:"artist" json:"artist"`
	Year   int                `bson:"year,omitempty" json:"year,omitempty"`
}

// SongFinder is the read-only lookup seam other modules use to confirm a
// song reference before persisting it. FindByID returns (nil, nil) when the
// id is unknown or not a valid object id.
type SongFinder interface {
	FindByID(ctx context.Context, id string) (*Song, error)
	List(ctx context.Context) ([]Song, error)
}

// AlbumFinder is the read-only lookup seam for albums.
type AlbumFinder interface {
	FindByID(ctx context.Context, id string) (*Album, error)
	List(ctx context.Context) ([]Album, error)
}
