package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FavoritesPlaylistName marks the system playlist that mirrors a user's
// favorite songs. It is a view, not an independent song list: detail
// resolution reads the owner's favoriteSongs.
const FavoritesPlaylistName = "Favorites"

// Playlist is a user-owned ordered list of song references.
type Playlist struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID primitive.ObjectID `bson:"userId" json:"owner_id"`
	Name    string             `bson:"name" json:"name"`
	Songs   []string           `bson:"songs" json:"songs"`
}

// IsFavorites reports whether this playlist is the synthesized favorites
// view.
func (p *Playlist) IsFavorites() bool {
	return p.Name == FavoritesPlaylistName
}

// SongReview is a user's review of a song.
type SongReview struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID primitive.ObjectID `bson:"userId" json:"user_id"`
	SongID string             `bson:"songId" json:"song_id"`
	Title  string             `bson:"title" json:"title"`
	Body   string             `bson:"body" json:"body"`
	Rating int                `bson:"rating" json:"rating"`
}

// AlbumReview is a user's review of an album.
type AlbumReview struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID  primitive.ObjectID `bson:"userId" json:"user_id"`
	AlbumID string             `bson:"albumId" json:"album_id"`
	Title   string             `bson:"title" json:"title"`
	Body    string             `bson:"body" json:"body"`
	Rating  int                `bson:"rating" json:"rating"`
}

// PlaylistRepository reads the playlists collection. FindByID returns
// (nil, nil) when absent.
type PlaylistRepository interface {
	FindAll(ctx context.Context) ([]Playlist, error)
	FindByID(ctx context.Context, id string) (*Playlist, error)
	FindByOwnerID(ctx context.Context, ownerID string) ([]Playlist, error)
}

// ReviewRepository reads the two review collections.
type ReviewRepository interface {
	FindSongReviewsByUserID(ctx context.Context, userID string) ([]SongReview, error)
	FindAlbumReviewsByUserID(ctx context.Context, userID string) ([]AlbumReview, error)
}
