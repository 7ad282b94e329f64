package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account in the users collection. Username is the
// canonical identity key and is always stored lowercase. The password field
// holds the bcrypt hash, never plaintext.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string             `bson:"username" json:"username"`
	PasswordHash   string             `bson:"password" json:"-"`
	FavoriteSongs  []string           `bson:"favoriteSongs" json:"favorite_songs"`
	FavoriteAlbums []string           `bson:"favoriteAlbums" json:"favorite_albums"`
	Friends        []string           `bson:"friends" json:"friends"`
	AdminFlag      bool               `bson:"adminFlag" json:"admin_flag"`
	CreatedAt      time.Time          `bson:"createdAt" json:"created_at"`
}

// Principal is the minimal identity handed to the session layer after a
// successful credential check. It never carries the password hash.
type Principal struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// ErrDuplicateUsername is returned by Insert when the unique index on
// username rejects the document.
type ErrDuplicateUsername struct{ Username string }

func (e ErrDuplicateUsername) Error() string {
	return "username already taken: " + e.Username
}

// UserRepository is the store adapter for the users collection. Lookups
// return (nil, nil) when no document matches; absence is a signal, not an
// error, and callers decide what it means. Membership mutations are atomic
// set operations ($addToSet / $pull) so concurrent writers to the same
// document cannot produce duplicates. The boolean result reports whether the
// filter matched a user document.
type UserRepository interface {
	Insert(ctx context.Context, user *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	SetAdminFlag(ctx context.Context, username string) (bool, error)
	AddFavoriteSong(ctx context.Context, username, songID string) (bool, error)
	RemoveFavoriteSong(ctx context.Context, username, songID string) (bool, error)
	AddFavoriteAlbum(ctx context.Context, username, albumID string) (bool, error)
	RemoveFavoriteAlbum(ctx context.Context, username, albumID string) (bool, error)
	AddFriend(ctx context.Context, username, friendUsername string) (bool, error)
	RemoveFriend(ctx context.Context, username, friendUsername string) (bool, error)
}
