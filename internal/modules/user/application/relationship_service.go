package application

import (
	"context"

	"github.com/rs/zerolog"

	catalogDomain "github.com/avelez/tonewheel/internal/modules/catalog/domain"
	"github.com/avelez/tonewheel/internal/modules/user/domain"
	"github.com/avelez/tonewheel/internal/shared/apperror"
)

// RelationshipService owns the favorite-song, favorite-album and friend
// lists on a user document. Every mutation validates in a fixed order:
// acting user exists, then the referenced entity exists, then the update
// runs. The lists are logical sets; the repository enforces that with
// atomic set updates, so two racing adds of the same reference still leave
// a single entry.
type RelationshipService struct {
	users  domain.UserRepository
	songs  catalogDomain.SongFinder
	albums catalogDomain.AlbumFinder
	log    zerolog.Logger
}

func NewRelationshipService(users domain.UserRepository, songs catalogDomain.SongFinder, albums catalogDomain.AlbumFinder, log zerolog.Logger) *RelationshipService {
	return &RelationshipService{users: users, songs: songs, albums: albums, log: log}
}

// FavoriteSong adds a song reference to the user's favorites.
func (s *RelationshipService) FavoriteSong(ctx context.Context, username, songID string) error {
	username, err := s.requireUser(ctx, username)
	if err != nil {
		return err
	}
	if err := s.requireSong(ctx, songID); err != nil {
		return err
	}
	return s.apply(s.users.AddFavoriteSong(ctx, username, songID))
}

// RemoveFavoriteSong removes a song reference. Removing a reference that is
// not in the list is a no-op success, and the song itself no longer needs to
// exist: a dangling favorite must stay removable.
func (s *RelationshipService) RemoveFavoriteSong(ctx context.Context, username, songID string) error {
	username, err := s.requireUser(ctx, username)
	if err != nil {
		return err
	}
	if songID == "" {
		return apperror.New(apperror.KindValidation, "song id must be provided")
	}
	return s.apply(s.users.RemoveFavoriteSong(ctx, username, songID))
}

// FavoriteAlbum adds an album reference to the user's favorites.
func (s *RelationshipService) FavoriteAlbum(ctx context.Context, username, albumID string) error {
	username, err := s.requireUser(ctx, username)
	if err != nil {
		return err
	}
	if err := s.requireAlbum(ctx, albumID); err != nil {
		return err
	}
	return s.apply(s.users.AddFavoriteAlbum(ctx, username, albumID))
}

// RemoveFavoriteAlbum removes an album reference; absent reference is a
// no-op success.
func (s *RelationshipService) RemoveFavoriteAlbum(ctx context.Context, username, albumID string) error {
	username, err := s.requireUser(ctx, username)
	if err != nil {
		return err
	}
	if albumID == "" {
		return apperror.New(apperror.KindValidation, "album id must be provided")
	}
	return s.apply(s.users.RemoveFavoriteAlbum(ctx, username, albumID))
}

// AddFriend appends friendUsername to the acting user's friend list.
// Friendship is asymmetric (follow-style): only the actor's document
// changes. Making it mutual would need a two-document write with no
// transaction to protect it.
func (s *RelationshipService) AddFriend(ctx context.Context, username, friendUsername string) error {
	username = NormalizeUsername(username)
	friendUsername = NormalizeUsername(friendUsername)
	if username == friendUsername {
		return apperror.New(apperror.KindValidation, "you cannot add yourself as a friend")
	}
	username, err := s.requireUser(ctx, username)
	if err != nil {
		return err
	}
	if err := ValidateUsername(friendUsername); err != nil {
		return err
	}
	friend, err := s.users.FindByUsername(ctx, friendUsername)
	if err != nil {
		return s.storage("friend lookup failed", err)
	}
	if friend == nil {
		return apperror.New(apperror.KindNotFound, "there is no user with that username")
	}
	return s.apply(s.users.AddFriend(ctx, username, friendUsername))
}

// RemoveFriend removes friendUsername from the acting user's friend list;
// absent entry is a no-op success. The friend account itself does not need
// to still exist.
func (s *RelationshipService) RemoveFriend(ctx context.Context, username, friendUsername string) error {
	username, err := s.requireUser(ctx, username)
	if err != nil {
		return err
	}
	friendUsername = NormalizeUsername(friendUsername)
	if err := ValidateUsername(friendUsername); err != nil {
		return err
	}
	return s.apply(s.users.RemoveFriend(ctx, username, friendUsername))
}

// requireUser normalizes and validates the acting username and confirms the
// account exists. Returns the normalized form.
func (s *RelationshipService) requireUser(ctx context.Context, username string) (string, error) {
	username = NormalizeUsername(username)
	if err := ValidateUsername(username); err != nil {
		return "", err
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", s.storage("user lookup failed", err)
	}
	if user == nil {
		return "", apperror.New(apperror.KindNotFound, "there is no user with that username")
	}
	return username, nil
}

func (s *RelationshipService) requireSong(ctx context.Context, songID string) error {
	if songID == "" {
		return apperror.New(apperror.KindValidation, "song id must be provided")
	}
	song, err := s.songs.FindByID(ctx, songID)
	if err != nil {
		return s.storage("song lookup failed", err)
	}
	if song == nil {
		return apperror.New(apperror.KindNotFound, "there is no song with that id")
	}
	return nil
}

func (s *RelationshipService) requireAlbum(ctx context.Context, albumID string) error {
	if albumID == "" {
		return apperror.New(apperror.KindValidation, "album id must be provided")
	}
	album, err := s.albums.FindByID(ctx, albumID)
	if err != nil {
		return s.storage("album lookup failed", err)
	}
	if album == nil {
		return apperror.New(apperror.KindNotFound, "there is no album with that id")
	}
	return nil
}

// apply interprets a repository mutation result. A matched-zero means the
// user vanished between the existence check and the update.
func (s *RelationshipService) apply(matched bool, err error) error {
	if err != nil {
		return s.storage("could not update user", err)
	}
	if !matched {
		return apperror.New(apperror.KindNotFound, "there is no user with that username")
	}
	return nil
}

func (s *RelationshipService) storage(msg string, err error) error {
	s.log.Error().Err(err).Msg(msg)
	return apperror.Wrap(apperror.KindStorage, msg, err)
}
