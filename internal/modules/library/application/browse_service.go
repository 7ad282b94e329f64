package application

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	catalogDomain "github.com/avelez/tonewheel/internal/modules/catalog/domain"
	"github.com/avelez/tonewheel/internal/modules/library/domain"
	userDomain "github.com/avelez/tonewheel/internal/modules/user/domain"
	"github.com/avelez/tonewheel/internal/shared/apperror"
)

// resolveLimit caps concurrent sibling lookups when fanning out over a
// playlist's songs or a profile's review targets.
const resolveLimit = 8

// UserDirectory is the slice of the credential store the browse service
// needs: plain lookups that signal absence with (nil, nil).
type UserDirectory interface {
	GetUserByID(ctx context.Context, id string) (*userDomain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*userDomain.User, error)
}

// PlaylistSummary pairs a playlist with its resolved owner for listings.
// OwnerMissing flags a dangling owner reference; the listing keeps the item.
type PlaylistSummary struct {
	Playlist      domain.Playlist `json:"playlist"`
	OwnerUsername string          `json:"owner_username,omitempty"`
	OwnerMissing  bool            `json:"owner_missing,omitempty"`
}

// PlaylistDetail is a playlist with every song reference resolved.
type PlaylistDetail struct {
	ID            string               `json:"id"`
	Name          string               `json:"name"`
	OwnerID       string               `json:"owner_id"`
	OwnerUsername string               `json:"owner_username,omitempty"`
	Songs         []catalogDomain.Song `json:"songs"`
	IsOwner       bool                 `json:"is_owner"`
}

// SongReviewView denormalizes the reviewed song's title into the review.
type SongReviewView struct {
	domain.SongReview
	SongTitle string `json:"song_title"`
}

// AlbumReviewView denormalizes the reviewed album's title into the review.
type AlbumReviewView struct {
	domain.AlbumReview
	AlbumTitle string `json:"album_title"`
}

// Profile is the composed view of one user's public page.
type Profile struct {
	UserID       string            `json:"user_id"`
	Username     string            `json:"username"`
	SongReviews  []SongReviewView  `json:"song_reviews"`
	AlbumReviews []AlbumReviewView `json:"album_reviews"`
	Playlists    []domain.Playlist `json:"playlists"`
	Favorites    domain.Playlist   `json:"favorites"`
}

// BrowseService composes users, playlists, songs, albums and reviews into
// view-ready structures. It never mutates state.
type BrowseService struct {
	playlists domain.PlaylistRepository
	reviews   domain.ReviewRepository
	users     UserDirectory
	songs     catalogDomain.SongFinder
	albums    catalogDomain.AlbumFinder
	log       zerolog.Logger
}

func NewBrowseService(playlists domain.PlaylistRepository, reviews domain.ReviewRepository, users UserDirectory, songs catalogDomain.SongFinder, albums catalogDomain.AlbumFinder, log zerolog.Logger) *BrowseService {
	return &BrowseService{
		playlists: playlists,
		reviews:   reviews,
		users:     users,
		songs:     songs,
		albums:    albums,
		log:       log,
	}
}

// ListPlaylists returns every playlist with its owner resolved. A dangling
// owner reference is flagged and logged, never fatal: one bad document must
// not take down the whole listing.
func (s *BrowseService) ListPlaylists(ctx context.Context) ([]PlaylistSummary, error) {
	playlists, err := s.playlists.FindAll(ctx)
	if err != nil {
		return nil, s.storage("could not list playlists", err)
	}

	summaries := make([]PlaylistSummary, len(playlists))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveLimit)
	for i, p := range playlists {
		g.Go(func() error {
			owner, err := s.users.GetUserByID(gctx, p.OwnerID.Hex())
			if err != nil {
				return err
			}
			summary := PlaylistSummary{Playlist: p}
			if owner == nil {
				summary.OwnerMissing = true
				s.log.Warn().
					Str("playlist_id", p.ID.Hex()).
					Str("owner_id", p.OwnerID.Hex()).
					Msg("playlist references a missing owner")
			} else {
				summary.OwnerUsername = owner.Username
			}
			summaries[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.storage("could not resolve playlist owners", err)
	}
	return summaries, nil
}

// GetPlaylistDetail resolves a playlist and all its songs. The Favorites
// playlist is a view over the owner's favoriteSongs: its songs come from
// there and its name renders as "<owner>'s Favorites".
func (s *BrowseService) GetPlaylistDetail(ctx context.Context, playlistID, requestingUserID string) (*PlaylistDetail, error) {
	playlist, err := s.playlists.FindByID(ctx, playlistID)
	if err != nil {
		return nil, s.storage("could not load playlist", err)
	}
	if playlist == nil {
		return nil, apperror.New(apperror.KindNotFound, "there is no playlist with that id")
	}

	owner, err := s.users.GetUserByID(ctx, playlist.OwnerID.Hex())
	if err != nil {
		return nil, s.storage("could not resolve playlist owner", err)
	}

	detail := &PlaylistDetail{
		ID:      playlist.ID.Hex(),
		Name:    playlist.Name,
		OwnerID: playlist.OwnerID.Hex(),
		IsOwner: requestingUserID != "" && requestingUserID == playlist.OwnerID.Hex(),
	}

	songIDs := playlist.Songs
	if owner != nil {
		detail.OwnerUsername = owner.Username
		if playlist.IsFavorites() {
			detail.Name = owner.Username + "'s Favorites"
			songIDs = owner.FavoriteSongs
		}
	} else {
		s.log.Warn().
			Str("playlist_id", playlist.ID.Hex()).
			Str("owner_id", playlist.OwnerID.Hex()).
			Msg("playlist references a missing owner")
	}

	songs, err := s.resolveSongs(ctx, songIDs)
	if err != nil {
		return nil, err
	}
	detail.Songs = songs
	return detail, nil
}

// GetProfile composes a user's page: their reviews with target titles
// resolved, their playlists, and the synthesized favorites view.
func (s *BrowseService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, s.storage("could not load user", err)
	}
	if user == nil {
		return nil, apperror.New(apperror.KindNotFound, "there is no user with that username")
	}
	userID := user.ID.Hex()

	songReviews, err := s.reviews.FindSongReviewsByUserID(ctx, userID)
	if err != nil {
		return nil, s.storage("could not load song reviews", err)
	}
	albumReviews, err := s.reviews.FindAlbumReviewsByUserID(ctx, userID)
	if err != nil {
		return nil, s.storage("could not load album reviews", err)
	}
	playlists, err := s.playlists.FindByOwnerID(ctx, userID)
	if err != nil {
		return nil, s.storage("could not load playlists", err)
	}

	profile := &Profile{
		UserID:       userID,
		Username:     user.Username,
		SongReviews:  make([]SongReviewView, len(songReviews)),
		AlbumReviews: make([]AlbumReviewView, len(albumReviews)),
		Playlists:    playlists,
		Favorites: domain.Playlist{
			OwnerID: user.ID,
			Name:    user.Username + "'s Favorites",
			Songs:   user.FavoriteSongs,
		},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveLimit)
	for i, review := range songReviews {
		g.Go(func() error {
			view := SongReviewView{SongReview: review}
			song, err := s.songs.FindByID(gctx, review.SongID)
			if err != nil {
				return err
			}
			if song == nil {
				s.log.Warn().
					Str("review_id", review.ID.Hex()).
					Str("song_id", review.SongID).
					Msg("review references a missing song")
			} else {
				view.SongTitle = song.Title
			}
			profile.SongReviews[i] = view
			return nil
		})
	}
	for i, review := range albumReviews {
		g.Go(func() error {
			view := AlbumReviewView{AlbumReview: review}
			album, err := s.albums.FindByID(gctx, review.AlbumID)
			if err != nil {
				return err
			}
			if album == nil {
				s.log.Warn().
					Str("review_id", review.ID.Hex()).
					Str("album_id", review.AlbumID).
					Msg("review references a missing album")
			} else {
				view.AlbumTitle = album.Title
			}
			profile.AlbumReviews[i] = view
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.storage("could not resolve review targets", err)
	}
	return profile, nil
}

// resolveSongs looks up the given ids concurrently, preserving order and
// skipping dangling references with a warning.
func (s *BrowseService) resolveSongs(ctx context.Context, songIDs []string) ([]catalogDomain.Song, error) {
	resolved := make([]*catalogDomain.Song, len(songIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveLimit)
	for i, id := range songIDs {
		g.Go(func() error {
			song, err := s.songs.FindByID(gctx, id)
			if err != nil {
				return err
			}
			if song == nil {
				s.log.Warn().Str("song_id", id).Msg("playlist references a missing song")
			}
			resolved[i] = song
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.storage("could not resolve songs", err)
	}

	songs := make([]catalogDomain.Song, 0, len(resolved))
	for _, song := range resolved {
		if song != nil {
			songs = append(songs, *song)
		}
	}
	return songs, nil
}

func (s *BrowseService) storage(msg string, err error) error {
	var classified *apperror.Error
	if errors.As(err, &classified) {
		// Already classified by a collaborating service.
		return err
	}
	s.log.Error().Err(err).Msg(msg)
	return apperror.Wrap(apperror.KindStorage, msg, err)
}
