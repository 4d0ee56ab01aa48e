package usecases

import (
	"context"
	"log/slog"

	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/ports"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

// MaxSearchResults caps the number of results returned by Search.
const MaxSearchResults = 25

// resolve returns the best match for the query, or ErrNoResults.
func (r *SessionRegistry) resolve(
	ctx context.Context,
	query *domain.SearchQuery,
) (*domain.Track, error) {
	result, err := r.resolver.LoadTracks(ctx, query.LavalinkQuery())
	if err != nil {
		slog.Warn("failed to resolve query", "query", query.Query, "error", err)
		return nil, ErrNoResults
	}

	info := bestMatch(result)
	if info == nil {
		if result != nil && result.Type == ports.LoadTypeError {
			slog.Warn("resolver reported an error", "query", query.Query, "error", result.Error)
		}
		return nil, ErrNoResults
	}

	return trackFromInfo(info), nil
}

// Search returns up to limit candidate tracks for free-text input.
// Direct locators yield no candidates.
func (r *SessionRegistry) Search(
	ctx context.Context,
	input string,
	limit int,
) ([]*domain.Track, error) {
	query := domain.NewSearchQuery(input, r.config.SearchSource)
	if !query.IsValid() || query.IsURL {
		return nil, nil
	}
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}

	result, err := r.resolver.LoadTracks(ctx, query.LavalinkQuery())
	if err != nil {
		return nil, err
	}
	if result == nil || result.Type != ports.LoadTypeSearch {
		return nil, nil
	}

	infos := result.Tracks[:min(limit, len(result.Tracks))]
	tracks := make([]*domain.Track, 0, len(infos))
	for _, info := range infos {
		tracks = append(tracks, trackFromInfo(info))
	}
	return tracks, nil
}

// bestMatch picks the single track a load result stands for.
func bestMatch(result *ports.LoadResult) *ports.TrackInfo {
	if result == nil || len(result.Tracks) == 0 {
		return nil
	}

	switch result.Type {
	case ports.LoadTypeTrack, ports.LoadTypeSearch:
		return result.Tracks[0]
	case ports.LoadTypePlaylist:
		if result.SelectedTrack >= 0 && result.SelectedTrack < len(result.Tracks) {
			return result.Tracks[result.SelectedTrack]
		}
		return result.Tracks[0]
	default:
		return nil
	}
}

func trackFromInfo(info *ports.TrackInfo) *domain.Track {
	return &domain.Track{
		ID:         domain.NewTrackID(),
		Encoded:    info.Encoded,
		Identifier: info.Identifier,
		Title:      info.Title,
		Artist:     info.Artist,
		Duration:   info.Duration,
		URI:        info.URI,
		ArtworkURL: info.ArtworkURL,
		SourceName: info.SourceName,
		IsStream:   info.IsStream,
	}
}
