package ports

import (
	"context"
)

// TrackResolver loads tracks for a Lavalink identifier (direct locator or prefixed search).
type TrackResolver interface {
	// LoadTracks resolves the query. An empty result is not an error.
	LoadTracks(ctx context.Context, query string) (*LoadResult, error)
}
