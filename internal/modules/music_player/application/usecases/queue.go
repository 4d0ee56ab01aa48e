package usecases

import (
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

// DefaultPageSize is the default number of tracks per page.
const DefaultPageSize = 10

// QueueListOutput contains one page of a guild's tracks.
type QueueListOutput struct {
	Tracks      []*domain.Track // current track first, then the pending queue
	Total       int
	CurrentPage int
	TotalPages  int
	PageStart   int // 0-based index of Tracks[0] within the full sequence
}

// GetQueue returns the current track followed by the pending queue. It never
// fails; a guild without a session has an empty queue.
func (r *SessionRegistry) GetQueue(guildID snowflake.ID) []*domain.Track {
	unlock := r.locks.lock(guildID)
	defer unlock()

	session := r.repo.Get(guildID)
	if session == nil {
		return []*domain.Track{}
	}
	return session.Tracks()
}

// GetNowPlaying returns the current track, or nil.
func (r *SessionRegistry) GetNowPlaying(guildID snowflake.ID) *domain.Track {
	unlock := r.locks.lock(guildID)
	defer unlock()

	session := r.repo.Get(guildID)
	if session == nil {
		return nil
	}
	return session.CurrentTrack()
}

// ListQueue returns one page of GetQueue. Pages are 1-based and clamped into range.
func (r *SessionRegistry) ListQueue(guildID snowflake.ID, page, pageSize int) QueueListOutput {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	tracks := r.GetQueue(guildID)
	total := len(tracks)

	totalPages := max((total+pageSize-1)/pageSize, 1)
	page = min(max(page, 1), totalPages)

	start := min((page-1)*pageSize, total)
	end := min(start+pageSize, total)

	return QueueListOutput{
		Tracks:      tracks[start:end],
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
		PageStart:   start,
	}
}
