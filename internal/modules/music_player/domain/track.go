package domain

import (
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// TrackID identifies one enqueued track. Enqueuing the same song twice yields two IDs.
type TrackID string

// NewTrackID returns a fresh random TrackID.
func NewTrackID() TrackID {
	return TrackID(uuid.NewString())
}

// Track represents a resolved, playable audio track.
type Track struct {
	ID            TrackID
	Encoded       string // Lavalink encoded track data, resolved once
	Identifier    string // source-specific identifier, e.g. a YouTube video ID
	Title         string
	Artist        string
	Duration      time.Duration
	URI           string
	ArtworkURL    string
	SourceName    string // e.g., "youtube", "soundcloud"
	IsStream      bool
	RequesterID   snowflake.ID // Discord user who added the track
	RequesterName string       // Display name of the requester
	EnqueuedAt    time.Time
}

// Source returns the parsed TrackSource for this track.
func (t *Track) Source() TrackSource {
	return ParseTrackSource(t.SourceName)
}

// WithRequester returns a copy of the track with a new ID, tagged with the requester.
func (t *Track) WithRequester(requesterID snowflake.ID, requesterName string) *Track {
	c := *t
	c.ID = NewTrackID()
	c.RequesterID = requesterID
	c.RequesterName = requesterName
	c.EnqueuedAt = time.Now().UTC()
	return &c
}

// IsValid returns true if the track has the minimum required fields.
func (t *Track) IsValid() bool {
	return t.Encoded != "" && t.Title != ""
}

// DurationLabel returns the duration as mm:ss or hh:mm:ss.
// Streams are labelled "LIVE" and tracks without a known length "Unknown".
func (t *Track) DurationLabel() string {
	if t.IsStream {
		return "LIVE"
	}
	if t.Duration <= 0 {
		return "Unknown"
	}

	totalSeconds := int(t.Duration.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
