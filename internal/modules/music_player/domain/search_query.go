package domain

import (
	"strings"
)

// SearchSource is the Lavalink search prefix used for free-text queries.
type SearchSource string

const (
	// SourceYouTube searches YouTube.
	SourceYouTube SearchSource = "ytsearch"
	// SourceYouTubeMusic searches YouTube Music.
	SourceYouTubeMusic SearchSource = "ytmsearch"
	// SourceSoundCloud searches SoundCloud.
	SourceSoundCloud SearchSource = "scsearch"
)

// SearchQuery is user input classified as either a direct media locator or search text.
type SearchQuery struct {
	Query  string       // The search term or URL
	Source SearchSource // Search prefix, unused for direct locators
	IsURL  bool         // Whether the query is a direct locator
}

// NewSearchQuery classifies input. Search text is searched on source,
// falling back to YouTube when source is empty.
func NewSearchQuery(input string, source SearchSource) *SearchQuery {
	input = strings.TrimSpace(input)

	if isURL(input) {
		return &SearchQuery{
			Query: input,
			IsURL: true,
		}
	}

	if source == "" {
		source = SourceYouTube
	}
	return &SearchQuery{
		Query:  input,
		Source: source,
	}
}

// LavalinkQuery returns the identifier to hand to Lavalink's track loader.
func (q *SearchQuery) LavalinkQuery() string {
	if q.IsURL {
		return q.Query
	}
	return string(q.Source) + ":" + q.Query
}

// IsValid returns true if the query is not empty.
func (q *SearchQuery) IsValid() bool {
	return q.Query != ""
}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}
