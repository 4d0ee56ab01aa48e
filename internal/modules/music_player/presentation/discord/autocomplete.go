package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/jonathanreexes/LiveryLabs/internal/bot"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
	"github.com/samber/lo"
)

const (
	autocompleteLimit    = 5
	autocompleteMinQuery = 2
	autocompleteTimeout  = 2500 * time.Millisecond

	// Discord rejects choice names and values longer than this.
	maxChoiceLength = 100
)

// TrackSearcher looks up candidate tracks for free-text input.
type TrackSearcher interface {
	Search(ctx context.Context, input string, limit int) ([]*domain.Track, error)
}

// AutocompleteHandler handles autocomplete requests.
type AutocompleteHandler struct {
	searcher TrackSearcher
}

// NewAutocompleteHandler creates a new AutocompleteHandler.
func NewAutocompleteHandler(searcher TrackSearcher) *AutocompleteHandler {
	return &AutocompleteHandler{searcher: searcher}
}

// HandleMusic routes autocomplete requests for /music.
func (h *AutocompleteHandler) HandleMusic(i *discordgo.InteractionCreate, r bot.Responder) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 || options[0].Name != subcommandPlay {
		return respondChoices(r, nil)
	}
	return h.handlePlay(r, options[0].Options)
}

// handlePlay suggests search results for the play query.
func (h *AutocompleteHandler) handlePlay(
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	var query string
	for _, opt := range options {
		if opt.Name == "query" && opt.Focused {
			query = opt.StringValue()
			break
		}
	}

	// Don't search for very short queries
	if len([]rune(query)) < autocompleteMinQuery {
		return respondChoices(r, nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), autocompleteTimeout)
	defer cancel()

	tracks, err := h.searcher.Search(ctx, query, autocompleteLimit)
	if err != nil {
		slog.Debug("failed to search for autocomplete", "query", query, "error", err)
		return respondChoices(r, nil)
	}

	choices := lo.FilterMap(tracks, func(track *domain.Track, _ int) (*discordgo.ApplicationCommandOptionChoice, bool) {
		if track.URI == "" || len(track.URI) > maxChoiceLength {
			return nil, false
		}
		return &discordgo.ApplicationCommandOptionChoice{
			Name:  truncate(fmt.Sprintf("%s - %s (%s)", track.Title, track.Artist, track.DurationLabel()), maxChoiceLength),
			Value: track.URI,
		}, true
	})

	return respondChoices(r, choices)
}

func respondChoices(r bot.Responder, choices []*discordgo.ApplicationCommandOptionChoice) error {
	if choices == nil {
		choices = []*discordgo.ApplicationCommandOptionChoice{}
	}
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{
			Choices: choices,
		},
	})
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
