package discord

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonathanreexes/LiveryLabs/internal/bot"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/ports"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/usecases"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
	"github.com/samber/lo"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
	colorInfo    = 0x5865F2
)

// playTimeout bounds resolving a query and joining the voice channel.
const playTimeout = 20 * time.Second

// Player is the part of the session registry the command handlers drive.
type Player interface {
	Play(ctx context.Context, input usecases.PlayInput) (*usecases.PlayOutput, error)
	Pause(ctx context.Context, guildID snowflake.ID) error
	Resume(ctx context.Context, guildID snowflake.ID) error
	Stop(ctx context.Context, guildID snowflake.ID) error
	Skip(ctx context.Context, guildID snowflake.ID) (*usecases.SkipOutput, error)
	SetVolume(ctx context.Context, guildID snowflake.ID, percent int) (*usecases.VolumeOutput, error)
	Leave(ctx context.Context, guildID snowflake.ID) error
	GetNowPlaying(guildID snowflake.ID) *domain.Track
	ListQueue(guildID snowflake.ID, page, pageSize int) usecases.QueueListOutput
	Stats() usecases.StatsOutput
}

// CommandHandlers holds the /music subcommand handlers.
type CommandHandlers struct {
	player     Player
	voiceState ports.VoiceStateProvider
}

// NewCommandHandlers creates new CommandHandlers.
func NewCommandHandlers(player Player, voiceState ports.VoiceStateProvider) *CommandHandlers {
	return &CommandHandlers{
		player:     player,
		voiceState: voiceState,
	}
}

// HandleMusic routes /music to its subcommand.
func (h *CommandHandlers) HandleMusic(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "Invalid subcommand")
	}

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil || i.Member == nil {
		return respondError(r, "This command can only be used in a server.")
	}

	subCmd := options[0]
	switch subCmd.Name {
	case subcommandPlay:
		return h.handlePlay(i, r, guildID, subCmd.Options)
	case subcommandPause:
		return h.handlePause(r, guildID)
	case subcommandResume:
		return h.handleResume(r, guildID)
	case subcommandStop:
		return h.handleStop(r, guildID)
	case subcommandSkip:
		return h.handleSkip(r, guildID)
	case subcommandQueue:
		return h.handleQueue(r, guildID, subCmd.Options)
	case subcommandVolume:
		return h.handleVolume(r, guildID, subCmd.Options)
	case subcommandNowPlaying:
		return h.handleNowPlaying(r, guildID)
	case subcommandLeave:
		return h.handleLeave(r, guildID)
	case subcommandStats:
		return h.handleStats(r)
	default:
		return respondError(r, "Unknown subcommand")
	}
}

func (h *CommandHandlers) handlePlay(
	i *discordgo.InteractionCreate,
	r bot.Responder,
	guildID snowflake.ID,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	notificationChannelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "Invalid notification channel")
	}

	var query string
	for _, opt := range options {
		if opt.Name == "query" {
			query = opt.StringValue()
		}
	}

	voiceChannelID, err := h.voiceState.GetUserVoiceChannel(guildID, userID)
	if err != nil || voiceChannelID == 0 {
		return respondError(r, "You need to be in a voice channel to play music.")
	}

	// Resolving and joining can outlast the interaction deadline.
	if err := r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), playTimeout)
	defer cancel()

	output, err := h.player.Play(ctx, usecases.PlayInput{
		GuildID:               guildID,
		VoiceChannelID:        voiceChannelID,
		NotificationChannelID: notificationChannelID,
		Query:                 query,
		RequesterID:           userID,
		RequesterName:         i.Member.DisplayName(),
	})
	if err != nil {
		return editEmbed(r, errorEmbed(usecases.MessageOf(err)))
	}

	var description string
	if output.Position == 1 {
		description = fmt.Sprintf("Now playing %s.", trackLink(output.Track))
	} else {
		description = fmt.Sprintf(
			"Added %s to the queue at position %d.",
			trackLink(output.Track),
			output.Position,
		)
	}

	return editEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	})
}

func (h *CommandHandlers) handlePause(r bot.Responder, guildID snowflake.ID) error {
	if err := h.player.Pause(context.Background(), guildID); err != nil {
		return respondFailure(r, err)
	}
	return respondSuccess(r, "Paused playback.")
}

func (h *CommandHandlers) handleResume(r bot.Responder, guildID snowflake.ID) error {
	if err := h.player.Resume(context.Background(), guildID); err != nil {
		return respondFailure(r, err)
	}
	return respondSuccess(r, "Resumed playback.")
}

func (h *CommandHandlers) handleStop(r bot.Responder, guildID snowflake.ID) error {
	if err := h.player.Stop(context.Background(), guildID); err != nil {
		return respondFailure(r, err)
	}
	return respondSuccess(r, "Stopped playback and cleared the queue.")
}

func (h *CommandHandlers) handleSkip(r bot.Responder, guildID snowflake.ID) error {
	output, err := h.player.Skip(context.Background(), guildID)
	if err != nil {
		return respondFailure(r, err)
	}

	description := fmt.Sprintf("Skipped %s.", trackLink(output.SkippedTrack))
	if output.NextTrack != nil {
		description += fmt.Sprintf("\nUp next: %s", trackLink(output.NextTrack))
	} else {
		description += "\nThe queue is now empty."
	}
	return respondSuccess(r, description)
}

func (h *CommandHandlers) handleQueue(
	r bot.Responder,
	guildID snowflake.ID,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	page := 1
	for _, opt := range options {
		if opt.Name == "page" {
			page = int(opt.IntValue())
		}
	}

	output := h.player.ListQueue(guildID, page, usecases.DefaultPageSize)

	embed := &discordgo.MessageEmbed{
		Title: "Queue",
		Color: colorInfo,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", output.CurrentPage, output.TotalPages),
		},
	}

	if output.Total == 0 {
		embed.Description = "Queue is empty."
		return respondEmbed(r, embed)
	}

	current := h.player.GetNowPlaying(guildID)
	lines := lo.Map(output.Tracks, func(track *domain.Track, idx int) string {
		line := trackLine(output.PageStart+idx+1, track)
		if idx == 0 && output.PageStart == 0 && track == current {
			return "**Now Playing**\n" + line
		}
		return line
	})

	if remaining := output.Total - output.PageStart - len(output.Tracks); remaining > 0 {
		lines = append(lines, fmt.Sprintf("And %d more tracks...", remaining))
	}

	embed.Description = strings.Join(lines, "\n")
	return respondEmbed(r, embed)
}

func (h *CommandHandlers) handleVolume(
	r bot.Responder,
	guildID snowflake.ID,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	var level int
	for _, opt := range options {
		if opt.Name == "level" {
			level = int(opt.IntValue())
		}
	}

	output, err := h.player.SetVolume(context.Background(), guildID, level)
	if err != nil {
		return respondFailure(r, err)
	}
	return respondSuccess(r, fmt.Sprintf("Volume set to %d%%.", output.Percent))
}

func (h *CommandHandlers) handleNowPlaying(r bot.Responder, guildID snowflake.ID) error {
	track := h.player.GetNowPlaying(guildID)
	if track == nil {
		return respondFailure(r, usecases.ErrNothingPlaying)
	}

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{Name: "Now Playing"},
		Title:  track.Title,
		URL:    track.URI,
		Color:  track.Source().Color(),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Artist", Value: track.Artist, Inline: true},
			{Name: "Duration", Value: track.DurationLabel(), Inline: true},
		},
	}
	if track.RequesterID != 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Requested by",
			Value:  fmt.Sprintf("<@%d>", track.RequesterID),
			Inline: true,
		})
	}
	if track.ArtworkURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: track.ArtworkURL}
	}

	return respondEmbed(r, embed)
}

func (h *CommandHandlers) handleLeave(r bot.Responder, guildID snowflake.ID) error {
	if err := h.player.Leave(context.Background(), guildID); err != nil {
		return respondFailure(r, err)
	}
	return respondSuccess(r, "Disconnected.")
}

func (h *CommandHandlers) handleStats(r bot.Responder) error {
	stats := h.player.Stats()

	return respondEmbed(r, &discordgo.MessageEmbed{
		Title: "Music Stats",
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Active sessions", Value: fmt.Sprint(stats.ActiveSessions), Inline: true},
			{Name: "Playing", Value: fmt.Sprint(stats.PlayingSessions), Inline: true},
			{Name: "Queued tracks", Value: fmt.Sprint(stats.TotalTracks), Inline: true},
		},
	})
}

// Response helpers.

func respondEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func respondSuccess(r bot.Responder, description string) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	})
}

func respondError(r bot.Responder, message string) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{errorEmbed(message)},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	})
}

// respondFailure reports a registry failure using its user-facing message.
func respondFailure(r bot.Responder, err error) error {
	return respondError(r, usecases.MessageOf(err))
}

func editEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Edit(&discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
}

func errorEmbed(message string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Error",
		Description: capitalize(message),
		Color:       colorError,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func trackLink(track *domain.Track) string {
	if track.URI != "" {
		return fmt.Sprintf("[%s](%s)", track.Title, track.URI)
	}
	return fmt.Sprintf("**%s**", track.Title)
}

// trackLine formats one queue entry.
// Escapes period to prevent Discord markdown list formatting.
func trackLine(displayIndex int, track *domain.Track) string {
	return fmt.Sprintf("%d\\. %s - %s `%s`",
		displayIndex,
		trackLink(track),
		track.Artist,
		track.DurationLabel(),
	)
}
