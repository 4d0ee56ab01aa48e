package discord

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/usecases"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

const (
	testGuildID   = "1"
	testChannelID = "3"
	testUserID    = "123"
)

// fakePlayer is a test double for Player.
type fakePlayer struct {
	playOutput   *usecases.PlayOutput
	playErr      error
	err          error // returned by the simple operations
	skipOutput   *usecases.SkipOutput
	volumeOutput *usecases.VolumeOutput
	nowPlaying   *domain.Track
	queue        usecases.QueueListOutput
	stats        usecases.StatsOutput

	lastPlay     *usecases.PlayInput
	lastPage     int
	lastPageSize int
	lastVolume   int
	calls        []string
}

func (f *fakePlayer) Play(_ context.Context, input usecases.PlayInput) (*usecases.PlayOutput, error) {
	f.calls = append(f.calls, "play")
	f.lastPlay = &input
	return f.playOutput, f.playErr
}

func (f *fakePlayer) Pause(context.Context, snowflake.ID) error {
	f.calls = append(f.calls, "pause")
	return f.err
}

func (f *fakePlayer) Resume(context.Context, snowflake.ID) error {
	f.calls = append(f.calls, "resume")
	return f.err
}

func (f *fakePlayer) Stop(context.Context, snowflake.ID) error {
	f.calls = append(f.calls, "stop")
	return f.err
}

func (f *fakePlayer) Skip(context.Context, snowflake.ID) (*usecases.SkipOutput, error) {
	f.calls = append(f.calls, "skip")
	if f.err != nil {
		return nil, f.err
	}
	return f.skipOutput, nil
}

func (f *fakePlayer) SetVolume(_ context.Context, _ snowflake.ID, percent int) (*usecases.VolumeOutput, error) {
	f.calls = append(f.calls, "volume")
	f.lastVolume = percent
	if f.err != nil {
		return nil, f.err
	}
	return f.volumeOutput, nil
}

func (f *fakePlayer) Leave(context.Context, snowflake.ID) error {
	f.calls = append(f.calls, "leave")
	return f.err
}

func (f *fakePlayer) GetNowPlaying(snowflake.ID) *domain.Track {
	return f.nowPlaying
}

func (f *fakePlayer) ListQueue(_ snowflake.ID, page, pageSize int) usecases.QueueListOutput {
	f.lastPage = page
	f.lastPageSize = pageSize
	return f.queue
}

func (f *fakePlayer) Stats() usecases.StatsOutput {
	return f.stats
}

// fakeVoiceState is a test double for ports.VoiceStateProvider.
type fakeVoiceState struct {
	channelID snowflake.ID
	err       error
}

func (f *fakeVoiceState) GetUserVoiceChannel(_, _ snowflake.ID) (snowflake.ID, error) {
	return f.channelID, f.err
}

func testTrack(id string) *domain.Track {
	return &domain.Track{
		ID:          domain.TrackID(id),
		Identifier:  id,
		Title:       "Track " + id,
		Artist:      "Artist " + id,
		Duration:    3*time.Minute + 5*time.Second,
		URI:         "https://youtube.com/watch?v=" + id,
		SourceName:  "youtube",
		RequesterID: snowflake.ID(123),
	}
}

// musicInteraction builds a /music interaction for the given subcommand.
func musicInteraction(
	interactionType discordgo.InteractionType,
	subcommand string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type:      interactionType,
			GuildID:   testGuildID,
			ChannelID: testChannelID,
			Member: &discordgo.Member{
				Nick: "nick",
				User: &discordgo.User{ID: testUserID, Username: "user1"},
			},
			Data: discordgo.ApplicationCommandInteractionData{
				Name: CommandName,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{
						Name:    subcommand,
						Type:    discordgo.ApplicationCommandOptionSubCommand,
						Options: options,
					},
				},
			},
		},
	}
}

func commandInteraction(
	subcommand string,
	options ...*discordgo.ApplicationCommandInteractionDataOption,
) *discordgo.InteractionCreate {
	return musicInteraction(discordgo.InteractionApplicationCommand, subcommand, options...)
}

func stringOption(name, value string) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionString,
		Value: value,
	}
}

// intOption builds an integer option; discordgo decodes numbers as float64.
func intOption(name string, value int) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

// responseEmbed returns the first embed of a response, or nil.
func responseEmbed(response *discordgo.InteractionResponse) *discordgo.MessageEmbed {
	if response == nil || response.Data == nil || len(response.Data.Embeds) == 0 {
		return nil
	}
	return response.Data.Embeds[0]
}
