package discord

import "github.com/bwmarrin/discordgo"

// Subcommand names of /music.
const (
	subcommandPlay       = "play"
	subcommandPause      = "pause"
	subcommandResume     = "resume"
	subcommandStop       = "stop"
	subcommandSkip       = "skip"
	subcommandQueue      = "queue"
	subcommandVolume     = "volume"
	subcommandNowPlaying = "nowplaying"
	subcommandLeave      = "leave"
	subcommandStats      = "stats"
)

// CommandName is the name of the top-level slash command.
const CommandName = "music"

// Commands returns all slash commands for the music player module.
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        CommandName,
			Description: "Play music in your voice channel",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandPlay,
					Description: "Play a track from URL or search",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:         discordgo.ApplicationCommandOptionString,
							Name:         "query",
							Description:  "URL or search term",
							Required:     true,
							Autocomplete: true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandPause,
					Description: "Pause playback",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandResume,
					Description: "Resume playback",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandStop,
					Description: "Stop playback and clear the queue",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandSkip,
					Description: "Skip the current track",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandQueue,
					Description: "Show the current queue",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "page",
							Description: "Page number",
							Required:    false,
							MinValue:    floatPtr(1),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandVolume,
					Description: "Set the playback volume",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "level",
							Description: "Volume from 0 to 100",
							Required:    true,
							MinValue:    floatPtr(0),
							MaxValue:    100,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandNowPlaying,
					Description: "Show the track that is playing",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandLeave,
					Description: "Leave the voice channel",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subcommandStats,
					Description: "Show player statistics",
				},
			},
		},
	}
}

func floatPtr(f float64) *float64 {
	return &f
}
