package discord

import (
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonathanreexes/LiveryLabs/internal/bot"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/usecases"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

func TestHandleMusic_Play(t *testing.T) {
	tests := []struct {
		name      string
		output    *usecases.PlayOutput
		err       error
		wantTitle string
		wantText  string
	}{
		{
			name:     "starts playing",
			output:   &usecases.PlayOutput{Track: testTrack("a"), Position: 1},
			wantText: "Now playing [Track a](https://youtube.com/watch?v=a).",
		},
		{
			name:     "queued",
			output:   &usecases.PlayOutput{Track: testTrack("b"), Position: 3},
			wantText: "Added [Track b](https://youtube.com/watch?v=b) to the queue at position 3.",
		},
		{
			name:      "no results",
			err:       usecases.ErrNoResults,
			wantTitle: "Error",
			wantText:  "No results found for your search",
		},
		{
			name:      "queue full",
			err:       usecases.ErrQueueFull,
			wantTitle: "Error",
			wantText:  "Queue is full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &fakePlayer{playOutput: tt.output, playErr: tt.err}
			h := NewCommandHandlers(player, &fakeVoiceState{channelID: snowflake.ID(4)})
			r := &bot.MockResponder{}

			i := commandInteraction(subcommandPlay, stringOption("query", "never gonna"))
			if err := h.HandleMusic(nil, i, r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if r.LastResponse == nil ||
				r.LastResponse.Type != discordgo.InteractionResponseDeferredChannelMessageWithSource {
				t.Fatalf("expected deferred response, got %+v", r.LastResponse)
			}
			if r.LastEdit == nil || r.LastEdit.Embeds == nil || len(*r.LastEdit.Embeds) != 1 {
				t.Fatalf("expected edit with one embed, got %+v", r.LastEdit)
			}

			embed := (*r.LastEdit.Embeds)[0]
			if embed.Title != tt.wantTitle {
				t.Errorf("expected title %q, got %q", tt.wantTitle, embed.Title)
			}
			if !strings.HasPrefix(embed.Description, tt.wantText) {
				t.Errorf("expected description %q, got %q", tt.wantText, embed.Description)
			}
		})
	}
}

func TestHandleMusic_Play_PassesInput(t *testing.T) {
	player := &fakePlayer{playOutput: &usecases.PlayOutput{Track: testTrack("a"), Position: 1}}
	h := NewCommandHandlers(player, &fakeVoiceState{channelID: snowflake.ID(4)})

	i := commandInteraction(subcommandPlay, stringOption("query", "https://youtu.be/a"))
	if err := h.HandleMusic(nil, i, &bot.MockResponder{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := usecases.PlayInput{
		GuildID:               snowflake.ID(1),
		VoiceChannelID:        snowflake.ID(4),
		NotificationChannelID: snowflake.ID(3),
		Query:                 "https://youtu.be/a",
		RequesterID:           snowflake.ID(123),
		RequesterName:         "nick",
	}
	if player.lastPlay == nil || *player.lastPlay != want {
		t.Errorf("expected input %+v, got %+v", want, player.lastPlay)
	}
}

func TestHandleMusic_Play_RequiresVoiceChannel(t *testing.T) {
	tests := []struct {
		name       string
		voiceState *fakeVoiceState
	}{
		{name: "not in voice", voiceState: &fakeVoiceState{}},
		{name: "lookup fails", voiceState: &fakeVoiceState{err: errors.New("state not found")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &fakePlayer{}
			h := NewCommandHandlers(player, tt.voiceState)
			r := &bot.MockResponder{}

			i := commandInteraction(subcommandPlay, stringOption("query", "song"))
			if err := h.HandleMusic(nil, i, r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(player.calls) != 0 {
				t.Errorf("expected no player calls, got %v", player.calls)
			}
			embed := responseEmbed(r.LastResponse)
			if embed == nil || embed.Description != "You need to be in a voice channel to play music." {
				t.Errorf("unexpected response %+v", embed)
			}
			if r.LastResponse.Data.Flags != discordgo.MessageFlagsEphemeral {
				t.Error("expected ephemeral error response")
			}
		})
	}
}

func TestHandleMusic_RequiresGuild(t *testing.T) {
	h := NewCommandHandlers(&fakePlayer{}, &fakeVoiceState{})
	r := &bot.MockResponder{}

	i := commandInteraction(subcommandPause)
	i.GuildID = ""
	i.Member = nil

	if err := h.HandleMusic(nil, i, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	embed := responseEmbed(r.LastResponse)
	if embed == nil || embed.Description != "This command can only be used in a server." {
		t.Errorf("unexpected response %+v", embed)
	}
}

func TestHandleMusic_SimpleCommands(t *testing.T) {
	tests := []struct {
		name       string
		subcommand string
		err        error
		wantText   string
		wantColor  int
	}{
		{"pause", subcommandPause, nil, "Paused playback.", colorSuccess},
		{"pause nothing playing", subcommandPause, usecases.ErrNothingPlaying, "Nothing is currently playing", colorError},
		{"resume", subcommandResume, nil, "Resumed playback.", colorSuccess},
		{"resume not paused", subcommandResume, usecases.ErrNothingToResume, "Nothing is currently paused", colorError},
		{"stop", subcommandStop, nil, "Stopped playback and cleared the queue.", colorSuccess},
		{"leave", subcommandLeave, nil, "Disconnected.", colorSuccess},
		{"leave not connected", subcommandLeave, usecases.ErrNotConnected, "Not connected to a voice channel", colorError},
		{"unexpected error", subcommandStop, errors.New("boom"), "Something went wrong", colorError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &fakePlayer{err: tt.err}
			h := NewCommandHandlers(player, &fakeVoiceState{})
			r := &bot.MockResponder{}

			if err := h.HandleMusic(nil, commandInteraction(tt.subcommand), r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if len(player.calls) != 1 || player.calls[0] != tt.subcommand {
				t.Errorf("expected %s to be called once, got %v", tt.subcommand, player.calls)
			}
			embed := responseEmbed(r.LastResponse)
			if embed == nil {
				t.Fatal("expected an embed response")
			}
			if embed.Description != tt.wantText {
				t.Errorf("expected %q, got %q", tt.wantText, embed.Description)
			}
			if embed.Color != tt.wantColor {
				t.Errorf("expected color %#x, got %#x", tt.wantColor, embed.Color)
			}
		})
	}
}

func TestHandleMusic_Skip(t *testing.T) {
	tests := []struct {
		name     string
		output   *usecases.SkipOutput
		wantText string
	}{
		{
			name: "with next track",
			output: &usecases.SkipOutput{
				SkippedTrack: testTrack("a"),
				NextTrack:    testTrack("b"),
			},
			wantText: "Skipped [Track a](https://youtube.com/watch?v=a).\n" +
				"Up next: [Track b](https://youtube.com/watch?v=b)",
		},
		{
			name:     "last track",
			output:   &usecases.SkipOutput{SkippedTrack: testTrack("a")},
			wantText: "Skipped [Track a](https://youtube.com/watch?v=a).\nThe queue is now empty.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewCommandHandlers(&fakePlayer{skipOutput: tt.output}, &fakeVoiceState{})
			r := &bot.MockResponder{}

			if err := h.HandleMusic(nil, commandInteraction(subcommandSkip), r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if embed := responseEmbed(r.LastResponse); embed == nil || embed.Description != tt.wantText {
				t.Errorf("expected %q, got %+v", tt.wantText, embed)
			}
		})
	}
}

func TestHandleMusic_Volume(t *testing.T) {
	player := &fakePlayer{volumeOutput: &usecases.VolumeOutput{Percent: 75}}
	h := NewCommandHandlers(player, &fakeVoiceState{})
	r := &bot.MockResponder{}

	i := commandInteraction(subcommandVolume, intOption("level", 75))
	if err := h.HandleMusic(nil, i, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if player.lastVolume != 75 {
		t.Errorf("expected volume 75 to be requested, got %d", player.lastVolume)
	}
	if embed := responseEmbed(r.LastResponse); embed == nil || embed.Description != "Volume set to 75%." {
		t.Errorf("unexpected response %+v", embed)
	}
}

func TestHandleMusic_Queue(t *testing.T) {
	current := testTrack("a")

	tests := []struct {
		name       string
		options    []*discordgo.ApplicationCommandInteractionDataOption
		queue      usecases.QueueListOutput
		nowPlaying *domain.Track
		wantPage   int
		wantLines  []string
		wantFooter string
	}{
		{
			name:       "empty",
			queue:      usecases.QueueListOutput{CurrentPage: 1, TotalPages: 1},
			wantPage:   1,
			wantLines:  []string{"Queue is empty."},
			wantFooter: "Page 1/1",
		},
		{
			name: "first page with current track",
			queue: usecases.QueueListOutput{
				Tracks:      []*domain.Track{current, testTrack("b")},
				Total:       12,
				CurrentPage: 1,
				TotalPages:  2,
			},
			nowPlaying: current,
			wantPage:   1,
			wantLines: []string{
				"**Now Playing**",
				"1\\. [Track a](https://youtube.com/watch?v=a) - Artist a `03:05`",
				"2\\. [Track b](https://youtube.com/watch?v=b) - Artist b `03:05`",
				"And 10 more tracks...",
			},
			wantFooter: "Page 1/2",
		},
		{
			name:    "second page",
			options: []*discordgo.ApplicationCommandInteractionDataOption{intOption("page", 2)},
			queue: usecases.QueueListOutput{
				Tracks:      []*domain.Track{testTrack("k")},
				Total:       11,
				CurrentPage: 2,
				TotalPages:  2,
				PageStart:   10,
			},
			nowPlaying: current,
			wantPage:   2,
			wantLines: []string{
				"11\\. [Track k](https://youtube.com/watch?v=k) - Artist k `03:05`",
			},
			wantFooter: "Page 2/2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			player := &fakePlayer{queue: tt.queue, nowPlaying: tt.nowPlaying}
			h := NewCommandHandlers(player, &fakeVoiceState{})
			r := &bot.MockResponder{}

			if err := h.HandleMusic(nil, commandInteraction(subcommandQueue, tt.options...), r); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if player.lastPage != tt.wantPage || player.lastPageSize != usecases.DefaultPageSize {
				t.Errorf("expected page %d of size %d, got %d of %d",
					tt.wantPage, usecases.DefaultPageSize, player.lastPage, player.lastPageSize)
			}

			embed := responseEmbed(r.LastResponse)
			if embed == nil {
				t.Fatal("expected an embed response")
			}
			if want := strings.Join(tt.wantLines, "\n"); embed.Description != want {
				t.Errorf("expected description:\n%s\ngot:\n%s", want, embed.Description)
			}
			if embed.Footer == nil || embed.Footer.Text != tt.wantFooter {
				t.Errorf("expected footer %q, got %+v", tt.wantFooter, embed.Footer)
			}
		})
	}
}

func TestHandleMusic_NowPlaying(t *testing.T) {
	t.Run("playing", func(t *testing.T) {
		track := testTrack("a")
		track.ArtworkURL = "https://i.ytimg.com/vi/a/hqdefault.jpg"

		h := NewCommandHandlers(&fakePlayer{nowPlaying: track}, &fakeVoiceState{})
		r := &bot.MockResponder{}

		if err := h.HandleMusic(nil, commandInteraction(subcommandNowPlaying), r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		embed := responseEmbed(r.LastResponse)
		if embed == nil || embed.Title != "Track a" || embed.URL != track.URI {
			t.Fatalf("unexpected embed %+v", embed)
		}
		if embed.Thumbnail == nil || embed.Thumbnail.URL != track.ArtworkURL {
			t.Errorf("expected artwork thumbnail, got %+v", embed.Thumbnail)
		}
		if len(embed.Fields) != 3 || embed.Fields[2].Value != "<@123>" {
			t.Errorf("expected requester field, got %+v", embed.Fields)
		}
	})

	t.Run("nothing playing", func(t *testing.T) {
		h := NewCommandHandlers(&fakePlayer{}, &fakeVoiceState{})
		r := &bot.MockResponder{}

		if err := h.HandleMusic(nil, commandInteraction(subcommandNowPlaying), r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if embed := responseEmbed(r.LastResponse); embed == nil || embed.Color != colorError {
			t.Errorf("expected error embed, got %+v", embed)
		}
	})
}

func TestHandleMusic_Stats(t *testing.T) {
	player := &fakePlayer{stats: usecases.StatsOutput{
		ActiveSessions:  3,
		PlayingSessions: 2,
		TotalTracks:     17,
	}}
	h := NewCommandHandlers(player, &fakeVoiceState{})
	r := &bot.MockResponder{}

	if err := h.HandleMusic(nil, commandInteraction(subcommandStats), r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	embed := responseEmbed(r.LastResponse)
	if embed == nil || len(embed.Fields) != 3 {
		t.Fatalf("unexpected embed %+v", embed)
	}
	got := []string{embed.Fields[0].Value, embed.Fields[1].Value, embed.Fields[2].Value}
	want := []string{"3", "2", "17"}
	for idx := range want {
		if got[idx] != want[idx] {
			t.Errorf("field %d: expected %q, got %q", idx, want[idx], got[idx])
		}
	}
}

func TestHandleMusic_ResponderError(t *testing.T) {
	h := NewCommandHandlers(&fakePlayer{}, &fakeVoiceState{})
	r := &bot.MockResponder{Err: errors.New("unknown interaction")}

	if err := h.HandleMusic(nil, commandInteraction(subcommandPause), r); err == nil {
		t.Error("expected responder error to be returned")
	}
}

func TestCapitalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"queue is full", "Queue is full"},
		{"Already", "Already"},
	}

	for _, tt := range tests {
		if got := capitalize(tt.in); got != tt.want {
			t.Errorf("capitalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
