package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/ports"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

const (
	defaultYouTubeThumbnailBase = "https://img.youtube.com/vi"
	thumbnailProbeTimeout       = 5 * time.Second
)

// Notifier sends "Now Playing" messages to Discord channels.
type Notifier struct {
	session    *discordgo.Session
	httpClient *http.Client

	youTubeThumbnailBase string
}

// NewNotifier creates a new Notifier.
func NewNotifier(session *discordgo.Session) *Notifier {
	return &Notifier{
		session: session,
		httpClient: &http.Client{
			Timeout: thumbnailProbeTimeout,
		},
		youTubeThumbnailBase: defaultYouTubeThumbnailBase,
	}
}

// SendNowPlaying sends a "Now Playing" embed to the channel and returns the message ID.
func (n *Notifier) SendNowPlaying(
	channelID snowflake.ID,
	info *ports.NowPlayingInfo,
) (snowflake.ID, error) {
	embed := n.nowPlayingEmbed(info)

	msg, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	if err != nil {
		return 0, err
	}
	return snowflake.Parse(msg.ID)
}

// DeleteMessage deletes a message from the channel.
func (n *Notifier) DeleteMessage(channelID snowflake.ID, messageID snowflake.ID) error {
	return n.session.ChannelMessageDelete(channelID.String(), messageID.String())
}

func (n *Notifier) nowPlayingEmbed(info *ports.NowPlayingInfo) *discordgo.MessageEmbed {
	source := domain.ParseTrackSource(info.SourceName)

	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Now Playing",
		},
		Title: info.Title,
		URL:   info.URI,
		Color: source.Color(),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Artist",
				Value:  info.Artist,
				Inline: true,
			},
			{
				Name:   "Duration",
				Value:  info.Duration,
				Inline: true,
			},
			{
				Name:   "Source",
				Value:  source.DisplayName(),
				Inline: true,
			},
		},
	}

	if !info.EnqueuedAt.IsZero() {
		embed.Timestamp = info.EnqueuedAt.UTC().Format(time.RFC3339)
	}

	if info.RequesterName != "" {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text:    fmt.Sprintf("Requested by %s", info.RequesterName),
			IconURL: info.RequesterAvatarURL,
		}
	}

	if thumbnailURL := n.bestThumbnail(source, info.Identifier, info.ArtworkURL); thumbnailURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{
			URL: thumbnailURL,
		}
	}

	return embed
}

// bestThumbnail returns the highest resolution artwork that actually exists,
// falling back to the artwork Lavalink reported.
func (n *Notifier) bestThumbnail(
	source domain.TrackSource,
	identifier string,
	fallbackURL string,
) string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*thumbnailProbeTimeout)
	defer cancel()

	switch source {
	case domain.TrackSourceYouTube:
		if identifier == "" {
			return fallbackURL
		}
		for _, quality := range []string{"maxresdefault", "sddefault", "hqdefault"} {
			url := fmt.Sprintf("%s/%s/%s.jpg", n.youTubeThumbnailBase, identifier, quality)
			if n.urlExists(ctx, url) {
				return url
			}
		}
		return fallbackURL

	case domain.TrackSourceTwitch:
		// Twitch previews come as 440x248 but the same path serves 1280x720.
		highRes := strings.Replace(fallbackURL, "440x248", "1280x720", 1)
		if highRes != fallbackURL && n.urlExists(ctx, highRes) {
			return highRes
		}
		return fallbackURL

	default:
		return fallbackURL
	}
}

// urlExists checks if a URL returns a successful response using a HEAD request.
func (n *Notifier) urlExists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Ensure Notifier implements ports.NotificationSender.
var _ ports.NotificationSender = (*Notifier)(nil)
