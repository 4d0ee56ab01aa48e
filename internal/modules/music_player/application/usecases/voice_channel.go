package usecases

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
)

// BotVoiceStateChangeInput contains the input for handling bot voice state changes.
type BotVoiceStateChangeInput struct {
	GuildID      snowflake.ID
	NewChannelID *snowflake.ID // nil means disconnected
}

// Leave stops playback, disconnects and removes the guild's session.
// The session is removed even if the transport fails to disconnect.
func (r *SessionRegistry) Leave(ctx context.Context, guildID snowflake.ID) error {
	unlock := r.locks.lock(guildID)
	defer unlock()

	session := r.repo.Get(guildID)
	if session == nil {
		return ErrNotConnected
	}

	r.teardown(ctx, session, true)
	return nil
}

// HandleBotVoiceStateChange reacts to the bot's own voice state changing outside
// of a registry operation, e.g. being kicked or moved by a moderator.
func (r *SessionRegistry) HandleBotVoiceStateChange(
	ctx context.Context,
	input BotVoiceStateChangeInput,
) {
	unlock := r.locks.lock(input.GuildID)
	defer unlock()

	if input.NewChannelID == nil && r.consumeLeaving(input.GuildID) {
		// The disconnect caused by our own leave may arrive after a new
		// session has already joined.
		slog.Debug("ignored disconnect from an earlier leave", "guild", input.GuildID)
		return
	}

	session := r.repo.Get(input.GuildID)
	if session == nil {
		return
	}

	if input.NewChannelID == nil {
		slog.Info("bot disconnected from voice, cleaning up session", "guild", input.GuildID)
		r.teardown(ctx, session, false)
		return
	}

	if *input.NewChannelID != session.VoiceChannelID() {
		slog.Info("bot moved to another voice channel",
			"guild", input.GuildID,
			"from", session.VoiceChannelID(),
			"to", *input.NewChannelID,
		)
		session.SetVoiceChannelID(*input.NewChannelID)
	}
}
