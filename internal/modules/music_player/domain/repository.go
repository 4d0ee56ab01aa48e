package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// SessionRepository stores the sessions of connected guilds.
type SessionRepository interface {
	// Get returns the Session for the given guild, or nil if not exists.
	Get(guildID snowflake.ID) *Session

	// Save stores the Session, replacing any previous one for the guild.
	Save(session *Session)

	// Delete removes the Session for the given guild.
	Delete(guildID snowflake.ID)

	// All returns every stored Session.
	All() []*Session
}
