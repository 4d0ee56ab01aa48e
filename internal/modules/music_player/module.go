package music_player

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
	"github.com/jonathanreexes/LiveryLabs/internal/bot"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/events"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/usecases"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/infrastructure"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/presentation/discord"
)

// shutdownTimeout bounds disconnecting every guild on shutdown.
const shutdownTimeout = 10 * time.Second

func init() {
	bot.Register(&MusicPlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*MusicPlayerModule)(nil)

// MusicPlayerModule provides the /music command.
type MusicPlayerModule struct {
	config          *Config
	registry        *usecases.SessionRegistry
	commandHandlers *discord.CommandHandlers
	autocomplete    *discord.AutocompleteHandler
	eventHandlers   *discord.EventHandlers
	lavalinkAdapter *infrastructure.LavalinkAdapter

	// Event-driven components
	eventBus            *events.Bus
	playbackHandler     *events.PlaybackEventHandler
	notificationHandler *events.NotificationEventHandler

	// Context for event handlers
	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *MusicPlayerModule) Name() string {
	return "music_player"
}

// Commands returns the slash commands for this module.
func (m *MusicPlayerModule) Commands() []*discordgo.ApplicationCommand {
	return discord.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *MusicPlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	if m.commandHandlers == nil {
		return map[string]bot.InteractionHandler{}
	}
	return map[string]bot.InteractionHandler{
		discord.CommandName: m.commandHandlers.HandleMusic,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *MusicPlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.handleVoiceServerUpdate(s, event)
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.handleVoiceStateUpdate(s, event)
		},
		func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			m.handleInteractionCreate(s, i)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *MusicPlayerModule) LoadConfig() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *MusicPlayerModule) Init(deps bot.ModuleDependencies) error {
	// Check if session is available
	if deps.Session == nil {
		slog.Warn("music_player module initialized without session, playback disabled")
		return nil
	}

	if m.config == nil {
		if err := m.LoadConfig(); err != nil {
			return err
		}
	}

	return m.initWithLavalink(deps)
}

func (m *MusicPlayerModule) initWithLavalink(deps bot.ModuleDependencies) error {
	// Create Lavalink adapter
	lavalinkAdapter, err := infrastructure.NewLavalinkAdapter(
		deps.Session,
		infrastructure.LavalinkConfig{
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
			Secure:   m.config.LavalinkSecure,
		},
	)
	if err != nil {
		return err
	}
	m.lavalinkAdapter = lavalinkAdapter

	// Create event bus; the adapter publishes engine events onto it
	m.eventBus = events.NewBus(events.DefaultEventBufferSize)
	lavalinkAdapter.SetEventPublisher(m.eventBus)

	// Create infrastructure
	repo := infrastructure.NewMemoryRepository()
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	userInfo := infrastructure.NewDiscordUserInfoProvider(deps.Session)
	notifier := infrastructure.NewNotifier(deps.Session)

	m.registry = usecases.NewSessionRegistry(
		repo,
		lavalinkAdapter,
		lavalinkAdapter,
		lavalinkAdapter,
		m.eventBus,
		m.config.registryConfig(),
	)

	// Create and start application event handlers
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.playbackHandler = events.NewPlaybackEventHandler(m.registry, m.eventBus)
	m.notificationHandler = events.NewNotificationEventHandler(notifier, userInfo, m.eventBus)
	m.playbackHandler.Start(m.ctx)
	m.notificationHandler.Start(m.ctx)

	// Create presentation handlers
	botID, err := snowflake.Parse(deps.Session.State.User.ID)
	if err != nil {
		return err
	}
	m.commandHandlers = discord.NewCommandHandlers(m.registry, voiceState)
	m.autocomplete = discord.NewAutocompleteHandler(m.registry)
	m.eventHandlers = discord.NewEventHandlers(botID, m.registry)

	slog.Info("initialized music_player module with Lavalink",
		"lavalink", m.config.LavalinkAddress,
		"max_queue_size", m.config.MaxQueueSize,
		"search_prefix", m.config.SearchPrefix,
	)

	return nil
}

// Shutdown cleans up module resources.
func (m *MusicPlayerModule) Shutdown() error {
	// Leave every voice channel while the event handlers still run
	if m.registry != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		m.registry.Shutdown(ctx)
		cancel()
	}

	// Cancel context to signal event handlers to stop
	if m.cancel != nil {
		m.cancel()
	}
	if m.playbackHandler != nil {
		m.playbackHandler.Stop()
	}
	if m.notificationHandler != nil {
		m.notificationHandler.Stop()
	}

	// Close event bus
	if m.eventBus != nil {
		m.eventBus.Close()
	}

	// Close Lavalink connection
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Link().Close()
	}

	return nil
}

// Event handlers.

func (m *MusicPlayerModule) handleVoiceServerUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceServerUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceServerUpdate(event)
	}
}

func (m *MusicPlayerModule) handleVoiceStateUpdate(
	s *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceStateUpdate(event)
	}
	if m.eventHandlers != nil {
		m.eventHandlers.HandleVoiceStateUpdate(s, event)
	}
}

func (m *MusicPlayerModule) handleInteractionCreate(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
) {
	if i.Type != discordgo.InteractionApplicationCommandAutocomplete || m.autocomplete == nil {
		return
	}

	if i.ApplicationCommandData().Name != discord.CommandName {
		return
	}

	if err := m.autocomplete.HandleMusic(i, bot.NewDiscordResponder(s, i.Interaction)); err != nil {
		slog.Warn("failed to respond to autocomplete", "error", err)
	}
}
