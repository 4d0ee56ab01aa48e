package usecases

import (
	"context"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/application/ports"
	"github.com/jonathanreexes/LiveryLabs/internal/modules/music_player/domain"
)

func mockTrackInfo(id string) *ports.TrackInfo {
	return &ports.TrackInfo{
		Identifier: id,
		Encoded:    "encoded-" + id,
		Title:      "Track " + id,
		Artist:     "Artist",
		Duration:   3 * time.Minute,
		URI:        "https://example.com/" + id,
		SourceName: "youtube",
	}
}

func searchResult(ids ...string) *ports.LoadResult {
	tracks := make([]*ports.TrackInfo, len(ids))
	for i, id := range ids {
		tracks[i] = mockTrackInfo(id)
	}
	return &ports.LoadResult{Type: ports.LoadTypeSearch, Tracks: tracks}
}

type mockRepository struct {
	mu       sync.Mutex
	sessions map[snowflake.ID]*domain.Session
	deleted  []snowflake.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		sessions: make(map[snowflake.ID]*domain.Session),
	}
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[guildID]
}

func (m *mockRepository) Save(session *domain.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.GuildID()] = session
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, guildID)
	delete(m.sessions, guildID)
}

func (m *mockRepository) All() []*domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		result = append(result, s)
	}
	return result
}

type mockAudioPlayer struct {
	playErr      error
	playErrFor   map[string]error // by encoded track
	stopErr      error
	pauseErr     error
	resumeErr    error
	setVolumeErr error

	played  []*domain.Track
	volumes []float64
	stops   int
	pauses  int
	resumes int
}

func (m *mockAudioPlayer) Play(
	_ context.Context,
	_ snowflake.ID,
	track *domain.Track,
	volume float64,
) error {
	if err := m.playErrFor[track.Encoded]; err != nil {
		return err
	}
	if m.playErr != nil {
		return m.playErr
	}
	m.played = append(m.played, track)
	m.volumes = append(m.volumes, volume)
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	m.stops++
	return m.stopErr
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID) error {
	if m.pauseErr != nil {
		return m.pauseErr
	}
	m.pauses++
	return nil
}

func (m *mockAudioPlayer) Resume(_ context.Context, _ snowflake.ID) error {
	if m.resumeErr != nil {
		return m.resumeErr
	}
	m.resumes++
	return nil
}

func (m *mockAudioPlayer) SetVolume(_ context.Context, _ snowflake.ID, volume float64) error {
	if m.setVolumeErr != nil {
		return m.setVolumeErr
	}
	m.volumes = append(m.volumes, volume)
	return nil
}

type mockVoiceConnection struct {
	joinErr  error
	leaveErr error
	joins    []snowflake.ID // channel IDs
	leaves   int
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, channelID snowflake.ID) error {
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joins = append(m.joins, channelID)
	return nil
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, _ snowflake.ID) error {
	m.leaves++
	return m.leaveErr
}

type mockTrackResolver struct {
	loadErr error
	results map[string]*ports.LoadResult // by Lavalink query
	onLoad  func(query string)           // runs before returning, without registry locks held
	queries []string
}

func (m *mockTrackResolver) LoadTracks(_ context.Context, query string) (*ports.LoadResult, error) {
	m.queries = append(m.queries, query)
	if m.onLoad != nil {
		m.onLoad(query)
	}
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if result, ok := m.results[query]; ok {
		return result, nil
	}
	return &ports.LoadResult{Type: ports.LoadTypeEmpty}, nil
}

type mockEventPublisher struct {
	mu         sync.Mutex
	trackEnded []domain.TrackEndedEvent
	nowPlaying []domain.NowPlayingChangedEvent
}

func (m *mockEventPublisher) PublishTrackEnded(event domain.TrackEndedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trackEnded = append(m.trackEnded, event)
}

func (m *mockEventPublisher) PublishNowPlayingChanged(event domain.NowPlayingChangedEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nowPlaying = append(m.nowPlaying, event)
}

// fakeTimer records a scheduled callback so tests can fire it by hand.
type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	wasActive := !t.stopped
	t.stopped = true
	return wasActive
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) afterFunc(d time.Duration, f func()) stopper {
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

// last returns the most recently scheduled timer, or nil.
func (c *fakeClock) last() *fakeTimer {
	if len(c.timers) == 0 {
		return nil
	}
	return c.timers[len(c.timers)-1]
}

type testRegistry struct {
	*SessionRegistry
	repo      *mockRepository
	player    *mockAudioPlayer
	voice     *mockVoiceConnection
	resolver  *mockTrackResolver
	publisher *mockEventPublisher
	clock     *fakeClock
}

func defaultTestConfig() RegistryConfig {
	return RegistryConfig{
		MaxQueueSize:  10,
		DefaultVolume: 50,
		LeaveOnEmpty:  true,
		IdleTimeout:   5 * time.Minute,
		SearchSource:  domain.SourceYouTube,
	}
}

func newTestRegistry(config RegistryConfig) *testRegistry {
	tr := &testRegistry{
		repo:      newMockRepository(),
		player:    &mockAudioPlayer{},
		voice:     &mockVoiceConnection{},
		resolver:  &mockTrackResolver{results: make(map[string]*ports.LoadResult)},
		publisher: &mockEventPublisher{},
		clock:     &fakeClock{},
	}
	tr.SessionRegistry = NewSessionRegistry(
		tr.repo,
		tr.player,
		tr.voice,
		tr.resolver,
		tr.publisher,
		config,
	)
	tr.SessionRegistry.afterFunc = tr.clock.afterFunc
	return tr
}

// addSearch registers a search-text query that resolves to the given track id.
func (tr *testRegistry) addSearch(query, id string) {
	tr.resolver.results["ytsearch:"+query] = searchResult(id)
}

const (
	testGuildID        = snowflake.ID(1)
	testVoiceChannelID = snowflake.ID(4)
	testTextChannelID  = snowflake.ID(3)
	testUserID         = snowflake.ID(123)
)

func playInput(query string) PlayInput {
	return PlayInput{
		GuildID:               testGuildID,
		VoiceChannelID:        testVoiceChannelID,
		NotificationChannelID: testTextChannelID,
		Query:                 query,
		RequesterID:           testUserID,
		RequesterName:         "user1",
	}
}

func trackTitles(tracks []*domain.Track) []string {
	titles := make([]string, len(tracks))
	for i, t := range tracks {
		titles[i] = t.Title
	}
	return titles
}
