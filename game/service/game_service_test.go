package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wricardo/memory-match/game/engine"
	"github.com/wricardo/memory-match/game/service"
	"github.com/wricardo/memory-match/game/session"
)

// MockSessionManager implements service.SessionManager for testing.
// Engines are seeded and their mismatch timers are held until flush.
type MockSessionManager struct {
	sessions map[string]*service.Session

	mu      sync.Mutex
	pending []func()
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) schedule(d time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, fn)
}

func (m *MockSessionManager) flush() {
	m.mu.Lock()
	fns := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (m *MockSessionManager) Create(id string, config *engine.GameConfig) (*service.Session, error) {
	if id == "" {
		id = fmt.Sprintf("test_%d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config, engine.WithSeed(uint64(len(m.sessions)+1)), engine.WithScheduler(m.schedule))
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errors.New("session not found")
	}
	return session, nil
}

func (m *MockSessionManager) GetOrCreate(id string, config *engine.GameConfig) (*service.Session, error) {
	if session, exists := m.sessions[id]; exists {
		return session, nil
	}
	return m.Create(id, config)
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errors.New("session not found")
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errors.New("session not found")
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	classic := engine.DefaultGameConfig()

	tiny := engine.DefaultGameConfig()
	tiny.Name = "tiny"
	tiny.Description = "2x2 board"
	tiny.GridSize = 2

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"classic": classic,
			"tiny":    tiny,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, errors.New("configuration not found")
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	var result []*service.ConfigInfo
	for id, config := range m.configs {
		result = append(result, &service.ConfigInfo{
			Filename:    id + ".json",
			ConfigID:    id,
			Name:        config.Name,
			Description: config.Description,
			GridSize:    config.GridSize,
			MaxMoves:    config.MaxMoves,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["classic"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.configs[name] = config
	return nil
}

func newTestService(opts ...service.Option) (service.GameService, *MockSessionManager) {
	sessions := NewMockSessionManager()
	return service.NewGameService(sessions, NewMockConfigManager(), opts...), sessions
}

// cardPairs groups the card ids of a session deck by value
func cardPairs(t *testing.T, sessions *MockSessionManager, id string) map[int][]int {
	t.Helper()
	sess, err := sessions.Get(id)
	require.NoError(t, err)
	byValue := make(map[int][]int)
	for _, c := range sess.Engine.GetState().Deck {
		byValue[c.Value] = append(byValue[c.Value], c.ID)
	}
	return byValue
}

func TestGameService_CreateSession(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	t.Run("default config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "")
		require.NoError(t, err)
		assert.NotEmpty(t, info.ID)
		assert.Equal(t, "classic", info.ConfigName)
		require.NotNil(t, info.Board)
		assert.Equal(t, 4, info.Board.GridSize)
		assert.Len(t, info.Board.Cards, 16)
	})

	t.Run("named config", func(t *testing.T) {
		info, err := svc.CreateSession(ctx, "tiny")
		require.NoError(t, err)
		assert.Equal(t, "tiny", info.ConfigName)
		assert.Len(t, info.Board.Cards, 4)
	})

	t.Run("unknown config lists alternatives", func(t *testing.T) {
		_, err := svc.CreateSession(ctx, "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Available configs")
	})
}

func TestGameService_SessionLifecycle(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	got, err := svc.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, info.ID, got.ID)

	list, err := svc.ListSessions(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.DeleteSession(ctx, info.ID))
	_, err = svc.GetSession(ctx, info.ID)
	assert.Error(t, err)
	assert.Error(t, svc.DeleteSession(ctx, info.ID))
}

func TestGameService_RevealMatchAndMismatch(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	pairs := cardPairs(t, sessions, info.ID)

	first, err := svc.Reveal(ctx, info.ID, pairs[1][0])
	require.NoError(t, err)
	assert.True(t, first.Applied)
	assert.Equal(t, engine.RevealFirstPick, first.Kind)

	match, err := svc.Reveal(ctx, info.ID, pairs[1][1])
	require.NoError(t, err)
	assert.Equal(t, engine.RevealMatch, match.Kind)
	assert.Equal(t, 1, match.Board.MatchedPairs)
	assert.Zero(t, match.ResolvesInMs)

	svc.Reveal(ctx, info.ID, pairs[2][0])
	miss, err := svc.Reveal(ctx, info.ID, pairs[3][0])
	require.NoError(t, err)
	assert.Equal(t, engine.RevealMismatch, miss.Kind)
	assert.Equal(t, engine.DefaultMismatchDelayMs, miss.ResolvesInMs)
	assert.True(t, miss.Board.Pending)
	assert.Equal(t, "1 / 20", miss.Board.MovesLabel)

	blocked, err := svc.Reveal(ctx, info.ID, pairs[4][0])
	require.NoError(t, err)
	assert.False(t, blocked.Applied)
	assert.Equal(t, engine.ReasonPending, blocked.Reason)
	assert.Empty(t, blocked.Events)

	sessions.flush()
	board, err := svc.GetBoard(ctx, info.ID)
	require.NoError(t, err)
	assert.False(t, board.Pending)
}

func TestGameService_RevealUnknownSession(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Reveal(context.Background(), "zzzz", 0)
	assert.Error(t, err)
}

func TestGameService_WinEmitsVictory(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "tiny")
	require.NoError(t, err)

	var last *service.RevealResult
	for _, ids := range cardPairs(t, sessions, info.ID) {
		svc.Reveal(ctx, info.ID, ids[0])
		last, err = svc.Reveal(ctx, info.ID, ids[1])
		require.NoError(t, err)
	}

	assert.Equal(t, engine.Won, last.Board.Outcome)
	assert.Equal(t, engine.BannerWon, last.Board.Banner)
	require.Len(t, last.Events, 2)
	assert.Equal(t, "victory", last.Events[1].Type)
}

func TestGameService_Settings(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	rejected, err := svc.SetGridSize(ctx, info.ID, "3")
	require.NoError(t, err, "rejection is not an error")
	assert.False(t, rejected.Accepted)
	assert.Equal(t, info.Board.GameID, rejected.Board.GameID)

	accepted, err := svc.SetGridSize(ctx, info.ID, "6")
	require.NoError(t, err)
	assert.True(t, accepted.Accepted)
	assert.True(t, accepted.NewGame)
	assert.Len(t, accepted.Board.Cards, 36)

	moves, err := svc.SetMaxMoves(ctx, info.ID, "-1")
	require.NoError(t, err)
	assert.False(t, moves.Accepted)

	moves, err = svc.SetMaxMoves(ctx, info.ID, "8")
	require.NoError(t, err)
	assert.True(t, moves.Accepted)
	assert.Equal(t, 8, moves.Board.MaxMoves)

	_, err = svc.SetGridSize(ctx, "zzzz", "4")
	assert.Error(t, err)
}

func TestGameService_Reset(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	svc.Reveal(ctx, info.ID, 0)

	board, err := svc.Reset(ctx, info.ID)
	require.NoError(t, err)
	assert.NotEqual(t, info.Board.GameID, board.GameID)
	assert.Equal(t, engine.PhaseIdle, board.Phase)
}

func TestGameService_RevealHistory(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	pairs := cardPairs(t, sessions, info.ID)
	for v := 1; v <= 5; v++ {
		svc.Reveal(ctx, info.ID, pairs[v][0])
		svc.Reveal(ctx, info.ID, pairs[v][1])
	}

	t.Run("defaults to newest first", func(t *testing.T) {
		h, err := svc.GetRevealHistory(ctx, info.ID, service.HistoryOptions{})
		require.NoError(t, err)
		assert.Equal(t, 10, h.TotalReveals)
		require.Len(t, h.Reveals, 10)
		assert.Equal(t, 10, h.Reveals[0].Seq)
		assert.False(t, h.HasNext)
	})

	t.Run("ascending pages", func(t *testing.T) {
		h, err := svc.GetRevealHistory(ctx, info.ID, service.HistoryOptions{Page: 2, Limit: 4, Order: "asc"})
		require.NoError(t, err)
		require.Len(t, h.Reveals, 4)
		assert.Equal(t, 5, h.Reveals[0].Seq)
		assert.Equal(t, 3, h.TotalPages)
		assert.True(t, h.HasNext)
		assert.True(t, h.HasPrevious)
	})

	t.Run("past the end", func(t *testing.T) {
		h, err := svc.GetRevealHistory(ctx, info.ID, service.HistoryOptions{Page: 9, Limit: 4, Order: "asc"})
		require.NoError(t, err)
		assert.Empty(t, h.Reveals)
		assert.NotNil(t, h.Reveals)
	})

	t.Run("cleared by reset", func(t *testing.T) {
		_, err := svc.Reset(ctx, info.ID)
		require.NoError(t, err)
		h, err := svc.GetRevealHistory(ctx, info.ID, service.HistoryOptions{})
		require.NoError(t, err)
		assert.Zero(t, h.TotalReveals)
	})
}

func TestGameService_StateListener(t *testing.T) {
	var mu sync.Mutex
	var boards []*engine.BoardView
	var ids []string

	svc, sessions := newTestService(service.WithStateListener(func(id string, board *engine.BoardView) {
		mu.Lock()
		defer mu.Unlock()
		ids = append(ids, id)
		boards = append(boards, board)
	}))
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)
	pairs := cardPairs(t, sessions, info.ID)

	svc.Reveal(ctx, info.ID, pairs[1][0])
	svc.Reveal(ctx, info.ID, pairs[2][0])
	sessions.flush()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, boards, 3)
	for _, id := range ids {
		assert.Equal(t, info.ID, id)
	}
	assert.True(t, boards[1].Pending)
	assert.False(t, boards[2].Pending, "deferred resolve is pushed too")
}

func TestGameService_Configs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	configs, err := svc.ListConfigs(ctx)
	require.NoError(t, err)
	assert.Len(t, configs, 2)

	cfg, err := svc.LoadConfig(ctx, "tiny")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.GridSize)

	bad := engine.DefaultGameConfig()
	bad.GridSize = 7
	assert.Error(t, svc.SaveConfig(ctx, "bad", bad))

	good := engine.DefaultGameConfig()
	good.Name = "big"
	good.GridSize = 8
	require.NoError(t, svc.SaveConfig(ctx, "big", good))

	info, err := svc.CreateSession(ctx, "big")
	require.NoError(t, err)
	assert.Len(t, info.Board.Cards, 64)
}

func TestGameService_SwitchConfig(t *testing.T) {
	svc, sessions := newTestService()
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "classic")
	require.NoError(t, err)

	pairs := cardPairs(t, sessions, info.ID)
	svc.Reveal(ctx, info.ID, pairs[1][0])
	res, err := svc.Reveal(ctx, info.ID, pairs[2][0])
	require.NoError(t, err)
	require.True(t, res.Board.Pending)

	switched, err := svc.SwitchConfig(ctx, info.ID, "tiny")
	require.NoError(t, err)
	assert.Equal(t, "tiny", switched.ConfigName)
	assert.Equal(t, 2, switched.GameConfig.GridSize)
	assert.Len(t, switched.Board.Cards, 4)
	assert.False(t, switched.Board.Pending)
	assert.Equal(t, 0, switched.Board.Moves)

	// a mismatch in the new game stays pending when the old timer fires
	tiny := cardPairs(t, sessions, info.ID)
	svc.Reveal(ctx, info.ID, tiny[1][0])
	_, err = svc.Reveal(ctx, info.ID, tiny[2][0])
	require.NoError(t, err)

	sessions.mu.Lock()
	oldResolve := sessions.pending[0]
	sessions.pending = sessions.pending[1:]
	sessions.mu.Unlock()
	oldResolve()

	board, err := svc.GetBoard(ctx, info.ID)
	require.NoError(t, err)
	assert.True(t, board.Pending)

	sessions.flush()
	board, err = svc.GetBoard(ctx, info.ID)
	require.NoError(t, err)
	assert.False(t, board.Pending)

	got, err := svc.GetSession(ctx, info.ID)
	require.NoError(t, err)
	assert.Equal(t, "tiny", got.ConfigName)

	_, err = svc.SwitchConfig(ctx, info.ID, "missing")
	assert.Error(t, err)
	_, err = svc.SwitchConfig(ctx, "nope", "tiny")
	assert.Error(t, err)
}

func TestGameService_ConcurrentAccess(t *testing.T) {
	svc := service.NewGameService(session.NewManager(), NewMockConfigManager())
	ctx := context.Background()

	info, err := svc.CreateSession(ctx, "")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				got, err := svc.GetSession(ctx, info.ID)
				if !assert.NoError(t, err) {
					return
				}
				assert.False(t, got.LastAccessedAt.Before(info.CreatedAt))

				_, err = svc.GetBoard(ctx, info.ID)
				assert.NoError(t, err)

				list, err := svc.ListSessions(ctx)
				assert.NoError(t, err)
				assert.Len(t, list, 1)
			}
		}()
	}
	wg.Wait()
}
