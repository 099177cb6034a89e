package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wricardo/memory-match/game/engine"
)

// StateListener receives the board of a session after every applied transition,
// including deferred mismatch resolution.
type StateListener func(sessionID string, board *engine.BoardView)

// Option configures the game service
type Option func(*gameServiceImpl)

// WithLogger sets the service logger
func WithLogger(l zerolog.Logger) Option {
	return func(s *gameServiceImpl) { s.log = l }
}

// WithStateListener registers a listener for board changes
func WithStateListener(fn StateListener) Option {
	return func(s *gameServiceImpl) { s.listener = fn }
}

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	listener StateListener
	log      zerolog.Logger
	mu       sync.RWMutex
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager, opts ...Option) GameService {
	s := &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.watch(session)

	configID := configName
	if configID == "" {
		configID = s.getConfigID(config.Name)
	}

	s.log.Info().Str("session", session.ID).Str("config", configID).Msg("session created")

	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     configID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		Board:          session.Engine.View(),
		GameConfig:     session.Engine.GetConfig(),
	}, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.sessions.UpdateLastAccessed(sessionID); err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, s.sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	s.log.Info().Str("session", sessionID).Msg("session deleted")
	return nil
}

// Reveal flips a card for a session. Ignored reveals are not errors.
func (s *gameServiceImpl) Reveal(ctx context.Context, sessionID string, cardID int) (*RevealResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	t := sess.Engine.Reveal(cardID)
	board := sess.Engine.View()

	result := &RevealResult{
		Applied: t.Applied,
		CardID:  cardID,
		Kind:    t.Kind,
		Reason:  t.Reason,
		Board:   board,
		Message: board.Message,
		Events:  revealEvents(t, cardID, board),
	}
	if t.ScheduleResolve {
		result.ResolvesInMs = mismatchDelayMs(sess.Engine.GetConfig())
	}
	return result, nil
}

// Reset deals a new board at the current grid size
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	sess.Engine.Reset()
	return sess.Engine.View(), nil
}

// SetGridSize submits a raw grid size for a session
func (s *gameServiceImpl) SetGridSize(ctx context.Context, sessionID, raw string) (*SettingResult, error) {
	return s.applySetting(sessionID, func(e *engine.GameEngine) engine.SettingResult {
		return e.SetGridSize(raw)
	})
}

// SetMaxMoves submits a raw move budget for a session
func (s *gameServiceImpl) SetMaxMoves(ctx context.Context, sessionID, raw string) (*SettingResult, error) {
	return s.applySetting(sessionID, func(e *engine.GameEngine) engine.SettingResult {
		return e.SetMaxMoves(raw)
	})
}

// SwitchConfig moves a session to another preset and deals a new game.
// A mismatch still pending from the old game is dropped.
func (s *gameServiceImpl) SwitchConfig(ctx context.Context, sessionID, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	config, err := s.configs.LoadConfig(configName)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
	}
	if err := sess.Engine.SetConfig(config); err != nil {
		return nil, fmt.Errorf("failed to switch config: %w", err)
	}

	s.log.Info().Str("session", sessionID).Str("config", configName).Msg("session switched preset")
	return s.sessionInfo(sess), nil
}

// GetBoard returns the current board of a session
func (s *gameServiceImpl) GetBoard(ctx context.Context, sessionID string) (*engine.BoardView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	return sess.Engine.View(), nil
}

// GetRevealHistory returns paginated reveal history of the current deal
func (s *gameServiceImpl) GetRevealHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	history := sess.Engine.GetHistory()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var reveals []engine.RevealEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			reveals = append(reveals, history[i])
		}
	} else if start < total {
		reveals = history[start:end]
	}

	if reveals == nil {
		reveals = []engine.RevealEntry{}
	}

	return &HistoryResponse{
		Reveals:      reveals,
		TotalReveals: total,
		Page:         opts.Page,
		PageSize:     opts.Limit,
		TotalPages:   totalPages,
		HasNext:      opts.Page < totalPages,
		HasPrevious:  opts.Page > 1,
	}, nil
}

// ListConfigs returns all available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func (s *gameServiceImpl) applySetting(sessionID string, apply func(*engine.GameEngine) engine.SettingResult) (*SettingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(sessionID)

	res := apply(sess.Engine)
	if !res.Accepted {
		s.log.Warn().Str("session", sessionID).Str("setting", res.Setting).Str("raw", res.Raw).Str("reason", res.Reason).Msg("setting rejected")
	}
	return &SettingResult{SettingResult: res, Board: sess.Engine.View()}, nil
}

// watch forwards engine changes of a session to the state listener
func (s *gameServiceImpl) watch(sess *Session) {
	if s.listener == nil {
		return
	}
	id, listener := sess.ID, s.listener
	sess.Engine.OnChange(func(state *engine.GameState) {
		listener(id, state.View())
	})
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	cfg := sess.Engine.GetConfig()
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     s.getConfigID(cfg.Name),
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Board:          sess.Engine.View(),
		GameConfig:     cfg,
	}
}

// revealEvents describes an applied reveal as game events
func revealEvents(t engine.Transition, cardID int, board *engine.BoardView) []GameEvent {
	if !t.Applied {
		return nil
	}

	now := time.Now()
	events := []GameEvent{{
		Type:      string(t.Kind),
		Message:   board.Message,
		Timestamp: now,
		CardID:    cardID,
	}}

	switch t.Outcome {
	case engine.Won:
		events = append(events, GameEvent{Type: "victory", Message: engine.BannerWon, Timestamp: now})
	case engine.Lost:
		events = append(events, GameEvent{Type: "game_over", Message: engine.BannerLost, Timestamp: now})
	}
	return events
}

func mismatchDelayMs(config *engine.GameConfig) int {
	if config == nil || config.MismatchDelayMs == 0 {
		return engine.DefaultMismatchDelayMs
	}
	return config.MismatchDelayMs
}
