package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/geometry"
)

// gameServiceImpl implements the GameService interface. Every board access
// goes through mu, which keeps each session's board single-threaded. Looking
// a session up marks it accessed, so every path calling session() holds the
// write lock; read-locked paths only read session fields.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
	logger   zerolog.Logger
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		logger:   log.With().Str("component", "service").Logger(),
	}
}

// CreateSession creates a new board session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.BoardConfig
	var err error
	configID := configName
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			// Provide helpful error message with available options
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.configs.DefaultID()
	}

	// Let session manager generate the ID
	session, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info().Str("session", session.ID).Str("config", configID).Int("sprites", session.Board.Len()).Msg("session created")
	return s.sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return s.sessionInfo(session), nil
}

// ListSessions returns all active sessions, ordered by ID
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := sortedSessions(s.sessions.List())
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

	return s.sessions.Delete(sessionID)
}

// ResetSession reseeds a session's board from its configuration and clears
// its collision history
func (s *gameServiceImpl) ResetSession(ctx context.Context, sessionID string) (*BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Board.Reset(); err != nil {
		return nil, fmt.Errorf("failed to reset board: %w", err)
	}
	sess.History = nil
	s.save(sess)

	return boardView(sess), nil
}

// GetBoard returns the current layout and sprite positions of a session
func (s *gameServiceImpl) GetBoard(ctx context.Context, sessionID string) (*BoardView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return boardView(sess), nil
}

// Resize changes the area available to a session's board
func (s *gameServiceImpl) Resize(ctx context.Context, sessionID string, available geometry.Size) (*engine.Frame, error) {
	if available.W < 0 || available.H < 0 {
		return nil, fmt.Errorf("%w: size must not be negative, got %gx%g", ErrInvalidRequest, available.W, available.H)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	frame := sess.Board.Resize(available)
	s.save(sess)
	return &frame, nil
}

// GetGrid returns the placement of every cell of the grid a session's board
// was seeded from
func (s *gameServiceImpl) GetGrid(ctx context.Context, sessionID string) ([]engine.CellPlacement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	grid := sess.Board.Grid()
	return grid.Layout(grid.Size()), nil
}

// Tick advances one session by one tick
func (s *gameServiceImpl) Tick(ctx context.Context, sessionID string) (*TickReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	report := s.tick(sess)
	s.save(sess)
	return report, nil
}

// TickAll advances every live session that is due by one tick and persists
// each ticked session so the stored seq follows the live board.
func (s *gameServiceImpl) TickAll(ctx context.Context) ([]*TickReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := sortedSessions(s.sessions.List())
	reports := make([]*TickReport, 0, len(sessions))
	now := time.Now()
	for _, sess := range sessions {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		if !sess.Due(now) {
			continue
		}
		report := s.tick(sess)
		if err := s.sessions.Save(sess.ID); err != nil {
			s.logger.Warn().Err(err).Str("session", sess.ID).Msg("failed to persist session after tick")
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *gameServiceImpl) tick(sess *Session) *TickReport {
	kinds := make(map[string]engine.EntityKind, sess.Board.Len())
	for _, sp := range sess.Board.Sprites() {
		kinds[sp.ID] = sp.Kind
	}

	result := sess.Board.Tick()
	now := time.Now()
	sess.LastTickAt = now
	records := make([]CollisionRecord, len(result.Collisions))
	for i, c := range result.Collisions {
		records[i] = CollisionRecord{
			Seq:       result.Seq,
			A:         c.A,
			B:         c.B,
			KindA:     kinds[c.A],
			KindB:     kinds[c.B],
			Timestamp: now,
		}
	}
	sess.Record(records...)

	if len(records) > 0 {
		s.logger.Debug().Str("session", sess.ID).Uint64("seq", result.Seq).Int("collisions", len(records)).Strs("removed", result.Removed).Msg("tick")
	}

	return &TickReport{
		SessionID:  sess.ID,
		Seq:        result.Seq,
		Extent:     result.Extent,
		Collisions: records,
		Removed:    result.Removed,
	}
}

// InsertSprite adds a sprite to a session's board
func (s *gameServiceImpl) InsertSprite(ctx context.Context, sessionID string, spec SpriteSpec) (*SpriteInfo, error) {
	kind, err := engine.ParseEntityKind(spec.Kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("%w: sprite size must be positive, got %gx%g", ErrInvalidRequest, spec.Width, spec.Height)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	sprite := engine.NewSprite(kind, geometry.Size{W: spec.Width, H: spec.Height}, spec.X, spec.Y)
	sprite.Handler = nil
	if err := sess.Board.Insert(sprite); err != nil {
		return nil, err
	}
	s.save(sess)

	info := spriteInfo(sprite, sess.Board.Extent())
	return &info, nil
}

// RemoveSprite removes a sprite from a session's board
func (s *gameServiceImpl) RemoveSprite(ctx context.Context, sessionID, spriteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	if !sess.Board.Remove(spriteID) {
		return fmt.Errorf("%w: %s", engine.ErrSpriteNotFound, spriteID)
	}
	s.save(sess)
	return nil
}

// NudgeSprite moves a sprite relative to its current position
func (s *gameServiceImpl) NudgeSprite(ctx context.Context, sessionID, spriteID string, dx, dy float64) (*SpriteInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.Board.Nudge(spriteID, dx, dy); err != nil {
		return nil, err
	}
	s.save(sess)

	sprite, _ := sess.Board.Get(spriteID)
	info := spriteInfo(sprite, sess.Board.Extent())
	return &info, nil
}

// SendInput delivers an input action to every sprite of a session
func (s *gameServiceImpl) SendInput(ctx context.Context, sessionID, action string) (*InputResult, error) {
	a, err := engine.ParseAction(action)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	moved := sess.Board.Dispatch(engine.InputNotification(a))
	if moved == nil {
		moved = []string{}
	}
	s.save(sess)

	return &InputResult{
		SessionID: sess.ID,
		Action:    string(a),
		Moved:     moved,
		Sprites:   spriteInfos(sess.Board),
	}, nil
}

// GetCollisionHistory returns paginated collision history
func (s *gameServiceImpl) GetCollisionHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.History
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

	// Calculate pagination
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	collisions := []CollisionRecord{}
	if start < total {
		if opts.Order == "desc" {
			// Most recent first
			for i := total - 1 - start; i >= total-end; i-- {
				collisions = append(collisions, history[i])
			}
		} else {
			collisions = append(collisions, history[start:end]...)
		}
	}

	return &HistoryResponse{
		Collisions:      collisions,
		TotalCollisions: total,
		Page:            opts.Page,
		PageSize:        opts.Limit,
		TotalPages:      totalPages,
		HasNext:         opts.Page < totalPages,
		HasPrevious:     opts.Page > 1,
	}, nil
}

// ListConfigs returns available board configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific board configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.BoardConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a board configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.BoardConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// ConfigSchema returns the JSON schema of board configuration files
func (s *gameServiceImpl) ConfigSchema(ctx context.Context) (*jsonschema.Schema, error) {
	return s.configs.Schema(), nil
}

// session looks a session up and marks it as accessed. Callers hold the
// write lock.
func (s *gameServiceImpl) session(id string) (*Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}
	s.sessions.UpdateLastAccessed(id)
	return sess, nil
}

func (s *gameServiceImpl) save(sess *Session) {
	if err := s.sessions.Save(sess.ID); err != nil {
		s.logger.Warn().Err(err).Str("session", sess.ID).Msg("failed to persist session")
	}
}

func (s *gameServiceImpl) sessionInfo(sess *Session) *SessionInfo {
	return &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessedAt,
		Seq:            sess.Board.Seq(),
		SpriteCount:    sess.Board.Len(),
		Extent:         sess.Board.Extent(),
		BoardConfig:    sess.Config,
	}
}

func boardView(sess *Session) *BoardView {
	return &BoardView{
		SessionID: sess.ID,
		Seq:       sess.Board.Seq(),
		Available: sess.Board.Available(),
		Frame:     sess.Board.Layout(),
		Sprites:   spriteInfos(sess.Board),
		Counts:    engine.CountKinds(sess.Board.Sprites()),
	}
}

func spriteInfos(board *engine.Board) []SpriteInfo {
	extent := board.Extent()
	sprites := board.Sprites()
	out := make([]SpriteInfo, len(sprites))
	for i, sp := range sprites {
		out[i] = spriteInfo(sp, extent)
	}
	return out
}

func spriteInfo(sp *engine.Sprite, extent geometry.Size) SpriteInfo {
	return SpriteInfo{
		ID:     sp.ID,
		Kind:   sp.Kind,
		Size:   sp.Size,
		X:      sp.X,
		Y:      sp.Y,
		Adjust: sp.Adjust,
		Bounds: sp.Bounds(extent),
	}
}

func sortedSessions(sessions []*Session) []*Session {
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	return sessions
}
