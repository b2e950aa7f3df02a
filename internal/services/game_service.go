// internal/services/game_service.go
// In-memory registry of running games. Each game's engine.Game is
// owned by exactly one goroutine that serializes every command and
// tick through a channel, the way the teacher's websocket Hub
// serializes register/unregister/broadcast through one select loop
// (internal/websocket/hub.go). Hosts never call into an engine.Game
// directly; they submit closures and wait for the result.

package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"rotation-planner/internal/config"
	"rotation-planner/internal/engine"
	"rotation-planner/internal/models"
	"rotation-planner/internal/repositories"

	"github.com/google/uuid"
)

// GameBroadcaster is the outbound half of the loop: something that can
// push a game event to subscribers (websocket clients). Defined here
// rather than imported from internal/websocket so this package never
// depends on the transport layer; the concrete Hub is wired in by
// internal/server/server.go after both sides are constructed.
type GameBroadcaster interface {
	BroadcastGameEvent(gameID string, eventType string, data interface{})
}

// gameCommand is a closure executed against the owned *engine.Game by
// its single serializing goroutine. reply receives any returned error.
type gameCommand struct {
	run   func(*engine.Game) error
	reply chan error
}

// runningGame is one entry in the registry: the engine instance plus
// the channel and goroutine that own it exclusively.
type runningGame struct {
	id          string
	organizerID string
	game        *engine.Game
	cmds        chan gameCommand
	stop        chan struct{}
	endedAt     time.Time
	ended       bool
	mu          sync.Mutex // guards endedAt/ended, read by the eviction sweep
}

// GameService owns the registry of live games and bridges engine
// events to persistence, analytics and the websocket hub.
type GameService struct {
	mu        sync.RWMutex
	games     map[string]*runningGame
	repos     *repositories.Container
	cache     *CacheService
	analytics *AnalyticsService
	broadcast GameBroadcaster
	cfg       config.GameDefaults
	logger    *log.Logger
}

// NewGameService constructs the registry. SetBroadcaster must be
// called once the host's websocket hub exists.
func NewGameService(repos *repositories.Container, cache *CacheService, analytics *AnalyticsService, cfg config.GameDefaults, logger *log.Logger) *GameService {
	return &GameService{
		games:     make(map[string]*runningGame),
		repos:     repos,
		cache:     cache,
		analytics: analytics,
		cfg:       cfg,
		logger:    logger,
	}
}

// SetBroadcaster wires the websocket hub in after construction,
// breaking the services<->websocket import cycle.
func (s *GameService) SetBroadcaster(b GameBroadcaster) {
	s.broadcast = b
}

// gameListener adapts engine.Listener callbacks to the host's
// persistence/analytics/broadcast side effects for one game.
type gameListener struct {
	svc    *GameService
	gameID string
}

func (l *gameListener) OnUpdate(st models.GameState) {
	l.svc.cacheSnapshot(l.gameID, st)
	l.svc.broadcastEvent(l.gameID, "update", st)
}

func (l *gameListener) OnRotation(r models.Rotation) {
	l.svc.analytics.LogRotation(context.Background(), l.gameID, r)
	l.svc.broadcastEvent(l.gameID, "rotation", r)
}

func (l *gameListener) OnWarning(s int) {
	l.svc.broadcastEvent(l.gameID, "warning", map[string]int{"seconds_to_next_rotation": s})
}

func (l *gameListener) OnEarlyWarning(s int) {
	l.svc.broadcastEvent(l.gameID, "early_warning", map[string]int{"seconds_to_next_rotation": s})
}

func (l *gameListener) OnPeriodEnd(info engine.PeriodEndInfo) {
	l.svc.broadcastEvent(l.gameID, "period_end", info)
}

func (l *gameListener) OnGameEnd(fs models.FinalStats) {
	l.svc.persistFinal(l.gameID, fs)
	l.svc.broadcastEvent(l.gameID, "game_end", fs)
	l.svc.markEnded(l.gameID)
}

func (l *gameListener) OnRecovery(info engine.RecoveryInfo) {
	l.svc.analytics.LogDisruption(context.Background(), l.gameID, "recovery", map[string]interface{}{
		"reason": info.Reason, "at": info.At, "succeeded": info.Succeeded, "new_plan": info.NewPlan,
	})
	l.svc.broadcastEvent(l.gameID, "recovery", info)
}

func (l *gameListener) OnError(kind engine.ErrorKind, msg string) {
	l.svc.logger.Printf("game %s engine error (%s): %s", l.gameID, kind, msg)
	l.svc.analytics.LogDisruption(context.Background(), l.gameID, string(kind), map[string]interface{}{"message": msg})
	l.svc.broadcastEvent(l.gameID, "error", map[string]string{"kind": string(kind), "message": msg})
}

func (l *gameListener) OnScoreUpdate(sc models.Scoring) {
	l.svc.broadcastEvent(l.gameID, "score", sc)
}

func (s *GameService) broadcastEvent(gameID, eventType string, data interface{}) {
	if s.broadcast != nil {
		s.broadcast.BroadcastGameEvent(gameID, eventType, data)
	}
}

func (s *GameService) cacheSnapshot(gameID string, st models.GameState) {
	key := fmt.Sprintf("game_snapshot_%s", gameID)
	if err := s.cache.Set(key, st, s.cfg.SnapshotCacheTTL); err != nil {
		s.logger.Printf("failed to cache snapshot for game %s: %v", gameID, err)
	}
}

func (s *GameService) persistFinal(gameID string, fs models.FinalStats) {
	ctx := context.Background()
	rec, err := s.repos.Game.GetByID(ctx, gameID)
	if err != nil {
		s.logger.Printf("failed to load game %s for final persist: %v", gameID, err)
		return
	}
	rec.FinalStats = &fs
	rec.UpdatedAt = time.Now()
	if err := s.repos.Game.Update(ctx, rec); err != nil {
		s.logger.Printf("failed to persist final stats for game %s: %v", gameID, err)
	}
}

func (s *GameService) markEnded(gameID string) {
	s.mu.RLock()
	rg, ok := s.games[gameID]
	s.mu.RUnlock()
	if !ok {
		return
	}
	rg.mu.Lock()
	rg.ended = true
	rg.endedAt = time.Now()
	rg.mu.Unlock()
}

// CreateGame builds a new engine.Game from setup, registers it, and
// starts its owning goroutine. It returns the assigned game ID.
func (s *GameService) CreateGame(ctx context.Context, organizerID string, setup models.SetupInput) (string, error) {
	g, err := engine.NewGame(setup)
	if err != nil {
		return "", err
	}

	gameID := newGameID()
	g.Subscribe(&gameListener{svc: s, gameID: gameID})

	rg := &runningGame{
		id:          gameID,
		organizerID: organizerID,
		game:        g,
		cmds:        make(chan gameCommand, 8),
		stop:        make(chan struct{}),
	}

	rec := &models.GameRecord{
		ID:          gameID,
		OrganizerID: organizerID,
		Config:      g.Config(),
		State:       g.Snapshot(),
		Scoring:     models.Scoring{PlayerPoints: map[string]int{}},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.repos.Game.Create(ctx, rec); err != nil {
		return "", fmt.Errorf("failed to persist game: %w", err)
	}

	s.mu.Lock()
	s.games[gameID] = rg
	s.mu.Unlock()

	go s.run(rg)
	return gameID, nil
}

// run is the single goroutine that owns rg.game. It drives one tick
// per second and drains queued commands between ticks, so a command
// and a tick never touch the engine concurrently.
func (s *GameService) run(rg *runningGame) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-rg.stop:
			return
		case cmd := <-rg.cmds:
			cmd.reply <- cmd.run(rg.game)
		case <-ticker.C:
			rg.game.Tick()
			s.maybeEvict(rg)
		}
	}
}

func (s *GameService) maybeEvict(rg *runningGame) {
	rg.mu.Lock()
	ended := rg.ended
	endedAt := rg.endedAt
	rg.mu.Unlock()
	if !ended || time.Since(endedAt) < s.cfg.EvictionGracePeriod {
		return
	}
	s.mu.Lock()
	delete(s.games, rg.id)
	s.mu.Unlock()
	close(rg.stop)
}

// submit runs fn against the game's engine on its owning goroutine
// and blocks for the result, the synchronous command path every
// mutating method below uses.
func (s *GameService) submit(gameID string, fn func(*engine.Game) error) error {
	s.mu.RLock()
	rg, ok := s.games[gameID]
	s.mu.RUnlock()
	if !ok {
		return ErrGameEvicted
	}

	reply := make(chan error, 1)
	select {
	case rg.cmds <- gameCommand{run: fn, reply: reply}:
	case <-time.After(5 * time.Second):
		return fmt.Errorf("game %s command queue saturated", gameID)
	}
	return <-reply
}

func (s *GameService) Start(gameID string) error {
	return s.submit(gameID, func(g *engine.Game) error { return g.Start() })
}

func (s *GameService) Stop(gameID string) error {
	return s.submit(gameID, func(g *engine.Game) error { return g.Stop() })
}

func (s *GameService) ConfirmRotation(gameID string) error {
	return s.submit(gameID, func(g *engine.Game) error { return g.ConfirmRotation() })
}

func (s *GameService) CancelRotation(gameID string) error {
	return s.submit(gameID, func(g *engine.Game) error { return g.CancelRotation() })
}

func (s *GameService) EmergencySubstitution(gameID string, off, on []string, removeFromGame bool) error {
	return s.submit(gameID, func(g *engine.Game) error { return g.EmergencySubstitution(off, on, removeFromGame) })
}

func (s *GameService) PlayerFouledOut(gameID, playerID string) error {
	return s.submit(gameID, func(g *engine.Game) error { return g.PlayerFouledOut(playerID) })
}

func (s *GameService) RemovePlayer(gameID, playerID string) error {
	return s.submit(gameID, func(g *engine.Game) error { return g.RemovePlayer(playerID) })
}

func (s *GameService) ReturnPlayer(gameID, playerID string) error {
	return s.submit(gameID, func(g *engine.Game) error { return g.ReturnPlayer(playerID) })
}

func (s *GameService) UpdatePlayerScore(gameID, playerID string, delta int) error {
	return s.submit(gameID, func(g *engine.Game) error { return g.UpdatePlayerScore(playerID, delta) })
}

func (s *GameService) UpdateTeamScore(gameID string, isHome bool, delta int) error {
	return s.submit(gameID, func(g *engine.Game) error { g.UpdateTeamScore(isHome, delta); return nil })
}

func (s *GameService) UpdateTeamName(gameID string, isHome bool, name string) error {
	return s.submit(gameID, func(g *engine.Game) error { g.UpdateTeamName(isHome, name); return nil })
}

func (s *GameService) HandleVisibilityChange(gameID string, hidden bool) error {
	return s.submit(gameID, func(g *engine.Game) error { g.HandleVisibilityChange(hidden); return nil })
}

func (s *GameService) ApplyMissedTime(gameID string, delta int) error {
	return s.submit(gameID, func(g *engine.Game) error { return g.ApplyMissedTime(delta) })
}

// Snapshot returns the current state, falling back to a cached or
// persisted record if the game is not (or no longer) held in memory.
func (s *GameService) Snapshot(ctx context.Context, gameID string) (models.GameState, error) {
	s.mu.RLock()
	rg, ok := s.games[gameID]
	s.mu.RUnlock()
	if ok {
		var st models.GameState
		err := s.submit(gameID, func(g *engine.Game) error { st = g.Snapshot(); return nil })
		return st, err
	}

	var cached models.GameState
	if err := s.cache.Get(fmt.Sprintf("game_snapshot_%s", gameID), &cached); err == nil {
		return cached, nil
	}

	rec, err := s.repos.Game.GetByID(ctx, gameID)
	if err != nil {
		return models.GameState{}, ErrNotFound
	}
	return rec.State, nil
}

// History returns the confirmed rotation log for a live game.
func (s *GameService) History(gameID string) ([]models.Rotation, error) {
	var out []models.Rotation
	err := s.submit(gameID, func(g *engine.Game) error { out = g.History(); return nil })
	return out, err
}

// IsOwner reports whether organizerID owns gameID, consulting the
// durable record so it works even for evicted games.
func (s *GameService) IsOwner(ctx context.Context, gameID, organizerID string) (bool, error) {
	s.mu.RLock()
	rg, ok := s.games[gameID]
	s.mu.RUnlock()
	if ok {
		return rg.organizerID == organizerID, nil
	}
	rec, err := s.repos.Game.GetByID(ctx, gameID)
	if err != nil {
		return false, err
	}
	return rec.OrganizerID == organizerID, nil
}

func newGameID() string {
	return "g_" + uuid.NewString()
}
