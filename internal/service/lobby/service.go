package lobby

import (
	"context"
	"fmt"
	"time"

	"draw-poker/internal/config"
	"draw-poker/internal/metrics"
	"draw-poker/internal/service/game"
	appErr "draw-poker/pkg/errors"
	"draw-poker/pkg/logger"
	"draw-poker/pkg/utils/random"

	cmap "github.com/orcaman/concurrent-map"
	"go.uber.org/zap"
)

const (
	codeLength    = 6
	codeAttempts  = 16
	recordTimeout = 5 * time.Second
)

// Names resolves identities to display names for seating.
type Names interface {
	game.NameResolver
	Name(ctx context.Context, identity string) (string, error)
}

// Recorder persists settled hands.
type Recorder interface {
	Record(ctx context.Context, result game.HandResult) error
}

// Connections is the delivery side of the session registry.
type Connections interface {
	game.Deliverer
	OnExpire(fn func(identity string))
	Connected(identity string) bool
}

type Info struct {
	Code    string   `json:"code"`
	Players []string `json:"players"`
	Host    string   `json:"host"`
	Started bool     `json:"started"`
}

// Service owns every live lobby. Each lobby wraps exactly one table.
type Service struct {
	cfg      config.TableConfig
	names    Names
	conns    Connections
	recorder Recorder

	tables  cmap.ConcurrentMap // code -> *game.Table
	members cmap.ConcurrentMap // identity -> code
}

func NewService(cfg config.TableConfig, names Names, conns Connections, recorder Recorder) *Service {
	s := &Service{
		cfg:      cfg,
		names:    names,
		conns:    conns,
		recorder: recorder,
		tables:   cmap.New(),
		members:  cmap.New(),
	}
	if conns != nil {
		conns.OnExpire(s.onIdentityExpired)
	}
	return s
}

// Create opens a new lobby and seats identity as its host.
func (s *Service) Create(ctx context.Context, identity string) (*Info, error) {
	name, err := s.names.Name(ctx, identity)
	if err != nil {
		return nil, err
	}
	s.leaveCurrent(identity)

	var (
		code  string
		table *game.Table
	)
	for i := 0; i < codeAttempts; i++ {
		candidate := random.Code(codeLength)
		t := s.newTable(candidate)
		if s.tables.SetIfAbsent(candidate, t) {
			code, table = candidate, t
			break
		}
	}
	if table == nil {
		return nil, fmt.Errorf("no free lobby code after %d attempts", codeAttempts)
	}
	metrics.Metrics.SetActiveLobbies(s.tables.Count())

	if err := table.AddPlayer(identity, name); err != nil {
		s.Teardown(code)
		return nil, err
	}
	s.members.Set(identity, code)
	logger.Lobby(code).Info("lobby created", zap.String(logger.IdentityKey, identity))
	return s.LobbyState(code)
}

func (s *Service) newTable(code string) *game.Table {
	return game.NewTable(game.Options{
		Code:      code,
		Config:    s.cfg,
		Deliverer: s.conns,
		Names:     s.names,
		OnFinish:  s.recordHand,
	})
}

// Join seats identity in the lobby with the given code.
func (s *Service) Join(ctx context.Context, identity, code string) (*Info, error) {
	table, err := s.Get(code)
	if err != nil {
		return nil, err
	}
	name, err := s.names.Name(ctx, identity)
	if err != nil {
		return nil, err
	}
	if current, ok := s.lobbyOf(identity); ok && current != code {
		s.leaveCurrent(identity)
	}
	if err := table.AddPlayer(identity, name); err != nil {
		return nil, err
	}
	s.members.Set(identity, code)
	return s.LobbyState(code)
}

func (s *Service) Get(code string) (*game.Table, error) {
	v, ok := s.tables.Get(code)
	if !ok {
		return nil, appErr.ErrLobbyNotFound
	}
	return v.(*game.Table), nil
}

// LobbyState lists the seated players of a lobby.
func (s *Service) LobbyState(code string) (*Info, error) {
	table, err := s.Get(code)
	if err != nil {
		return nil, err
	}
	players := table.PlayerNames()
	info := &Info{Code: code, Players: players}
	if len(players) > 0 {
		info.Host = players[0]
	}
	info.Started = table.HandInProgress()
	return info, nil
}

// Start deals the next hand. Only the host may start.
func (s *Service) Start(identity, code string) error {
	table, err := s.Get(code)
	if err != nil {
		return err
	}
	if !table.IsHost(identity) {
		return appErr.ErrNotHost
	}
	return table.Start()
}

// Leave removes identity from its lobby, tearing the lobby down when the
// last seat goes.
func (s *Service) Leave(identity string) error {
	code, ok := s.lobbyOf(identity)
	if !ok {
		return appErr.ErrUnknownSeat
	}
	return s.leave(identity, code)
}

func (s *Service) leave(identity, code string) error {
	s.members.Remove(identity)
	table, err := s.Get(code)
	if err != nil {
		return err
	}
	remaining, err := table.Leave(identity)
	if err != nil {
		return err
	}
	logger.Lobby(code).Info("player left",
		zap.String(logger.IdentityKey, identity),
		zap.Int("remaining", remaining),
	)
	if remaining == 0 {
		s.teardownIfEmpty(code)
	}
	return nil
}

// teardownIfEmpty removes the lobby unless someone joined after the last
// seat left. The emptiness check and the removal share the map shard lock.
func (s *Service) teardownIfEmpty(code string) {
	removed := s.tables.RemoveCb(code, func(_ string, v interface{}, exists bool) bool {
		return exists && v.(*game.Table).CloseIfEmpty()
	})
	if !removed {
		return
	}
	metrics.Metrics.SetActiveLobbies(s.tables.Count())
	logger.Lobby(code).Info("lobby torn down")
}

func (s *Service) leaveCurrent(identity string) {
	if code, ok := s.lobbyOf(identity); ok {
		if err := s.leave(identity, code); err != nil {
			logger.Lobby(code).Warn("leave previous lobby failed",
				zap.String(logger.IdentityKey, identity),
				zap.Error(err),
			)
		}
	}
}

// Teardown closes a lobby and cancels its pending next hand.
func (s *Service) Teardown(code string) {
	v, ok := s.tables.Get(code)
	if !ok {
		return
	}
	s.tables.Remove(code)
	v.(*game.Table).Close()
	metrics.Metrics.SetActiveLobbies(s.tables.Count())
	logger.Lobby(code).Info("lobby torn down")
}

// Count returns how many lobbies are live.
func (s *Service) Count() int {
	return s.tables.Count()
}

func (s *Service) lobbyOf(identity string) (string, bool) {
	v, ok := s.members.Get(identity)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (s *Service) onIdentityExpired(identity string) {
	if s.conns != nil && s.conns.Connected(identity) {
		return
	}
	if _, ok := s.lobbyOf(identity); !ok {
		return
	}
	if err := s.Leave(identity); err != nil {
		logger.Log.Warn("expire seat failed", zap.String(logger.IdentityKey, identity), zap.Error(err))
	}
}

func (s *Service) recordHand(result game.HandResult) {
	if s.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := s.recorder.Record(ctx, result); err != nil {
		logger.Lobby(result.Lobby).Error("hand not recorded",
			zap.Int64(logger.HandNoKey, result.HandNo),
			zap.Error(err),
		)
	}
}
