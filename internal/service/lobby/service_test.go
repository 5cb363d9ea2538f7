package lobby_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"draw-poker/internal/config"
	"draw-poker/internal/service/game"
	"draw-poker/internal/service/lobby"
	"draw-poker/internal/service/session"
	appErr "draw-poker/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticNames map[string]string

func (n staticNames) DisplayName(identity string) (string, bool) {
	name, ok := n[identity]
	return name, ok
}

func (n staticNames) Name(_ context.Context, identity string) (string, error) {
	name, ok := n[identity]
	if !ok {
		return "", appErr.ErrSessionNotFound
	}
	return name, nil
}

type recorder struct {
	mu      sync.Mutex
	results []game.HandResult
}

func (r *recorder) Record(_ context.Context, result game.HandResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, result)
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

var names = staticNames{"a": "alice", "b": "bob", "c": "carol"}

func newLobbyService(t *testing.T, grace time.Duration) (*lobby.Service, *session.Registry, *recorder) {
	t.Helper()
	cfg := config.DefaultTableConfig()
	cfg.NextHandDelay = 0
	registry := session.NewRegistry(grace)
	t.Cleanup(registry.Close)
	rec := &recorder{}
	return lobby.NewService(cfg, names, registry, rec), registry, rec
}

func act(t *testing.T, svc *lobby.Service, identity, code, action string, data interface{}) (*game.OutgoingMessage, error) {
	t.Helper()
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(t, err)
		raw = b
	}
	return svc.HandleAction(identity, code, action, raw)
}

func TestCreateSeatsHost(t *testing.T) {
	svc, _, _ := newLobbyService(t, 0)

	info, err := svc.Create(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, info.Code, 6)
	assert.Equal(t, []string{"alice"}, info.Players)
	assert.Equal(t, "alice", info.Host)
	assert.Equal(t, 1, svc.Count())

	_, err = svc.Create(context.Background(), "nobody")
	assert.ErrorIs(t, err, appErr.ErrSessionNotFound)
}

func TestCreateIssuesUniqueCodes(t *testing.T) {
	svc, _, _ := newLobbyService(t, 0)
	seen := make(map[string]bool)
	for _, id := range []string{"a", "b", "c"} {
		info, err := svc.Create(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, seen[info.Code])
		seen[info.Code] = true
	}
	assert.Equal(t, 3, svc.Count())
}

func TestJoinAndStart(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobbyService(t, 0)

	info, err := svc.Create(ctx, "a")
	require.NoError(t, err)
	_, err = svc.Join(ctx, "b", "NOPE00")
	assert.ErrorIs(t, err, appErr.ErrLobbyNotFound)

	info, err = svc.Join(ctx, "b", info.Code)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, info.Players)

	assert.ErrorIs(t, svc.Start("b", info.Code), appErr.ErrNotHost)
	require.NoError(t, svc.Start("a", info.Code))

	state, err := svc.LobbyState(info.Code)
	require.NoError(t, err)
	assert.True(t, state.Started)
}

func TestJoinMovesBetweenLobbies(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobbyService(t, 0)

	first, err := svc.Create(ctx, "a")
	require.NoError(t, err)
	second, err := svc.Create(ctx, "b")
	require.NoError(t, err)

	_, err = svc.Join(ctx, "a", second.Code)
	require.NoError(t, err)

	// alice was the only seat in the first lobby.
	_, err = svc.Get(first.Code)
	assert.ErrorIs(t, err, appErr.ErrLobbyNotFound)
	assert.Equal(t, 1, svc.Count())
}

func TestLeaveTearsDownEmptyLobby(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobbyService(t, 0)

	info, err := svc.Create(ctx, "a")
	require.NoError(t, err)
	_, err = svc.Join(ctx, "b", info.Code)
	require.NoError(t, err)

	require.NoError(t, svc.Leave("a"))
	state, err := svc.LobbyState(info.Code)
	require.NoError(t, err)
	assert.Equal(t, "bob", state.Host)

	require.NoError(t, svc.Leave("b"))
	_, err = svc.Get(info.Code)
	assert.ErrorIs(t, err, appErr.ErrLobbyNotFound)
	assert.ErrorIs(t, svc.Leave("b"), appErr.ErrUnknownSeat)
}

func TestJoinRacingLastLeaveNeverStrandsMember(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newLobbyService(t, 0)

	for i := 0; i < 200; i++ {
		info, err := svc.Create(ctx, "a")
		require.NoError(t, err)

		var (
			wg      sync.WaitGroup
			joinErr error
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, svc.Leave("a"))
		}()
		go func() {
			defer wg.Done()
			_, joinErr = svc.Join(ctx, "b", info.Code)
		}()
		wg.Wait()

		if joinErr != nil {
			assert.True(t,
				errors.Is(joinErr, appErr.ErrLobbyNotFound) || errors.Is(joinErr, appErr.ErrTableClosed),
				"unexpected join error %v", joinErr)
			_, err = svc.Get(info.Code)
			assert.ErrorIs(t, err, appErr.ErrLobbyNotFound)
			assert.ErrorIs(t, svc.Leave("b"), appErr.ErrUnknownSeat)
			continue
		}

		state, err := svc.LobbyState(info.Code)
		require.NoError(t, err, "joined lobby was torn down")
		assert.Equal(t, []string{"bob"}, state.Players)
		require.NoError(t, svc.Leave("b"))
	}
	assert.Zero(t, svc.Count())
}

func TestActionsPlayAHand(t *testing.T) {
	ctx := context.Background()
	svc, _, rec := newLobbyService(t, 0)

	info, err := svc.Create(ctx, "a")
	require.NoError(t, err)
	_, err = svc.Join(ctx, "b", info.Code)
	require.NoError(t, err)

	_, err = act(t, svc, "a", info.Code, lobby.ActionStart, nil)
	require.NoError(t, err)

	reply, err := act(t, svc, "a", info.Code, lobby.ActionBet, map[string]int64{"amount": 10})
	require.NoError(t, err)
	state := reply.Data.(game.GameState)
	assert.Equal(t, int64(15), state.CurrentPot)
	assert.Equal(t, "bob", state.CurrentPlayer)

	_, err = act(t, svc, "b", info.Code, lobby.ActionBet, map[string]int64{"amount": 9})
	assert.ErrorIs(t, err, appErr.ErrBetBelowMinimum)
	_, err = act(t, svc, "b", info.Code, lobby.ActionBet, map[string]int64{"amount": 10})
	require.NoError(t, err)

	reply, err = act(t, svc, "a", info.Code, lobby.ActionDraw, map[string][]interface{}{"cards": {"0_1", 3}})
	require.NoError(t, err)
	assert.Len(t, reply.Data.([]game.Card), game.HandSize)

	_, err = act(t, svc, "b", info.Code, lobby.ActionDraw, map[string][]interface{}{"cards": {"x_9"}})
	assert.ErrorIs(t, err, appErr.ErrInvalidCardSlot)
	_, err = act(t, svc, "b", info.Code, lobby.ActionDraw, nil)
	require.NoError(t, err)

	_, err = act(t, svc, "a", info.Code, lobby.ActionFold, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	rec.mu.Lock()
	result := rec.results[0]
	rec.mu.Unlock()
	assert.Equal(t, "b", result.WinnerIdentity)
	assert.Equal(t, int64(20), result.Pot)

	reply, err = act(t, svc, "a", info.Code, lobby.ActionGetState, nil)
	require.NoError(t, err)
	state = reply.Data.(game.GameState)
	require.NotNil(t, state.Result)
	assert.Equal(t, game.ActionStart, state.AllowedAction)
}

func TestUnknownActionRejected(t *testing.T) {
	svc, _, _ := newLobbyService(t, 0)
	info, err := svc.Create(context.Background(), "a")
	require.NoError(t, err)

	_, err = act(t, svc, "a", info.Code, "shuffle", nil)
	assert.ErrorIs(t, err, appErr.ErrInvalidPayload)

	reply, err := act(t, svc, "a", "", lobby.ActionPing, nil)
	require.NoError(t, err)
	assert.Equal(t, "pong", reply.Type)
}

func TestBroadcastReachesSubscribers(t *testing.T) {
	ctx := context.Background()
	svc, registry, _ := newLobbyService(t, 0)

	_, alice := registry.Subscribe("a")
	info, err := svc.Create(ctx, "a")
	require.NoError(t, err)
	_, err = svc.Join(ctx, "b", info.Code)
	require.NoError(t, err)

	var last game.OutgoingMessage
	for len(alice) > 0 {
		last = <-alice
	}
	state := last.Data.(game.GameState)
	assert.Equal(t, []string{"alice", "bob"}, []string{state.Players[0].Name, state.Players[1].Name})
}

func TestGraceExpiryRemovesSeat(t *testing.T) {
	ctx := context.Background()
	svc, registry, _ := newLobbyService(t, 20*time.Millisecond)

	info, err := svc.Create(ctx, "a")
	require.NoError(t, err)
	_, err = svc.Join(ctx, "b", info.Code)
	require.NoError(t, err)

	id, _ := registry.Subscribe("b")
	registry.Unsubscribe("b", id)

	require.Eventually(t, func() bool {
		state, err := svc.LobbyState(info.Code)
		return err == nil && len(state.Players) == 1
	}, time.Second, 5*time.Millisecond)
}
