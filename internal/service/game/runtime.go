package game

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"draw-poker/internal/config"
	"draw-poker/internal/metrics"
	appErr "draw-poker/pkg/errors"
	"draw-poker/pkg/logger"
	"draw-poker/pkg/utils/random"

	"go.uber.org/zap"
)

// Seat is one participant at the table. Seat order is fixed at join time.
type Seat struct {
	Identity   string
	Name       string
	Hand       []Card
	Balance    int64
	Active     bool // still contesting the current hand
	CurrentBet int64
	Departing  bool // left but not yet purged
	HandScore  *int // tier score, set at showdown
	TieBreak   int64
	HandName   string
}

func (s *Seat) eligible() bool {
	return s.Active && !s.Departing
}

// Deliverer pushes a message to every connection of identity. It is called
// with the table lock held and must not block.
type Deliverer interface {
	Deliver(identity string, msg OutgoingMessage)
}

// NameResolver maps identities to their current display names.
type NameResolver interface {
	DisplayName(identity string) (string, bool)
}

type Options struct {
	Code      string
	Config    config.TableConfig
	Deliverer Deliverer
	Names     NameResolver
	Rand      *rand.Rand
	// OnFinish runs on its own goroutine after every settled hand.
	OnFinish func(HandResult)
}

// Table is the authoritative state of one lobby's game. Every exported
// method takes the lock, so actions arriving on independent connections are
// applied one at a time.
type Table struct {
	code string
	cfg  config.TableConfig

	seats       []*Seat
	deck        *Deck
	current     int
	opener      int
	round       Round
	started     bool
	settled     bool
	repeatGuard bool
	handNo      int64
	lastResult  *HandResult
	closed      bool
	seq         int64

	rng      *rand.Rand
	deliver  Deliverer
	names    NameResolver
	onFinish func(HandResult)
	nextHand *time.Timer
	log      *zap.Logger

	mu sync.Mutex
}

func NewTable(opts Options) *Table {
	cfg := opts.Config
	if cfg.SeatCapacity <= 0 || cfg.SeatCapacity > 5 {
		cfg.SeatCapacity = 5
	}
	rng := opts.Rand
	if rng == nil {
		rng = random.NewRand()
	}
	return &Table{
		code:     opts.Code,
		cfg:      cfg,
		seats:    make([]*Seat, 0, cfg.SeatCapacity),
		deck:     &Deck{},
		rng:      rng,
		deliver:  opts.Deliverer,
		names:    opts.Names,
		onFinish: opts.OnFinish,
		log:      logger.Lobby(opts.Code),
	}
}

func (t *Table) Code() string {
	return t.code
}

// AddPlayer seats identity at the end of the seat order. Re-adding a seated
// identity is accepted and clears a pending departure.
func (t *Table) AddPlayer(identity, name string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return appErr.ErrTableClosed
	}
	if idx := t.seatIndexLocked(identity); idx >= 0 {
		seat := t.seats[idx]
		seat.Departing = false
		if name != "" {
			seat.Name = name
		}
		t.broadcastStateLocked()
		return nil
	}
	if len(t.seats) >= t.cfg.SeatCapacity {
		return appErr.ErrLobbyFull
	}
	t.seats = append(t.seats, &Seat{
		Identity: identity,
		Name:     name,
		Balance:  t.cfg.StartingBalance,
	})
	t.log.Info("player seated",
		zap.String(logger.IdentityKey, identity),
		zap.Int(logger.SeatKey, len(t.seats)-1),
	)
	t.broadcastStateLocked()
	return nil
}

// Leave marks identity as departing and returns how many seats remain. Out
// of a hand the seat is purged at once; during a hand it stays until the
// next start so its committed chips still settle, and the turn moves on
// first if it was the seat to act.
func (t *Table) Leave(identity string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.seatIndexLocked(identity)
	if idx < 0 {
		return t.remainingLocked(), appErr.ErrUnknownSeat
	}

	if !t.inHandLocked() {
		t.seats = append(t.seats[:idx], t.seats[idx+1:]...)
		t.broadcastStateLocked()
		return t.remainingLocked(), nil
	}

	seat := t.seats[idx]
	wasEligible := seat.eligible()
	seat.Active = false
	seat.Departing = true
	t.log.Info("player departing",
		zap.String(logger.IdentityKey, identity),
		zap.Int(logger.SeatKey, idx),
		zap.Int64(logger.HandNoKey, t.handNo),
	)

	switch {
	case idx == t.current:
		t.advanceTurnLocked()
	case wasEligible && t.activeCountLocked() < 2:
		t.enterRoundLocked(Showdown)
	}
	t.broadcastStateLocked()
	return t.remainingLocked(), nil
}

// Start deals a new hand. It cancels a pending automatic start.
func (t *Table) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.startLocked(); err != nil {
		t.rejectLocked("start", "", err)
		return err
	}
	t.broadcastStateLocked()
	return nil
}

func (t *Table) startLocked() error {
	if t.closed {
		return appErr.ErrTableClosed
	}
	if t.inHandLocked() {
		return appErr.ErrHandInProgress
	}

	t.purgeDepartedLocked()
	eligible := 0
	for _, s := range t.seats {
		if t.canAffordHandLocked(s) {
			eligible++
		}
	}
	if eligible < 2 {
		return fmt.Errorf("%w: %d seats can cover the ante", appErr.ErrNotEnoughPlayers, eligible)
	}

	deck := NewDeck()
	deck.Shuffle(t.rng)
	if need := eligible * HandSize; need > deck.Len() {
		return fmt.Errorf("%w: need %d, have %d", appErr.ErrDeckExhausted, need, deck.Len())
	}

	t.cancelNextHandLocked()
	for _, s := range t.seats {
		s.Hand = nil
		s.CurrentBet = 0
		s.HandScore = nil
		s.TieBreak = 0
		s.HandName = ""
		s.Active = t.canAffordHandLocked(s)
		if s.Active {
			s.CurrentBet = t.cfg.Ante
		}
	}
	if err := deck.Deal(t.seats, HandSize); err != nil {
		return err
	}

	t.deck = deck
	t.handNo++
	t.started = true
	t.settled = false
	t.lastResult = nil
	t.round = FirstBet
	t.repeatGuard = false
	t.current = t.firstEligibleLocked()
	t.opener = t.current

	metrics.Metrics.HandStarted()
	t.log.Info("hand started",
		zap.Int64(logger.HandNoKey, t.handNo),
		zap.Int("players", eligible),
	)
	return nil
}

func (t *Table) canAffordHandLocked(s *Seat) bool {
	return !s.Departing && s.Balance > 0 && s.Balance >= t.cfg.Ante
}

// Bet commits amount as the seat's total bet for the hand, or folds.
// The returned state is the requester's view after the action.
func (t *Table) Bet(identity string, amount int64, fold bool) (GameState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := t.seatIndexLocked(identity)
	if idx < 0 {
		t.rejectLocked("bet", identity, appErr.ErrUnknownSeat)
		return GameState{}, appErr.ErrUnknownSeat
	}
	seat := t.seats[idx]

	err := ValidateBet(BetRequest{
		Started: t.started,
		Round:   t.round,
		IsTurn:  idx == t.current,
		Active:  seat.eligible(),
		Balance: seat.Balance,
		HighBet: t.highBetLocked(),
		Amount:  amount,
		Fold:    fold,
	})
	if err != nil {
		t.rejectLocked("bet", identity, err)
		return GameState{}, err
	}

	if fold {
		seat.Active = false
	} else {
		seat.CurrentBet = amount
	}
	t.log.Debug("bet accepted",
		zap.String(logger.IdentityKey, identity),
		zap.Int64("amount", amount),
		zap.Bool("fold", fold),
		zap.String(logger.RoundKey, t.round.String()),
	)

	t.advanceTurnLocked()
	t.broadcastStateLocked()
	return t.exportStateLocked(identity, false), nil
}

// DrawCards replaces the given hand slots with cards from the deck tail.
// An empty slot list stands pat.
func (t *Table) DrawCards(identity string, slots []int) ([]Card, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	hand, err := t.drawLocked(identity, slots)
	if err != nil {
		t.rejectLocked("draw", identity, err)
		return nil, err
	}
	t.advanceTurnLocked()
	t.broadcastStateLocked()
	return hand, nil
}

func (t *Table) drawLocked(identity string, slots []int) ([]Card, error) {
	idx := t.seatIndexLocked(identity)
	if idx < 0 {
		return nil, appErr.ErrUnknownSeat
	}
	if !t.started || t.round != Draw {
		return nil, appErr.ErrWrongRoundForAction
	}
	seat := t.seats[idx]
	if !seat.eligible() {
		return nil, appErr.ErrSeatInactive
	}
	if idx != t.current {
		return nil, appErr.ErrNotYourTurn
	}

	seen := make(map[int]struct{}, len(slots))
	for _, slot := range slots {
		if slot < 0 || slot >= len(seat.Hand) {
			return nil, fmt.Errorf("%w: %d", appErr.ErrInvalidCardSlot, slot)
		}
		if _, dup := seen[slot]; dup {
			return nil, fmt.Errorf("%w: %d repeated", appErr.ErrInvalidCardSlot, slot)
		}
		seen[slot] = struct{}{}
	}

	cards, err := t.deck.Pop(len(slots))
	if err != nil {
		return nil, err
	}
	for i, slot := range slots {
		seat.Hand[slot] = cards[i]
	}
	t.log.Debug("cards drawn",
		zap.String(logger.IdentityKey, identity),
		zap.Int("count", len(slots)),
	)
	return append([]Card(nil), seat.Hand...), nil
}

// Close tears the table down and cancels the pending next hand.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	t.cancelNextHandLocked()
}

// CloseIfEmpty closes the table only when no seat remains. A player seated
// concurrently keeps it open.
func (t *Table) CloseIfEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || t.remainingLocked() > 0 {
		return false
	}
	t.closed = true
	t.cancelNextHandLocked()
	return true
}

func (t *Table) CurrentPot() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.potLocked()
}

func (t *Table) CurrentBet() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.highBetLocked()
}

func (t *Table) CurrentPlayerName() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.currentPlayerNameLocked()
}

// HandInProgress reports whether a dealt hand has not been settled yet.
func (t *Table) HandInProgress() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inHandLocked()
}

// IsHost reports whether identity holds the first seat.
func (t *Table) IsHost(identity string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.isHostLocked(identity)
}

func (t *Table) HasSeat(identity string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.seatIndexLocked(identity) >= 0
}

// PlayerNames lists the seated, non-departing players in seat order.
func (t *Table) PlayerNames() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, 0, len(t.seats))
	for _, s := range t.seats {
		if s.Departing {
			continue
		}
		names = append(names, t.nameLocked(s))
	}
	return names
}

func (t *Table) seatIndexLocked(identity string) int {
	for i, s := range t.seats {
		if s.Identity == identity {
			return i
		}
	}
	return -1
}

func (t *Table) isHostLocked(identity string) bool {
	for _, s := range t.seats {
		if s.Departing {
			continue
		}
		return s.Identity == identity
	}
	return false
}

func (t *Table) inHandLocked() bool {
	return t.started && !t.settled
}

func (t *Table) remainingLocked() int {
	n := 0
	for _, s := range t.seats {
		if !s.Departing {
			n++
		}
	}
	return n
}

func (t *Table) purgeDepartedLocked() {
	kept := t.seats[:0]
	for _, s := range t.seats {
		if s.Departing {
			continue
		}
		kept = append(kept, s)
	}
	for i := len(kept); i < len(t.seats); i++ {
		t.seats[i] = nil
	}
	t.seats = kept
}

func (t *Table) potLocked() int64 {
	var pot int64
	for _, s := range t.seats {
		pot += s.CurrentBet
	}
	return pot
}

func (t *Table) highBetLocked() int64 {
	var high int64
	for _, s := range t.seats {
		if s.CurrentBet > high {
			high = s.CurrentBet
		}
	}
	return high
}

func (t *Table) nameLocked(s *Seat) string {
	if t.names != nil {
		if name, ok := t.names.DisplayName(s.Identity); ok && name != "" {
			return name
		}
	}
	return s.Name
}

func (t *Table) currentPlayerNameLocked() string {
	if !t.started || t.current < 0 || t.current >= len(t.seats) {
		return ""
	}
	return t.nameLocked(t.seats[t.current])
}

func (t *Table) rejectLocked(action, identity string, err error) {
	metrics.Metrics.ActionRejected(action, appErr.Code(err))
	t.log.Debug("action rejected",
		zap.String("action", action),
		zap.String(logger.IdentityKey, identity),
		zap.Error(err),
	)
}

func (t *Table) scheduleNextHandLocked() {
	if t.closed || t.cfg.NextHandDelay <= 0 {
		return
	}
	t.cancelNextHandLocked()
	handNo := t.handNo
	t.nextHand = time.AfterFunc(t.cfg.NextHandDelay, func() {
		t.onNextHand(handNo)
	})
}

func (t *Table) onNextHand(handNo int64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// A manual start or a teardown got here first.
	if t.closed || t.handNo != handNo || t.inHandLocked() {
		return
	}
	t.nextHand = nil
	if err := t.startLocked(); err != nil {
		t.log.Info("next hand not started", zap.Error(err))
		t.broadcastStateLocked()
		return
	}
	t.broadcastStateLocked()
}

func (t *Table) cancelNextHandLocked() {
	if t.nextHand != nil {
		t.nextHand.Stop()
		t.nextHand = nil
	}
}
