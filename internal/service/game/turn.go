package game

import (
	"draw-poker/pkg/logger"

	"go.uber.org/zap"
)

// advanceTurnLocked moves the action to the next eligible seat and closes
// the round when the transition table says so. Fewer than two eligible
// seats ends the hand immediately.
func (t *Table) advanceTurnLocked() {
	if !t.inHandLocked() {
		return
	}
	if t.activeCountLocked() < 2 {
		t.enterRoundLocked(Showdown)
		return
	}

	next, circled := t.nextEligibleLocked(t.current)
	if circled {
		t.repeatGuard = true
	}
	t.current = next

	if r := nextRound(t.round, t.betsSettledLocked(), t.repeatGuard); r != t.round {
		t.enterRoundLocked(r)
	}
}

// enterRoundLocked resets per-round state. Committed bets stay in the pot.
func (t *Table) enterRoundLocked(r Round) {
	t.log.Info("round changed",
		zap.Int64(logger.HandNoKey, t.handNo),
		zap.String("from", t.round.String()),
		zap.String(logger.RoundKey, r.String()),
	)
	t.round = r
	t.repeatGuard = false
	if r == Showdown {
		t.showdownLocked()
		return
	}
	t.current = t.firstEligibleLocked()
	t.opener = t.current
}

// nextEligibleLocked walks forward circularly from from. circled reports
// whether the walk reached the round's opening seat.
func (t *Table) nextEligibleLocked(from int) (next int, circled bool) {
	n := len(t.seats)
	for step := 1; step <= n; step++ {
		idx := (from + step) % n
		if idx == t.opener {
			circled = true
		}
		if t.seats[idx].eligible() {
			return idx, circled
		}
	}
	return from, circled
}

func (t *Table) firstEligibleLocked() int {
	for i, s := range t.seats {
		if s.eligible() {
			return i
		}
	}
	return 0
}

func (t *Table) activeCountLocked() int {
	n := 0
	for _, s := range t.seats {
		if s.eligible() {
			n++
		}
	}
	return n
}

func (t *Table) betsSettledLocked() bool {
	high := t.highBetLocked()
	for _, s := range t.seats {
		if !s.eligible() {
			continue
		}
		if !betSettled(s.CurrentBet, s.Balance, high) {
			return false
		}
	}
	return true
}
