package game

import (
	"time"

	"draw-poker/internal/metrics"
	"draw-poker/pkg/logger"

	"go.uber.org/zap"
)

type SeatResult struct {
	Identity  string `json:"identity"`
	Name      string `json:"name"`
	Hand      []Card `json:"hand"`
	HandName  string `json:"handName,omitempty"`
	TierScore *int   `json:"tierScore,omitempty"`
	TieBreak  int64  `json:"tieBreak,omitempty"`
	Bet       int64  `json:"bet"`
	Delta     int64  `json:"delta"`
	Balance   int64  `json:"balance"`
	Active    bool   `json:"active"`
}

// HandResult is the settlement of one hand.
type HandResult struct {
	Lobby          string       `json:"lobby"`
	HandNo         int64        `json:"handNo"`
	WinnerIdentity string       `json:"winnerIdentity,omitempty"`
	WinnerName     string       `json:"winnerName,omitempty"`
	WinningRank    string       `json:"winningRank,omitempty"`
	Pot            int64        `json:"pot"`
	Voided         bool         `json:"voided"`
	Seats          []SeatResult `json:"seats"`
	SettledAt      time.Time    `json:"settledAt"`
}

type handScore struct {
	seat     int
	tier     int
	tieBreak int64
}

// pickWinner returns the seat with the greatest (tier, tieBreak). Exact ties
// go to the earliest seat; the pot is not split.
func pickWinner(scores []handScore) int {
	winner := -1
	var best handScore
	for _, s := range scores {
		if winner < 0 || s.tier > best.tier || (s.tier == best.tier && s.tieBreak > best.tieBreak) {
			winner = s.seat
			best = s
		}
	}
	return winner
}

// showdownLocked scores the remaining hands, settles balances once and
// schedules the next hand.
func (t *Table) showdownLocked() {
	if t.settled {
		return
	}
	t.settled = true
	t.round = Showdown

	result := t.settleLocked()
	t.lastResult = &result

	metrics.Metrics.HandSettled()
	t.log.Info("hand settled",
		zap.Int64(logger.HandNoKey, t.handNo),
		zap.String("winner", result.WinnerIdentity),
		zap.Int64("pot", result.Pot),
		zap.Bool("voided", result.Voided),
	)

	if t.onFinish != nil {
		go t.onFinish(result)
	}
	t.scheduleNextHandLocked()
}

func (t *Table) settleLocked() HandResult {
	scores := make([]handScore, 0, len(t.seats))
	for i, s := range t.seats {
		if !s.eligible() {
			continue
		}
		rank, err := Evaluate(s.Hand)
		if err != nil {
			t.log.Warn("unscorable hand", zap.Int(logger.SeatKey, i), zap.Error(err))
			continue
		}
		tier := rank.Score()
		s.HandScore = &tier
		s.TieBreak = TieBreakScore(s.Hand)
		s.HandName = Describe(s.Hand)
		scores = append(scores, handScore{seat: i, tier: tier, tieBreak: s.TieBreak})
	}

	pot := t.potLocked()
	winner := pickWinner(scores)
	result := HandResult{
		Lobby:     t.code,
		HandNo:    t.handNo,
		Pot:       pot,
		Voided:    winner < 0,
		Seats:     make([]SeatResult, 0, len(t.seats)),
		SettledAt: time.Now(),
	}

	for i, s := range t.seats {
		var delta int64
		if winner >= 0 {
			// Bets were only earmarked, so the winner collects everything
			// except its own contribution.
			if i == winner {
				delta = pot - s.CurrentBet
			} else {
				delta = -s.CurrentBet
			}
			s.Balance += delta
		}
		result.Seats = append(result.Seats, SeatResult{
			Identity:  s.Identity,
			Name:      t.nameLocked(s),
			Hand:      append([]Card(nil), s.Hand...),
			HandName:  s.HandName,
			TierScore: s.HandScore,
			TieBreak:  s.TieBreak,
			Bet:       s.CurrentBet,
			Delta:     delta,
			Balance:   s.Balance,
			Active:    s.eligible(),
		})
	}

	if winner >= 0 {
		w := t.seats[winner]
		result.WinnerIdentity = w.Identity
		result.WinnerName = t.nameLocked(w)
		if w.HandScore != nil {
			result.WinningRank = HandRank(*w.HandScore / tierStep).String()
		}
	}
	return result
}
