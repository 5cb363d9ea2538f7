package game

// MaskedCard stands in for a card the requester may not see.
const MaskedCard = "back"

// ActionClass is what the requester may do right now.
type ActionClass string

const (
	ActionNone  ActionClass = "none"
	ActionStart ActionClass = "start"
	ActionBet   ActionClass = "bet"
	ActionDraw  ActionClass = "draw"
)

type OutgoingMessage struct {
	Type string      `json:"type"`
	Seq  int64       `json:"seq"`
	Data interface{} `json:"data"`
}

type SeatView struct {
	Name      string   `json:"name"`
	Balance   int64    `json:"balance"`
	Bet       int64    `json:"bet"`
	Cards     []string `json:"cards"`
	Active    bool     `json:"active"`
	Departing bool     `json:"departing,omitempty"`
	HandScore *int     `json:"handScore,omitempty"`
	HandName  string   `json:"handName,omitempty"`
}

// GameState is one requester's view of the table.
type GameState struct {
	Lobby         string      `json:"lobby"`
	HandNo        int64       `json:"handNo"`
	Started       bool        `json:"started"`
	Players       []SeatView  `json:"players"`
	Self          int         `json:"self"`
	CurrentPlayer string      `json:"currentPlayer"`
	CurrentBet    int64       `json:"currentBet"`
	CurrentPot    int64       `json:"currentPot"`
	CurrentRound  string      `json:"currentRound"`
	IsHost        bool        `json:"isHost"`
	AllowedAction ActionClass `json:"allowedAction"`
	Result        *HandResult `json:"result,omitempty"`
}

// GameState builds identity's view. Other seats' cards are masked unless the
// hand is at showdown or reveal is set. It has no side effects.
func (t *Table) GameState(identity string, reveal bool) GameState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.exportStateLocked(identity, reveal)
}

func (t *Table) exportStateLocked(identity string, reveal bool) GameState {
	self := t.seatIndexLocked(identity)
	showAll := reveal || (t.started && t.round == Showdown)

	state := GameState{
		Lobby:         t.code,
		HandNo:        t.handNo,
		Started:       t.started,
		Players:       make([]SeatView, 0, len(t.seats)),
		Self:          self,
		CurrentPlayer: t.currentPlayerNameLocked(),
		CurrentBet:    t.highBetLocked(),
		CurrentPot:    t.potLocked(),
		CurrentRound:  t.round.String(),
		IsHost:        t.isHostLocked(identity),
		AllowedAction: t.allowedActionLocked(self),
	}
	if !t.started {
		state.CurrentRound = ""
	}

	for i, s := range t.seats {
		view := SeatView{
			Name:      t.nameLocked(s),
			Balance:   s.Balance,
			Bet:       s.CurrentBet,
			Active:    s.Active,
			Departing: s.Departing,
		}
		if showAll || i == self {
			view.Cards = cardCodes(s.Hand)
		} else {
			view.Cards = make([]string, len(s.Hand))
			for j := range view.Cards {
				view.Cards[j] = MaskedCard
			}
		}
		if t.round == Showdown && s.HandScore != nil {
			score := *s.HandScore
			view.HandScore = &score
			view.HandName = s.HandName
		}
		state.Players = append(state.Players, view)
	}

	if t.lastResult != nil {
		result := *t.lastResult
		result.Seats = append([]SeatResult(nil), t.lastResult.Seats...)
		state.Result = &result
	}
	return state
}

func (t *Table) allowedActionLocked(self int) ActionClass {
	if self < 0 || t.closed {
		return ActionNone
	}
	if !t.inHandLocked() {
		if t.isHostLocked(t.seats[self].Identity) && t.remainingLocked() >= 2 {
			return ActionStart
		}
		return ActionNone
	}
	if self != t.current || !t.seats[self].eligible() {
		return ActionNone
	}
	if t.round == Draw {
		return ActionDraw
	}
	return ActionBet
}

func (t *Table) broadcastStateLocked() {
	if t.deliver == nil {
		return
	}
	seq := t.nextSeqLocked()
	for _, s := range t.seats {
		t.deliver.Deliver(s.Identity, OutgoingMessage{
			Type: "state",
			Seq:  seq,
			Data: t.exportStateLocked(s.Identity, false),
		})
	}
}

func (t *Table) nextSeqLocked() int64 {
	t.seq++
	return t.seq
}
