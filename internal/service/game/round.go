package game

type Round int

const (
	FirstBet Round = iota
	Draw
	SecondBet
	Showdown
)

func (r Round) String() string {
	switch r {
	case FirstBet:
		return "first_bet"
	case Draw:
		return "draw"
	case SecondBet:
		return "second_bet"
	case Showdown:
		return "showdown"
	}
	return "unknown"
}

func (r Round) IsBetting() bool {
	return r == FirstBet || r == SecondBet
}

type transitionKey struct {
	round       Round
	betsSettled bool
	circledBack bool
}

// roundTransitions is the round state machine. A round only closes once the
// action has circled back to its opening seat; betting rounds additionally
// need every active bet settled, the draw round ignores bets. Early
// termination (fewer than two active seats) bypasses the table.
var roundTransitions = map[transitionKey]Round{
	{FirstBet, false, false}: FirstBet,
	{FirstBet, true, false}:  FirstBet,
	{FirstBet, false, true}:  FirstBet,
	{FirstBet, true, true}:   Draw,

	{Draw, false, false}: Draw,
	{Draw, true, false}:  Draw,
	{Draw, false, true}:  SecondBet,
	{Draw, true, true}:   SecondBet,

	{SecondBet, false, false}: SecondBet,
	{SecondBet, true, false}:  SecondBet,
	{SecondBet, false, true}:  SecondBet,
	{SecondBet, true, true}:   Showdown,
}

func nextRound(round Round, betsSettled, circledBack bool) Round {
	if next, ok := roundTransitions[transitionKey{round, betsSettled, circledBack}]; ok {
		return next
	}
	return round
}

// betSettled reports whether a seat has nothing left to call: it matches the
// high bet or is all-in below it.
func betSettled(bet, balance, highBet int64) bool {
	return bet == highBet || (bet < highBet && bet == balance)
}
