package errors

import "errors"

// Rule violations. These never abort a table: the action is a no-op and the
// reason may be surfaced to the requesting client.
var (
	ErrNotYourTurn         = errors.New("not your turn")
	ErrSeatInactive        = errors.New("seat inactive")
	ErrWrongRoundForAction = errors.New("wrong round for action")
	ErrBetBelowMinimum     = errors.New("bet below minimum")
	ErrBetExceedsBalance   = errors.New("bet exceeds balance")
	ErrLobbyFull           = errors.New("lobby full")
	ErrDeckExhausted       = errors.New("deck exhausted")
	ErrUnknownSeat         = errors.New("unknown seat")
	ErrInvalidCardSlot     = errors.New("invalid card slot")
	ErrHandInProgress      = errors.New("hand in progress")
	ErrNotEnoughPlayers    = errors.New("not enough players")
	ErrTableClosed         = errors.New("table closed")
)

// Lobby, session and transport errors.
var (
	ErrLobbyNotFound   = errors.New("lobby not found")
	ErrNotHost         = errors.New("only the host may do this")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidToken    = errors.New("invalid token")
	ErrInvalidName     = errors.New("invalid display name")
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidPayload  = errors.New("invalid payload")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrNotYourTurn, "not_your_turn"},
	{ErrSeatInactive, "seat_inactive"},
	{ErrWrongRoundForAction, "wrong_round_for_action"},
	{ErrBetBelowMinimum, "bet_below_minimum"},
	{ErrBetExceedsBalance, "bet_exceeds_balance"},
	{ErrLobbyFull, "lobby_full"},
	{ErrDeckExhausted, "deck_exhausted"},
	{ErrUnknownSeat, "unknown_seat"},
	{ErrInvalidCardSlot, "invalid_card_slot"},
	{ErrHandInProgress, "hand_in_progress"},
	{ErrNotEnoughPlayers, "not_enough_players"},
	{ErrTableClosed, "table_closed"},
	{ErrLobbyNotFound, "lobby_not_found"},
	{ErrNotHost, "not_host"},
	{ErrUnauthorized, "unauthorized"},
	{ErrInvalidToken, "invalid_token"},
	{ErrInvalidName, "invalid_name"},
	{ErrSessionNotFound, "session_not_found"},
	{ErrInvalidPayload, "invalid_payload"},
}

// Code returns a stable snake_case reason for err, or "internal" when err
// does not wrap any known sentinel.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}
