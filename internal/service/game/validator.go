package game

import (
	"fmt"

	appErr "draw-poker/pkg/errors"
)

// BetRequest is everything the validator needs to judge one bet or fold.
type BetRequest struct {
	Started bool
	Round   Round
	IsTurn  bool
	Active  bool
	Balance int64
	HighBet int64
	Amount  int64
	Fold    bool
}

// ValidateBet returns nil when the request is legal. It never mutates state.
func ValidateBet(req BetRequest) error {
	if !req.Started || !req.Round.IsBetting() {
		return appErr.ErrWrongRoundForAction
	}
	if !req.Active {
		return appErr.ErrSeatInactive
	}
	if !req.IsTurn {
		return appErr.ErrNotYourTurn
	}
	if req.Fold {
		return nil
	}

	// Short stack: the only legal bet is all-in.
	if req.HighBet > req.Balance {
		switch {
		case req.Amount > req.Balance:
			return fmt.Errorf("%w: balance %d", appErr.ErrBetExceedsBalance, req.Balance)
		case req.Amount < req.Balance:
			return fmt.Errorf("%w: must go all-in with %d", appErr.ErrBetBelowMinimum, req.Balance)
		}
		return nil
	}

	if req.Amount < req.HighBet {
		return fmt.Errorf("%w: at least %d", appErr.ErrBetBelowMinimum, req.HighBet)
	}
	if req.Amount > req.Balance {
		return fmt.Errorf("%w: balance %d", appErr.ErrBetExceedsBalance, req.Balance)
	}
	return nil
}
