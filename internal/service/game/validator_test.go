package game

import (
	"testing"

	appErr "draw-poker/pkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestValidateBet(t *testing.T) {
	legal := BetRequest{Started: true, Round: FirstBet, IsTurn: true, Active: true, Balance: 100, HighBet: 10}

	with := func(mod func(*BetRequest)) BetRequest {
		r := legal
		mod(&r)
		return r
	}

	cases := []struct {
		name string
		req  BetRequest
		want error
	}{
		{"call", with(func(r *BetRequest) { r.Amount = 10 }), nil},
		{"raise", with(func(r *BetRequest) { r.Amount = 40 }), nil},
		{"whole balance", with(func(r *BetRequest) { r.Amount = 100 }), nil},
		{"fold ignores amount", with(func(r *BetRequest) { r.Fold = true; r.Amount = -3 }), nil},
		{"below high bet", with(func(r *BetRequest) { r.Amount = 9 }), appErr.ErrBetBelowMinimum},
		{"negative", with(func(r *BetRequest) { r.Amount = -1 }), appErr.ErrBetBelowMinimum},
		{"above balance", with(func(r *BetRequest) { r.Amount = 101 }), appErr.ErrBetExceedsBalance},
		{"not started", with(func(r *BetRequest) { r.Started = false; r.Amount = 10 }), appErr.ErrWrongRoundForAction},
		{"draw round", with(func(r *BetRequest) { r.Round = Draw; r.Amount = 10 }), appErr.ErrWrongRoundForAction},
		{"showdown", with(func(r *BetRequest) { r.Round = Showdown; r.Amount = 10 }), appErr.ErrWrongRoundForAction},
		{"fold out of turn", with(func(r *BetRequest) { r.IsTurn = false; r.Fold = true }), appErr.ErrNotYourTurn},
		{"inactive", with(func(r *BetRequest) { r.Active = false; r.Amount = 10 }), appErr.ErrSeatInactive},
		{"short stack all-in", with(func(r *BetRequest) { r.Balance = 8; r.Amount = 8 }), nil},
		{"short stack under all-in", with(func(r *BetRequest) { r.Balance = 8; r.Amount = 7 }), appErr.ErrBetBelowMinimum},
		{"short stack over balance", with(func(r *BetRequest) { r.Balance = 8; r.Amount = 10 }), appErr.ErrBetExceedsBalance},
		{"second bet round", with(func(r *BetRequest) { r.Round = SecondBet; r.Amount = 10 }), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateBet(tc.req)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
