package game

import (
	"fmt"
	"math/rand"

	appErr "draw-poker/pkg/errors"
)

const (
	DeckSize = 52
	HandSize = 5
)

// Deck holds the undealt cards. Cards are dealt from the tail.
type Deck struct {
	cards []Card
}

// NewDeck returns the 52 cards in canonical order: suits spades, hearts,
// diamonds, clubs and within each suit ranks two through ace.
func NewDeck() *Deck {
	cards := make([]Card, 0, DeckSize)
	for _, suit := range []Suit{Spades, Hearts, Diamonds, Clubs} {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return &Deck{cards: cards}
}

// Shuffle applies a Fisher-Yates permutation using rng.
func (d *Deck) Shuffle(rng *rand.Rand) {
	for i := len(d.cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards.
func (d *Deck) Cards() []Card {
	return append([]Card(nil), d.cards...)
}

// Pop removes n cards from the tail. Nothing is removed when fewer than n remain.
func (d *Deck) Pop(n int) ([]Card, error) {
	if n < 0 || n > len(d.cards) {
		return nil, fmt.Errorf("%w: need %d, have %d", appErr.ErrDeckExhausted, n, len(d.cards))
	}
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		last := len(d.cards) - 1
		out = append(out, d.cards[last])
		d.cards = d.cards[:last]
	}
	return out, nil
}

// Deal appends perHand cards to every active seat in seat order. It fails
// without dealing anything if the deck cannot cover every seat.
func (d *Deck) Deal(seats []*Seat, perHand int) error {
	active := 0
	for _, s := range seats {
		if s.Active {
			active++
		}
	}
	if need := active * perHand; need > len(d.cards) {
		return fmt.Errorf("%w: need %d, have %d", appErr.ErrDeckExhausted, need, len(d.cards))
	}
	for _, s := range seats {
		if !s.Active {
			continue
		}
		cards, _ := d.Pop(perHand)
		s.Hand = append(s.Hand, cards...)
	}
	return nil
}
