package game

import (
	"math/rand"
	"testing"

	appErr "draw-poker/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckCanonicalOrder(t *testing.T) {
	cards := NewDeck().Cards()
	require.Len(t, cards, DeckSize)
	assert.Equal(t, Card{Rank: Two, Suit: Spades}, cards[0])
	assert.Equal(t, Card{Rank: Ace, Suit: Spades}, cards[12])
	assert.Equal(t, Card{Rank: Two, Suit: Hearts}, cards[13])
	assert.Equal(t, Card{Rank: Ace, Suit: Clubs}, cards[51])

	seen := make(map[Card]bool, DeckSize)
	for _, c := range cards {
		require.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	d := NewDeck()
	d.Shuffle(rand.New(rand.NewSource(42)))

	assert.ElementsMatch(t, NewDeck().Cards(), d.Cards())
	assert.NotEqual(t, NewDeck().Cards(), d.Cards())

	again := NewDeck()
	again.Shuffle(rand.New(rand.NewSource(42)))
	assert.Equal(t, d.Cards(), again.Cards())
}

func TestShuffleSpreadsFirstCard(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	counts := make(map[Card]int)
	const rounds = 5200
	for i := 0; i < rounds; i++ {
		d := NewDeck()
		d.Shuffle(rng)
		counts[d.Cards()[0]]++
	}
	require.Len(t, counts, DeckSize)
	for c, n := range counts {
		// Expected 100 per card.
		assert.InDelta(t, 100, n, 50, "card %s", c)
	}
}

func TestPopFromTail(t *testing.T) {
	d := NewDeck()
	cards, err := d.Pop(2)
	require.NoError(t, err)
	assert.Equal(t, []Card{{Rank: Ace, Suit: Clubs}, {Rank: King, Suit: Clubs}}, cards)
	assert.Equal(t, DeckSize-2, d.Len())

	_, err = d.Pop(DeckSize)
	require.ErrorIs(t, err, appErr.ErrDeckExhausted)
	assert.Equal(t, DeckSize-2, d.Len(), "a failed pop must not remove cards")
}

func TestDealSkipsInactiveSeats(t *testing.T) {
	seats := []*Seat{{Active: true}, {Active: false}, {Active: true}}
	d := NewDeck()
	require.NoError(t, d.Deal(seats, HandSize))

	assert.Len(t, seats[0].Hand, HandSize)
	assert.Empty(t, seats[1].Hand)
	assert.Len(t, seats[2].Hand, HandSize)
	assert.Equal(t, DeckSize-2*HandSize, d.Len())
}

func TestDealFailsWhenDeckShort(t *testing.T) {
	seats := []*Seat{{Active: true}, {Active: true}}
	d := &Deck{cards: NewDeck().Cards()[:7]}

	err := d.Deal(seats, HandSize)
	require.ErrorIs(t, err, appErr.ErrDeckExhausted)
	assert.Empty(t, seats[0].Hand)
	assert.Equal(t, 7, d.Len())
}
