package game

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit of a card. The declaration order is the canonical deck order.
type Suit uint8

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var suitCodes = [...]byte{Spades: 's', Hearts: 'h', Diamonds: 'd', Clubs: 'c'}

func (s Suit) String() string {
	switch s {
	case Spades:
		return "spades"
	case Hearts:
		return "hearts"
	case Diamonds:
		return "diamonds"
	case Clubs:
		return "clubs"
	}
	return "unknown"
}

// Rank of a card, 2..14 with the ace high.
type Rank uint8

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Eight Rank = 8
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

const rankCodes = "23456789TJQKA"

func (r Rank) valid() bool {
	return r >= Two && r <= Ace
}

func (r Rank) code() byte {
	if !r.valid() {
		return '?'
	}
	return rankCodes[r-Two]
}

// Card is an immutable suit/rank pair. Its wire form is a two character code
// such as "As" or "Td".
type Card struct {
	Rank Rank
	Suit Suit
}

func (c Card) String() string {
	if int(c.Suit) >= len(suitCodes) {
		return string([]byte{c.Rank.code(), '?'})
	}
	return string([]byte{c.Rank.code(), suitCodes[c.Suit]})
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Card) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	parsed, err := ParseCard(code)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCard accepts "As", "Td" and also "10d".
func ParseCard(code string) (Card, error) {
	code = strings.TrimSpace(code)
	if strings.HasPrefix(code, "10") {
		code = "T" + code[2:]
	}
	if len(code) != 2 {
		return Card{}, fmt.Errorf("invalid card %q", code)
	}
	idx := strings.IndexByte(rankCodes, strings.ToUpper(code[:1])[0])
	if idx < 0 {
		return Card{}, fmt.Errorf("invalid card rank %q", code)
	}
	suitByte := strings.ToLower(code[1:])[0]
	for s, b := range suitCodes {
		if b == suitByte {
			return Card{Rank: Two + Rank(idx), Suit: Suit(s)}, nil
		}
	}
	return Card{}, fmt.Errorf("invalid card suit %q", code)
}

func cardCodes(cards []Card) []string {
	codes := make([]string, len(cards))
	for i, c := range cards {
		codes[i] = c.String()
	}
	return codes
}
