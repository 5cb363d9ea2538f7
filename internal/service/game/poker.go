package game

import (
	"fmt"
	"sort"

	"github.com/paulhankin/poker"
)

type HandRank int

const (
	HighCard HandRank = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// tierStep spaces the tier scores so they stay comparable with older clients
// (high card 0, pair 10000 ... royal flush 90000).
const tierStep = 10000

var handRankNames = [...]string{
	HighCard:      "high card",
	Pair:          "pair",
	TwoPair:       "two pair",
	ThreeOfAKind:  "three of a kind",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full house",
	FourOfAKind:   "four of a kind",
	StraightFlush: "straight flush",
	RoyalFlush:    "royal flush",
}

func (r HandRank) String() string {
	if r < HighCard || r > RoyalFlush {
		return "unknown"
	}
	return handRankNames[r]
}

// Score is the tier score; higher is stronger.
func (r HandRank) Score() int {
	return int(r) * tierStep
}

// rankValues returns the rank of every card sorted descending.
func rankValues(hand []Card) []int {
	values := make([]int, len(hand))
	for i, c := range hand {
		values[i] = int(c.Rank)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(values)))
	return values
}

func suitValues(hand []Card) []int {
	values := make([]int, len(hand))
	for i, c := range hand {
		values[i] = int(c.Suit)
	}
	return values
}

// multiplicities counts equal values and returns the counts sorted descending.
func multiplicities(values []int) []int {
	seen := make(map[int]int, len(values))
	for _, v := range values {
		seen[v]++
	}
	counts := make([]int, 0, len(seen))
	for _, n := range seen {
		counts = append(counts, n)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(counts)))
	return counts
}

func isFlush(suitCounts []int) bool {
	return len(suitCounts) > 0 && suitCounts[0] == HandSize
}

// isRun reports whether descending values step down by exactly one.
func isRun(desc []int) bool {
	if len(desc) != HandSize {
		return false
	}
	for i := 0; i < len(desc)-1; i++ {
		if desc[i]-1 != desc[i+1] {
			return false
		}
	}
	return true
}

// isWheel reports A-5-4-3-2, where the ace plays low.
func isWheel(desc []int) bool {
	if len(desc) != HandSize || desc[0] != int(Ace) {
		return false
	}
	return isRun(aceLow(desc))
}

// aceLow re-sorts descending values with every ace counted as one.
func aceLow(desc []int) []int {
	low := make([]int, len(desc))
	for i, v := range desc {
		if v == int(Ace) {
			v = 1
		}
		low[i] = v
	}
	sort.Sort(sort.Reverse(sort.IntSlice(low)))
	return low
}

func isStraight(desc []int) bool {
	return isRun(desc) || isWheel(desc)
}

// straightHigh is the top card of a straight; five for the wheel.
func straightHigh(desc []int) int {
	if isRun(desc) {
		return desc[0]
	}
	if isWheel(desc) {
		return int(Five)
	}
	return 0
}

// classify applies the category precedence. The order of the checks matters:
// a full house also contains a pair and three of a kind.
func classify(rankCounts []int, flush, straight bool, high int) HandRank {
	switch {
	case flush && straight && high == int(Ace):
		return RoyalFlush
	case flush && straight:
		return StraightFlush
	case rankCounts[0] == 4:
		return FourOfAKind
	case rankCounts[0] == 3 && len(rankCounts) > 1 && rankCounts[1] == 2:
		return FullHouse
	case flush:
		return Flush
	case straight:
		return Straight
	case rankCounts[0] == 3:
		return ThreeOfAKind
	case rankCounts[0] == 2 && len(rankCounts) > 1 && rankCounts[1] == 2:
		return TwoPair
	case containsCount(rankCounts, 2):
		return Pair
	default:
		return HighCard
	}
}

func containsCount(counts []int, n int) bool {
	for _, c := range counts {
		if c == n {
			return true
		}
	}
	return false
}

// Evaluate classifies a five card hand.
func Evaluate(hand []Card) (HandRank, error) {
	if len(hand) != HandSize {
		return HighCard, fmt.Errorf("hand must have %d cards, got %d", HandSize, len(hand))
	}
	ranks := rankValues(hand)
	straight := isStraight(ranks)
	return classify(
		multiplicities(ranks),
		isFlush(multiplicities(suitValues(hand))),
		straight,
		straightHigh(ranks),
	), nil
}

// Describe renders a hand for people, e.g. "Full house, kings over threes".
func Describe(hand []Card) string {
	cards := make([]poker.Card, 0, len(hand))
	for _, c := range hand {
		pc, err := poker.MakeCard(toPokerSuit(c.Suit), toPokerRank(c.Rank))
		if err != nil {
			return fallbackDescription(hand)
		}
		cards = append(cards, pc)
	}
	desc, err := poker.Describe(cards)
	if err != nil {
		return fallbackDescription(hand)
	}
	return desc
}

func fallbackDescription(hand []Card) string {
	rank, err := Evaluate(hand)
	if err != nil {
		return ""
	}
	return rank.String()
}

func toPokerSuit(s Suit) poker.Suit {
	switch s {
	case Spades:
		return poker.Spade
	case Hearts:
		return poker.Heart
	case Diamonds:
		return poker.Diamond
	default:
		return poker.Club
	}
}

func toPokerRank(r Rank) poker.Rank {
	if r == Ace {
		return poker.Rank(1)
	}
	return poker.Rank(r)
}
