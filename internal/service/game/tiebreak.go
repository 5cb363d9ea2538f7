package game

import (
	"strconv"
	"strings"
)

// TieBreakScore concatenates the descending rank values as zero-padded two
// digit numbers, so {10,10,10,3,2} becomes 1010100302. Within a tier a larger
// key means a stronger kicker set. Aces always count as 14 here, including
// in the wheel, so A-5-4-3-2 keys as 1405040302.
func TieBreakScore(hand []Card) int64 {
	ranks := rankValues(hand)
	var b strings.Builder
	for _, r := range ranks {
		if r < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.Itoa(r))
	}
	score, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return score
}
