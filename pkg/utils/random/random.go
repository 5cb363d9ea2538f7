package random

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
)

const letters = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Code returns a human-typeable code such as a lobby code.
func Code(length int) string {
	return pickFromSet(letters, length)
}

func pickFromSet(set string, length int) string {
	if length <= 0 {
		return ""
	}
	max := big.NewInt(int64(len(set)))
	runes := make([]byte, length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			runes[i] = set[0]
			continue
		}
		runes[i] = set[n.Int64()]
	}
	return string(runes)
}

// NewRand returns a math/rand generator seeded from crypto/rand, for shuffles.
func NewRand() *mrand.Rand {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("cannot seed math/rand with crypto/rand: " + err.Error())
	}
	return mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
}
