package engine

import (
	crand "crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

// Rand produces the next pseudo-random float in [0,1). The engine calls
// it only while shuffling during InitState; callers may substitute any
// source, seeded or not.
type Rand func() float64

// HashSeed maps a string seed to a 32-bit integer with a polynomial
// rolling hash. Any stable mapping works; this one matches the usual
// 31-multiplier form with 32-bit wraparound.
func HashSeed(s string) int32 {
	var h int32
	for _, r := range s {
		h = h*31 + int32(r)
	}
	return h
}

// NewRand returns a deterministic generator for the given seed. The core
// is a 32-bit xorshift with a multiplicative mix on output; its period
// vastly exceeds the handful of draws a deck shuffle needs.
func NewRand(seed int32) Rand {
	state := uint32(seed)
	if state == 0 {
		state = 0x9e3779b9
	}
	return func() float64 {
		state ^= state << 13
		state ^= state >> 17
		state ^= state << 5
		mixed := state * 0x2545f491
		return float64(mixed) / (1 << 32)
	}
}

// SeedRand builds a generator from a loosely typed seed (string or
// number, as rule hosts supply them). A nil seed falls back to a
// non-deterministic source seeded from crypto/rand.
func SeedRand(seed any) Rand {
	switch v := seed.(type) {
	case nil:
		return newFallbackRand()
	case string:
		return NewRand(HashSeed(v))
	case int:
		return NewRand(int32(v))
	case int32:
		return NewRand(v)
	case int64:
		return NewRand(int32(v))
	case float64:
		return NewRand(int32(v))
	default:
		return newFallbackRand()
	}
}

func newFallbackRand() Rand {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable; a constant
		// seed at least keeps the engine functional.
		return NewRand(1)
	}
	r := mrand.New(mrand.NewSource(int64(binary.LittleEndian.Uint64(b[:]))))
	return r.Float64
}

// shuffle performs an in-place Fisher-Yates shuffle driven by rnd.
func shuffle(cards []string, rnd Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := int(rnd() * float64(i+1))
		if j > i {
			j = i
		}
		cards[i], cards[j] = cards[j], cards[i]
	}
}
