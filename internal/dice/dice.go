// Package dice rolls the six-sided die used by the game.
//
// A Die is deterministic for a given seed so games can be replayed in
// tests; NewSeed draws a seed from crypto/rand for real play.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
)

const Sides = 6

// Die is a seeded six-sided die. Not safe for concurrent use.
type Die struct {
	rng *rand.Rand
}

// New returns a die seeded with seed.
func New(seed int64) *Die {
	return &Die{rng: rand.New(rand.NewSource(seed))}
}

// Roll returns a value in [1, Sides].
func (d *Die) Roll() int {
	return d.rng.Intn(Sides) + 1
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
