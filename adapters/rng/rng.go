package rng

import (
	"hash/fnv"
	"math/rand"
)

// Adapter provides deterministic, named random streams. The stream name is
// folded into the seed so two operations sharing a base seed still draw
// from independent sequences.
type Adapter struct{}

// New creates an RNG adapter
func New() *Adapter {
	return &Adapter{}
}

// Stream returns a generator seeded from the base seed and the stream name
func (a *Adapter) Stream(name string, seed int64) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(name))
	return rand.New(rand.NewSource(seed ^ int64(h.Sum64())))
}
