package ports

import (
	"math/rand"
)

// RNG provides seeded random number generation for deterministic operations.
// Each named stream is independent, so neural initialization, perturbation,
// and data synthesis cannot perturb each other's sequences.
type RNG interface {
	// Stream creates a deterministic generator for a named operation
	Stream(name string, seed int64) *rand.Rand
}
