package auth

// Package auth contains the authentication core: credential hashing, the
// session token codec, and the authorization guard. It is pure and free of
// framework/adapter concerns.

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the work factor used for all holder-chosen and
// machine-generated secrets.
const DefaultBcryptCost = 10

// Hasher one-way transforms plaintext secrets into storable verifiers.
// bcrypt salts every hash, so two calls with the same secret produce
// different verifiers that both verify.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given work factor. Costs outside
// bcrypt's supported range fall back to DefaultBcryptCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a verifier from the plaintext secret.
func (h *Hasher) Hash(secret string) (string, error) {
	out, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(out), nil
}

// Verify reports whether secret is the input that produced verifier.
// A malformed verifier yields false, never an error to the caller.
func (h *Hasher) Verify(secret, verifier string) bool {
	return bcrypt.CompareHashAndPassword([]byte(verifier), []byte(secret)) == nil
}
