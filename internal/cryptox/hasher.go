// Package cryptox implements one-way password hashing for stored credentials.
//
// Two algorithms are supported: bcrypt (default) and argon2id. Digests are
// self-describing, so Verify dispatches on the digest prefix and a deployment
// can switch the hashing algorithm without invalidating existing users.
package cryptox

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyPassword is returned by Hash for an empty plaintext.
	ErrEmptyPassword = errors.New("empty password")

	// ErrMalformedDigest is returned by Verify when the stored digest cannot
	// be parsed. A plain mismatch is never an error.
	ErrMalformedDigest = errors.New("malformed password digest")
)

// Algorithm names a supported hashing scheme.
type Algorithm string

const (
	AlgorithmBcrypt   Algorithm = "bcrypt"
	AlgorithmArgon2id Algorithm = "argon2id"
)

// Hasher hashes and verifies passwords. Implementations are safe for
// concurrent use.
type Hasher interface {
	// Hash returns a salted digest of plaintext. Two calls with the same
	// input return different digests.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches digest.
	Verify(plaintext, digest string) (bool, error)
}

// Config selects and tunes the hashing algorithm.
type Config struct {
	Algorithm  Algorithm
	BcryptCost int
}

// NewHasher returns a Hasher that produces digests with the configured
// algorithm and verifies digests of either supported algorithm.
func NewHasher(cfg Config) (Hasher, error) {
	bh := NewBcryptHasher(cfg.BcryptCost)
	ah := NewArgon2Hasher()

	switch cfg.Algorithm {
	case "", AlgorithmBcrypt:
		return &dispatchHasher{primary: bh, bcrypt: bh, argon2: ah}, nil
	case AlgorithmArgon2id:
		return &dispatchHasher{primary: ah, bcrypt: bh, argon2: ah}, nil
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", cfg.Algorithm)
	}
}

type dispatchHasher struct {
	primary Hasher
	bcrypt  *BcryptHasher
	argon2  *Argon2Hasher
}

func (h *dispatchHasher) Hash(plaintext string) (string, error) {
	return h.primary.Hash(plaintext)
}

func (h *dispatchHasher) Verify(plaintext, digest string) (bool, error) {
	switch {
	case strings.HasPrefix(digest, argon2Prefix):
		return h.argon2.Verify(plaintext, digest)
	case strings.HasPrefix(digest, "$2"):
		return h.bcrypt.Verify(plaintext, digest)
	default:
		return false, ErrMalformedDigest
	}
}
