package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/assettrack/internal/common"
	"golang.org/x/crypto/argon2"
)

const argon2Prefix = "$argon2id$"

// Argon2Hasher hashes passwords with argon2id and encodes the result in the
// PHC string format: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
type Argon2Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	saltLen int
	keyLen  uint32
}

// NewArgon2Hasher returns an argon2id hasher using the RFC 9106 second
// recommended parameter set (t=1, 64 MiB, 4 lanes).
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{time: 1, memory: 64 * 1024, threads: 4, saltLen: 16, keyLen: 32}
}

func (h *Argon2Hasher) Hash(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	salt := common.GenerateRandByteArray(h.saltLen)
	if salt == nil {
		return "", fmt.Errorf("argon2: cannot read random salt")
	}
	key := argon2.IDKey([]byte(plaintext), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("%sv=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2Prefix, argon2.Version, h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

func (h *Argon2Hasher) Verify(plaintext, digest string) (bool, error) {
	parts := strings.Split(digest, "$")
	// "", "argon2id", "v=19", "m=..,t=..,p=..", salt, key
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedDigest
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedDigest
	}

	var memory, iterations uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &threads); err != nil {
		return false, ErrMalformedDigest
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedDigest
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedDigest
	}

	got := argon2.IDKey([]byte(plaintext), salt, iterations, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
