package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/argon2"
)

const phcAlgorithm = "argon2id"

var (
	ErrHashMalformed = errors.New("password hash malformed")
	ErrHashAlgorithm = errors.New("password hash uses unsupported algorithm")
)

// Params are the Argon2id cost parameters. Zero values are invalid; use
// DefaultParams unless the deployment has measured its own.
type Params struct {
	MemoryKB    uint32
	Time        uint32
	Parallelism uint8
	SaltLength  uint32
	KeyLength   uint32
}

// DefaultParams returns the RFC 9106 second recommended option (64 MiB,
// t=3), sized for interactive logins.
func DefaultParams() Params {
	return Params{
		MemoryKB:    64 * 1024,
		Time:        3,
		Parallelism: 4,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func (p Params) validate() error {
	switch {
	case p.MemoryKB < 8*1024:
		return errors.New("password memory must be >= 8192 KB")
	case p.Time < 1:
		return errors.New("password time cost must be >= 1")
	case p.Parallelism < 1:
		return errors.New("password parallelism must be >= 1")
	case p.SaltLength < 16:
		return errors.New("password salt length must be >= 16")
	case p.KeyLength < 16:
		return errors.New("password key length must be >= 16")
	}
	return nil
}

// Hasher hashes and verifies passwords with Argon2id. It is immutable after
// construction and safe for concurrent use.
type Hasher struct {
	params Params
}

// NewHasher validates the parameters and returns a ready Hasher.
func NewHasher(params Params) (*Hasher, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}
	return &Hasher{params: params}, nil
}

// Hash derives an Argon2id hash over the raw password bytes and encodes it
// in PHC string format. Each call draws a fresh salt, so hashing the same
// password twice yields different strings.
func (h *Hasher) Hash(password string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("drawing password salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt,
		h.params.Time, h.params.MemoryKB, h.params.Parallelism, h.params.KeyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		phcAlgorithm, argon2.Version,
		h.params.MemoryKB, h.params.Time, h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify recomputes the hash under the parameters stored in encoded and
// compares in constant time. A malformed or foreign hash is an error, not a
// mismatch, so callers can distinguish corrupt records from wrong passwords.
func (h *Hasher) Verify(password, encoded string) (bool, error) {
	params, salt, key, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey([]byte(password), salt,
		params.Time, params.MemoryKB, params.Parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(computed, key) == 1, nil
}

// NeedsRehash reports whether the stored hash was produced with weaker
// parameters than the Hasher's own, so the caller can re-hash transparently
// on the next successful login.
func (h *Hasher) NeedsRehash(encoded string) (bool, error) {
	params, _, key, err := decodePHC(encoded)
	if err != nil {
		return false, err
	}

	weaker := params.MemoryKB < h.params.MemoryKB ||
		params.Time < h.params.Time ||
		params.Parallelism < h.params.Parallelism ||
		uint32(len(key)) != h.params.KeyLength
	return weaker, nil
}

func decodePHC(encoded string) (Params, []byte, []byte, error) {
	fields := splitPHC(encoded)
	if fields == nil {
		return Params{}, nil, nil, ErrHashMalformed
	}
	if fields[0] != phcAlgorithm {
		return Params{}, nil, nil, ErrHashAlgorithm
	}

	var version int
	if _, err := fmt.Sscanf(fields[1], "v=%d", &version); err != nil || version != argon2.Version {
		return Params{}, nil, nil, ErrHashMalformed
	}

	var params Params
	if _, err := fmt.Sscanf(fields[2], "m=%d,t=%d,p=%d",
		&params.MemoryKB, &params.Time, &params.Parallelism); err != nil {
		return Params{}, nil, nil, ErrHashMalformed
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[3])
	if err != nil || len(salt) < 16 {
		return Params{}, nil, nil, ErrHashMalformed
	}
	key, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil || len(key) == 0 {
		return Params{}, nil, nil, ErrHashMalformed
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))
	return params, salt, key, nil
}

// splitPHC splits "$argon2id$v=19$m=..,t=..,p=..$salt$key" into its five
// fields, or returns nil when the shape is wrong.
func splitPHC(encoded string) []string {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil
	}
	return parts[1:]
}
