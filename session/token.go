package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
)

// TokenStringLen is the length of a rendered session token: 16 random bytes
// hex-encoded.
const TokenStringLen = 32

// Token is a 128-bit session identifier drawn from a cryptographically
// secure random source. Tokens are never derived from user id, timestamp, or
// any other predictable input.
type Token [16]byte

// NewToken generates a fresh random token.
func NewToken() (Token, error) {
	var t Token
	_, err := rand.Read(t[:])
	return t, err
}

// String renders the token as a fixed-length lowercase hex string.
func (t Token) String() string {
	return hex.EncodeToString(t[:])
}

// Bytes returns the raw token bytes.
func (t Token) Bytes() []byte {
	return t[:]
}

// ParseToken decodes a rendered token. It rejects anything that is not
// exactly TokenStringLen hex characters.
func ParseToken(s string) (Token, error) {
	var t Token

	if len(s) != TokenStringLen {
		return t, errors.New("invalid session token length")
	}

	raw, err := hex.DecodeString(s)
	if err != nil {
		return t, errors.New("invalid session token encoding")
	}

	copy(t[:], raw)
	return t, nil
}
