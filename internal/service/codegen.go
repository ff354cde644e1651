package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// joinCodeAlphabet deliberately excludes visually ambiguous characters (I, O, 0, 1).
// 32 symbols divide 256 evenly, so byte-modulo sampling stays uniform.
const joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	joinCodeLength  = 6
	guestTokenBytes = 16
)

// CodeGenerator produces join codes and guest tokens from a
// cryptographically secure random source
type CodeGenerator struct{}

// NewCodeGenerator creates a new CodeGenerator
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{}
}

// GenerateJoinCode returns a 6-character code drawn uniformly from the
// restricted alphabet. Uniqueness is NOT guaranteed here - the caller
// checks the registry and the teams.code unique constraint is the final
// authority.
func (g *CodeGenerator) GenerateJoinCode() (string, error) {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	code := make([]byte, joinCodeLength)
	for i, b := range buf {
		code[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}

	return string(code), nil
}

// GenerateGuestToken returns a 32-hex-character bearer credential derived
// from 16 bytes of a CSPRNG. The token is returned to the guest team's
// creator exactly once and is never re-derivable from the join code.
func (g *CodeGenerator) GenerateGuestToken() (string, error) {
	buf := make([]byte, guestTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
