// AngelaMos | 2026
// password.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	saltBytes = 16
	argonID   = "argon2id"
)

type argonParams struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
	keyLen      uint32
}

// New hashes use these. Stored hashes with anything else verify but are
// reported by NeedsRehash.
var currentArgon = argonParams{
	memory:      64 * 1024,
	iterations:  1,
	parallelism: 4,
	keyLen:      32,
}

var errMalformedHash = errors.New("malformed password hash")

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.iterations, p.memory, p.parallelism, p.keyLen)
}

// inBounds rejects parameters argon2 would panic on or that would let a
// crafted row exhaust memory.
func (p argonParams) inBounds() bool {
	return p.iterations >= 1 && p.iterations <= 10 &&
		p.parallelism >= 1 &&
		p.memory >= 8*uint32(p.parallelism) && p.memory <= 1<<20
}

// HashPassword returns an argon2id PHC string with a fresh random salt.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := currentArgon.derive(password, salt)
	b64 := base64.RawStdEncoding

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argonID, argon2.Version,
		currentArgon.memory, currentArgon.iterations, currentArgon.parallelism,
		b64.EncodeToString(salt), b64.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches encoded. bcrypt hashes
// from accounts created before the argon2id switch are still accepted.
// A malformed hash never matches.
func VerifyPassword(password, encoded string) bool {
	if isBcrypt(encoded) {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	}

	params, salt, key, err := parseArgon(encoded)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(key, params.derive(password, salt)) == 1
}

// VerifyPasswordWithRehash also returns a replacement hash when the stored
// one is bcrypt or uses outdated argon2 parameters.
func VerifyPasswordWithRehash(password, encoded string) (bool, string) {
	if !VerifyPassword(password, encoded) {
		return false, ""
	}

	if !NeedsRehash(encoded) {
		return true, ""
	}

	upgraded, err := HashPassword(password)
	if err != nil {
		return true, ""
	}
	return true, upgraded
}

var timingHash = sync.OnceValue(func() string {
	h, _ := HashPassword("unknown-account-placeholder") //nolint:errcheck // crypto/rand does not fail
	return h
})

// VerifyPasswordTimingSafe spends one full argon2 derivation even when
// there is no stored hash, so an unknown email costs the same as a wrong
// password.
func VerifyPasswordTimingSafe(password string, encoded *string) (bool, string) {
	if encoded == nil || *encoded == "" {
		VerifyPassword(password, timingHash())
		return false, ""
	}
	return VerifyPasswordWithRehash(password, *encoded)
}

func NeedsRehash(encoded string) bool {
	if isBcrypt(encoded) {
		return true
	}

	params, _, _, err := parseArgon(encoded)
	return err != nil || params != currentArgon
}

func isBcrypt(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

// parseArgon reads $argon2id$v=19$m=..,t=..,p=..$salt$key.
func parseArgon(encoded string) (argonParams, []byte, []byte, error) {
	var p argonParams

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" || fields[1] != argonID {
		return p, nil, nil, errMalformedHash
	}

	if fields[2] != "v="+strconv.Itoa(argon2.Version) {
		return p, nil, nil, fmt.Errorf("%w: version %q", errMalformedHash, fields[2])
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.iterations, &p.parallelism); err != nil {
		return p, nil, nil, fmt.Errorf("%w: %w", errMalformedHash, err)
	}
	if !p.inBounds() {
		return p, nil, nil, fmt.Errorf("%w: parameters out of range", errMalformedHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(fields[4])
	if err != nil {
		return p, nil, nil, fmt.Errorf("%w: salt: %w", errMalformedHash, err)
	}

	key, err := base64.RawStdEncoding.DecodeString(fields[5])
	if err != nil || len(key) == 0 {
		return p, nil, nil, fmt.Errorf("%w: key", errMalformedHash)
	}
	p.keyLen = uint32(len(key)) //nolint:gosec // G115: decoded key is a few dozen bytes

	return p, salt, key, nil
}
