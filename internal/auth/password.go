package auth

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"

	"github.com/savemoney-app/savemoney/internal/common"
)

// argon2id parameters for credential hashing. Independent of the at-rest
// envelope encryption: the envelope protects confidentiality of storage, the
// hash provides the one-way, brute-force-resistant property credentials need.
const (
	pwSaltLen = 16
	pwTime    = 1
	pwMemory  = 64 * 1024
	pwThreads = 4
	pwKeyLen  = 32
)

// setPassword hashes pw under a fresh random salt and blanks the plaintext.
func (u *User) setPassword(pw string) {
	salt := common.GenerateRandByteArray(pwSaltLen)
	hash := argon2.IDKey([]byte(pw), salt, pwTime, pwMemory, pwThreads, pwKeyLen)
	u.PasswordSalt = hex.EncodeToString(salt)
	u.PasswordHash = hex.EncodeToString(hash)
	u.Senha = ""
}

// verifyPassword recomputes the hash and compares in constant time.
func (u *User) verifyPassword(pw string) bool {
	if u.PasswordHash == "" || u.PasswordSalt == "" {
		return false
	}
	salt, err := hex.DecodeString(u.PasswordSalt)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(u.PasswordHash)
	if err != nil {
		return false
	}
	candidate := argon2.IDKey([]byte(pw), salt, pwTime, pwMemory, pwThreads, pwKeyLen)
	return subtle.ConstantTimeCompare(candidate, expected) == 1
}
