// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters for the wallet passphrase verifier. N=2^15 keeps
// interactive verification well under 100ms on commodity hardware while
// staying expensive for offline guessing against a stolen database.
const (
	scryptN      = 1 << 15
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 32
	saltLen      = 16
)

// HashPassphrase derives a verifier (salt, hash) for the given passphrase.
// The verifier is safe to persist; the passphrase itself never is.
func HashPassphrase(passphrase Secret) (salt, hash []byte, err error) {
	salt = make([]byte, saltLen)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	err = passphrase.Use(func(b []byte) error {
		var kerr error
		hash, kerr = scrypt.Key(b, salt, scryptN, scryptR, scryptP, scryptKeyLen)
		return kerr
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive passphrase hash: %w", err)
	}
	return salt, hash, nil
}

// VerifyPassphrase reports whether the passphrase matches a stored verifier.
// Comparison is constant-time.
func VerifyPassphrase(passphrase Secret, salt, hash []byte) bool {
	if len(salt) == 0 || len(hash) == 0 {
		return false
	}
	var derived []byte
	err := passphrase.Use(func(b []byte) error {
		var kerr error
		derived, kerr = scrypt.Key(b, salt, scryptN, scryptR, scryptP, scryptKeyLen)
		return kerr
	})
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(derived, hash) == 1
}
