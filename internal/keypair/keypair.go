// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package keypair implements the signature-algorithm primitives behind
// Signet accounts: generation, parsing and encoding of keypairs for the
// closed set of supported algorithms.
package keypair

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/toeirei/signet/internal/security"
)

// Algorithm identifies one of the supported signature algorithms. The set
// is closed; all dispatch on Algorithm is an exhaustive switch and new
// algorithms are added here, nowhere else.
type Algorithm int

const (
	Ed25519 Algorithm = iota
	Secp256k1
)

// ErrInvalidAlgorithm is returned when a string from the outside world
// (CLI flag, imported file header, database row) names no known algorithm.
var ErrInvalidAlgorithm = errors.New("invalid signature algorithm")

// ErrMalformedKey is returned when key bytes have the wrong shape for the
// algorithm, or a public key does not belong to the given secret key.
var ErrMalformedKey = errors.New("malformed key material")

// String returns the canonical lowercase name of the algorithm.
func (a Algorithm) String() string {
	switch a {
	case Ed25519:
		return "ed25519"
	case Secp256k1:
		return "secp256k1"
	}
	return fmt.Sprintf("algorithm(%d)", int(a))
}

// Tag returns the 2-character hex prefix that marks public keys of this
// algorithm in their textual form.
func (a Algorithm) Tag() string {
	switch a {
	case Ed25519:
		return "01"
	case Secp256k1:
		return "02"
	}
	return "00"
}

// Algorithms returns the supported algorithms in display order.
func Algorithms() []Algorithm {
	return []Algorithm{Ed25519, Secp256k1}
}

// ParseAlgorithm maps a user-supplied name to an Algorithm. This is the
// single runtime gate where unknown names are rejected; past this point
// Algorithm values are trusted.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ed25519":
		return Ed25519, nil
	case "secp256k1":
		return Secp256k1, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, s)
	}
}

// KeyPair is a validated keypair handle. The secret key is held in a
// redacting security.Secret so it cannot leak through logs or encoders.
type KeyPair struct {
	algorithm Algorithm
	publicKey []byte
	secretKey security.Secret
}

// Algorithm returns the keypair's signature algorithm.
func (kp KeyPair) Algorithm() Algorithm { return kp.algorithm }

// PublicKeyBytes returns a copy of the raw public key bytes.
func (kp KeyPair) PublicKeyBytes() []byte {
	out := make([]byte, len(kp.publicKey))
	copy(out, kp.publicKey)
	return out
}

// PublicKeyHex returns the prefixed hex form: the 2-char algorithm tag
// followed by the lowercase hex encoding of the public key bytes.
func (kp KeyPair) PublicKeyHex() string {
	return kp.algorithm.Tag() + hex.EncodeToString(kp.publicKey)
}

// SecretKey returns the secret key material.
func (kp KeyPair) SecretKey() security.Secret { return kp.secretKey }

// Generate produces a fresh keypair for the given algorithm.
func Generate(algorithm Algorithm) (KeyPair, error) {
	switch algorithm {
	case Ed25519:
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return KeyPair{}, fmt.Errorf("failed to generate ed25519 key: %w", err)
		}
		return KeyPair{algorithm: Ed25519, publicKey: pub, secretKey: security.FromBytes(priv.Seed())}, nil
	case Secp256k1:
		priv, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			return KeyPair{}, fmt.Errorf("failed to generate secp256k1 key: %w", err)
		}
		return KeyPair{
			algorithm: Secp256k1,
			publicKey: priv.PubKey().SerializeCompressed(),
			secretKey: security.FromBytes(priv.Serialize()),
		}, nil
	}
	return KeyPair{}, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, algorithm)
}

// FromSecretKey derives the full keypair from raw secret-key bytes. For
// ed25519 the secret may be a 32-byte seed or a 64-byte private key; for
// secp256k1 it is the 32-byte scalar.
func FromSecretKey(algorithm Algorithm, secret []byte) (KeyPair, error) {
	switch algorithm {
	case Ed25519:
		var priv ed25519.PrivateKey
		switch len(secret) {
		case ed25519.SeedSize:
			priv = ed25519.NewKeyFromSeed(secret)
		case ed25519.PrivateKeySize:
			priv = ed25519.PrivateKey(bytes.Clone(secret))
		default:
			return KeyPair{}, fmt.Errorf("%w: ed25519 secret key must be %d or %d bytes, got %d",
				ErrMalformedKey, ed25519.SeedSize, ed25519.PrivateKeySize, len(secret))
		}
		pub := priv.Public().(ed25519.PublicKey)
		return KeyPair{algorithm: Ed25519, publicKey: pub, secretKey: security.FromBytes(priv.Seed())}, nil
	case Secp256k1:
		if len(secret) != 32 {
			return KeyPair{}, fmt.Errorf("%w: secp256k1 secret key must be 32 bytes, got %d",
				ErrMalformedKey, len(secret))
		}
		priv := secp256k1.PrivKeyFromBytes(secret)
		return KeyPair{
			algorithm: Secp256k1,
			publicKey: priv.PubKey().SerializeCompressed(),
			secretKey: security.FromBytes(priv.Serialize()),
		}, nil
	}
	return KeyPair{}, fmt.Errorf("%w: %v", ErrInvalidAlgorithm, algorithm)
}

// ParseKeyPair constructs a keypair handle from raw public and secret key
// bytes, verifying that the two belong together. It fails on malformed
// input of any kind.
func ParseKeyPair(algorithm Algorithm, public, secret []byte) (KeyPair, error) {
	kp, err := FromSecretKey(algorithm, secret)
	if err != nil {
		return KeyPair{}, err
	}
	if !bytes.Equal(kp.publicKey, public) {
		return KeyPair{}, fmt.Errorf("%w: public key does not match secret key", ErrMalformedKey)
	}
	return kp, nil
}

// DecodePublicKeyHex parses the prefixed hex form of a public key: the
// 2-character algorithm tag is stripped before decoding the remainder.
func DecodePublicKeyHex(s string) (Algorithm, []byte, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, nil, fmt.Errorf("%w: public key too short", ErrMalformedKey)
	}
	var algorithm Algorithm
	switch s[:2] {
	case Ed25519.Tag():
		algorithm = Ed25519
	case Secp256k1.Tag():
		algorithm = Secp256k1
	default:
		return 0, nil, fmt.Errorf("%w: unknown public key tag %q", ErrInvalidAlgorithm, s[:2])
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return algorithm, raw, nil
}

// DecodeSecretKeyBase64 decodes the base64 textual form of secret key bytes.
func DecodeSecretKeyBase64(s string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
	}
	return raw, nil
}

// EncodeSecretKeyBase64 renders secret key bytes in their base64 textual form.
func EncodeSecretKeyBase64(secret security.Secret) string {
	var out string
	_ = secret.Use(func(b []byte) error {
		out = base64.StdEncoding.EncodeToString(b)
		return nil
	})
	return out
}
