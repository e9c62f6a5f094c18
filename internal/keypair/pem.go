// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package keypair

import (
	"encoding/pem"
	"fmt"
	"os"
)

// pemBlockType is the PEM block label used for Signet secret-key files.
const pemBlockType = "SIGNET SECRET KEY"

// pemAlgorithmHeader carries the algorithm name inside the PEM block.
const pemAlgorithmHeader = "Algorithm"

// EncodeSecretKeyPEM renders the keypair's secret key as a PEM block with
// an Algorithm header. This is the on-disk format for backup key files and
// the accepted format for imported secret-key files.
func EncodeSecretKeyPEM(kp KeyPair) []byte {
	var data []byte
	_ = kp.SecretKey().Use(func(b []byte) error {
		data = pem.EncodeToMemory(&pem.Block{
			Type:    pemBlockType,
			Headers: map[string]string{pemAlgorithmHeader: kp.Algorithm().String()},
			Bytes:   b,
		})
		return nil
	})
	return data
}

// ParseSecretKeyPEM decodes a Signet secret-key PEM block and derives the
// full keypair from it. Files without an Algorithm header fall back to the
// provided default algorithm.
func ParseSecretKeyPEM(data []byte, fallback Algorithm) (KeyPair, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return KeyPair{}, fmt.Errorf("%w: no PEM block found", ErrMalformedKey)
	}
	if block.Type != pemBlockType {
		return KeyPair{}, fmt.Errorf("%w: unexpected PEM block type %q", ErrMalformedKey, block.Type)
	}
	algorithm := fallback
	if name, ok := block.Headers[pemAlgorithmHeader]; ok {
		parsed, err := ParseAlgorithm(name)
		if err != nil {
			return KeyPair{}, err
		}
		algorithm = parsed
	}
	return FromSecretKey(algorithm, block.Bytes)
}

// ReadSecretKeyFile loads and parses a secret-key file from disk.
func ReadSecretKeyFile(path string, fallback Algorithm) (KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to read secret key file: %w", err)
	}
	return ParseSecretKeyPEM(data, fallback)
}
