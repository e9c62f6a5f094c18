// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package keypair

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

func TestParseAlgorithm(t *testing.T) {
	cases := []struct {
		in      string
		want    Algorithm
		wantErr bool
	}{
		{"ed25519", Ed25519, false},
		{"ED25519", Ed25519, false},
		{" secp256k1 ", Secp256k1, false},
		{"", 0, true},
		{"rsa", 0, true},
	}
	for _, c := range cases {
		got, err := ParseAlgorithm(c.in)
		if c.wantErr {
			if !errors.Is(err, ErrInvalidAlgorithm) {
				t.Errorf("ParseAlgorithm(%q): want ErrInvalidAlgorithm, got %v", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAlgorithm(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseAlgorithm(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestGenerateAndRoundtrip(t *testing.T) {
	for _, algorithm := range Algorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			kp, err := Generate(algorithm)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if kp.Algorithm() != algorithm {
				t.Errorf("algorithm = %v, want %v", kp.Algorithm(), algorithm)
			}

			hexKey := kp.PublicKeyHex()
			if !strings.HasPrefix(hexKey, algorithm.Tag()) {
				t.Errorf("public key %q missing tag %q", hexKey, algorithm.Tag())
			}

			gotAlgo, pub, err := DecodePublicKeyHex(hexKey)
			if err != nil {
				t.Fatalf("DecodePublicKeyHex: %v", err)
			}
			if gotAlgo != algorithm {
				t.Errorf("decoded algorithm = %v, want %v", gotAlgo, algorithm)
			}

			// ParseKeyPair must accept the matching pub/secret pair.
			parsed, err := ParseKeyPair(algorithm, pub, kp.SecretKey().Bytes())
			if err != nil {
				t.Fatalf("ParseKeyPair: %v", err)
			}
			if parsed.PublicKeyHex() != hexKey {
				t.Errorf("roundtrip public key mismatch")
			}
		})
	}
}

func TestParseKeyPairMismatch(t *testing.T) {
	a, err := Generate(Ed25519)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Generate(Ed25519)
	if err != nil {
		t.Fatal(err)
	}
	// a's public key with b's secret key must be rejected.
	if _, err := ParseKeyPair(Ed25519, a.PublicKeyBytes(), b.SecretKey().Bytes()); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("mismatched keypair: want ErrMalformedKey, got %v", err)
	}
}

func TestFromSecretKeyBadLength(t *testing.T) {
	if _, err := FromSecretKey(Ed25519, make([]byte, 31)); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("short ed25519 secret: want ErrMalformedKey, got %v", err)
	}
	if _, err := FromSecretKey(Secp256k1, make([]byte, 33)); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("long secp256k1 secret: want ErrMalformedKey, got %v", err)
	}
}

func TestFromSecretKeyEd25519SeedAndFull(t *testing.T) {
	kp, err := Generate(Ed25519)
	if err != nil {
		t.Fatal(err)
	}
	seed := kp.SecretKey().Bytes()
	if len(seed) != 32 {
		t.Fatalf("expected 32-byte seed, got %d", len(seed))
	}
	fromSeed, err := FromSecretKey(Ed25519, seed)
	if err != nil {
		t.Fatalf("FromSecretKey(seed): %v", err)
	}
	if fromSeed.PublicKeyHex() != kp.PublicKeyHex() {
		t.Errorf("seed-derived public key mismatch")
	}
}

func TestDecodePublicKeyHexErrors(t *testing.T) {
	if _, _, err := DecodePublicKeyHex("0"); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("too-short key: want ErrMalformedKey, got %v", err)
	}
	if _, _, err := DecodePublicKeyHex("ff00"); !errors.Is(err, ErrInvalidAlgorithm) {
		t.Errorf("unknown tag: want ErrInvalidAlgorithm, got %v", err)
	}
	if _, _, err := DecodePublicKeyHex("01zz"); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("bad hex: want ErrMalformedKey, got %v", err)
	}
}

func TestSecretKeyBase64(t *testing.T) {
	kp, err := Generate(Secp256k1)
	if err != nil {
		t.Fatal(err)
	}
	enc := EncodeSecretKeyBase64(kp.SecretKey())
	raw, err := DecodeSecretKeyBase64(enc)
	if err != nil {
		t.Fatalf("DecodeSecretKeyBase64: %v", err)
	}
	if base64.StdEncoding.EncodeToString(raw) != enc {
		t.Errorf("base64 roundtrip mismatch")
	}
	if _, err := DecodeSecretKeyBase64("!!not base64!!"); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("bad base64: want ErrMalformedKey, got %v", err)
	}
}

func TestSecretKeyPEMRoundtrip(t *testing.T) {
	for _, algorithm := range Algorithms() {
		t.Run(algorithm.String(), func(t *testing.T) {
			kp, err := Generate(algorithm)
			if err != nil {
				t.Fatal(err)
			}
			data := EncodeSecretKeyPEM(kp)
			parsed, err := ParseSecretKeyPEM(data, Ed25519)
			if err != nil {
				t.Fatalf("ParseSecretKeyPEM: %v", err)
			}
			if parsed.Algorithm() != algorithm {
				t.Errorf("algorithm = %v, want %v", parsed.Algorithm(), algorithm)
			}
			if parsed.PublicKeyHex() != kp.PublicKeyHex() {
				t.Errorf("public key mismatch after PEM roundtrip")
			}
		})
	}
}

func TestParseSecretKeyPEMErrors(t *testing.T) {
	if _, err := ParseSecretKeyPEM([]byte("not pem at all"), Ed25519); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("garbage input: want ErrMalformedKey, got %v", err)
	}
	wrongType := "-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n"
	if _, err := ParseSecretKeyPEM([]byte(wrongType), Ed25519); !errors.Is(err, ErrMalformedKey) {
		t.Errorf("wrong block type: want ErrMalformedKey, got %v", err)
	}
}
