// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package model defines the core data structures shared across Signet.
package model

import (
	"fmt"

	"github.com/toeirei/signet/internal/security"
)

// Account is a named signing account: an alias the user chose plus the
// keypair material for one of the supported signature algorithms.
type Account struct {
	ID         int
	Alias      string
	Algorithm  string
	PublicKey  string // prefixed hex encoding (2-char algorithm tag + key bytes)
	SecretKey  security.Secret
	IsImported bool
	CreatedAt  string
}

// String returns the alias with an abbreviated public key, e.g.
// "treasury (0184ab…c3f0)".
func (a Account) String() string {
	return fmt.Sprintf("%s (%s)", a.Alias, AbbreviateKey(a.PublicKey))
}

// AbbreviateKey shortens a hex key for display: first 6 and last 4 chars.
func AbbreviateKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:6] + "…" + key[len(key)-4:]
}

// AuditLogEntry represents a single audit record of a state-changing action.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Action    string
	Details   string
}
