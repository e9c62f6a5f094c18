// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"github.com/toeirei/signet/internal/model"
	"github.com/toeirei/signet/internal/security"
)

// Store defines the interface for all database operations in Signet.
// This allows for multiple database backends to be implemented.
type Store interface {
	// Account methods
	GetAllAccounts() ([]model.Account, error)
	GetAccountByAlias(alias string) (*model.Account, error)
	ImportAccount(alias, publicKey string, secret security.Secret, algorithm string, isImported bool) (int, error)
	DeleteAccount(id int) error
	RenameAccount(id int, alias string) error

	// Passphrase verifier methods
	SetPassphraseVerifier(salt, hash []byte) error
	GetPassphraseVerifier() (salt, hash []byte, err error)

	// Audit Log methods
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
	LogAction(action string, details string) error
}
