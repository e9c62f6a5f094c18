// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/toeirei/signet/internal/model"
	"github.com/toeirei/signet/internal/security"
)

// AccountModel maps the `accounts` table for Bun queries.
type AccountModel struct {
	bun.BaseModel `bun:"table:accounts"`
	ID            int             `bun:"id,pk,autoincrement"`
	Alias         string          `bun:"alias"`
	Algorithm     string          `bun:"algorithm"`
	PublicKey     string          `bun:"public_key"`
	SecretKey     security.Secret `bun:"secret_key"`
	IsImported    bool            `bun:"is_imported"`
	CreatedAt     string          `bun:"created_at"`
}

// SettingModel maps the `settings` key/value table.
type SettingModel struct {
	bun.BaseModel `bun:"table:settings"`
	Name          string `bun:"name,pk"`
	Value         []byte `bun:"value"`
}

// AuditLogModel maps the `audit_log` table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// Setting names for the passphrase verifier.
const (
	settingPassphraseSalt = "passphrase_salt"
	settingPassphraseHash = "passphrase_hash"
)

// BunStore is the Bun-backed implementation of the Store interface. The
// same implementation serves SQLite, PostgreSQL and MySQL; dialect
// differences are absorbed by Bun and the per-dialect migrations.
type BunStore struct {
	bun *bun.DB
}

// NewBunStore wraps an existing *bun.DB in a Store.
func NewBunStore(bdb *bun.DB) *BunStore {
	return &BunStore{bun: bdb}
}

func accountModelToModel(am AccountModel) model.Account {
	return model.Account{
		ID:         am.ID,
		Alias:      am.Alias,
		Algorithm:  am.Algorithm,
		PublicKey:  am.PublicKey,
		SecretKey:  am.SecretKey,
		IsImported: am.IsImported,
		CreatedAt:  am.CreatedAt,
	}
}

// GetAllAccounts retrieves all accounts ordered by alias.
func (s *BunStore) GetAllAccounts() ([]model.Account, error) {
	ctx := context.Background()
	var ams []AccountModel
	if err := s.bun.NewSelect().Model(&ams).Order("alias ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.Account, 0, len(ams))
	for _, am := range ams {
		out = append(out, accountModelToModel(am))
	}
	return out, nil
}

// GetAccountByAlias looks an account up by its alias. Returns ErrNotFound
// when no such account exists.
func (s *BunStore) GetAccountByAlias(alias string) (*model.Account, error) {
	ctx := context.Background()
	var am AccountModel
	err := s.bun.NewSelect().Model(&am).Where("alias = ?", alias).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	m := accountModelToModel(am)
	return &m, nil
}

// ImportAccount inserts a new account row. The alias carries a unique
// index; violations surface as ErrDuplicate.
func (s *BunStore) ImportAccount(alias, publicKey string, secret security.Secret, algorithm string, isImported bool) (int, error) {
	ctx := context.Background()
	am := &AccountModel{
		Alias:      alias,
		Algorithm:  algorithm,
		PublicKey:  publicKey,
		SecretKey:  secret,
		IsImported: isImported,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	// Use Bun's NewInsert with Returning to support Postgres and MySQL.
	if _, err := s.bun.NewInsert().Model(am).Returning("id").Exec(ctx); err != nil {
		return 0, MapDBError(err)
	}
	origin := "CREATE_ACCOUNT"
	if isImported {
		origin = "IMPORT_ACCOUNT"
	}
	_ = s.LogAction(origin, fmt.Sprintf("alias: %s, algorithm: %s", alias, algorithm))
	return am.ID, nil
}

// DeleteAccount removes an account by id.
func (s *BunStore) DeleteAccount(id int) error {
	ctx := context.Background()
	// Fetch the alias first so the audit entry names the account.
	var am AccountModel
	details := fmt.Sprintf("id: %d", id)
	if err := s.bun.NewSelect().Model(&am).Where("id = ?", id).Limit(1).Scan(ctx); err == nil {
		details = fmt.Sprintf("alias: %s", am.Alias)
	}
	if _, err := s.bun.NewDelete().Model((*AccountModel)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
		return err
	}
	_ = s.LogAction("DELETE_ACCOUNT", details)
	return nil
}

// RenameAccount changes an account's alias. The unique index on alias
// reports collisions as ErrDuplicate.
func (s *BunStore) RenameAccount(id int, alias string) error {
	ctx := context.Background()
	res, err := s.bun.NewUpdate().Model((*AccountModel)(nil)).
		Set("alias = ?", alias).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return MapDBError(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	_ = s.LogAction("RENAME_ACCOUNT", fmt.Sprintf("id: %d, alias: %s", id, alias))
	return nil
}

// SetPassphraseVerifier stores the scrypt salt and hash for the wallet
// passphrase. Delete-then-insert inside a transaction keeps the upsert
// portable across all three dialects.
func (s *BunStore) SetPassphraseVerifier(salt, hash []byte) error {
	ctx := context.Background()
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	names := []string{settingPassphraseSalt, settingPassphraseHash}
	values := [][]byte{salt, hash}
	for i, name := range names {
		if _, err := tx.NewDelete().Model((*SettingModel)(nil)).Where("name = ?", name).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewInsert().Model(&SettingModel{Name: name, Value: values[i]}).Exec(ctx); err != nil {
			return MapDBError(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	_ = s.LogAction("SET_PASSPHRASE", "wallet passphrase verifier updated")
	return nil
}

// GetPassphraseVerifier returns the stored verifier, or (nil, nil, nil)
// when no passphrase has been configured.
func (s *BunStore) GetPassphraseVerifier() (salt, hash []byte, err error) {
	ctx := context.Background()
	read := func(name string) ([]byte, error) {
		var sm SettingModel
		err := s.bun.NewSelect().Model(&sm).Where("name = ?", name).Limit(1).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, err
		}
		return sm.Value, nil
	}
	if salt, err = read(settingPassphraseSalt); err != nil {
		return nil, nil, err
	}
	if hash, err = read(settingPassphraseHash); err != nil {
		return nil, nil, err
	}
	return salt, hash, nil
}

// GetAllAuditLogEntries returns the audit trail, newest first.
func (s *BunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var lms []AuditLogModel
	if err := s.bun.NewSelect().Model(&lms).Order("id DESC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]model.AuditLogEntry, 0, len(lms))
	for _, lm := range lms {
		out = append(out, model.AuditLogEntry{
			ID:        lm.ID,
			Timestamp: lm.Timestamp,
			Action:    lm.Action,
			Details:   lm.Details,
		})
	}
	return out, nil
}

// LogAction records a state-changing action in the audit log.
func (s *BunStore) LogAction(action, details string) error {
	ctx := context.Background()
	lm := &AuditLogModel{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Action:    action,
		Details:   details,
	}
	_, err := s.bun.NewInsert().Model(lm).Exec(ctx)
	return err
}
