// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"errors"
	"testing"

	"github.com/toeirei/signet/internal/security"
)

// newTestStore opens a fresh in-memory SQLite store with migrations applied.
func newTestStore(t *testing.T) Store {
	t.Helper()
	s, err := NewStoreFromDSN("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	return s
}

func TestImportAndGetAccounts(t *testing.T) {
	s := newTestStore(t)

	id, err := s.ImportAccount("alpha", "01ab", security.FromString("sk1"), "ed25519", false)
	if err != nil {
		t.Fatalf("ImportAccount: %v", err)
	}
	if id == 0 {
		t.Errorf("expected non-zero id")
	}
	if _, err := s.ImportAccount("beta", "02cd", security.FromString("sk2"), "secp256k1", true); err != nil {
		t.Fatalf("ImportAccount: %v", err)
	}

	accounts, err := s.GetAllAccounts()
	if err != nil {
		t.Fatalf("GetAllAccounts: %v", err)
	}
	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts, got %d", len(accounts))
	}
	// Ordered by alias.
	if accounts[0].Alias != "alpha" || accounts[1].Alias != "beta" {
		t.Errorf("unexpected order: %q, %q", accounts[0].Alias, accounts[1].Alias)
	}
	if accounts[1].IsImported != true {
		t.Errorf("beta should be marked imported")
	}
	if string(accounts[0].SecretKey.Bytes()) != "sk1" {
		t.Errorf("secret key roundtrip failed")
	}
	if accounts[0].CreatedAt == "" {
		t.Errorf("created_at should be set")
	}
}

func TestImportAccountDuplicateAlias(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.ImportAccount("dup", "01ab", security.FromString("sk"), "ed25519", false); err != nil {
		t.Fatalf("first import: %v", err)
	}
	_, err := s.ImportAccount("dup", "01cd", security.FromString("sk2"), "ed25519", false)
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetAccountByAlias(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.ImportAccount("hot", "01ab", security.FromString("sk"), "ed25519", false); err != nil {
		t.Fatal(err)
	}
	a, err := s.GetAccountByAlias("hot")
	if err != nil {
		t.Fatalf("GetAccountByAlias: %v", err)
	}
	if a.Alias != "hot" || a.Algorithm != "ed25519" {
		t.Errorf("unexpected account: %+v", a)
	}

	if _, err := s.GetAccountByAlias("cold"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	s := newTestStore(t)

	id, err := s.ImportAccount("gone", "01ab", security.FromString("sk"), "ed25519", false)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteAccount(id); err != nil {
		t.Fatalf("DeleteAccount: %v", err)
	}
	accounts, err := s.GetAllAccounts()
	if err != nil {
		t.Fatal(err)
	}
	if len(accounts) != 0 {
		t.Errorf("expected empty store, got %d accounts", len(accounts))
	}
}

func TestRenameAccount(t *testing.T) {
	s := newTestStore(t)

	id, err := s.ImportAccount("old", "01ab", security.FromString("sk"), "ed25519", false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.ImportAccount("taken", "01cd", security.FromString("sk2"), "ed25519", false); err != nil {
		t.Fatal(err)
	}

	if err := s.RenameAccount(id, "new"); err != nil {
		t.Fatalf("RenameAccount: %v", err)
	}
	if _, err := s.GetAccountByAlias("new"); err != nil {
		t.Errorf("renamed account not found: %v", err)
	}

	if err := s.RenameAccount(id, "taken"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("rename onto existing alias: expected ErrDuplicate, got %v", err)
	}
	if err := s.RenameAccount(99999, "whatever"); !errors.Is(err, ErrNotFound) {
		t.Errorf("rename of missing id: expected ErrNotFound, got %v", err)
	}
}

func TestPassphraseVerifierRoundtrip(t *testing.T) {
	s := newTestStore(t)

	salt, hash, err := s.GetPassphraseVerifier()
	if err != nil {
		t.Fatalf("GetPassphraseVerifier (unset): %v", err)
	}
	if salt != nil || hash != nil {
		t.Errorf("expected nil verifier before set")
	}

	if err := s.SetPassphraseVerifier([]byte("salty"), []byte("hashy")); err != nil {
		t.Fatalf("SetPassphraseVerifier: %v", err)
	}
	salt, hash, err = s.GetPassphraseVerifier()
	if err != nil {
		t.Fatal(err)
	}
	if string(salt) != "salty" || string(hash) != "hashy" {
		t.Errorf("verifier roundtrip mismatch: %q %q", salt, hash)
	}

	// Setting again replaces the old verifier.
	if err := s.SetPassphraseVerifier([]byte("s2"), []byte("h2")); err != nil {
		t.Fatalf("SetPassphraseVerifier (replace): %v", err)
	}
	salt, hash, _ = s.GetPassphraseVerifier()
	if string(salt) != "s2" || string(hash) != "h2" {
		t.Errorf("verifier replace mismatch: %q %q", salt, hash)
	}
}

func TestAuditLog(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.ImportAccount("logged", "01ab", security.FromString("sk"), "ed25519", false); err != nil {
		t.Fatal(err)
	}
	entries, err := s.GetAllAuditLogEntries()
	if err != nil {
		t.Fatalf("GetAllAuditLogEntries: %v", err)
	}
	if len(entries) == 0 {
		t.Fatalf("expected at least one audit entry")
	}
	if entries[0].Action != "CREATE_ACCOUNT" {
		t.Errorf("unexpected action %q", entries[0].Action)
	}

	if _, err := s.ImportAccount("logged2", "01cd", security.FromString("sk"), "ed25519", true); err != nil {
		t.Fatal(err)
	}
	entries, _ = s.GetAllAuditLogEntries()
	// Newest first.
	if entries[0].Action != "IMPORT_ACCOUNT" {
		t.Errorf("expected IMPORT_ACCOUNT first, got %q", entries[0].Action)
	}
}

func TestMapDBError(t *testing.T) {
	if MapDBError(nil) != nil {
		t.Errorf("nil should map to nil")
	}
	if got := MapDBError(errors.New("UNIQUE constraint failed: accounts.alias")); !errors.Is(got, ErrDuplicate) {
		t.Errorf("sqlite unique violation should map to ErrDuplicate, got %v", got)
	}
	if got := MapDBError(errors.New("ERROR: duplicate key value violates unique constraint (SQLSTATE 23505)")); !errors.Is(got, ErrDuplicate) {
		t.Errorf("postgres unique violation should map to ErrDuplicate, got %v", got)
	}
	plain := errors.New("connection refused")
	if got := MapDBError(plain); got != plain {
		t.Errorf("unrelated errors should pass through, got %v", got)
	}
}
