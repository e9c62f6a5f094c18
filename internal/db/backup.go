// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package db

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"

	"github.com/toeirei/signet/internal/security"
)

// backupFormatVersion guards against reading dumps written by a newer,
// incompatible Signet.
const backupFormatVersion = 1

// dumpAccount is the portable wire form of an account inside a dump.
// Secret keys are carried as raw bytes here because security.Secret
// deliberately redacts itself in JSON.
type dumpAccount struct {
	Alias      string `json:"alias"`
	Algorithm  string `json:"algorithm"`
	PublicKey  string `json:"public_key"`
	SecretKey  []byte `json:"secret_key"`
	IsImported bool   `json:"is_imported"`
	CreatedAt  string `json:"created_at"`
}

// dump is the full database dump structure.
type dump struct {
	Version  int           `json:"version"`
	Accounts []dumpAccount `json:"accounts"`
}

// BackupToWriter writes a zstd-compressed JSON dump of all accounts in the
// given store to w.
func BackupToWriter(s Store, w io.Writer) error {
	accounts, err := s.GetAllAccounts()
	if err != nil {
		return fmt.Errorf("failed to read accounts for backup: %w", err)
	}
	d := dump{Version: backupFormatVersion}
	for _, a := range accounts {
		d.Accounts = append(d.Accounts, dumpAccount{
			Alias:      a.Alias,
			Algorithm:  a.Algorithm,
			PublicKey:  a.PublicKey,
			SecretKey:  a.SecretKey.Bytes(),
			IsImported: a.IsImported,
			CreatedAt:  a.CreatedAt,
		})
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	if err := json.NewEncoder(zw).Encode(d); err != nil {
		_ = zw.Close()
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return zw.Close()
}

// BackupToFile writes a dump to path with owner-only permissions; the dump
// contains secret key material.
func BackupToFile(s Store, path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create backup file: %w", err)
	}
	if err := BackupToWriter(s, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// RestoreFromReader loads a dump and registers every account that does not
// already exist. It returns the number of restored and skipped accounts.
func RestoreFromReader(s Store, r io.Reader) (restored, skipped int, err error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open zstd stream: %w", err)
	}
	defer zr.Close()

	var d dump
	if err := json.NewDecoder(zr).Decode(&d); err != nil {
		return 0, 0, fmt.Errorf("failed to decode backup: %w", err)
	}
	if d.Version > backupFormatVersion {
		return 0, 0, fmt.Errorf("unsupported backup format version %d", d.Version)
	}

	for _, a := range d.Accounts {
		_, err := s.ImportAccount(a.Alias, a.PublicKey, security.FromBytes(a.SecretKey), a.Algorithm, a.IsImported)
		if err != nil {
			if errors.Is(err, ErrDuplicate) {
				skipped++
				continue
			}
			return restored, skipped, fmt.Errorf("failed to restore account %q: %w", a.Alias, err)
		}
		restored++
	}
	return restored, skipped, nil
}

// RestoreFromFile loads a dump file written by BackupToFile.
func RestoreFromFile(s Store, path string) (restored, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return RestoreFromReader(s, f)
}
