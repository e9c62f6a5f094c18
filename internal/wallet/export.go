// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package wallet

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/toeirei/signet/internal/keypair"
)

// ExportBackupFiles writes the backup key files for an account into the
// controller's backup directory: <alias>.pem with the secret key and
// <alias>.pub with the prefixed hex public key.
func (c *Controller) ExportBackupFiles(alias string, kp keypair.KeyPair) error {
	dir := c.backupDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}

	secretPath := filepath.Join(dir, alias+".pem")
	if err := writeKeyFile(secretPath, keypair.EncodeSecretKeyPEM(kp)); err != nil {
		return fmt.Errorf("failed to write %s: %w", secretPath, err)
	}

	publicPath := filepath.Join(dir, alias+".pub")
	if err := writeKeyFile(publicPath, []byte(kp.PublicKeyHex()+"\n")); err != nil {
		return fmt.Errorf("failed to write %s: %w", publicPath, err)
	}
	return nil
}

// writeKeyFile writes content using a secure default file mode. On
// Unix-like systems this uses 0600. On Windows, where POSIX permissions
// are not meaningful, it falls back to 0644 for compatibility.
func writeKeyFile(filename string, content []byte) error {
	perm := os.FileMode(0600)
	if runtime.GOOS == "windows" {
		perm = 0644
	}
	return os.WriteFile(filename, content, perm)
}
