// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package wallet implements the account creation and import workflow: it
// validates form state, builds keypairs, hands them to the account store
// and drives navigation back to the accounts view. The TUI and CLI are
// thin layers over this package.
package wallet

import (
	"fmt"

	"github.com/toeirei/signet/internal/keypair"
	"github.com/toeirei/signet/internal/model"
	"github.com/toeirei/signet/internal/security"
)

// HomeRoute is the navigation destination after a successful submit.
const HomeRoute = "accounts"

// Store is the subset of the account store the workflow depends on.
type Store interface {
	GetAllAccounts() ([]model.Account, error)
	ImportAccount(alias, publicKey string, secret security.Secret, algorithm string, isImported bool) (int, error)
}

// Navigator mutates the navigation history. After a successful submit the
// controller issues Push(HomeRoute) followed by Replace(HomeRoute); the
// net observable effect is a single replaced history entry at home.
type Navigator interface {
	Push(route string)
	Replace(route string)
}

// ErrorSink records a failure for user display without interrupting the
// control flow. The controller uses it for advisory failures only; fatal
// ones are returned to the caller.
type ErrorSink interface {
	Capture(err error)
}

// CreateState is the derived form state for the create path. PublicKeyHex
// and SecretKeyB64 hold the textual encodings of a freshly generated
// keypair as shown to the user.
type CreateState struct {
	Alias        string
	Algorithm    string
	PublicKeyHex string
	SecretKeyB64 string
	DownloadKeys bool
}

// Valid reports the derived validity of the create form.
func (s CreateState) Valid() bool {
	return s.Alias != "" && s.PublicKeyHex != "" && s.SecretKeyB64 != ""
}

// ImportState is the derived form state for the import path. SecretKey
// holds the raw secret-key bytes read from the selected file.
type ImportState struct {
	Alias     string
	FilePath  string
	SecretKey security.Secret
	Algorithm string
}

// Valid reports the derived validity of the import form: a name and a
// selected file are both required.
func (s ImportState) Valid() bool {
	return s.Alias != "" && s.FilePath != ""
}

// Controller runs the create/import workflow against its collaborators.
type Controller struct {
	store     Store
	nav       Navigator
	errs      ErrorSink
	backupDir string
}

// New builds a workflow controller. backupDir is where ExportBackupFiles
// writes key files; errs may be nil when no advisory channel exists (CLI).
func New(store Store, nav Navigator, errs ErrorSink, backupDir string) *Controller {
	return &Controller{store: store, nav: nav, errs: errs, backupDir: backupDir}
}

// CreateAccount validates the create form state, constructs the keypair
// and registers the account. Submission while the form is invalid is a
// silent no-op. A name that matches any existing alias fails with
// *DuplicateNameError before the keypair parser or the store import run.
func (c *Controller) CreateAccount(st CreateState) error {
	if !st.Valid() {
		return nil
	}

	accounts, err := c.store.GetAllAccounts()
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}
	for _, a := range accounts {
		if a.Alias == st.Alias {
			return &DuplicateNameError{Alias: st.Alias}
		}
	}

	algorithm, err := keypair.ParseAlgorithm(st.Algorithm)
	if err != nil {
		return &InvalidAlgorithmError{Algorithm: st.Algorithm}
	}
	tagged, public, err := keypair.DecodePublicKeyHex(st.PublicKeyHex)
	if err != nil {
		return fmt.Errorf("failed to decode public key: %w", err)
	}
	if tagged != algorithm {
		return fmt.Errorf("public key tag %q does not match algorithm %s", st.PublicKeyHex[:2], algorithm)
	}
	secret, err := keypair.DecodeSecretKeyBase64(st.SecretKeyB64)
	if err != nil {
		return fmt.Errorf("failed to decode secret key: %w", err)
	}
	kp, err := keypair.ParseKeyPair(algorithm, public, secret)
	if err != nil {
		return fmt.Errorf("failed to parse keypair: %w", err)
	}

	if st.DownloadKeys {
		// Backup export is advisory: a failed write is surfaced but does
		// not abort account creation.
		if err := c.ExportBackupFiles(st.Alias, kp); err != nil && c.errs != nil {
			c.errs.Capture(fmt.Errorf("backup export for %q failed: %w", st.Alias, err))
		}
	}

	return c.submit(st.Alias, kp.SecretKey(), algorithm, false)
}

// ImportAccount validates the import form state and registers the account
// read from a secret-key file. No duplicate-name pre-check runs on this
// path; the store's unique alias index is the backstop.
func (c *Controller) ImportAccount(st ImportState) error {
	if !st.Valid() {
		return nil
	}

	algorithm, err := keypair.ParseAlgorithm(st.Algorithm)
	if err != nil {
		return &InvalidAlgorithmError{Algorithm: st.Algorithm}
	}

	return c.submit(st.Alias, st.SecretKey, algorithm, true)
}

// submit is the shared tail of both paths: it hands the tuple to the
// store's import capability and, only after that settles successfully,
// performs the push-then-replace navigation to home.
func (c *Controller) submit(alias string, secret security.Secret, algorithm keypair.Algorithm, isImported bool) error {
	var public string
	err := secret.Use(func(b []byte) error {
		kp, err := keypair.FromSecretKey(algorithm, b)
		if err != nil {
			return err
		}
		public = kp.PublicKeyHex()
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to derive public key: %w", err)
	}

	if _, err := c.store.ImportAccount(alias, public, secret, algorithm.String(), isImported); err != nil {
		return fmt.Errorf("failed to register account %q: %w", alias, err)
	}

	if c.nav != nil {
		c.nav.Push(HomeRoute)
		c.nav.Replace(HomeRoute)
	}
	return nil
}
