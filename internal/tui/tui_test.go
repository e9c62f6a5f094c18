// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/toeirei/signet/internal/db"
	"github.com/toeirei/signet/internal/keypair"
	"github.com/toeirei/signet/internal/model"
	"github.com/toeirei/signet/internal/security"
)

// fakeDBStore implements db.Store in memory for view tests.
type fakeDBStore struct {
	accounts []model.Account
	salt     []byte
	hash     []byte
	deleted  []int
	nextID   int
}

func (f *fakeDBStore) GetAllAccounts() ([]model.Account, error) {
	return append([]model.Account(nil), f.accounts...), nil
}

func (f *fakeDBStore) GetAccountByAlias(alias string) (*model.Account, error) {
	for i := range f.accounts {
		if f.accounts[i].Alias == alias {
			return &f.accounts[i], nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeDBStore) ImportAccount(alias, publicKey string, secret security.Secret, algorithm string, isImported bool) (int, error) {
	for _, a := range f.accounts {
		if a.Alias == alias {
			return 0, db.ErrDuplicate
		}
	}
	f.nextID++
	f.accounts = append(f.accounts, model.Account{
		ID:         f.nextID,
		Alias:      alias,
		Algorithm:  algorithm,
		PublicKey:  publicKey,
		SecretKey:  secret,
		IsImported: isImported,
	})
	return f.nextID, nil
}

func (f *fakeDBStore) DeleteAccount(id int) error {
	f.deleted = append(f.deleted, id)
	out := f.accounts[:0]
	for _, a := range f.accounts {
		if a.ID != id {
			out = append(out, a)
		}
	}
	f.accounts = out
	return nil
}

func (f *fakeDBStore) RenameAccount(id int, alias string) error { return nil }

func (f *fakeDBStore) SetPassphraseVerifier(salt, hash []byte) error {
	f.salt, f.hash = salt, hash
	return nil
}

func (f *fakeDBStore) GetPassphraseVerifier() ([]byte, []byte, error) {
	return f.salt, f.hash, nil
}

func (f *fakeDBStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) { return nil, nil }
func (f *fakeDBStore) LogAction(action, details string) error                { return nil }

func useFakeStore(t *testing.T) *fakeDBStore {
	t.Helper()
	f := &fakeDBStore{}
	db.SetStore(f)
	t.Cleanup(func() { db.SetStore(nil) })
	return f
}

// drain runs a command tree and collects the produced messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg == nil {
		return nil
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func keyPress(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	panic("unsupported key in test: " + s)
}

func seedAccount(t *testing.T, f *fakeDBStore, alias string) model.Account {
	t.Helper()
	kp, err := keypair.Generate(keypair.Ed25519)
	if err != nil {
		t.Fatal(err)
	}
	id, err := f.ImportAccount(alias, kp.PublicKeyHex(), kp.SecretKey(), keypair.Ed25519.String(), false)
	if err != nil {
		t.Fatal(err)
	}
	return f.accounts[id-1]
}

func TestAccountsLoadAndRender(t *testing.T) {
	f := useFakeStore(t)
	seedAccount(t, f, "alice")
	seedAccount(t, f, "bob")

	m := newAccountsModel()
	for _, msg := range drain(m.Init()) {
		m.Update(msg)
	}

	view := m.View()
	if !strings.Contains(view, "alice") || !strings.Contains(view, "bob") {
		t.Fatalf("view should list both accounts:\n%s", view)
	}
}

func TestAccountsRevealWithoutPassphraseConfigured(t *testing.T) {
	f := useFakeStore(t)
	a := seedAccount(t, f, "alice")

	m := newAccountsModel()
	for _, msg := range drain(m.Init()) {
		m.Update(msg)
	}

	m.Update(keyPress("r"))
	if m.dialog == nil {
		t.Fatal("reveal should open the confirmation dialog")
	}

	// Confirm with an empty passphrase; no verifier is configured so the
	// reveal goes through.
	_, cmd := m.Update(confirmResultMsg{confirmed: true, tag: dialogTagReveal})
	for _, msg := range drain(cmd) {
		_, next := m.Update(msg)
		// revealAuthorizedMsg yields the tick command; do not run it, the
		// reveal flag is already set.
		_ = next
	}

	if !m.reveal.Revealed() {
		t.Fatal("secret should be revealed after confirmation")
	}
	if !strings.Contains(m.View(), keypair.EncodeSecretKeyBase64(a.SecretKey)) {
		t.Fatal("revealed secret should be visible in the view")
	}

	// A second reveal request while visible is a no-op.
	_, cmd = m.Update(keyPress("r"))
	if cmd != nil {
		t.Fatal("re-entrant reveal should do nothing")
	}
	if m.dialog != nil {
		t.Fatal("re-entrant reveal should not reopen the dialog")
	}
}

func TestAccountsRevealWrongPassphrase(t *testing.T) {
	f := useFakeStore(t)
	seedAccount(t, f, "alice")
	salt, hash, err := security.HashPassphrase(security.FromString("correct horse"))
	if err != nil {
		t.Fatal(err)
	}
	f.salt, f.hash = salt, hash

	m := newAccountsModel()
	for _, msg := range drain(m.Init()) {
		m.Update(msg)
	}
	m.Update(keyPress("r"))

	_, cmd := m.Update(confirmResultMsg{
		confirmed:  true,
		passphrase: security.FromString("wrong"),
		tag:        dialogTagReveal,
	})
	for _, msg := range drain(cmd) {
		m.Update(msg)
	}

	if m.reveal.Revealed() {
		t.Fatal("wrong passphrase must not reveal")
	}
	if m.dialog == nil || m.dialog.errText == "" {
		t.Fatal("dialog should stay open with an error")
	}
}

func TestAccountsDeleteConfirmed(t *testing.T) {
	f := useFakeStore(t)
	a := seedAccount(t, f, "alice")

	m := newAccountsModel()
	for _, msg := range drain(m.Init()) {
		m.Update(msg)
	}

	m.Update(keyPress("d"))
	if m.dialog == nil {
		t.Fatal("delete should ask for confirmation")
	}
	_, cmd := m.Update(confirmResultMsg{confirmed: true, tag: dialogTagDelete})
	for _, msg := range drain(cmd) {
		m.Update(msg)
	}

	if len(f.deleted) != 1 || f.deleted[0] != a.ID {
		t.Fatalf("expected account %d deleted, got %v", a.ID, f.deleted)
	}
	if len(m.accounts) != 0 {
		t.Fatal("view should reload without the deleted account")
	}
}

func TestAccountsDeleteCancelled(t *testing.T) {
	f := useFakeStore(t)
	seedAccount(t, f, "alice")

	m := newAccountsModel()
	for _, msg := range drain(m.Init()) {
		m.Update(msg)
	}
	m.Update(keyPress("d"))
	_, cmd := m.Update(confirmResultMsg{confirmed: false, tag: dialogTagDelete})
	for _, msg := range drain(cmd) {
		m.Update(msg)
	}

	if len(f.deleted) != 0 {
		t.Fatal("cancelled delete must not touch the store")
	}
}

func TestFormCreateSubmitNavigatesHome(t *testing.T) {
	f := useFakeStore(t)

	m := newAccountFormModel(formModeCreate)
	for _, msg := range drain(m.Init()) {
		m.Update(msg)
	}
	if m.generated == nil {
		t.Fatal("create form should generate a preview keypair")
	}

	m.aliasInput.SetValue("fresh")
	cmd := m.submit()
	if cmd == nil {
		t.Fatal("complete form should submit")
	}
	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	saved, ok := msgs[0].(accountSavedMsg)
	if !ok {
		t.Fatalf("expected accountSavedMsg, got %T", msgs[0])
	}
	if saved.alias != "fresh" {
		t.Fatalf("unexpected alias %q", saved.alias)
	}
	want := []string{"push:accounts", "replace:accounts"}
	if len(saved.nav) != 2 || saved.nav[0] != want[0] || saved.nav[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, saved.nav)
	}

	if len(f.accounts) != 1 || f.accounts[0].IsImported {
		t.Fatalf("store should hold one created account, got %+v", f.accounts)
	}
}

func TestFormCreateDuplicateShowsError(t *testing.T) {
	f := useFakeStore(t)
	seedAccount(t, f, "taken")

	m := newAccountFormModel(formModeCreate)
	for _, msg := range drain(m.Init()) {
		m.Update(msg)
	}
	m.aliasInput.SetValue("taken")

	for _, msg := range drain(m.submit()) {
		m.Update(msg)
	}

	if m.errText == "" {
		t.Fatal("duplicate alias should surface an inline error")
	}
	if len(f.accounts) != 1 {
		t.Fatal("duplicate submit must not add an account")
	}
}

func TestFormEmptyAliasIsNoop(t *testing.T) {
	useFakeStore(t)

	m := newAccountFormModel(formModeCreate)
	for _, msg := range drain(m.Init()) {
		m.Update(msg)
	}
	if cmd := m.submit(); cmd != nil {
		t.Fatal("incomplete form should be a silent no-op")
	}
}

func TestFormImportSkipsDuplicateCheck(t *testing.T) {
	f := useFakeStore(t)
	seedAccount(t, f, "taken")

	kp, err := keypair.Generate(keypair.Ed25519)
	if err != nil {
		t.Fatal(err)
	}

	m := newAccountFormModel(formModeImport)
	m.aliasInput.SetValue("taken")
	m.filePath = "/tmp/key.pem"
	m.fileKey = &kp
	m.algorithm = keypair.Ed25519

	msgs := drain(m.submit())
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	// The import path performs no duplicate-name check; the store itself
	// rejects the alias and the error surfaces as-is.
	if _, ok := msgs[0].(errMsg); !ok {
		t.Fatalf("expected errMsg from the store, got %T", msgs[0])
	}
}

func TestFormImportSubmit(t *testing.T) {
	f := useFakeStore(t)

	kp, err := keypair.Generate(keypair.Secp256k1)
	if err != nil {
		t.Fatal(err)
	}

	m := newAccountFormModel(formModeImport)
	m.aliasInput.SetValue("restored")
	m.filePath = "/tmp/key.pem"
	m.fileKey = &kp
	m.algorithm = keypair.Secp256k1

	msgs := drain(m.submit())
	saved, ok := msgs[0].(accountSavedMsg)
	if !ok {
		t.Fatalf("expected accountSavedMsg, got %T", msgs[0])
	}
	if saved.nav[len(saved.nav)-1] != "replace:accounts" {
		t.Fatalf("import should land on home, got %v", saved.nav)
	}
	if len(f.accounts) != 1 || !f.accounts[0].IsImported {
		t.Fatalf("imported account should be flagged, got %+v", f.accounts)
	}
}

func TestFormAlgorithmCycleRegenerates(t *testing.T) {
	useFakeStore(t)

	m := newAccountFormModel(formModeCreate)
	for _, msg := range drain(m.Init()) {
		m.Update(msg)
	}
	first := m.generated.PublicKeyHex()

	m.setFocus(createFocusAlgorithm)
	_, cmd := m.Update(keyPress("right"))
	for _, msg := range drain(cmd) {
		m.Update(msg)
	}

	if m.algorithm != keypair.Secp256k1 {
		t.Fatalf("expected secp256k1 after cycling, got %v", m.algorithm)
	}
	if m.generated.PublicKeyHex() == first {
		t.Fatal("cycling the algorithm should regenerate the preview")
	}
}

func TestMainModelFormRoundtrip(t *testing.T) {
	f := useFakeStore(t)
	seedAccount(t, f, "alice")

	m := newMainModel()
	for _, msg := range drain(m.Init()) {
		m.Update(msg)
	}

	// Open the create form.
	_, cmd := m.Update(openFormMsg{mode: formModeCreate})
	if _, ok := m.top().(*accountFormModel); !ok {
		t.Fatalf("expected form on top, got %T", m.top())
	}
	for _, msg := range drain(cmd) {
		m.Update(msg)
	}

	// A completed save replays push+replace of the home route; the net
	// result is a single accounts view with no form left to go back to.
	_, cmd = m.Update(accountSavedMsg{alias: "fresh", nav: []string{"push:accounts", "replace:accounts"}})
	for _, msg := range drain(cmd) {
		m.Update(msg)
	}

	if len(m.stack) != 1 {
		t.Fatalf("expected collapsed stack, got %d entries", len(m.stack))
	}
	if _, ok := m.top().(*accountsModel); !ok {
		t.Fatalf("expected accounts view on top, got %T", m.top())
	}
}

func TestMainModelEscClosesForm(t *testing.T) {
	f := useFakeStore(t)
	seedAccount(t, f, "alice")

	m := newMainModel()
	for _, msg := range drain(m.Init()) {
		m.Update(msg)
	}
	m.Update(openFormMsg{mode: formModeImport})

	_, cmd := m.Update(closeFormMsg{})
	for _, msg := range drain(cmd) {
		m.Update(msg)
	}

	if _, ok := m.top().(*accountsModel); !ok {
		t.Fatalf("expected accounts view after esc, got %T", m.top())
	}
}
