// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/toeirei/signet/internal/db"
	"github.com/toeirei/signet/internal/i18n"
	"github.com/toeirei/signet/internal/keypair"
	"github.com/toeirei/signet/internal/model"
	"github.com/toeirei/signet/internal/security"
)

// accountsLoadedMsg delivers the account list to the accounts view.
type accountsLoadedMsg struct {
	accounts []model.Account
	err      error
}

// statusMsg shows a transient one-line status in the footer.
type statusMsg struct {
	text string
}

// revealAuthorizedMsg signals that the reveal confirmation succeeded.
type revealAuthorizedMsg struct{}

// revealDeniedMsg signals a wrong passphrase on the reveal confirmation.
type revealDeniedMsg struct{}

// Dialog tags used by the accounts view.
const (
	dialogTagReveal = "reveal"
	dialogTagDelete = "delete"
)

// accountsModel is the home view: the list of wallet accounts with the
// reveal, copy and delete interactions.
type accountsModel struct {
	accounts []model.Account
	cursor   int
	reveal   revealState
	dialog   *confirmDialog
	status   string
	errText  string
	width    int
	height   int
}

func newAccountsModel() *accountsModel {
	return &accountsModel{}
}

func (m *accountsModel) Init() tea.Cmd {
	return loadAccountsCmd()
}

// loadAccountsCmd fetches all accounts from the store.
func loadAccountsCmd() tea.Cmd {
	return func() tea.Msg {
		accounts, err := db.GetAllAccounts()
		return accountsLoadedMsg{accounts: accounts, err: err}
	}
}

// verifyPassphraseCmd checks an entered passphrase against the stored
// verifier. When no passphrase has been configured the reveal is allowed
// through without one.
func verifyPassphraseCmd(pass security.Secret) tea.Cmd {
	return func() tea.Msg {
		salt, hash, err := db.GetPassphraseVerifier()
		if err != nil {
			return errMsg{err}
		}
		if salt == nil && hash == nil {
			return revealAuthorizedMsg{}
		}
		if security.VerifyPassphrase(pass, salt, hash) {
			return revealAuthorizedMsg{}
		}
		return revealDeniedMsg{}
	}
}

// copyPublicKeyCmd puts the selected account's public key on the system
// clipboard.
func copyPublicKeyCmd(a model.Account) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(a.PublicKey); err != nil {
			return errMsg{fmt.Errorf("clipboard: %w", err)}
		}
		return statusMsg{text: i18n.T("accounts.copied", a.Alias)}
	}
}

func (m *accountsModel) selected() *model.Account {
	if m.cursor < 0 || m.cursor >= len(m.accounts) {
		return nil
	}
	return &m.accounts[m.cursor]
}

func (m *accountsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case accountsLoadedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		m.accounts = msg.accounts
		if m.cursor >= len(m.accounts) {
			m.cursor = max(0, len(m.accounts)-1)
		}
		return m, nil

	case statusMsg:
		m.status = msg.text
		m.errText = ""
		return m, nil

	case errMsg:
		m.errText = msg.err.Error()
		return m, nil

	case revealHideMsg:
		m.reveal.HandleHide(msg)
		return m, nil

	case revealAuthorizedMsg:
		m.dialog = nil
		return m, m.reveal.Reveal()

	case revealDeniedMsg:
		if m.dialog != nil {
			m.dialog.SetError(i18n.T("dialog.wrong_passphrase"))
		}
		return m, nil

	case confirmResultMsg:
		return m.handleConfirm(msg)
	}

	// A modal dialog swallows everything else while open.
	if m.dialog != nil {
		return m, m.dialog.Update(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}
	return m, nil
}

func (m *accountsModel) handleConfirm(msg confirmResultMsg) (tea.Model, tea.Cmd) {
	switch msg.tag {
	case dialogTagReveal:
		if !msg.confirmed {
			m.dialog = nil
			return m, nil
		}
		return m, verifyPassphraseCmd(msg.passphrase)

	case dialogTagDelete:
		m.dialog = nil
		if !msg.confirmed {
			return m, nil
		}
		a := m.selected()
		if a == nil {
			return m, nil
		}
		id := a.ID
		return m, captureErr(func() error {
			return db.DeleteAccount(id)
		}, loadAccountsCmd())
	}
	m.dialog = nil
	return m, nil
}

func (m *accountsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.reveal.Hide()
		}
	case "down", "j":
		if m.cursor < len(m.accounts)-1 {
			m.cursor++
			m.reveal.Hide()
		}
	case "n":
		return m, func() tea.Msg { return openFormMsg{mode: formModeCreate} }
	case "i":
		return m, func() tea.Msg { return openFormMsg{mode: formModeImport} }
	case "r":
		if m.selected() == nil {
			return m, nil
		}
		// Re-entrant reveal requests are no-ops while the secret is
		// already visible.
		if m.reveal.Revealed() {
			return m, nil
		}
		m.dialog = newConfirmDialog(
			i18n.T("accounts.reveal_title"),
			i18n.T("accounts.reveal_message", m.selected().Alias),
			i18n.T("dialog.confirm"),
			i18n.T("dialog.cancel"),
			true,
			dialogTagReveal,
		)
		return m, nil
	case "esc":
		m.reveal.Hide()
	case "c":
		if a := m.selected(); a != nil {
			return m, copyPublicKeyCmd(*a)
		}
	case "d":
		if a := m.selected(); a != nil {
			m.dialog = newConfirmDialog(
				i18n.T("accounts.delete_title"),
				i18n.T("accounts.delete_message", a.Alias),
				i18n.T("dialog.confirm"),
				i18n.T("dialog.cancel"),
				false,
				dialogTagDelete,
			)
		}
	}
	return m, nil
}

func (m *accountsModel) View() string {
	if m.dialog != nil {
		return m.dialog.View()
	}

	var rows []string
	rows = append(rows, mainTitleStyle.Render("🔏 "+i18n.T("accounts.title")))

	if len(m.accounts) == 0 {
		rows = append(rows, helpStyle.Render(i18n.T("accounts.empty")), "")
	}
	for i, a := range m.accounts {
		origin := ""
		if a.IsImported {
			origin = " " + specialStyle.Render(i18n.T("accounts.imported_tag"))
		}
		line := fmt.Sprintf("%-20s %-10s %s%s", a.Alias, a.Algorithm, model.AbbreviateKey(a.PublicKey), origin)
		if i == m.cursor {
			rows = append(rows, selectedItemStyle.Render("▸ "+line))
		} else {
			rows = append(rows, itemStyle.Render("  "+line))
		}
	}

	if a := m.selected(); a != nil {
		rows = append(rows, "", helpStyle.Render(i18n.T("accounts.public_key"))+" "+a.PublicKey)
		secret := i18n.T("accounts.secret_hidden")
		if m.reveal.Revealed() {
			secret = specialStyle.Render(keypair.EncodeSecretKeyBase64(a.SecretKey))
		}
		rows = append(rows, helpStyle.Render(i18n.T("accounts.secret_key"))+" "+secret)
	}

	footer := i18n.T("accounts.footer")
	if m.status != "" {
		footer = m.status
	}
	rows = append(rows, "", footerStyle.Render(footer))
	if m.errText != "" {
		rows = append(rows, errorStyle.Render(i18n.T("error.prefix", m.errText)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
