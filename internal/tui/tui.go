// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

// Package tui is the interactive terminal frontend of Signet. It hosts a
// small view router on top of bubbletea: the accounts list is the home
// view and the account form is pushed on top of it.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/toeirei/signet/internal/db"
	"github.com/toeirei/signet/internal/i18n"
	"github.com/toeirei/signet/internal/model"
	"github.com/toeirei/signet/internal/security"
	"github.com/toeirei/signet/internal/wallet"
)

// errMsg routes any failure into the currently visible view.
type errMsg struct {
	err error
}

// captureErr runs fn and turns a failure into an errMsg. On success the
// optional follow-up command runs instead.
func captureErr(fn func() error, then tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return errMsg{err}
		}
		if then == nil {
			return nil
		}
		return then()
	}
}

// dbStore adapts the package-level db accessors to the workflow
// controller's store interface.
type dbStore struct{}

func (dbStore) GetAllAccounts() ([]model.Account, error) {
	return db.GetAllAccounts()
}

func (dbStore) ImportAccount(alias, publicKey string, secret security.Secret, algorithm string, isImported bool) (int, error) {
	return db.ImportAccount(alias, publicKey, secret, algorithm, isImported)
}

// navRecorder collects the controller's navigation calls so the main
// model can apply them after the workflow command returns.
type navRecorder struct {
	calls []string
}

func (n *navRecorder) Push(route string)    { n.calls = append(n.calls, "push:"+route) }
func (n *navRecorder) Replace(route string) { n.calls = append(n.calls, "replace:"+route) }

// sinkRecorder collects advisory errors for display in the status line.
type sinkRecorder struct {
	errs []error
}

func (s *sinkRecorder) Capture(err error) { s.errs = append(s.errs, err) }

func (s *sinkRecorder) texts() []string {
	out := make([]string, 0, len(s.errs))
	for _, err := range s.errs {
		out = append(out, err.Error())
	}
	return out
}

// mainModel routes between the views and owns the navigation stack.
type mainModel struct {
	stack  []tea.Model
	width  int
	height int
}

func newMainModel() *mainModel {
	return &mainModel{stack: []tea.Model{newAccountsModel()}}
}

func (m *mainModel) top() tea.Model {
	return m.stack[len(m.stack)-1]
}

func (m *mainModel) push(v tea.Model) tea.Cmd {
	m.stack = append(m.stack, v)
	return tea.Batch(v.Init(), m.resize())
}

func (m *mainModel) replace(v tea.Model) tea.Cmd {
	m.stack[len(m.stack)-1] = v
	return tea.Batch(v.Init(), m.resize())
}

func (m *mainModel) pop() tea.Cmd {
	if len(m.stack) > 1 {
		m.stack = m.stack[:len(m.stack)-1]
	}
	return m.resize()
}

func (m *mainModel) resize() tea.Cmd {
	if m.width == 0 {
		return nil
	}
	w, h := m.width, m.height
	return func() tea.Msg { return tea.WindowSizeMsg{Width: w, Height: h} }
}

func (m *mainModel) Init() tea.Cmd {
	return m.top().Init()
}

func (m *mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if msg.String() == "q" {
			if _, ok := m.top().(*accountsModel); ok {
				return m, tea.Quit
			}
		}

	case openFormMsg:
		return m, m.push(newAccountFormModel(msg.mode))

	case closeFormMsg:
		return m, tea.Batch(m.pop(), loadAccountsCmd())

	case accountSavedMsg:
		return m, m.applySaved(msg)
	}

	top, cmd := m.top().Update(msg)
	m.stack[len(m.stack)-1] = top
	return m, cmd
}

// applySaved replays the navigation the workflow recorded. A push of the
// home route swaps in a fresh accounts view and the trailing replace
// collapses the history onto it, so backing out of the form afterwards is
// impossible.
func (m *mainModel) applySaved(msg accountSavedMsg) tea.Cmd {
	var cmds []tea.Cmd
	for _, call := range msg.nav {
		route := strings.TrimPrefix(strings.TrimPrefix(call, "push:"), "replace:")
		if route != wallet.HomeRoute {
			continue
		}
		if strings.HasPrefix(call, "push:") {
			cmds = append(cmds, m.push(newAccountsModel()))
		} else {
			m.stack = m.stack[:1]
			cmds = append(cmds, m.replace(newAccountsModel()))
		}
	}
	status := i18n.T("accounts.saved", msg.alias)
	if len(msg.advisories) > 0 {
		status = status + " " + i18n.T("accounts.saved_advisory", strings.Join(msg.advisories, "; "))
	}
	cmds = append(cmds, func() tea.Msg { return statusMsg{text: status} })
	return tea.Batch(cmds...)
}

func (m *mainModel) View() string {
	return m.top().View()
}

// Run starts the interactive interface. The database must be initialized
// before calling it.
func Run() error {
	if !db.IsInitialized() {
		return fmt.Errorf("database not initialized")
	}
	p := tea.NewProgram(newMainModel(), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
