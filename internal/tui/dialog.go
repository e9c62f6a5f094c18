// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/toeirei/signet/internal/i18n"
	"github.com/toeirei/signet/internal/security"
)

// confirmResultMsg reports the outcome of a confirm dialog interaction.
// Passphrase carries the entered passphrase when the dialog required one;
// the owner of the dialog is responsible for verifying it.
type confirmResultMsg struct {
	confirmed  bool
	passphrase security.Secret
	tag        string // identifies which confirmation this was
}

// confirmDialog is a modal dialog with a message, confirm/cancel buttons
// and an optional passphrase field.
type confirmDialog struct {
	title           string
	message         string
	confirmLabel    string
	cancelLabel     string
	requirePassword bool
	password        textinput.Model
	cursorOnConfirm bool
	errText         string
	tag             string
}

// newConfirmDialog builds a modal confirmation. When requirePassword is
// set, the dialog shows a no-echo passphrase input that must be filled
// before confirming.
func newConfirmDialog(title, message, confirmLabel, cancelLabel string, requirePassword bool, tag string) *confirmDialog {
	pw := textinput.New()
	pw.Prompt = i18n.T("dialog.passphrase_prompt") + " "
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.CharLimit = 128
	pw.Width = 32
	if requirePassword {
		pw.Focus()
	}
	return &confirmDialog{
		title:           title,
		message:         message,
		confirmLabel:    confirmLabel,
		cancelLabel:     cancelLabel,
		requirePassword: requirePassword,
		password:        pw,
		tag:             tag,
	}
}

// SetError displays an inline error (e.g. wrong passphrase) and clears the
// password field for another attempt.
func (d *confirmDialog) SetError(text string) {
	d.errText = text
	d.password.SetValue("")
}

// Update handles dialog key events. It returns a command carrying the
// confirmResultMsg once the user decides.
func (d *confirmDialog) Update(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		d.password, cmd = d.password.Update(msg)
		return cmd
	}

	switch keyMsg.String() {
	case "esc":
		return func() tea.Msg { return confirmResultMsg{confirmed: false, tag: d.tag} }
	case "tab", "right", "left", "shift+tab":
		d.cursorOnConfirm = !d.cursorOnConfirm
		return nil
	case "enter":
		if !d.cursorOnConfirm && !d.requirePassword {
			return func() tea.Msg { return confirmResultMsg{confirmed: false, tag: d.tag} }
		}
		// With a password field, enter submits; without one it activates
		// the selected button.
		if d.requirePassword {
			pass := security.FromString(d.password.Value())
			return func() tea.Msg { return confirmResultMsg{confirmed: true, passphrase: pass, tag: d.tag} }
		}
		return func() tea.Msg { return confirmResultMsg{confirmed: true, tag: d.tag} }
	}

	if d.requirePassword {
		var cmd tea.Cmd
		d.password, cmd = d.password.Update(msg)
		return cmd
	}
	return nil
}

// View renders the dialog box.
func (d *confirmDialog) View() string {
	var rows []string
	rows = append(rows, titleStyle.Render(d.title), "")
	rows = append(rows, d.message)

	if d.requirePassword {
		rows = append(rows, "", d.password.View())
	}
	if d.errText != "" {
		rows = append(rows, "", errorStyle.Render(d.errText))
	}

	cancel := buttonStyle.Render(d.cancelLabel)
	confirm := buttonStyle.Render(d.confirmLabel)
	if d.cursorOnConfirm {
		confirm = activeButtonStyle.Render(d.confirmLabel)
	} else {
		cancel = activeButtonStyle.Render(d.cancelLabel)
	}
	rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cancel, "  ", confirm))
	rows = append(rows, "", helpStyle.Render(i18n.T("dialog.help")))

	return dialogBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
