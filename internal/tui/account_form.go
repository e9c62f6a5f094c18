// Copyright (c) 2026 ToeiRei
// Signet - keypair wallet account manager
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"

	"github.com/toeirei/signet/internal/i18n"
	"github.com/toeirei/signet/internal/keypair"
	"github.com/toeirei/signet/internal/model"
	"github.com/toeirei/signet/internal/wallet"
)

type formMode int

const (
	formModeCreate formMode = iota
	formModeImport
)

// openFormMsg asks the main model to switch to the account form.
type openFormMsg struct {
	mode formMode
}

// closeFormMsg asks the main model to leave the form without saving.
type closeFormMsg struct{}

// keypairGeneratedMsg carries a freshly generated preview keypair.
type keypairGeneratedMsg struct {
	kp  keypair.KeyPair
	err error
}

// keyFileLoadedMsg carries a secret key parsed from a picked file.
type keyFileLoadedMsg struct {
	path string
	kp   keypair.KeyPair
	err  error
}

// accountSavedMsg reports a completed create or import, together with the
// navigation calls and advisory errors the workflow produced.
type accountSavedMsg struct {
	alias      string
	nav        []string
	advisories []string
}

// Focus slots of the create form.
const (
	createFocusAlias = iota
	createFocusAlgorithm
	createFocusDownload
	createFocusSubmit
	createFocusCount
)

// Focus slots of the import form.
const (
	importFocusAlias = iota
	importFocusFile
	importFocusAlgorithm
	importFocusSubmit
	importFocusCount
)

// accountFormModel is the create/import form for wallet accounts.
type accountFormModel struct {
	mode       formMode
	focusIndex int

	aliasInput textinput.Model
	algorithm  keypair.Algorithm
	download   bool

	// Create mode preview.
	generated *keypair.KeyPair
	reveal    revealState
	dialog    *confirmDialog

	// Import mode.
	picker     filepicker.Model
	pickerOpen bool
	filePath   string
	fileKey    *keypair.KeyPair

	errText string
	width   int
	height  int
}

func newAccountFormModel(mode formMode) *accountFormModel {
	alias := textinput.New()
	alias.Placeholder = i18n.T("form.alias_placeholder")
	alias.CharLimit = 64
	alias.Focus()

	fp := filepicker.New()
	fp.AllowedTypes = []string{".pem", ".key"}
	fp.ShowHidden = false

	return &accountFormModel{
		mode:       mode,
		aliasInput: alias,
		algorithm:  keypair.Ed25519,
		picker:     fp,
	}
}

func (m *accountFormModel) Init() tea.Cmd {
	if m.mode == formModeCreate {
		return generateKeypairCmd(m.algorithm)
	}
	return m.picker.Init()
}

func generateKeypairCmd(alg keypair.Algorithm) tea.Cmd {
	return func() tea.Msg {
		kp, err := keypair.Generate(alg)
		return keypairGeneratedMsg{kp: kp, err: err}
	}
}

func loadKeyFileCmd(path string, fallback keypair.Algorithm) tea.Cmd {
	return func() tea.Msg {
		kp, err := keypair.ReadSecretKeyFile(path, fallback)
		return keyFileLoadedMsg{path: path, kp: kp, err: err}
	}
}

// submitCreateCmd runs the create workflow against the live store and
// reports the outcome, including the recorded navigation.
func submitCreateCmd(st wallet.CreateState) tea.Cmd {
	return func() tea.Msg {
		rec := &navRecorder{}
		sink := &sinkRecorder{}
		c := wallet.New(dbStore{}, rec, sink, viper.GetString("backup_dir"))
		if err := c.CreateAccount(st); err != nil {
			return errMsg{err}
		}
		return accountSavedMsg{alias: st.Alias, nav: rec.calls, advisories: sink.texts()}
	}
}

func submitImportCmd(st wallet.ImportState) tea.Cmd {
	return func() tea.Msg {
		rec := &navRecorder{}
		sink := &sinkRecorder{}
		c := wallet.New(dbStore{}, rec, sink, viper.GetString("backup_dir"))
		if err := c.ImportAccount(st); err != nil {
			return errMsg{err}
		}
		return accountSavedMsg{alias: st.Alias, nav: rec.calls, advisories: sink.texts()}
	}
}

func (m *accountFormModel) cycleAlgorithm(delta int) {
	algs := keypair.Algorithms()
	idx := 0
	for i, a := range algs {
		if a == m.algorithm {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(algs)) % len(algs)
	m.algorithm = algs[idx]
}

func (m *accountFormModel) focusCount() int {
	if m.mode == formModeCreate {
		return createFocusCount
	}
	return importFocusCount
}

func (m *accountFormModel) setFocus(idx int) tea.Cmd {
	m.focusIndex = idx
	aliasFocus := (m.mode == formModeCreate && idx == createFocusAlias) ||
		(m.mode == formModeImport && idx == importFocusAlias)
	if aliasFocus {
		return m.aliasInput.Focus()
	}
	m.aliasInput.Blur()
	return nil
}

func (m *accountFormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.Height = max(5, msg.Height-10)
		return m, nil

	case keypairGeneratedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		kp := msg.kp
		m.generated = &kp
		m.reveal.Hide()
		return m, nil

	case keyFileLoadedMsg:
		if msg.err != nil {
			m.errText = msg.err.Error()
			return m, nil
		}
		kp := msg.kp
		m.filePath = msg.path
		m.fileKey = &kp
		m.algorithm = kp.Algorithm()
		m.pickerOpen = false
		m.errText = ""
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
		if msg.tag != dialogTagReveal {
			m.dialog = nil
			return m, nil
		}
		if !msg.confirmed {
			m.dialog = nil
			return m, nil
		}
		return m, verifyPassphraseCmd(msg.passphrase)

	case errMsg:
		var dup *wallet.DuplicateNameError
		var badAlg *wallet.InvalidAlgorithmError
		switch {
		case errors.As(msg.err, &dup):
			m.errText = i18n.T("form.duplicate_alias", dup.Alias)
		case errors.As(msg.err, &badAlg):
			m.errText = i18n.T("form.invalid_algorithm", badAlg.Algorithm)
		default:
			m.errText = msg.err.Error()
		}
		return m, nil
	}

	if m.dialog != nil {
		return m, m.dialog.Update(msg)
	}

	if m.pickerOpen {
		return m.updatePicker(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(keyMsg)
	}
	return m, nil
}

func (m *accountFormModel) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.pickerOpen = false
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m, tea.Batch(cmd, loadKeyFileCmd(path, m.algorithm))
	}
	return m, cmd
}

func (m *accountFormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m, func() tea.Msg { return closeFormMsg{} }

	case "tab", "down":
		return m, m.setFocus((m.focusIndex + 1) % m.focusCount())

	case "shift+tab", "up":
		return m, m.setFocus((m.focusIndex - 1 + m.focusCount()) % m.focusCount())

	case "left", "right":
		delta := 1
		if msg.String() == "left" {
			delta = -1
		}
		if m.mode == formModeCreate && m.focusIndex == createFocusAlgorithm {
			m.cycleAlgorithm(delta)
			return m, generateKeypairCmd(m.algorithm)
		}
		if m.mode == formModeImport && m.focusIndex == importFocusAlgorithm {
			m.cycleAlgorithm(delta)
			return m, nil
		}

	case " ":
		if m.mode == formModeCreate && m.focusIndex == createFocusDownload {
			m.download = !m.download
			return m, nil
		}

	case "r":
		if m.mode == formModeCreate && m.generated != nil && m.focusIndex != createFocusAlias {
			if m.reveal.Revealed() {
				return m, nil
			}
			m.dialog = newConfirmDialog(
				i18n.T("accounts.reveal_title"),
				i18n.T("form.reveal_message"),
				i18n.T("dialog.confirm"),
				i18n.T("dialog.cancel"),
				true,
				dialogTagReveal,
			)
			return m, nil
		}

	case "enter":
		if m.mode == formModeImport && m.focusIndex == importFocusFile {
			m.pickerOpen = true
			return m, m.picker.Init()
		}
		if m.focusIndex == m.focusCount()-1 {
			return m, m.submit()
		}
		return m, m.setFocus((m.focusIndex + 1) % m.focusCount())
	}

	if m.aliasInput.Focused() {
		var cmd tea.Cmd
		m.aliasInput, cmd = m.aliasInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// submit assembles the workflow state and hands it to the controller. An
// incomplete form is a silent no-op, matching the controller's own gate.
func (m *accountFormModel) submit() tea.Cmd {
	alias := strings.TrimSpace(m.aliasInput.Value())

	if m.mode == formModeCreate {
		if m.generated == nil {
			return nil
		}
		st := wallet.CreateState{
			Alias:        alias,
			Algorithm:    m.algorithm.String(),
			PublicKeyHex: m.generated.PublicKeyHex(),
			SecretKeyB64: keypair.EncodeSecretKeyBase64(m.generated.SecretKey()),
			DownloadKeys: m.download,
		}
		if !st.Valid() {
			return nil
		}
		return submitCreateCmd(st)
	}

	if m.fileKey == nil {
		return nil
	}
	st := wallet.ImportState{
		Alias:     alias,
		FilePath:  m.filePath,
		SecretKey: m.fileKey.SecretKey(),
		Algorithm: m.algorithm.String(),
	}
	if !st.Valid() {
		return nil
	}
	return submitImportCmd(st)
}

func (m *accountFormModel) View() string {
	if m.dialog != nil {
		return m.dialog.View()
	}
	if m.pickerOpen {
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render(i18n.T("form.pick_file")),
			m.picker.View(),
			footerStyle.Render(i18n.T("form.picker_help")),
		)
	}

	title := i18n.T("form.create_title")
	if m.mode == formModeImport {
		title = i18n.T("form.import_title")
	}

	var rows []string
	rows = append(rows, mainTitleStyle.Render(title))
	rows = append(rows, m.renderField(0, i18n.T("form.alias"), m.aliasInput.View()))

	if m.mode == formModeCreate {
		rows = append(rows,
			m.renderField(createFocusAlgorithm, i18n.T("form.algorithm"), "◂ "+m.algorithm.String()+" ▸"),
		)
		if m.generated != nil {
			pub := m.generated.PublicKeyHex()
			rows = append(rows, helpStyle.Render(i18n.T("accounts.public_key"))+" "+model.AbbreviateKey(pub))
			secret := i18n.T("accounts.secret_hidden")
			if m.reveal.Revealed() {
				secret = specialStyle.Render(keypair.EncodeSecretKeyBase64(m.generated.SecretKey()))
			}
			rows = append(rows, helpStyle.Render(i18n.T("accounts.secret_key"))+" "+secret)
		}
		download := "[ ]"
		if m.download {
			download = "[x]"
		}
		rows = append(rows,
			m.renderField(createFocusDownload, i18n.T("form.download"), download),
			m.renderField(createFocusSubmit, "", buttonFor(m.focusIndex == createFocusSubmit, i18n.T("form.submit_create"))),
		)
	} else {
		file := m.filePath
		if file == "" {
			file = i18n.T("form.no_file")
		}
		rows = append(rows,
			m.renderField(importFocusFile, i18n.T("form.key_file"), file),
			m.renderField(importFocusAlgorithm, i18n.T("form.algorithm"), "◂ "+m.algorithm.String()+" ▸"),
			m.renderField(importFocusSubmit, "", buttonFor(m.focusIndex == importFocusSubmit, i18n.T("form.submit_import"))),
		)
	}

	rows = append(rows, "", footerStyle.Render(i18n.T("form.footer")))
	if m.errText != "" {
		rows = append(rows, errorStyle.Render(i18n.T("error.prefix", m.errText)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *accountFormModel) renderField(idx int, label, value string) string {
	line := value
	if label != "" {
		line = label + " " + value
	}
	if m.focusIndex == idx {
		return formSelectedItemStyle.Render("▸ " + line)
	}
	return formItemStyle.Render("  " + line)
}

func buttonFor(active bool, label string) string {
	if active {
		return activeButtonStyle.Render(label)
	}
	return buttonStyle.Render(label)
}
