// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/chatterm/internal/api"
	"github.com/jeranaias/chatterm/internal/auth"
	"github.com/jeranaias/chatterm/internal/ui/styles"
)

// =============================================================================
// AUTH VIEW
// =============================================================================

type authTab int

const (
	authTabLogin authTab = iota
	authTabRegister
)

// Field order matches the server's registration payload so field-level
// validation errors line up with inputs by key.
var registerFieldKeys = []string{
	"username", "email", "password", "password2", "first_name", "last_name",
}

var registerFieldLabels = []string{
	"Username", "Email", "Password", "Confirm password", "First name", "Last name",
}

var loginFieldKeys = []string{"username", "password"}

var loginFieldLabels = []string{"Username", "Password"}

// authModel hosts the login and register forms.
type authModel struct {
	theme *styles.Theme
	keys  KeyMap

	tab        authTab
	login      []textinput.Model
	register   []textinput.Model
	focus      int
	submitting bool

	formError   string
	fieldErrors map[string][]string
}

func newAuthModel(theme *styles.Theme, keys KeyMap) authModel {
	m := authModel{theme: theme, keys: keys}
	m.login = buildInputs(loginFieldLabels, map[int]bool{1: true})
	m.register = buildInputs(registerFieldLabels, map[int]bool{2: true, 3: true})
	return m
}

func buildInputs(labels []string, masked map[int]bool) []textinput.Model {
	inputs := make([]textinput.Model, len(labels))
	for i := range labels {
		ti := textinput.New()
		ti.CharLimit = 150
		ti.Width = 32
		if masked[i] {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '*'
		}
		inputs[i] = ti
	}
	return inputs
}

func (m *authModel) inputs() []textinput.Model {
	if m.tab == authTabRegister {
		return m.register
	}
	return m.login
}

func (m *authModel) setTab(tab authTab) {
	m.tab = tab
	m.focus = 0
	m.formError = ""
	m.fieldErrors = nil
	m.applyFocus()
}

// reset clears both forms. Called when the view is entered.
func (m *authModel) reset() {
	for i := range m.login {
		m.login[i].Reset()
	}
	for i := range m.register {
		m.register[i].Reset()
	}
	m.focus = 0
	m.submitting = false
	m.formError = ""
	m.fieldErrors = nil
	m.applyFocus()
}

func (m *authModel) focusFirst() tea.Cmd {
	m.focus = 0
	return m.applyFocus()
}

func (m *authModel) applyFocus() tea.Cmd {
	var cmd tea.Cmd
	inputs := m.inputs()
	for i := range inputs {
		if i == m.focus {
			cmd = inputs[i].Focus()
		} else {
			inputs[i].Blur()
		}
	}
	return cmd
}

// applyFailure surfaces a failed auth result in the form.
func (m *authModel) applyFailure(res auth.Result) {
	m.submitting = false
	m.formError = res.Message
	m.fieldErrors = res.FieldErrors
}

func (m *authModel) handleKey(a *App, msg tea.KeyMsg) tea.Cmd {
	if m.submitting {
		return nil
	}

	switch {
	case keyMatches(msg, m.keys.SwitchAuthTab):
		if m.tab == authTabLogin {
			m.setTab(authTabRegister)
		} else {
			m.setTab(authTabLogin)
		}
		return m.applyFocus()

	case keyMatches(msg, m.keys.ClosePanel):
		return a.navigate(ViewLanding)

	case keyMatches(msg, m.keys.NextField), msg.String() == "down":
		m.focus = (m.focus + 1) % len(m.inputs())
		return m.applyFocus()

	case msg.String() == "shift+tab", msg.String() == "up":
		m.focus--
		if m.focus < 0 {
			m.focus = len(m.inputs()) - 1
		}
		return m.applyFocus()

	case keyMatches(msg, m.keys.Submit):
		return m.submit(a)
	}

	inputs := m.inputs()
	var cmd tea.Cmd
	inputs[m.focus], cmd = inputs[m.focus].Update(msg)
	return cmd
}

func (m *authModel) update(msg tea.Msg) tea.Cmd {
	inputs := m.inputs()
	cmds := make([]tea.Cmd, 0, len(inputs))
	for i := range inputs {
		var cmd tea.Cmd
		inputs[i], cmd = inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (m *authModel) submit(a *App) tea.Cmd {
	m.formError = ""
	m.fieldErrors = nil

	if m.tab == authTabLogin {
		username := strings.TrimSpace(m.login[0].Value())
		password := m.login[1].Value()
		if username == "" || password == "" {
			m.formError = "Username and password are required"
			return nil
		}
		m.submitting = true
		return a.loginCmd(username, password)
	}

	req := api.RegisterRequest{
		Username:  strings.TrimSpace(m.register[0].Value()),
		Email:     strings.TrimSpace(m.register[1].Value()),
		Password:  m.register[2].Value(),
		Password2: m.register[3].Value(),
		FirstName: strings.TrimSpace(m.register[4].Value()),
		LastName:  strings.TrimSpace(m.register[5].Value()),
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		m.formError = "Username, email and password are required"
		return nil
	}
	if req.Password != req.Password2 {
		m.fieldErrors = map[string][]string{"password2": {"Passwords do not match"}}
		return nil
	}
	m.submitting = true
	return a.registerCmd(req)
}

// =============================================================================
// RENDERING
// =============================================================================

func (m *authModel) view(a *App) string {
	t := m.theme

	title := "Log in"
	keys := loginFieldKeys
	labels := loginFieldLabels
	hint := "C-r register   Tab next field   Enter submit   Esc back"
	if m.tab == authTabRegister {
		title = "Create an account"
		keys = registerFieldKeys
		labels = registerFieldLabels
		hint = "C-r log in   Tab next field   Enter submit   Esc back"
	}

	inputs := m.inputs()

	var b strings.Builder
	b.WriteString(t.FormTitle.Render(title))
	b.WriteString("\n")

	for i := range inputs {
		b.WriteString(t.FieldLabel.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(inputs[i].View())
		b.WriteString("\n")
		for _, fe := range m.fieldErrors[keys[i]] {
			b.WriteString(t.FieldError.Render("  " + fe))
			b.WriteString("\n")
		}
	}

	if m.formError != "" {
		b.WriteString("\n")
		b.WriteString(t.FormError.Render(m.formError))
		b.WriteString("\n")
	}
	if m.submitting {
		b.WriteString("\n")
		b.WriteString(t.FormHint.Render("Submitting..."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(t.FormHint.Render(hint))

	content := b.String()
	if a.width > 0 && a.height > 0 {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, content)
	}
	return content
}
