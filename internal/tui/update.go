package tui

import (
	"context"
	"errors"
	"log/slog"

	"actividades-cli/internal/controller"
	"actividades-cli/internal/model"

	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case toastExpireMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case loginDoneMsg:
		m.loggingIn = false
		m.loginForm = msg.form
		if msg.err == nil {
			m.username = msg.form.Username
			m.passInput.SetValue("")
		}
		return m, m.applyEffects(msg.fx)

	case loadedMsg:
		m.loading = false
		m.refreshList()
		return m, m.applyEffects(msg.fx)

	case opDoneMsg:
		if msg.op == opSave && m.modal == modalForm {
			m.form.saving = false
			if msg.err == nil || !errors.Is(msg.err, controller.ErrValidation) {
				m.modal = modalNone
			}
		}
		m.refreshList()
		return m, m.applyEffects(msg.fx)

	case auditLoadedMsg:
		m.loading = false
		if msg.err == nil {
			m.audit = msg.entries
			m.auditOff = 0
			m.screen = screenAudit
		}
		return m, m.applyEffects(msg.fx)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.modal {
		case modalConfirm:
			return m.updateConfirm(msg)
		case modalDialog:
			switch msg.String() {
			case "enter", "esc", "q", " ":
				m.closeModal()
			}
			return m, nil
		case modalForm:
			return m.updateForm(msg)
		}
		switch m.screen {
		case screenLogin:
			return m.updateLogin(msg)
		case screenAudit:
			return m.updateAudit(msg)
		default:
			return m.updateActivities(msg)
		}
	}

	if m.screen == screenLogin {
		return m.updateLoginInputs(msg)
	}
	return m, nil
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "esc", "n":
		m.closeModal()
		return m, nil
	case "y", "s":
		m.confirmFocus = confirmFocusConfirm
		fallthrough
	case "enter":
		if len(m.confirms) == 0 {
			m.closeModal()
			return m, nil
		}
		pc := m.confirms[0]
		accepted := m.confirmFocus == confirmFocusConfirm
		m.closeModal()
		if !accepted {
			return m, nil
		}
		return m, m.opCmd(opRemoveOrFinalize, func(ctx context.Context) error {
			pc.accept(ctx)
			return nil
		})
	}
	return m, nil
}

func (m appModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.form.saving {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		m.nextModal()
		return m, nil
	case "tab", "down":
		m.form.setFocus(m.form.focus + 1)
		return m, nil
	case "shift+tab", "up":
		m.form.setFocus(m.form.focus - 1)
		return m, nil
	case "ctrl+n":
		m.form.cycleState()
		return m, nil
	case "enter":
		f, err := m.form.value()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.form.err = ""
		m.form.saving = true
		view, target := m.view, m.form.target
		return m, m.opCmd(opSave, func(ctx context.Context) error {
			if target == nil {
				_, err := view.Create(ctx, f)
				return err
			}
			return view.Edit(ctx, target, f)
		})
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m appModel) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loggingIn {
		return m, nil
	}
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "tab", "shift+tab", "up", "down":
		m.loginFocus = 1 - m.loginFocus
		if m.loginFocus == 0 {
			m.passInput.Blur()
			return m, m.userInput.Focus()
		}
		m.userInput.Blur()
		return m, m.passInput.Focus()
	case "enter":
		m.loggingIn = true
		return m, m.loginCmd()
	}
	return m.updateLoginInputs(msg)
}

func (m appModel) updateLoginInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.loginFocus == 0 {
		m.userInput, cmd = m.userInput.Update(msg)
		m.loginForm.Username = m.userInput.Value()
	} else {
		m.passInput, cmd = m.passInput.Update(msg)
		m.loginForm.Password = m.passInput.Value()
	}
	return m, cmd
}

func (m appModel) updateAudit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "esc", "backspace":
		m.screen = screenActivities
	case "r":
		m.loading = true
		return m, m.auditCmd()
	case "down", "j":
		if m.auditOff < len(m.audit)-1 {
			m.auditOff++
		}
	case "up", "k":
		if m.auditOff > 0 {
			m.auditOff--
		}
	}
	return m, nil
}

func (m appModel) updateActivities(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch msg.String() {
		case "esc":
			m.search.SetValue("")
			m.view.Search("")
			m.searching = false
			m.search.Blur()
			m.refreshList()
			return m, nil
		case "enter":
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.view.Search(m.search.Value())
		m.refreshList()
		return m, cmd
	}

	role := m.view.Role()
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.searching = true
		return m, m.search.Focus()
	case "r":
		m.loading = true
		return m, m.loadCmd()
	case "enter":
		if sel := m.selected(); sel != nil {
			m.dialogs = append(m.dialogs, activityDialog(*sel))
			m.nextModal()
		}
		return m, nil
	case "?":
		m.dialogs = append(m.dialogs, helpDialog(role))
		m.nextModal()
		return m, nil
	case "d":
		m.view.ConfirmRemove(m.selected())
		return m, m.applyEffects(m.sink.drain())
	case "f":
		if !m.view.Can(controller.ActionFinalize) {
			return m, nil
		}
		m.view.ConfirmFinalize(m.selected())
		return m, m.applyEffects(m.sink.drain())
	case "n":
		if !m.view.Can(controller.ActionCreate) {
			return m, nil
		}
		m.form = newActivityForm(nil)
		m.modal = modalForm
		return m, textinputBlink()
	case "e":
		if !m.view.Can(controller.ActionEdit) {
			return m, nil
		}
		sel := m.selected()
		if !m.view.RequireSelection(controller.ActionEdit, sel) {
			return m, m.applyEffects(m.sink.drain())
		}
		m.form = newActivityForm(sel)
		m.modal = modalForm
		return m, textinputBlink()
	case "a", "x":
		target := model.RoleAdmin
		if msg.String() == "x" {
			target = model.RoleExecutor
		}
		view := m.view
		return m, m.opCmd(opUsers, func(ctx context.Context) error {
			_, err := view.ShowUsersByRole(ctx, target)
			return err
		})
	case "A":
		if !m.view.Can(controller.ActionAudit) {
			return m, nil
		}
		m.loading = true
		return m, m.auditCmd()
	case "L":
		if m.opts.Logout != nil {
			if err := m.opts.Logout(); err != nil {
				slog.ErrorContext(m.ctx, "logout failed", "err", err)
			}
		}
		m.view = nil
		m.screen = screenLogin
		m.loginFocus = 0
		m.passInput.Blur()
		return m, m.userInput.Focus()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}
