package tui

import (
	"context"
	"log/slog"
	"time"

	"actividades-cli/internal/controller"
	"actividades-cli/internal/model"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenLogin screen = iota
	screenActivities
	screenAudit
)

type modalKind int

const (
	modalNone modalKind = iota
	modalConfirm
	modalDialog
	modalForm
)

const toastTTL = 4 * time.Second

const msgNoRoleScreen = "Su usuario no tiene una pantalla asignada"

type loginDoneMsg struct {
	form  controller.LoginForm
	route controller.Route
	err   error
	fx    effects
}

type loadedMsg struct {
	err error
	fx  effects
}

type opKind int

const (
	opRemoveOrFinalize opKind = iota
	opSave
	opUsers
)

type opDoneMsg struct {
	op  opKind
	err error
	fx  effects
}

type auditLoadedMsg struct {
	entries []model.AuditEntry
	err     error
	fx      effects
}

type toastExpireMsg struct{ seq int }

type appModel struct {
	ctx  context.Context
	opts Options
	sink *effectSink

	width  int
	height int

	screen screen
	modal  modalKind

	login      *controller.Login
	loginForm  controller.LoginForm
	userInput  textinput.Model
	passInput  textinput.Model
	loginFocus int
	loggingIn  bool
	username   string

	view      *controller.ActivityView
	cols      columns
	list      list.Model
	search    textinput.Model
	searching bool
	loading   bool

	audit    []model.AuditEntry
	auditOff int

	confirms     []pendingConfirm
	confirmFocus confirmModalFocus
	dialogs      []dialogView
	form         activityForm

	toast    *toast
	toastSeq int
}

func newAppModel(ctx context.Context, opts Options) appModel {
	sink := &effectSink{}
	m := appModel{
		ctx:      ctx,
		opts:     opts,
		sink:     sink,
		username: opts.Username,
		login: &controller.Login{
			Auth:     opts.Auth,
			Notifier: sink,
			Router:   sink,
			Dialogs:  sink,
		},
	}

	m.userInput = textinput.New()
	m.userInput.Prompt = ""
	m.userInput.Placeholder = "usuario"
	m.passInput = textinput.New()
	m.passInput.Prompt = ""
	m.passInput.Placeholder = "contraseña"
	m.passInput.EchoMode = textinput.EchoPassword
	m.passInput.EchoCharacter = '•'
	m.userInput.Focus()

	m.search = textinput.New()
	m.search.Prompt = "/ "
	m.search.Placeholder = "buscar"

	if opts.Role != model.RoleUnknown {
		m.enterActivities(opts.Role)
	}
	return m
}

func (m appModel) Init() tea.Cmd {
	if m.screen == screenActivities {
		return m.loadCmd()
	}
	return textinput.Blink
}

// enterActivities switches to the activity view for role with a fresh controller.
func (m *appModel) enterActivities(role model.Role) {
	m.view = controller.NewActivityView(role, controller.Deps{
		Data:      m.opts.Data,
		Notifier:  m.sink,
		Confirmer: m.sink,
		Dialogs:   m.sink,
		Journal:   m.opts.Journal,
	})
	m.cols = columns{responsible: role == model.RoleAdmin}
	m.list = newActivityList(m.cols)
	m.resize()
	m.search.SetValue("")
	m.searching = false
	m.screen = screenActivities
	m.loading = true
}

func (m *appModel) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// title + header + search + footer
	m.list.SetSize(m.width, max(m.height-5, 1))
}

func (m *appModel) refreshList() {
	if m.view == nil {
		return
	}
	idx := m.list.Index()
	m.list.SetItems(toItems(m.view.Displayed()))
	if n := len(m.list.Items()); n > 0 {
		m.list.Select(min(idx, n-1))
	}
}

func (m appModel) selected() *model.Activity {
	it, ok := m.list.SelectedItem().(activityItem)
	if !ok {
		return nil
	}
	a := it.a
	return &a
}

func (m appModel) loadCmd() tea.Cmd {
	ctx, view, sink := m.ctx, m.view, m.sink
	return func() tea.Msg {
		err := view.Load(ctx)
		return loadedMsg{err: err, fx: sink.drain()}
	}
}

func (m appModel) opCmd(op opKind, fn func(ctx context.Context) error) tea.Cmd {
	ctx, sink := m.ctx, m.sink
	return func() tea.Msg {
		err := fn(ctx)
		return opDoneMsg{op: op, err: err, fx: sink.drain()}
	}
}

func (m appModel) loginCmd() tea.Cmd {
	ctx, login, sink := m.ctx, m.login, m.sink
	form := controller.LoginForm{Username: m.userInput.Value(), Password: m.passInput.Value()}
	return func() tea.Msg {
		route, err := login.Submit(ctx, &form)
		return loginDoneMsg{form: form, route: route, err: err, fx: sink.drain()}
	}
}

func (m appModel) auditCmd() tea.Cmd {
	ctx, view, sink := m.ctx, m.view, m.sink
	return func() tea.Msg {
		entries, err := view.Audit(ctx)
		return auditLoadedMsg{entries: entries, err: err, fx: sink.drain()}
	}
}

// applyEffects turns collected controller effects into UI state.
func (m *appModel) applyEffects(fx effects) tea.Cmd {
	var cmds []tea.Cmd
	if fx.route != nil {
		cmds = append(cmds, m.navigate(*fx.route))
	}
	for _, d := range fx.dialogs {
		if dv, ok := dialogFor(d); ok {
			m.dialogs = append(m.dialogs, dv)
		}
	}
	m.confirms = append(m.confirms, fx.confirms...)
	if n := len(fx.toasts); n > 0 {
		for _, t := range fx.toasts[:n-1] {
			slog.DebugContext(m.ctx, "toast superseded", "severity", t.sev.String(), "msg", t.msg)
		}
		cmds = append(cmds, m.showToast(fx.toasts[n-1]))
	}
	m.nextModal()
	return tea.Batch(cmds...)
}

func (m *appModel) navigate(r controller.Route) tea.Cmd {
	var role model.Role
	switch r {
	case controller.RouteAdmin:
		role = model.RoleAdmin
	case controller.RouteExecutor:
		role = model.RoleExecutor
	default:
		m.screen = screenLogin
		return m.showToast(toast{sev: controller.SeverityWarn, msg: msgNoRoleScreen})
	}
	m.enterActivities(role)
	return m.loadCmd()
}

func (m *appModel) showToast(t toast) tea.Cmd {
	m.toast = &t
	m.toastSeq++
	seq := m.toastSeq
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastExpireMsg{seq: seq} })
}

// nextModal opens the next queued confirmation or dialog when no modal is showing.
func (m *appModel) nextModal() {
	if m.modal != modalNone {
		return
	}
	switch {
	case len(m.confirms) > 0:
		m.modal = modalConfirm
		m.confirmFocus = confirmFocusConfirm
	case len(m.dialogs) > 0:
		m.modal = modalDialog
	}
}

func (m *appModel) closeModal() {
	switch m.modal {
	case modalConfirm:
		if len(m.confirms) > 0 {
			m.confirms = m.confirms[1:]
		}
	case modalDialog:
		if len(m.dialogs) > 0 {
			m.dialogs = m.dialogs[1:]
		}
		slog.DebugContext(m.ctx, "dialog closed")
	}
	m.modal = modalNone
	m.nextModal()
}
