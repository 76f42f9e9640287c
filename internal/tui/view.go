package tui

import (
	"fmt"
	"strconv"
	"strings"

	"actividades-cli/internal/statusutil"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if box := m.modalView(); box != "" {
		return overlay(m.width, m.height, box)
	}

	var body string
	switch m.screen {
	case screenLogin:
		body = m.loginView()
	case screenAudit:
		body = m.auditView()
	default:
		body = m.activitiesView()
	}
	bodyH := max(m.height-2, 1)
	return lipgloss.JoinVertical(lipgloss.Left,
		fitLine(m.titleBar(), m.width),
		normalizePane(body, m.width, bodyH),
		m.footer(),
	)
}

func (m appModel) titleBar() string {
	parts := []string{"Actividades"}
	if m.view != nil && m.screen != screenLogin {
		parts = append(parts, m.view.Role().Label())
		if m.username != "" {
			parts = append(parts, m.username)
		}
	}
	title := styleTitleBar().Render(strings.Join(parts, " · "))
	if m.loading {
		title += " " + styleMuted().Render("cargando…")
	}
	return title
}

func (m appModel) footer() string {
	if m.toast != nil {
		st := severityStyle(m.toast.sev)
		return fitLine(st.Render(glyphSeverity(m.toast.sev.String())+" ")+m.toast.msg, m.width)
	}
	hint := "?: atajos   q: salir"
	switch m.screen {
	case screenLogin:
		hint = "tab: cambiar campo   enter: ingresar   esc: salir"
	case screenAudit:
		hint = "↑/↓: mover   r: recargar   esc: volver"
	}
	return fitLine(styleMuted().Render(hint), m.width)
}

func (m appModel) loginView() string {
	w := min(max(m.width-8, 30), 50)
	userLabel := "Usuario"
	passLabel := "Contraseña"
	var lines []string
	lines = append(lines, renderInputLine(w, userLabel, m.userInput.View(), m.loginForm.UsernameError()))
	lines = append(lines, "")
	lines = append(lines, renderInputLine(w, passLabel, m.passInput.View(), m.loginForm.PasswordError()))
	if m.loggingIn {
		lines = append(lines, "", styleMuted().Render("Autenticando…"))
	}
	box := renderModalBox(w+4, "Iniciar sesión", strings.Join(lines, "\n"))
	return lipgloss.Place(m.width, max(m.height-2, 1), lipgloss.Center, lipgloss.Center, box)
}

func (m appModel) activitiesView() string {
	searchLine := styleMuted().Render("/ buscar")
	if m.searching || m.search.Value() != "" {
		searchLine = m.search.View()
	}
	count := styleMuted().Render(fmt.Sprintf("%d de %d", len(m.list.Items()), len(m.view.Canonical())))
	top := searchLine + "  " + count

	var listView string
	if len(m.list.Items()) == 0 && !m.loading {
		listView = styleMuted().Render("  Sin actividades")
	} else {
		listView = m.list.View()
	}
	return strings.Join([]string{
		top,
		m.cols.header(m.width),
		listView,
	}, "\n")
}

func (m appModel) auditView() string {
	lines := []string{styleHeader().Render(auditRow("ID", "Act.", "Estado", "Usuario", "Fecha", "Descripción"))}
	if len(m.audit) == 0 {
		lines = append(lines, styleMuted().Render("Sin registros de auditoría"))
	}
	for i := m.auditOff; i < len(m.audit); i++ {
		e := m.audit[i]
		at := ""
		if !e.ChangedAt.IsZero() {
			at = e.ChangedAt.Local().Format("2006-01-02 15:04")
		}
		lines = append(lines, auditRow(
			strconv.FormatInt(e.ID, 10),
			strconv.FormatInt(e.ActivityID, 10),
			stateStyle(e.State).Render(fitLine(statusutil.Label(e.State), 12)),
			e.UserName,
			at,
			e.Description,
		))
	}
	return strings.Join(lines, "\n")
}

func auditRow(id, act, state, user, at, desc string) string {
	return strings.Join([]string{
		fitLine(id, 5),
		fitLine(act, 5),
		fitLine(state, 12),
		fitLine(user, 14),
		fitLine(at, 16),
		desc,
	}, "  ")
}

func (m appModel) modalView() string {
	switch m.modal {
	case modalConfirm:
		if len(m.confirms) == 0 {
			return ""
		}
		p := m.confirms[0].prompt
		return renderConfirmModal(m.width, p.Header, p.Message, p.AcceptLabel, p.RejectLabel, m.confirmFocus)
	case modalDialog:
		if len(m.dialogs) == 0 {
			return ""
		}
		d := m.dialogs[0]
		body := renderMarkdown(d.md, modalBodyWidth(m.width))
		help := styleMuted().Render("enter/esc: cerrar")
		if n := len(m.dialogs); n > 1 {
			help += styleMuted().Render(fmt.Sprintf("   (%d más)", n-1))
		}
		return renderModalBox(m.width, d.title, body+"\n\n"+help)
	case modalForm:
		return m.form.view(m.width)
	}
	return ""
}
