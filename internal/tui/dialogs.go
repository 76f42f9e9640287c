package tui

import (
	"fmt"
	"strings"

	"actividades-cli/internal/controller"
	"actividades-cli/internal/model"
	"actividades-cli/internal/statusutil"
)

// dialogView is an informational modal: a title and a markdown body.
type dialogView struct {
	title string
	md    string
}

func dialogFor(d controller.Dialog) (dialogView, bool) {
	switch d.Kind {
	case controller.DialogUserInfo:
		if d.User == nil {
			return dialogView{}, false
		}
		return userDialog(*d.User), true
	case controller.DialogWelcome:
		if d.Welcome == nil {
			return dialogView{}, false
		}
		return dialogView{
			title: "Bienvenido",
			md:    fmt.Sprintf("## ¡Hola, %s!\n\nIngresaste como **%s**.", mdEscape(d.Welcome.Username), d.Welcome.RoleLabel),
		}, true
	default:
		return dialogView{}, false
	}
}

func userDialog(u model.User) dialogView {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", mdEscape(u.Name))
	fmt.Fprintf(&b, "- **ID:** %d\n", u.ID)
	if u.Email != "" {
		fmt.Fprintf(&b, "- **Email:** %s\n", mdEscape(u.Email))
	}
	fmt.Fprintf(&b, "- **Rol:** %s\n", u.Role.Label())
	return dialogView{title: "Información del usuario", md: b.String()}
}

func activityDialog(a model.Activity) dialogView {
	var b strings.Builder
	desc := a.DescriptionText()
	if desc == "" {
		desc = "_Sin descripción_"
	} else {
		desc = mdEscape(desc)
	}
	fmt.Fprintf(&b, "## Actividad %d\n\n%s\n\n", a.ID, desc)
	fmt.Fprintf(&b, "- **Prioridad:** %s\n", orDash(a.Priority))
	fmt.Fprintf(&b, "- **Estado:** %s\n", statusutil.Label(a.State))
	fmt.Fprintf(&b, "- **Responsable:** %s\n", orDash(mdEscape(a.AssignedUserName())))
	return dialogView{title: "Detalle", md: b.String()}
}

func helpDialog(role model.Role) dialogView {
	lines := []string{
		"- `↑/↓` mover   `enter` detalle   `/` buscar   `r` recargar",
		"- `a` administradores   `x` ejecutores",
	}
	switch role {
	case model.RoleAdmin:
		lines = append(lines, "- `n` nueva   `e` editar   `d` eliminar")
	case model.RoleExecutor:
		lines = append(lines, "- `f` finalizar   `d` eliminar   `A` auditoría")
	}
	lines = append(lines, "- `L` cerrar sesión   `q` salir")
	return dialogView{title: "Atajos", md: strings.Join(lines, "\n")}
}

var mdEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "#", `\#`, "[", `\[`, "]", `\]`)

func mdEscape(s string) string { return mdEscaper.Replace(s) }

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
