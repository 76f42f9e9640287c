package tui

import (
	"errors"
	"strconv"
	"strings"

	"actividades-cli/internal/controller"
	"actividades-cli/internal/model"
	"actividades-cli/internal/mutate"
	"actividades-cli/internal/statusutil"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldDescription = iota
	fieldPriority
	fieldState
	fieldAssignee
	fieldCount
)

var fieldLabels = [fieldCount]string{"Descripción", "Prioridad", "Estado (ctrl+n cambia)", "ID usuario asignado"}

var errBadAssignee = errors.New("ID de usuario inválido")

// activityForm is the create/edit modal state.
type activityForm struct {
	target *model.Activity // nil when creating
	inputs [fieldCount]textinput.Model
	focus  int
	saving bool
	err    string
}

func newActivityForm(target *model.Activity) activityForm {
	f := activityForm{target: target}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 500
		f.inputs[i] = in
	}
	f.inputs[fieldPriority].Placeholder = "Alta | Media | Baja"
	f.inputs[fieldState].Placeholder = string(model.StatePending)
	f.inputs[fieldAssignee].Placeholder = "vacío = sin asignar"

	seed := mutate.Form{State: string(model.StatePending)}
	if target != nil {
		seed = mutate.FormFromActivity(*target)
	}
	f.inputs[fieldDescription].SetValue(seed.Description)
	f.inputs[fieldPriority].SetValue(seed.Priority)
	f.inputs[fieldState].SetValue(seed.State)
	if seed.AssignedUserID != nil {
		f.inputs[fieldAssignee].SetValue(strconv.FormatInt(*seed.AssignedUserID, 10))
	}
	f.inputs[fieldDescription].Focus()
	return f
}

func (f activityForm) title() string {
	if f.target == nil {
		return "Nueva actividad"
	}
	return "Editar actividad " + strconv.FormatInt(f.target.ID, 10)
}

func (f *activityForm) setFocus(i int) {
	f.inputs[f.focus].Blur()
	f.focus = (i + fieldCount) % fieldCount
	f.inputs[f.focus].Focus()
}

func (f *activityForm) cycleState() {
	cur, err := statusutil.NormalizeState(f.inputs[fieldState].Value())
	if err != nil {
		cur = ""
	}
	f.inputs[fieldState].SetValue(string(statusutil.Next(cur)))
	f.inputs[fieldState].CursorEnd()
}

// value reads the inputs. Only the assignee id is checked here; the rest is
// validated by the controller.
func (f activityForm) value() (mutate.Form, error) {
	out := mutate.Form{
		Description: f.inputs[fieldDescription].Value(),
		Priority:    f.inputs[fieldPriority].Value(),
		State:       f.inputs[fieldState].Value(),
	}
	if raw := strings.TrimSpace(f.inputs[fieldAssignee].Value()); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return out, errBadAssignee
		}
		out.AssignedUserID = &id
	}
	return out, nil
}

func (f activityForm) update(msg tea.Msg) (activityForm, tea.Cmd) {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f activityForm) view(screenW int) string {
	bodyW := modalBodyWidth(screenW)
	var parts []string
	for i := range f.inputs {
		invalid := i == fieldDescription && strings.TrimSpace(f.inputs[i].Value()) == "" && f.err != ""
		parts = append(parts, renderInputLine(bodyW, fieldLabels[i], f.inputs[i].View(), invalid))
	}
	if f.err != "" {
		parts = append(parts, severityStyle(controller.SeverityError).Render(f.err))
	}
	help := "tab: siguiente   enter: guardar   esc: cancelar"
	if f.saving {
		help = "Guardando…"
	}
	parts = append(parts, "", styleMuted().Render(help))
	return renderModalBox(screenW, f.title(), strings.Join(parts, "\n"))
}

func textinputBlink() tea.Cmd { return textinput.Blink }
