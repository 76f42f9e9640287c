package format

import (
	"encoding/json"
	"strconv"
	"time"

	"actividades-cli/internal/model"
	"actividades-cli/internal/statusutil"
	"actividades-cli/internal/store"

	"github.com/fatih/color"
)

var (
	pendingPaint    = color.New(color.FgYellow)
	inProgressPaint = color.New(color.FgCyan)
	finalizedPaint  = color.New(color.FgGreen)
	dimPaint        = color.New(color.Faint)
	errorPaint      = color.New(color.FgRed)
)

// StatePaint returns the colour used for s in tables.
func StatePaint(s model.State) *color.Color {
	switch s {
	case model.StatePending:
		return pendingPaint
	case model.StateInProgress:
		return inProgressPaint
	case model.StateFinalized:
		return finalizedPaint
	default:
		return nil
	}
}

// Activities is an activity listing. Admin listings include the Responsable column.
type Activities struct {
	Items           []model.Activity
	ShowResponsible bool
}

func (a Activities) MarshalJSON() ([]byte, error) {
	if a.Items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a.Items)
}

func (a Activities) Table() TableData {
	t := TableData{
		Headers:   []string{"ID", "Descripción", "Prioridad", "Estado"},
		MaxWidths: []int{0, 48, 12, 0, 24},
	}
	if a.ShowResponsible {
		t.Headers = append(t.Headers, "Responsable")
	}
	for _, it := range a.Items {
		row := []Cell{
			{Text: strconv.FormatInt(it.ID, 10)},
			{Text: it.DescriptionText()},
			{Text: it.Priority},
			{Text: statusutil.Label(it.State), Paint: StatePaint(it.State)},
		}
		if a.ShowResponsible {
			resp := Cell{Text: it.Responsible}
			if resp.Text == "" {
				resp = Cell{Text: "-", Paint: dimPaint}
			}
			row = append(row, resp)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

type Users []model.User

func (u Users) Table() TableData {
	t := TableData{Headers: []string{"ID", "Usuario", "Email", "Rol"}}
	for _, it := range u {
		t.Rows = append(t.Rows, []Cell{
			{Text: strconv.FormatInt(it.ID, 10)},
			{Text: it.Name},
			{Text: it.Email},
			{Text: it.Role.Label()},
		})
	}
	return t
}

type Audit []model.AuditEntry

func (a Audit) Table() TableData {
	t := TableData{
		Headers:   []string{"ID", "Actividad", "Estado", "Usuario", "Fecha", "Descripción"},
		MaxWidths: []int{0, 0, 0, 16, 0, 40},
	}
	for _, it := range a {
		at := ""
		if !it.ChangedAt.IsZero() {
			at = it.ChangedAt.Local().Format("2006-01-02 15:04")
		}
		t.Rows = append(t.Rows, []Cell{
			{Text: strconv.FormatInt(it.ID, 10)},
			{Text: strconv.FormatInt(it.ActivityID, 10)},
			{Text: statusutil.Label(it.State), Paint: StatePaint(it.State)},
			{Text: it.UserName},
			{Text: at},
			{Text: it.Description},
		})
	}
	return t
}

type Journal []store.JournalEntry

func (j Journal) Table() TableData {
	t := TableData{
		Headers:   []string{"ID", "Fecha", "Acción", "Actividad", "Rol", "Resultado", "Detalle"},
		MaxWidths: []int{0, 0, 0, 0, 0, 0, 48},
	}
	for _, e := range j {
		id := "-"
		if e.ActivityID != nil {
			id = strconv.FormatInt(*e.ActivityID, 10)
		}
		outcome := Cell{Text: e.Outcome, Paint: finalizedPaint}
		if e.Outcome != store.OutcomeOK {
			outcome.Paint = errorPaint
		}
		t.Rows = append(t.Rows, []Cell{
			{Text: e.ID, Paint: dimPaint},
			{Text: e.At.Local().Format(time.DateTime)},
			{Text: e.Action},
			{Text: id},
			{Text: e.Role},
			outcome,
			{Text: e.Detail},
		})
	}
	return t
}
