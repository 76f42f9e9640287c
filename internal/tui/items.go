package tui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"actividades-cli/internal/model"
	"actividades-cli/internal/statusutil"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type activityItem struct {
	a model.Activity
}

func (i activityItem) FilterValue() string { return i.a.DescriptionText() }

func toItems(acts []model.Activity) []list.Item {
	out := make([]list.Item, 0, len(acts))
	for _, a := range acts {
		out = append(out, activityItem{a: a})
	}
	return out
}

// columns describes the activity table layout for one role.
type columns struct {
	responsible bool
}

const (
	colIDW    = 5
	colPrioW  = 10
	colStateW = 12
	colRespW  = 14
	colGap    = 2
)

func (c columns) descWidth(total int) int {
	fixed := 2 + colIDW + colPrioW + colStateW + 3*colGap
	if c.responsible {
		fixed += colRespW + colGap
	}
	return max(total-fixed, 8)
}

func (c columns) header(width int) string {
	cells := []string{
		"  " + fitLine("ID", colIDW),
		fitLine("Descripción", c.descWidth(width)),
		fitLine("Prioridad", colPrioW),
		fitLine("Estado", colStateW),
	}
	if c.responsible {
		cells = append(cells, fitLine("Responsable", colRespW))
	}
	return styleHeader().Render(strings.Join(cells, strings.Repeat(" ", colGap)))
}

func (c columns) row(a model.Activity, width int, selected bool) string {
	cursor := "  "
	if selected {
		cursor = glyphCursor() + " "
	}
	state := fitLine(statusutil.Label(a.State), colStateW)
	if !selected {
		state = stateStyle(a.State).Render(state)
	}
	cells := []string{
		cursor + fitLine(strconv.FormatInt(a.ID, 10), colIDW),
		fitLine(a.DescriptionText(), c.descWidth(width)),
		fitLine(a.Priority, colPrioW),
		state,
	}
	if c.responsible {
		resp := a.Responsible
		if resp == "" {
			resp = "-"
		}
		cells = append(cells, fitLine(resp, colRespW))
	}
	return strings.Join(cells, strings.Repeat(" ", colGap))
}

type activityDelegate struct {
	cols     columns
	selected lipgloss.Style
}

func newActivityDelegate(cols columns) activityDelegate {
	return activityDelegate{
		cols: cols,
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
	}
}

func (d activityDelegate) Height() int                             { return 1 }
func (d activityDelegate) Spacing() int                            { return 0 }
func (d activityDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d activityDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(activityItem)
	if !ok || m.Width() < 4 {
		return
	}
	selected := index == m.Index()
	line := fitLine(d.cols.row(it.a, m.Width(), selected), m.Width())
	if selected {
		line = d.selected.Render(line)
	}
	fmt.Fprint(w, line)
}

func newActivityList(cols columns) list.Model {
	l := list.New(nil, newActivityDelegate(cols), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	return l
}
