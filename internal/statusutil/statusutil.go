package statusutil

import (
	"fmt"
	"strings"

	"actividades-cli/internal/model"
)

// NormalizeState maps user input (Spanish wire names, English aliases, any case)
// to a model.State. Empty input defaults to PENDIENTE.
func NormalizeState(s string) (model.State, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "PENDIENTE", "PENDING", "TODO":
		return model.StatePending, nil
	case "EN_PROGRESO", "EN PROGRESO", "IN_PROGRESS", "DOING":
		return model.StateInProgress, nil
	case "FINALIZADO", "FINALIZED", "DONE":
		return model.StateFinalized, nil
	default:
		return "", fmt.Errorf("invalid state: %q", s)
	}
}

// Label is the short human label used in tables.
func Label(s model.State) string {
	switch s {
	case model.StatePending:
		return "Pendiente"
	case model.StateInProgress:
		return "En progreso"
	case model.StateFinalized:
		return "Finalizado"
	case "":
		return "-"
	default:
		return string(s)
	}
}

// KnownStates lists the states offered by pickers, in workflow order.
func KnownStates() []model.State {
	return []model.State{model.StatePending, model.StateInProgress, model.StateFinalized}
}

// Next cycles through KnownStates; unknown states restart at PENDIENTE.
func Next(s model.State) model.State {
	states := KnownStates()
	for i, st := range states {
		if st == s {
			return states[(i+1)%len(states)]
		}
	}
	return model.StatePending
}
