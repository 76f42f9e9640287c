package mutate

import (
	"strings"

	"actividades-cli/internal/model"
	"actividades-cli/internal/statusutil"
)

// Form holds the editable fields of the create/edit activity dialog.
type Form struct {
	Description    string
	Priority       string
	State          string
	AssignedUserID *int64
}

// FormFromActivity seeds a Form from an existing record (edit flow).
func FormFromActivity(a model.Activity) Form {
	f := Form{
		Description: a.DescriptionText(),
		Priority:    a.Priority,
		State:       string(a.State),
	}
	if a.CurrentUser != nil {
		id := a.CurrentUser.ID
		f.AssignedUserID = &id
	}
	return f
}

// Create validates f and builds the POST payload. New activities default to PENDIENTE.
func Create(f Form) (model.CreatePayload, error) {
	desc, prio, state, err := normalizeForm(f)
	if err != nil {
		return model.CreatePayload{}, err
	}
	return model.CreatePayload{
		Description:    desc,
		AssignedUserID: f.AssignedUserID,
		Priority:       prio,
		State:          state,
	}, nil
}

// Edit validates f and builds the PUT payload for selected.
func Edit(selected *model.Activity, f Form) (model.EditPayload, error) {
	if selected == nil {
		return model.EditPayload{}, ErrNoSelection
	}
	desc, prio, state, err := normalizeForm(f)
	if err != nil {
		return model.EditPayload{}, err
	}
	return model.EditPayload{
		ID:             selected.ID,
		Description:    desc,
		AssignedUserID: f.AssignedUserID,
		Priority:       prio,
		State:          state,
	}, nil
}

func normalizeForm(f Form) (string, string, model.State, error) {
	desc := strings.TrimSpace(f.Description)
	if desc == "" {
		return "", "", "", ErrDescriptionRequired
	}
	prio := strings.TrimSpace(f.Priority)
	state, err := statusutil.NormalizeState(f.State)
	if err != nil {
		return "", "", "", err
	}
	return desc, prio, state, nil
}
