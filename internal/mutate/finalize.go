package mutate

import "actividades-cli/internal/model"

// Finalize computes the edit payload that moves selected to FINALIZADO.
//
// Any prior state is accepted, including an already finalized one. The selected
// record is not modified and no I/O happens here; callers send the payload.
func Finalize(selected *model.Activity) (model.EditPayload, error) {
	if selected == nil {
		return model.EditPayload{}, ErrNoSelection
	}
	p := model.EditPayload{
		ID:          selected.ID,
		Description: selected.DescriptionText(),
		Priority:    selected.Priority,
		State:       model.StateFinalized,
	}
	if selected.CurrentUser != nil {
		id := selected.CurrentUser.ID
		p.AssignedUserID = &id
	}
	return p, nil
}
