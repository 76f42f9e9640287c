package mutate

import "errors"

// ErrNoSelection is returned when an action needs a selected activity and none is given.
var ErrNoSelection = errors.New("no activity selected")

// ErrDescriptionRequired is returned when a create/edit form has no description.
var ErrDescriptionRequired = errors.New("description required")
