package cli

import (
	"errors"
	"fmt"
)

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

// errNoRole is returned when the stored session carries neither known role.
var errNoRole = errors.New("session has no activities role (expected ADMINISTRADOR or EJECUTOR)")

// errCancelled is returned when the user rejects a confirmation prompt.
var errCancelled = errors.New("cancelled")

// errActionFailed is returned after the failure was already reported on stderr.
var errActionFailed = errors.New("action failed")
