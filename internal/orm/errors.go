package orm

import (
	stderrors "errors"
	"fmt"
)

// ErrNotFound matches every NotFoundError.
var ErrNotFound = stderrors.New("node not found")

// NotFoundError is returned by FindOrFail when no node has the identity.
type NotFoundError struct {
	Schema string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cannot find %s node %s", e.Schema, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
