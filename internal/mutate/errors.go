package mutate

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

var (
	ErrTitleRequired    = errors.New("title required")
	ErrNameRequired     = errors.New("name required")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidDate      = errors.New("invalid date (want YYYY-MM-DD)")
	ErrInvalidValue     = errors.New("invalid value")
	ErrNotRecurring     = errors.New("task is not recurring")
	ErrDuplicateProject = errors.New("project name already exists")
	ErrTaskDeleted      = errors.New("task is deleted")
	ErrTemplateStep     = errors.New("recurring task steps are toggled per occurrence")
)

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}
