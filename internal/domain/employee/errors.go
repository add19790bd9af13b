package employee

import "errors"

var (
	ErrInvalidStatus = errors.New("status must be one of: Active, Probation, Notice, Inactive")
)
