package plan

import "errors"

// Domain validation errors
var (
	ErrNoDays         = errors.New("plan has no days")
	ErrInvalidTargets = errors.New("all four macro targets must be positive")
)
