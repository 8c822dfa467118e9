package shapes

import "errors"

var (
	// ErrBadSize reports a board dimension outside [1, MaxWidth/MaxHeight].
	ErrBadSize = errors.New("shapes: board dimensions out of range")

	// ErrTooManyConstraints reports an attempt to grow a constraint list past MaxConstraints.
	ErrTooManyConstraints = errors.New("shapes: too many constraints")

	// ErrBadBoardString reports a malformed board-string encoding.
	ErrBadBoardString = errors.New("shapes: invalid board string")
)
