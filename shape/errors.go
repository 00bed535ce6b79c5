package shape

import "errors"

var (
	ErrMissingArgument  = errors.New("shape: missing argument")
	ErrTooManyArguments = errors.New("shape: too many arguments")
	ErrTypeMismatch     = errors.New("shape: type mismatch")
	ErrRepeatCount      = errors.New("shape: repeat count mismatch")
	ErrColumnOutOfRange = errors.New("shape: column out of range")
	ErrColumnCount      = errors.New("shape: column count mismatch")
	ErrAbsent           = errors.New("shape: value absent")
)
