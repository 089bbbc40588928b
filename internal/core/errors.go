package core

import (
	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Domain error constructors. The CLI boundary is the only place these
// are translated into exit codes and printed messages; internal
// helpers never swallow them.

func sourceNotFoundError(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(msg)
}

func validationError(msg string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

func lockFailedError(msg string, cause error) error {
	builder := errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(msg)
	if cause != nil {
		builder = builder.WithCause(cause)
	}
	return builder
}

func platformUnsupportedError(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(msg)
}

func commandNotFoundError(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(msg)
}

func environmentNotFoundError(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(msg)
}
