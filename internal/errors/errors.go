// Package errors defines the failure kinds reported by hencsv editing sessions.
//
// Sessions inspect these with errors.As to decide how to report a failed
// command; none of them end a session on their own.
package errors

import (
	"errors"
	"fmt"
)

const (
	unknownCommandTemplateConstant           = "command '%s' not recognized"
	invalidArgumentTemplateConstant          = "%s: invalid argument: %s"
	invalidArgumentWithCauseTemplateConstant = "%s: invalid argument: %s: %v"
	ioFailureTemplateConstant                = "unable to %s %s: %v"
)

// UnknownCommandError reports a command key absent from the registry.
type UnknownCommandError struct {
	Key string
}

func (failure UnknownCommandError) Error() string {
	return fmt.Sprintf(unknownCommandTemplateConstant, failure.Key)
}

// InvalidArgumentError reports arguments a command cannot act on.
type InvalidArgumentError struct {
	Command string
	Reason  string
	Cause   error
}

func (failure InvalidArgumentError) Error() string {
	if failure.Cause != nil {
		return fmt.Sprintf(invalidArgumentWithCauseTemplateConstant, failure.Command, failure.Reason, failure.Cause)
	}
	return fmt.Sprintf(invalidArgumentTemplateConstant, failure.Command, failure.Reason)
}

func (failure InvalidArgumentError) Unwrap() error {
	return failure.Cause
}

// IOError reports a file that could not be read, written, or copied.
type IOError struct {
	Operation string
	Path      string
	Cause     error
}

func (failure IOError) Error() string {
	return fmt.Sprintf(ioFailureTemplateConstant, failure.Operation, failure.Path, failure.Cause)
}

func (failure IOError) Unwrap() error {
	return failure.Cause
}

// NewInvalidArgument constructs an InvalidArgumentError without an underlying cause.
func NewInvalidArgument(command string, reason string) error {
	return InvalidArgumentError{Command: command, Reason: reason}
}

// IsUnknownCommand reports whether err carries an UnknownCommandError.
func IsUnknownCommand(err error) bool {
	var unknownCommand UnknownCommandError
	return errors.As(err, &unknownCommand)
}

// IsInvalidArgument reports whether err carries an InvalidArgumentError.
func IsInvalidArgument(err error) bool {
	var invalidArgument InvalidArgumentError
	return errors.As(err, &invalidArgument)
}

// IsIO reports whether err carries an IOError.
func IsIO(err error) bool {
	var ioFailure IOError
	return errors.As(err, &ioFailure)
}
