package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies job failures
type ErrorKind string

const (
	ErrorKindIO        ErrorKind = "io_error"
	ErrorKindSimulator ErrorKind = "simulator_failure"
	ErrorKindParse     ErrorKind = "parse_error"
	ErrorKindRequest   ErrorKind = "request_error"
)

var ErrorKinds = []ErrorKind{
	ErrorKindIO, ErrorKindSimulator, ErrorKindParse, ErrorKindRequest,
}

// JobError is the structured error every lifecycle stage reports
type JobError struct {
	Kind    ErrorKind
	Message string
	Details interface{}
	Err     error
}

func (e *JobError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *JobError) Unwrap() error {
	return e.Err
}

func NewIoError(message string, err error) *JobError {
	return &JobError{Kind: ErrorKindIO, Message: message, Err: err}
}

func NewSimulatorFailure(message string) *JobError {
	return &JobError{Kind: ErrorKindSimulator, Message: message}
}

// NewParseError reports a malformed line of an output artifact. line is
// 1-based.
func NewParseError(file string, line int, format string, args ...interface{}) *JobError {
	return &JobError{
		Kind:    ErrorKindParse,
		Message: fmt.Sprintf("%s:%d: %s", file, line, fmt.Sprintf(format, args...)),
	}
}

func NewRequestError(message string, details interface{}) *JobError {
	return &JobError{Kind: ErrorKindRequest, Message: message, Details: details}
}

// KindOf returns the kind of a JobError anywhere in err's chain, or
// ErrorKindIO for foreign errors
func KindOf(err error) ErrorKind {
	var jobErr *JobError
	if errors.As(err, &jobErr) {
		return jobErr.Kind
	}
	return ErrorKindIO
}
