package errors

import (
	"strings"
)

type ErrorKind string

const (
	ErrorKindOffline  ErrorKind = "offline"
	ErrorKindHTTP     ErrorKind = "http"
	ErrorKindNotFound ErrorKind = "not-found"
	ErrorKindInvalid  ErrorKind = "invalid"
	ErrorKindOther    ErrorKind = "other"
)

type ClassifiedError struct {
	Kind    ErrorKind
	Message string
	Hint    string // User-friendly suggestion
	Raw     error
}

func (e ClassifiedError) Error() string {
	return e.Message
}

func Classify(err error) ClassifiedError {
	if err == nil {
		return ClassifiedError{}
	}

	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "timeout") || strings.Contains(msg, "no such host"):
		return ClassifiedError{
			Kind:    ErrorKindOffline,
			Message: err.Error(),
			Hint:    "Is the witness daemon running? Check with 'witness-cli status' or start it with 'witness'",
			Raw:     err,
		}
	case strings.Contains(msg, "unknown method") || strings.Contains(msg, "not found"):
		return ClassifiedError{
			Kind:    ErrorKindNotFound,
			Message: err.Error(),
			Hint:    "Check the method name with 'witness-cli tools'",
			Raw:     err,
		}
	case strings.Contains(msg, "unexpected status code"):
		return ClassifiedError{
			Kind:    ErrorKindHTTP,
			Message: err.Error(),
			Raw:     err,
		}
	case strings.Contains(msg, "missing required property") || strings.Contains(msg, "unexpected property") || strings.Contains(msg, "expected "):
		return ClassifiedError{
			Kind:    ErrorKindInvalid,
			Message: err.Error(),
			Hint:    "Check the method's parameters with 'witness-cli tools'",
			Raw:     err,
		}
	default:
		return ClassifiedError{
			Kind:    ErrorKindOther,
			Message: err.Error(),
			Raw:     err,
		}
	}
}
