package servant

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/robbyt/go-logiclet/platform/constants"
)

// Exception is a classified servant failure: a machine readable code and a
// message. Servants return it (possibly wrapped) for expected failures.
type Exception struct {
	Code    string
	Message string
	cause   error
}

// NewException creates a classified failure.
func NewException(code, message string) *Exception {
	return &Exception{Code: code, Message: message}
}

// Fatal creates a core.fatalerror exception that keeps cause for unwrapping.
func Fatal(cause error) *Exception {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &Exception{Code: constants.CodeFatal, Message: msg, cause: cause}
}

func (e *Exception) Error() string {
	return e.Code + ": " + e.Message
}

func (e *Exception) Unwrap() error {
	return e.cause
}

// IsFatal reports whether the exception carries the generic classification.
func (e *Exception) IsFatal() bool {
	return e.Code == constants.CodeFatal
}

// Normalize classifies err. An error that is or wraps an *Exception yields that
// exception unchanged; anything else becomes core.fatalerror with the original
// message.
func Normalize(err error) *Exception {
	if err == nil {
		return nil
	}
	var ex *Exception
	if errors.As(err, &ex) {
		return ex
	}
	return Fatal(err)
}

// normalizePanic classifies a recovered panic value.
func normalizePanic(r any) *Exception {
	if err, ok := r.(error); ok {
		return Normalize(err)
	}
	return Fatal(fmt.Errorf("%v", r))
}

// NewSerial generates a global serial number.
func NewSerial() string {
	return uuid.NewString()
}
