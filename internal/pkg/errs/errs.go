/*
Package errs provides custom error types and application-level error code constants.

This file defines the CustomError struct, which implements the standard Go error interface
and carries a business code, a player-facing message, an HTTP status code and an optional
underlying cause.
*/
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"triviaroom/internal/pkg/logx"
)

// Kind classifies an error code into one of the failure categories players can observe.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConflict   Kind = "conflict"
	KindNotFound   Kind = "not_found"
	KindProvider   Kind = "provider"
	KindState      Kind = "state"
	KindInternal   Kind = "internal"
)

// CustomError is the custom error structure used throughout the application.
type CustomError struct {
	// Code is the business error code (see constants definition).
	Code int

	// Message is the player-facing error description.
	Message string

	// Status is the HTTP status code corresponding to this error.
	Status int

	cause error
}

// Error implements the standard Go error interface.
func (e *CustomError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("Error Code %d (HTTP %d): %s: %v", e.Code, e.Status, e.Message, e.cause)
	}
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *CustomError) Unwrap() error {
	return e.cause
}

// Kind reports the failure category of the error code.
func (e *CustomError) Kind() Kind {
	return KindOf(e.Code)
}

// NewError constructs a new *CustomError from a predefined error code.
// The optional details are printf-style arguments for message templates containing a verb.
// An unknown code yields ErrUnknown.
func NewError(code int, details ...any) *CustomError {
	templateErr, ok := errorMap[code]

	if !ok {
		logx.Error(
			fmt.Errorf("attempted to create an error with an unknown code in errorMap"),
			"Unknown error code requested",
			"requested_code", code,
		)

		unknownErr := errorMap[ErrUnknown]
		return &CustomError{
			Code:    unknownErr.Code,
			Message: unknownErr.Message,
			Status:  unknownErr.Status,
		}
	}

	customErr := templateErr

	if customErr.Status == 0 {
		customErr.Status = http.StatusOK
	}

	if len(details) > 0 {
		if strings.Contains(customErr.Message, "%") {
			customErr.Message = fmt.Sprintf(customErr.Message, details...)
		} else {
			logx.Warn(
				"Details provided for error, but message template has no formatting placeholders. Details ignored.",
				"code", code,
			)
		}
	}

	return &customErr
}

// Wrap builds the error for code and records err as its cause.
func Wrap(code int, err error) *CustomError {
	customErr := NewError(code)
	customErr.cause = err
	return customErr
}

// From converts any error into a *CustomError. Errors that are not already
// a *CustomError become ErrUnknown with the original error as cause.
func From(err error) *CustomError {
	if err == nil {
		return nil
	}

	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr
	}

	return Wrap(ErrUnknown, err)
}

// Is reports whether err is a *CustomError carrying code.
func Is(err error, code int) bool {
	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr.Code == code
	}
	return false
}

// KindOf maps an error code onto its category using the code ranges.
func KindOf(code int) Kind {
	switch {
	case code >= 1000 && code < 2000:
		return KindValidation
	case code >= 2100 && code < 2200:
		return KindConflict
	case code >= 2200 && code < 2300:
		return KindNotFound
	case code >= 2300 && code < 2400:
		return KindProvider
	case code >= 2400 && code < 2500:
		return KindState
	default:
		return KindInternal
	}
}
