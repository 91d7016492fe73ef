// Copyright The OpenLMS Contributors.
// SPDX-License-Identifier: MIT

package domain

import (
	"errors"
	"time"
)

// ErrorKind represents the semantic category of an error.
type ErrorKind int

const (
	ErrorKindBadRequest    ErrorKind = iota // Remote rejected the request (HTTP 400)
	ErrorKindNotFound                       // Remote entity absent (HTTP 404)
	ErrorKindRateLimited                    // Transient rate limit, handled internally (HTTP 429)
	ErrorKindRetryFailed                    // Rate-limit retry ceiling exceeded
	ErrorKindAPILimit                       // Daily API quota exhausted; carries resume time
	ErrorKindGeneric                        // Any other remote or transport failure
	ErrorKindConfiguration                  // Missing credentials or OAuth scopes; fatal for the run
	ErrorKindConflict                       // Store revision conflict
	ErrorKindUnavailable                    // Dependency not wired or unreachable
	ErrorKindInternal                       // Unexpected internal failure
)

// WSError is the error type for every webservice and store failure in the
// sync engine. RemoteCode and RemoteMessage carry the Zoom error payload when
// one was available; ResumeAt is set only for ErrorKindAPILimit.
type WSError struct {
	Kind          ErrorKind
	Message       string
	RemoteCode    int
	RemoteMessage string
	ResumeAt      time.Time
	Err           error // underlying error for wrapping
}

func (e *WSError) Error() string {
	msg := e.Message
	if e.RemoteMessage != "" {
		msg += ": " + e.RemoteMessage
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *WSError) Unwrap() error {
	return e.Err
}

// GetErrorKind returns the semantic kind of an error.
func GetErrorKind(err error) ErrorKind {
	var wsErr *WSError
	if errors.As(err, &wsErr) {
		return wsErr.Kind
	}
	return ErrorKindInternal // default fallback
}

// ResumeAfter returns the daily-limit resume timestamp carried by an
// ErrorKindAPILimit error, or the zero time for any other error.
func ResumeAfter(err error) time.Time {
	var wsErr *WSError
	if errors.As(err, &wsErr) && wsErr.Kind == ErrorKindAPILimit {
		return wsErr.ResumeAt
	}
	return time.Time{}
}

// Error constructors for the different kinds

func NewBadRequestError(message string, remoteCode int, remoteMessage string) *WSError {
	return &WSError{Kind: ErrorKindBadRequest, Message: message, RemoteCode: remoteCode, RemoteMessage: remoteMessage}
}

func NewNotFoundError(message string, err ...error) *WSError {
	return &WSError{Kind: ErrorKindNotFound, Message: message, Err: errors.Join(err...)}
}

func NewRemoteNotFoundError(message string, remoteCode int, remoteMessage string) *WSError {
	return &WSError{Kind: ErrorKindNotFound, Message: message, RemoteCode: remoteCode, RemoteMessage: remoteMessage}
}

func NewRateLimitedError(message string) *WSError {
	return &WSError{Kind: ErrorKindRateLimited, Message: message}
}

func NewRetryFailedError(message string) *WSError {
	return &WSError{Kind: ErrorKindRetryFailed, Message: message}
}

func NewAPILimitError(message string, resumeAt time.Time) *WSError {
	return &WSError{Kind: ErrorKindAPILimit, Message: message, ResumeAt: resumeAt}
}

func NewGenericError(message string, err ...error) *WSError {
	return &WSError{Kind: ErrorKindGeneric, Message: message, Err: errors.Join(err...)}
}

func NewConfigurationError(message string, err ...error) *WSError {
	return &WSError{Kind: ErrorKindConfiguration, Message: message, Err: errors.Join(err...)}
}

func NewConflictError(message string, err ...error) *WSError {
	return &WSError{Kind: ErrorKindConflict, Message: message, Err: errors.Join(err...)}
}

func NewUnavailableError(message string, err ...error) *WSError {
	return &WSError{Kind: ErrorKindUnavailable, Message: message, Err: errors.Join(err...)}
}

func NewInternalError(message string, err ...error) *WSError {
	return &WSError{Kind: ErrorKindInternal, Message: message, Err: errors.Join(err...)}
}
