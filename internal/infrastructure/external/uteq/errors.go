package uteq

import (
	"errors"
	"fmt"
)

// ErrAuthExpired signals that the backend rejected the stored bearer token.
// By the time a caller sees this error the session store has already been
// cleared, so the presentation layer can route straight to re-authentication.
var ErrAuthExpired = errors.New("uteq: authorization expired")

// CredentialError is a backend rejection of the submitted credentials or
// registration data. It is surfaced verbatim to the user and never mutates
// local state.
type CredentialError struct {
	Message string
}

func (e *CredentialError) Error() string {
	return "uteq: credentials rejected: " + e.Message
}

// IsCredential reports whether err is a credential rejection.
func IsCredential(err error) bool {
	var ce *CredentialError
	return errors.As(err, &ce)
}

// TransportError covers everything between the engine and a well-formed
// backend answer: unreachable host, timeouts, unexpected status codes,
// malformed payloads. The engine never retries these; retry is caller policy.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("uteq: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

func transportErr(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

func transportErrf(op, format string, args ...any) error {
	return &TransportError{Op: op, Err: fmt.Errorf(format, args...)}
}
