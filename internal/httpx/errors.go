// Package httpx defines the domain error taxonomy, the JSON response
// envelope, and the centralized translation of errors into HTTP responses.
package httpx

import (
	"errors"
	"fmt"
	"net/http"
)

// Reason codes carried on Unauthorized errors so clients can tell apart the
// failure modes without parsing message text.
const (
	ReasonMissingToken      = "missing_token"
	ReasonRevoked           = "revoked"
	ReasonExpired           = "expired"
	ReasonMalformed         = "malformed"
	ReasonPrincipalNotFound = "principal_not_found"
	ReasonInvalidOTP        = "invalid_otp"
	ReasonBadCredentials    = "bad_credentials"
)

// Error is a domain error with an HTTP status. Services raise these at the
// point of detection; the Fiber error handler renders them verbatim.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"-"`
	Reason  string `json:"-"`
}

func (e *Error) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Reason)
	}
	return e.Message
}

// Validation reports missing or blank request fields.
func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Conflict reports a duplicate identifier.
func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

// Unauthorized reports a credential or token failure with a reason code.
func Unauthorized(reason, message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message, Reason: reason}
}

// NotFound reports an absent principal or resource.
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Internal reports a hashing, signing, or store failure.
func Internal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// AsError unwraps err into an *Error if one is in the chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
