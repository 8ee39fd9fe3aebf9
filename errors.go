package foodbook

import (
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeNoCredential        = "NO_CREDENTIAL"
	TextCodeInvalidCredential   = "INVALID_CREDENTIAL"
	TextCodeMalformedCredential = "MALFORMED_CREDENTIAL"
	TextCodeSessionNotFound     = "SESSION_NOT_FOUND"
	TextCodeUserNotFound        = "USER_NOT_FOUND"
	TextCodeRecordNotFound      = "RECORD_NOT_FOUND"
	TextCodeEmailExists         = "EMAIL_EXISTS"
	TextCodeInvalidLogin        = "INVALID_LOGIN"
	TextCodePasswordMismatch    = "PASSWORD_MISMATCH"
	TextCodeAuthUserAlreadySet  = "AUTH_USER_ALREADY_SET"
)

// ErrNoCredential no session principal and no bearer token
var ErrNoCredential = goerrors.New("authentication required", goerrors.CategoryAuth).
	WithTextCode(TextCodeNoCredential).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidCredential token signature, format or expiry check failed
var ErrInvalidCredential = goerrors.New("invalid authentication token", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredential).
	WithCode(goerrors.CodeUnauthorized)

// ErrMalformedCredential token subject is not a user id
var ErrMalformedCredential = goerrors.New("malformed authentication token", goerrors.CategoryAuth).
	WithTextCode(TextCodeMalformedCredential).
	WithCode(goerrors.CodeUnauthorized)

// ErrSessionNotFound the token is valid but no longer stored for its user
var ErrSessionNotFound = goerrors.New("authentication token expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeSessionNotFound).
	WithCode(goerrors.CodeUnauthorized)

// ErrUserNotFound the credential points to a user that does not exist
var ErrUserNotFound = goerrors.New("user not found", goerrors.CategoryAuth).
	WithTextCode(TextCodeUserNotFound).
	WithCode(goerrors.CodeUnauthorized)

// ErrRecordNotFound is returned by repositories on empty lookups
var ErrRecordNotFound = goerrors.New("record not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeRecordNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrEmailAlreadyExists is returned when a user with the email already exists.
var ErrEmailAlreadyExists = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeEmailExists).
	WithCode(goerrors.CodeConflict)

// ErrInvalidLogin unknown email or wrong password
var ErrInvalidLogin = goerrors.New("invalid email or password", goerrors.CategoryBadInput).
	WithTextCode(TextCodeInvalidLogin).
	WithCode(goerrors.CodeBadRequest)

// ErrMismatchedHashAndPassword the old password given on change did not match
var ErrMismatchedHashAndPassword = goerrors.New("password does not match", goerrors.CategoryBadInput).
	WithTextCode(TextCodePasswordMismatch).
	WithCode(goerrors.CodeBadRequest)

// ErrAuthUserAlreadySet the request context already holds a user
var ErrAuthUserAlreadySet = goerrors.New("auth user already set for request", goerrors.CategoryInternal).
	WithTextCode(TextCodeAuthUserAlreadySet).
	WithCode(goerrors.CodeInternal)

// ErrNotApplicable is returned by a strategy that has nothing to work with.
// Resolver moves on to the next strategy.
var ErrNotApplicable = errors.New("strategy not applicable")

// ErrNoEmptyString password must not be empty
var ErrNoEmptyString = errors.New("password can't be an empty string")

// FailureOf returns the auth text code carried by err, or an empty
// string when err is not an authentication failure.
func FailureOf(err error) string {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return ""
	}
	if richErr.Category != goerrors.CategoryAuth {
		return ""
	}
	return richErr.TextCode
}

// IsAuthFailure reports whether err is one of the auth failures
func IsAuthFailure(err error) bool {
	return FailureOf(err) != ""
}

// IsRecordNotFound matches repository misses, including sql.ErrNoRows
func IsRecordNotFound(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, sql.ErrNoRows) {
		return true
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == TextCodeRecordNotFound
	}
	return false
}

// NewRecordNotFound returns a not found error carrying metadata
func NewRecordNotFound(meta map[string]any) error {
	return goerrors.New(ErrRecordNotFound.Message, goerrors.CategoryNotFound).
		WithTextCode(TextCodeRecordNotFound).
		WithCode(goerrors.CodeNotFound).
		WithMetadata(meta)
}

func internalError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).
		WithCode(goerrors.CodeInternal)
}
