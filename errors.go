package hivekeeper

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrInvalidCredentials covers unknown email and wrong password alike so the
// response body never tells callers which one failed.
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS")

// ErrIdentityNotFound is the error we return for non found identities
var ErrIdentityNotFound = goerrors.New("identity not found", goerrors.CategoryAuth).
	WithTextCode("IDENTITY_NOT_FOUND")

// ErrTokenExpired means the embedded expiry has elapsed
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED")

// ErrTokenMalformed covers bad signatures, garbage input, and rotated secrets
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED")

// ErrSessionRevoked means the token checked out but its session did not
var ErrSessionRevoked = goerrors.New("session is no longer active", goerrors.CategoryAuth).
	WithTextCode("SESSION_REVOKED")

// ErrDuplicateEmail surfaces the unique constraint on users.email
var ErrDuplicateEmail = goerrors.New("email already registered", goerrors.CategoryConflict).
	WithTextCode("DUPLICATE_EMAIL")

// ErrNoEmptyString rejects empty passwords before they reach the hasher
var ErrNoEmptyString = goerrors.New("password must not be empty", goerrors.CategoryBadInput).
	WithTextCode("EMPTY_PASSWORD")

// ErrHasherConfig means the cost parameters are unusable; fatal at startup
var ErrHasherConfig = goerrors.New("invalid hashing cost parameters", goerrors.CategoryBadInput).
	WithTextCode("HASHER_CONFIG")

// ErrHashPoolBusy is returned when the hashing pool cannot take more work;
// we fail fast instead of queueing indefinitely.
var ErrHashPoolBusy = goerrors.New("password hashing pool saturated", goerrors.CategoryOperation).
	WithTextCode("HASH_POOL_BUSY")

func goNotFound(kind string) error {
	return goerrors.New(kind+" not found", goerrors.CategoryNotFound).
		WithTextCode("RECORD_NOT_FOUND")
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.Is(err, ErrTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
