package service

import "errors"

type Kind uint8

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindAuthentication
	KindNotFound
	KindService
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindService:
		return "service"
	}

	return "unknown"
}

// Error is returned by every flow for failures the caller is responsible for
// (or should at least be told about). Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(k Kind, msg string, err error) *Error {
	return &Error{Kind: k, Message: msg, Err: err}
}

var (
	ErrMissingFields       = newError(KindValidation, "Please add all fields", nil)
	ErrEmailTaken          = newError(KindConflict, "User already exists", nil)
	ErrInvalidCredentials  = newError(KindAuthentication, "Invalid credentials", nil)
	ErrNotVerified         = newError(KindAuthentication, "Please verify your email before logging in", nil)
	ErrVerificationInvalid = newError(KindNotFound, "Verification link is invalid or has expired", nil)
	ErrUserNotFound        = newError(KindNotFound, "User not found", nil)
	ErrPostNotFound        = newError(KindNotFound, "Post not found", nil)
	ErrPrayerNotFound      = newError(KindNotFound, "Prayer not found", nil)
)

// KindOf returns the kind of the first *Error in err's chain, or 0
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return 0
}

func validation(err error) *Error {
	return newError(KindValidation, err.Error(), err)
}
