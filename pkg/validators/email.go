// Package validators contains validators found throughout the application
// that have been abstracted away from the main code
package validators

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailEmpty   = errors.New("no email address provided")
	ErrEmailInvalid = errors.New("invalid email address provided")
)

func EmailValidator(e string) error {
	if strings.TrimSpace(e) == "" {
		return ErrEmailEmpty
	}

	// ParseAddress accepts display names like "Ann <ann@x.com>", only bare
	// addresses are allowed here
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != strings.TrimSpace(e) {
		return ErrEmailInvalid
	}

	return nil
}

// NormalizeEmail is applied before every lookup and write so that emails stay
// unique regardless of casing
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
