package validators

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const (
	MaxContentLength = 5000
	MaxNameLength    = 100
)

var (
	ErrContentEmpty   = errors.New("please add text content")
	ErrContentTooLong = errors.New("content is too long")
	ErrMessageEmpty   = errors.New("please add a prayer message")
	ErrNameTooLong    = errors.New("name is too long")
)

// ContentValidator checks the body of a post
func ContentValidator(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrContentEmpty
	}

	if utf8.RuneCountInString(s) > MaxContentLength {
		return ErrContentTooLong
	}

	return nil
}

// MessageValidator checks the body of a prayer request
func MessageValidator(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrMessageEmpty
	}

	if utf8.RuneCountInString(s) > MaxContentLength {
		return ErrContentTooLong
	}

	return nil
}

// NameValidator only limits length, emptiness is handled by the callers
// because it means different things in different places
func NameValidator(s string) error {
	if utf8.RuneCountInString(s) > MaxNameLength {
		return ErrNameTooLong
	}

	return nil
}
