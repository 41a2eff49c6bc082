// Package store wraps gorm for the three entities the API works with. Handlers
// and services never touch *gorm.DB directly.
package store

import (
	"errors"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const (
	idCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	idLength  = 16
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

func newID() (string, error) {
	return gonanoid.Generate(idCharset, idLength)
}

// translate maps gorm errors to the ones exported by this package. The DB
// must be opened with TranslateError enabled for duplicate keys to show up.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}

	return err
}

// withAuthor loads only the public columns of a post's owner
func withAuthor(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "country")
	})
}
