package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"faithconnect/community-api/internal/model"
	"faithconnect/community-api/pkg/validators"

	"gorm.io/gorm"
)

type PasswordHasher interface {
	GenerateFromPassword(p string) (string, error)
}

type UserStore struct {
	db     *gorm.DB
	hasher PasswordHasher
}

func NewUserStore(db *gorm.DB, h PasswordHasher) *UserStore {
	return &UserStore{db: db, hasher: h}
}

// prepare is the only place a user is readied for persistence. Both Create
// and Update go through it so the password always gets hashed the same way.
func (s *UserStore) prepare(u *model.User, password *string) error {
	u.Email = validators.NormalizeEmail(u.Email)

	if password == nil {
		return nil
	}

	if *password == "" {
		return errors.New("empty password")
	}

	hash, err := s.hasher.GenerateFromPassword(*password)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	u.PasswordHash = hash
	return nil
}

// Create assigns an ID, hashes password and inserts the user
func (s *UserStore) Create(ctx context.Context, u *model.User, password string) error {
	if err := s.prepare(u, &password); err != nil {
		return err
	}

	if u.ID == "" {
		id, err := newID()
		if err != nil {
			return fmt.Errorf("failed to generate user ID, %w", err)
		}
		u.ID = id
	}

	return translate(s.db.WithContext(ctx).Create(u).Error)
}

// Update saves every column of u. A non-nil password replaces the stored hash
func (s *UserStore) Update(ctx context.Context, u *model.User, password *string) error {
	if err := s.prepare(u, password); err != nil {
		return err
	}

	r := s.db.WithContext(ctx).Model(u).Select("*").Omit("id", "created_at").Updates(u)
	if r.Error != nil {
		return translate(r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *UserStore) ByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err != nil {
		return nil, translate(err)
	}

	return &u, nil
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User

	err := s.db.WithContext(ctx).
		Where("email = ?", validators.NormalizeEmail(email)).
		First(&u).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &u, nil
}

func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).
		Model(model.User{}).
		Where("email = ?", validators.NormalizeEmail(email)).
		Count(&count).
		Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (s *UserStore) ByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	var u model.User

	err := s.db.WithContext(ctx).
		Where("verification_token = ?", token).
		First(&u).
		Error
	if err != nil {
		return nil, translate(err)
	}

	return &u, nil
}

// MarkVerified flips the verification flag and clears the token in a single
// conditional update, so a token can only ever be consumed once
func (s *UserStore) MarkVerified(ctx context.Context, id, token string) error {
	r := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND verification_token = ?", id, token).
		Updates(map[string]any{
			"verified":                true,
			"verification_token":      nil,
			"verification_expires_at": nil,
		})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteExpiredUnverified removes users that never verified and whose
// verification link expired before now
func (s *UserStore) DeleteExpiredUnverified(ctx context.Context, now time.Time) (int64, error) {
	r := s.db.WithContext(ctx).
		Where("verified = ? AND verification_expires_at IS NOT NULL AND verification_expires_at < ?", false, now.UTC()).
		Delete(&model.User{})

	return r.RowsAffected, r.Error
}
