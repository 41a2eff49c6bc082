// Package model defines database models
package model

import "time"

type User struct {
	ID              string          `gorm:"primaryKey;size:16" json:"id"`
	Email           string          `gorm:"uniqueIndex;not null" json:"email"`
	Name            string          `gorm:"not null" json:"name"`
	PasswordHash    string          `gorm:"not null" json:"-"`
	Country         string          `gorm:"not null" json:"country"`
	Phone           *string         `json:"phone,omitempty"`
	PrivacySettings PrivacySettings `gorm:"serializer:json" json:"privacySettings"`
	Verified        bool            `gorm:"not null;default:false" json:"verified"`

	// Cleared once the email is verified. NULLs don't collide on the unique index
	VerificationToken     *string    `gorm:"uniqueIndex" json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type PrivacySettings struct {
	ShowEmail   bool `json:"showEmail"`
	ShowPhone   bool `json:"showPhone"`
	ShowCountry bool `json:"showCountry"`
}

func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{ShowCountry: true}
}

// Author is the subset of a user that gets attached to posts
type Author struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

func (Author) TableName() string { return "users" }
