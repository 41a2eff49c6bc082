package model

import "time"

const AnonymousName = "Anonymous"

// Prayer is a prayer request. Name is free text, not a reference to a user
type Prayer struct {
	ID        string    `gorm:"primaryKey;size:16" json:"id"`
	Name      string    `gorm:"not null;default:Anonymous" json:"name"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	AmenCount int64     `gorm:"not null;default:0" json:"amenCount"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
