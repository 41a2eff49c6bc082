package model

import "time"

type Post struct {
	ID        string    `gorm:"primaryKey;size:16" json:"id"`
	UserID    string    `gorm:"index;not null;size:16" json:"-"`
	User      Author    `gorm:"foreignKey:UserID" json:"user"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Likes     int64     `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
