package models

import "time"

// Topic is a top-level discussion category identified by its slug.
type Topic struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Slug        string    `gorm:"not null;uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Posts       []Post    `gorm:"foreignKey:TopicID" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
