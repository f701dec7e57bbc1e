// Package models contains the forum's persisted domain types.
package models

import (
	"time"
)

// User is a forum member. Identity comes from an OAuth provider through Account rows.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      *string   `json:"name"`
	Email     *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	Image     *string   `json:"image"`
	Accounts  []Account `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Account links a User to an external OAuth identity.
type Account struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `gorm:"not null;index" json:"user_id"`
	User              User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Provider          string    `gorm:"not null;uniqueIndex:idx_accounts_provider_account" json:"provider"`
	ProviderAccountID string    `gorm:"not null;uniqueIndex:idx_accounts_provider_account" json:"provider_account_id"`
	AccessToken       string    `json:"-"`
	TokenType         string    `json:"-"`
	Scope             string    `json:"scope"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Author is the public slice of a User shown next to posts and comments.
type Author struct {
	ID    uint    `json:"id"`
	Name  *string `json:"name"`
	Image *string `json:"image"`
}

// AuthorOf projects u onto its public fields.
func AuthorOf(u User) Author {
	return Author{ID: u.ID, Name: u.Name, Image: u.Image}
}
