package models

import "time"

// Post starts a thread within a Topic.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	TopicID   uint      `gorm:"not null;index" json:"topic_id"`
	Topic     Topic     `gorm:"foreignKey:TopicID" json:"-"`
	Comments  []Comment `gorm:"foreignKey:PostID" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostSummary is a Post joined with its topic slug, author and comment count,
// as shown in post listings.
type PostSummary struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	TopicID       uint      `json:"topic_id"`
	TopicSlug     string    `json:"topic_slug"`
	UserID        uint      `json:"user_id"`
	AuthorName    *string   `json:"author_name"`
	AuthorImage   *string   `json:"author_image"`
	CommentsCount int64     `json:"comments_count"`
	CreatedAt     time.Time `json:"created_at"`
}
