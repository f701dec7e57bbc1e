package repository

import (
	"context"

	"agora/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines the comment data operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// FindByID returns nil without error when the comment does not exist.
	FindByID(ctx context.Context, id uint) (*models.CommentWithAuthor, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.CommentWithAuthor, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// withAuthor preloads only the author fields shown beside a comment.
func withAuthor(tx *gorm.DB) *gorm.DB {
	return tx.Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "image")
	})
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*models.CommentWithAuthor, error) {
	var comment models.Comment
	err := withAuthor(r.db.WithContext(ctx)).First(&comment, id).Error
	found, err := foundOrNil(&comment, err)
	if found == nil {
		return nil, err
	}
	return attachAuthor(found), nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]*models.CommentWithAuthor, error) {
	var comments []*models.Comment
	err := withAuthor(r.db.WithContext(ctx)).
		Where("post_id = ?", postID).
		Order("created_at asc").
		Order("id asc").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	out := make([]*models.CommentWithAuthor, 0, len(comments))
	for _, c := range comments {
		out = append(out, attachAuthor(c))
	}
	return out, nil
}

func attachAuthor(c *models.Comment) *models.CommentWithAuthor {
	author := models.AuthorOf(c.User)
	author.ID = c.UserID
	return &models.CommentWithAuthor{Comment: *c, Author: author}
}
