package repository

import (
	"context"

	"agora/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// FindByID returns nil without error when the post does not exist.
	FindByID(ctx context.Context, id uint) (*models.PostSummary, error)
	ListByTopicSlug(ctx context.Context, slug string) ([]*models.PostSummary, error)
	ListTop(ctx context.Context, limit int) ([]*models.PostSummary, error)
	Search(ctx context.Context, term string) ([]*models.PostSummary, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// summaries selects posts joined with their topic slug, author and comment count.
func (r *postRepository) summaries(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("posts").
		Select(`posts.id, posts.title, posts.content, posts.topic_id, topics.slug AS topic_slug,
			posts.user_id, users.name AS author_name, users.image AS author_image, posts.created_at,
			(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comments_count`).
		Joins("JOIN topics ON topics.id = posts.topic_id").
		Joins("JOIN users ON users.id = posts.user_id")
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*models.PostSummary, error) {
	var posts []*models.PostSummary
	if err := r.summaries(ctx).Where("posts.id = ?", id).Limit(1).Scan(&posts).Error; err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return posts[0], nil
}

func (r *postRepository) ListByTopicSlug(ctx context.Context, slug string) ([]*models.PostSummary, error) {
	var posts []*models.PostSummary
	err := r.summaries(ctx).
		Where("topics.slug = ?", slug).
		Order("posts.created_at desc").
		Scan(&posts).Error
	return posts, err
}

func (r *postRepository) ListTop(ctx context.Context, limit int) ([]*models.PostSummary, error) {
	var posts []*models.PostSummary
	err := r.summaries(ctx).
		Order("comments_count desc").
		Order("posts.created_at desc").
		Limit(limit).
		Scan(&posts).Error
	return posts, err
}

func (r *postRepository) Search(ctx context.Context, term string) ([]*models.PostSummary, error) {
	pattern := "%" + term + "%"
	var posts []*models.PostSummary
	err := r.summaries(ctx).
		Where("posts.title LIKE ? OR posts.content LIKE ?", pattern, pattern).
		Order("posts.created_at desc").
		Scan(&posts).Error
	return posts, err
}
