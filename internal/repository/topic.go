// Package repository provides the GORM-backed data access layer of the forum.
package repository

import (
	"context"
	"errors"

	"agora/internal/models"

	"gorm.io/gorm"
)

// TopicRepository defines the topic data operations.
type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	// FindBySlug returns nil without error when no topic has the slug.
	FindBySlug(ctx context.Context, slug string) (*models.Topic, error)
	// FindByPostID returns the topic owning the post, or nil without error when there is none.
	FindByPostID(ctx context.Context, postID uint) (*models.Topic, error)
	List(ctx context.Context) ([]*models.Topic, error)
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new TopicRepository
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) Create(ctx context.Context, topic *models.Topic) error {
	return r.db.WithContext(ctx).Create(topic).Error
}

func (r *topicRepository) FindBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	var topic models.Topic
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&topic).Error
	return foundOrNil(&topic, err)
}

func (r *topicRepository) FindByPostID(ctx context.Context, postID uint) (*models.Topic, error) {
	var topic models.Topic
	err := r.db.WithContext(ctx).
		Joins("JOIN posts ON posts.topic_id = topics.id").
		Where("posts.id = ?", postID).
		First(&topic).Error
	return foundOrNil(&topic, err)
}

func (r *topicRepository) List(ctx context.Context) ([]*models.Topic, error) {
	var topics []*models.Topic
	err := r.db.WithContext(ctx).Order("slug asc").Find(&topics).Error
	return topics, err
}

// foundOrNil turns gorm's ErrRecordNotFound into a nil result.
func foundOrNil[T any](v *T, err error) (*T, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
