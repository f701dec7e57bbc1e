package service

import (
	"context"

	"agora/internal/auth"
	"agora/internal/models"

	"github.com/stretchr/testify/mock"
)

// topicRepoStub is a stub for repository.TopicRepository.
type topicRepoStub struct {
	createFn       func(context.Context, *models.Topic) error
	findBySlugFn   func(context.Context, string) (*models.Topic, error)
	findByPostIDFn func(context.Context, uint) (*models.Topic, error)
	calls          int
}

func (s *topicRepoStub) Create(ctx context.Context, topic *models.Topic) error {
	s.calls++
	return s.createFn(ctx, topic)
}
func (s *topicRepoStub) FindBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	s.calls++
	return s.findBySlugFn(ctx, slug)
}
func (s *topicRepoStub) FindByPostID(ctx context.Context, postID uint) (*models.Topic, error) {
	s.calls++
	return s.findByPostIDFn(ctx, postID)
}
func (s *topicRepoStub) List(_ context.Context) ([]*models.Topic, error) {
	s.calls++
	return nil, nil
}

func noopTopicRepo() *topicRepoStub {
	return &topicRepoStub{
		createFn: func(_ context.Context, t *models.Topic) error {
			t.ID = 1
			return nil
		},
		findBySlugFn: func(_ context.Context, slug string) (*models.Topic, error) {
			return &models.Topic{ID: 1, Slug: slug}, nil
		},
		findByPostIDFn: func(_ context.Context, _ uint) (*models.Topic, error) {
			return &models.Topic{ID: 1, Slug: "general-chat"}, nil
		},
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn func(context.Context, *models.Post) error
	created  []*models.Post
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	if err := s.createFn(ctx, post); err != nil {
		return err
	}
	s.created = append(s.created, post)
	return nil
}
func (s *postRepoStub) FindByID(_ context.Context, _ uint) (*models.PostSummary, error) {
	return nil, nil
}
func (s *postRepoStub) ListByTopicSlug(_ context.Context, _ string) ([]*models.PostSummary, error) {
	return nil, nil
}
func (s *postRepoStub) ListTop(_ context.Context, _ int) ([]*models.PostSummary, error) {
	return nil, nil
}
func (s *postRepoStub) Search(_ context.Context, _ string) ([]*models.PostSummary, error) {
	return nil, nil
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{createFn: func(_ context.Context, p *models.Post) error {
		p.ID = 9
		return nil
	}}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn func(context.Context, *models.Comment) error
	created  []*models.Comment
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	if err := s.createFn(ctx, comment); err != nil {
		return err
	}
	s.created = append(s.created, comment)
	return nil
}
func (s *commentRepoStub) FindByID(_ context.Context, _ uint) (*models.CommentWithAuthor, error) {
	return nil, nil
}
func (s *commentRepoStub) ListByPost(_ context.Context, _ uint) ([]*models.CommentWithAuthor, error) {
	return nil, nil
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{createFn: func(_ context.Context, c *models.Comment) error {
		c.ID = 5
		return nil
	}}
}

// revalidatorStub records revalidated paths.
type revalidatorStub struct {
	paths []string
}

func (r *revalidatorStub) Revalidate(_ context.Context, path string) {
	r.paths = append(r.paths, path)
}

func signedIn() *auth.Session {
	return &auth.Session{UserID: 3}
}

// MockRevalidator is a testify mock of Revalidator.
type MockRevalidator struct {
	mock.Mock
}

func (m *MockRevalidator) Revalidate(ctx context.Context, path string) {
	m.Called(ctx, path)
}
