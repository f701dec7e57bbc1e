// Package query serves the forum's read queries, memoized for the lifetime of one request.
package query

import (
	"context"
	"fmt"
	"sync"

	"agora/internal/models"
	"agora/internal/repository"

	"golang.org/x/sync/singleflight"
)

// TopPostsLimit is how many posts the home page lists.
const TopPostsLimit = 5

// Repositories groups the repositories the loader reads from.
type Repositories struct {
	Topics   repository.TopicRepository
	Posts    repository.PostRepository
	Comments repository.CommentRepository
}

type memo struct {
	value any
	err   error
}

// Loader memoizes read queries by name and arguments. Identical concurrent
// calls share one repository round trip and later calls reuse its result,
// errors included. A Loader belongs to a single request.
type Loader struct {
	repos Repositories
	group singleflight.Group

	mu      sync.Mutex
	results map[string]memo
}

// NewLoader returns an empty request-scoped Loader.
func NewLoader(repos Repositories) *Loader {
	return &Loader{repos: repos, results: make(map[string]memo)}
}

func load[T any](ctx context.Context, l *Loader, key string, fetch func(context.Context) (T, error)) (T, error) {
	l.mu.Lock()
	m, ok := l.results[key]
	l.mu.Unlock()

	if !ok {
		v, err, _ := l.group.Do(key, func() (any, error) {
			l.mu.Lock()
			done, ok := l.results[key]
			l.mu.Unlock()
			if ok {
				return done.value, done.err
			}

			v, err := fetch(ctx)
			l.mu.Lock()
			l.results[key] = memo{value: v, err: err}
			l.mu.Unlock()
			return v, err
		})
		m = memo{value: v, err: err}
	}

	var zero T
	if m.err != nil {
		return zero, m.err
	}
	v, _ := m.value.(T)
	return v, nil
}

func (l *Loader) Topics(ctx context.Context) ([]*models.Topic, error) {
	return load(ctx, l, "topics", l.repos.Topics.List)
}

// TopicBySlug returns nil when no topic has slug.
func (l *Loader) TopicBySlug(ctx context.Context, slug string) (*models.Topic, error) {
	return load(ctx, l, "topic:"+slug, func(ctx context.Context) (*models.Topic, error) {
		return l.repos.Topics.FindBySlug(ctx, slug)
	})
}

// PostByID returns nil when the post does not exist.
func (l *Loader) PostByID(ctx context.Context, id uint) (*models.PostSummary, error) {
	return load(ctx, l, fmt.Sprintf("post:%d", id), func(ctx context.Context) (*models.PostSummary, error) {
		return l.repos.Posts.FindByID(ctx, id)
	})
}

func (l *Loader) PostsByTopicSlug(ctx context.Context, slug string) ([]*models.PostSummary, error) {
	return load(ctx, l, "posts:topic:"+slug, func(ctx context.Context) ([]*models.PostSummary, error) {
		return l.repos.Posts.ListByTopicSlug(ctx, slug)
	})
}

// TopPosts lists the most commented posts.
func (l *Loader) TopPosts(ctx context.Context) ([]*models.PostSummary, error) {
	return load(ctx, l, "posts:top", func(ctx context.Context) ([]*models.PostSummary, error) {
		return l.repos.Posts.ListTop(ctx, TopPostsLimit)
	})
}

func (l *Loader) PostsBySearchTerm(ctx context.Context, term string) ([]*models.PostSummary, error) {
	return load(ctx, l, "posts:search:"+term, func(ctx context.Context) ([]*models.PostSummary, error) {
		return l.repos.Posts.Search(ctx, term)
	})
}

// CommentsByPostID lists a post's comments oldest first with their authors.
func (l *Loader) CommentsByPostID(ctx context.Context, postID uint) ([]*models.CommentWithAuthor, error) {
	return load(ctx, l, fmt.Sprintf("comments:post:%d", postID), func(ctx context.Context) ([]*models.CommentWithAuthor, error) {
		return l.repos.Comments.ListByPost(ctx, postID)
	})
}

// CommentByID returns nil when the comment does not exist.
func (l *Loader) CommentByID(ctx context.Context, id uint) (*models.CommentWithAuthor, error) {
	return load(ctx, l, fmt.Sprintf("comment:%d", id), func(ctx context.Context) (*models.CommentWithAuthor, error) {
		return l.repos.Comments.FindByID(ctx, id)
	})
}

// ThreadForPost arranges the post's comments into reply threads.
func (l *Loader) ThreadForPost(ctx context.Context, postID uint) (*Thread, error) {
	comments, err := l.CommentsByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	return NewThread(comments), nil
}
