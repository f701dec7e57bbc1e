package service

import (
	"context"
	"errors"
	"testing"

	"agora/internal/models"
	"agora/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostService_CreatePost(t *testing.T) {
	ctx := context.Background()
	form := validation.PostForm{Title: "Hello", Content: "First post in the forum"}

	t.Run("creates post in topic", func(t *testing.T) {
		posts := noopPostRepo()
		pages := &revalidatorStub{}
		svc := NewPostService(posts, noopTopicRepo(), pages)

		res := svc.CreatePost(ctx, signedIn(), "general-chat", form)

		assert.Equal(t, OutcomeSucceeded, res.Outcome)
		assert.Equal(t, "/topics/general-chat/posts/9", res.Redirect)
		require.Len(t, posts.created, 1)
		assert.Equal(t, uint(3), posts.created[0].UserID)
		assert.Equal(t, uint(1), posts.created[0].TopicID)
		assert.Equal(t, []string{"/topics/general-chat"}, pages.paths)
	})

	t.Run("invalid form", func(t *testing.T) {
		topics := noopTopicRepo()
		posts := noopPostRepo()
		svc := NewPostService(posts, topics, &revalidatorStub{})

		res := svc.CreatePost(ctx, signedIn(), "general-chat", validation.PostForm{Title: "Hi", Content: "too short"})

		assert.Equal(t, OutcomeInvalid, res.Outcome)
		assert.Equal(t, []string{"String must contain at least 3 character(s)"}, res.State.Errors["title"])
		assert.Equal(t, []string{"String must contain at least 10 character(s)"}, res.State.Errors["content"])
		assert.Zero(t, topics.calls)
		assert.Empty(t, posts.created)
	})

	t.Run("anonymous", func(t *testing.T) {
		topics := noopTopicRepo()
		svc := NewPostService(noopPostRepo(), topics, &revalidatorStub{})

		res := svc.CreatePost(ctx, nil, "general-chat", form)

		assert.Equal(t, OutcomeUnauthenticated, res.Outcome)
		assert.Equal(t, []string{"You must be signed in to do this"}, res.State.Errors[validation.FormKey])
		assert.Zero(t, topics.calls)
	})

	t.Run("unknown topic", func(t *testing.T) {
		topics := noopTopicRepo()
		topics.findBySlugFn = func(_ context.Context, _ string) (*models.Topic, error) { return nil, nil }
		posts := noopPostRepo()
		svc := NewPostService(posts, topics, &revalidatorStub{})

		res := svc.CreatePost(ctx, signedIn(), "missing", form)

		assert.Equal(t, OutcomeFailed, res.Outcome)
		assert.Equal(t, []string{"Cannot find topic"}, res.State.Errors[validation.FormKey])
		assert.Empty(t, posts.created)
	})

	t.Run("persistence error", func(t *testing.T) {
		posts := noopPostRepo()
		posts.createFn = func(_ context.Context, _ *models.Post) error { return errors.New("") }
		pages := &revalidatorStub{}
		svc := NewPostService(posts, noopTopicRepo(), pages)

		res := svc.CreatePost(ctx, signedIn(), "general-chat", form)

		assert.Equal(t, OutcomeFailed, res.Outcome)
		assert.Equal(t, []string{"Failed to create post"}, res.State.Errors[validation.FormKey])
		assert.Empty(t, pages.paths)
	})
}
