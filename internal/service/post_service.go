package service

import (
	"context"

	"agora/internal/auth"
	"agora/internal/models"
	"agora/internal/observability"
	"agora/internal/paths"
	"agora/internal/repository"
	"agora/internal/validation"
)

const actionCreatePost = "post.create"

type PostService struct {
	postRepo  repository.PostRepository
	topicRepo repository.TopicRepository
	pages     Revalidator
}

func NewPostService(postRepo repository.PostRepository, topicRepo repository.TopicRepository, pages Revalidator) *PostService {
	return &PostService{postRepo: postRepo, topicRepo: topicRepo, pages: pages}
}

// CreatePost adds a post to the topic identified by slug and sends the user to it.
func (s *PostService) CreatePost(ctx context.Context, session *auth.Session, slug string, form validation.PostForm) Result {
	ctx, span := observability.StartAction(ctx, actionCreatePost)

	if errs := validation.Validate(form); errs != nil {
		return finish(ctx, actionCreatePost, span, invalid(errs), nil)
	}
	if session == nil {
		return finish(ctx, actionCreatePost, span,
			formError(OutcomeUnauthenticated, "You must be signed in to do this"), nil)
	}

	topic, err := s.topicRepo.FindBySlug(ctx, slug)
	if err != nil {
		return finish(ctx, actionCreatePost, span, failed(err, "Failed to create post"), err)
	}
	if topic == nil {
		return finish(ctx, actionCreatePost, span, formError(OutcomeFailed, "Cannot find topic"), nil)
	}

	post := &models.Post{
		Title:   form.Title,
		Content: form.Content,
		UserID:  session.UserID,
		TopicID: topic.ID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return finish(ctx, actionCreatePost, span, failed(err, "Failed to create post"), err)
	}

	s.pages.Revalidate(ctx, paths.ShowTopic(slug))
	return finish(ctx, actionCreatePost, span, redirect(paths.ShowPost(slug, post.ID)), nil)
}
