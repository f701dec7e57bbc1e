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

const actionCreateTopic = "topic.create"

type TopicService struct {
	topicRepo repository.TopicRepository
	pages     Revalidator
}

func NewTopicService(topicRepo repository.TopicRepository, pages Revalidator) *TopicService {
	return &TopicService{topicRepo: topicRepo, pages: pages}
}

// CreateTopic creates a topic named by form.Name and sends the user to it.
func (s *TopicService) CreateTopic(ctx context.Context, session *auth.Session, form validation.TopicForm) Result {
	ctx, span := observability.StartAction(ctx, actionCreateTopic)

	if errs := validation.Validate(form); errs != nil {
		return finish(ctx, actionCreateTopic, span, invalid(errs), nil)
	}
	if session == nil {
		return finish(ctx, actionCreateTopic, span,
			formError(OutcomeUnauthenticated, "You must be signed in to do this."), nil)
	}

	topic := &models.Topic{Slug: form.Name, Description: form.Description}
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return finish(ctx, actionCreateTopic, span, failed(err, "Something went wrong"), err)
	}

	s.pages.Revalidate(ctx, paths.Home())
	return finish(ctx, actionCreateTopic, span, redirect(paths.ShowTopic(topic.Slug)), nil)
}
