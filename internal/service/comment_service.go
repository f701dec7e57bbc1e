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

const actionCreateComment = "comment.create"

type CommentService struct {
	commentRepo repository.CommentRepository
	topicRepo   repository.TopicRepository
	pages       Revalidator
}

// CommentTarget is the post a comment is made on and, for replies, the parent comment.
type CommentTarget struct {
	PostID   uint
	ParentID *uint
}

func NewCommentService(commentRepo repository.CommentRepository, topicRepo repository.TopicRepository, pages Revalidator) *CommentService {
	return &CommentService{commentRepo: commentRepo, topicRepo: topicRepo, pages: pages}
}

// CreateComment stores a comment on target.PostID. The post page is revalidated
// in place, so success carries no redirect.
//
// The owning topic is only looked up after the insert. When it cannot be found
// the result reports a failure although the comment has been stored.
func (s *CommentService) CreateComment(ctx context.Context, session *auth.Session, target CommentTarget, form validation.CommentForm) Result {
	ctx, span := observability.StartAction(ctx, actionCreateComment)

	if errs := validation.Validate(form); errs != nil {
		return finish(ctx, actionCreateComment, span, invalid(errs), nil)
	}
	if session == nil {
		return finish(ctx, actionCreateComment, span,
			formError(OutcomeUnauthenticated, "You must sign in to do this."), nil)
	}

	comment := &models.Comment{
		Content:  form.Content,
		PostID:   target.PostID,
		ParentID: target.ParentID,
		UserID:   session.UserID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return finish(ctx, actionCreateComment, span, failed(err, "Something went wrong..."), err)
	}

	topic, err := s.topicRepo.FindByPostID(ctx, target.PostID)
	if err != nil || topic == nil {
		return finish(ctx, actionCreateComment, span, formError(OutcomeFailed, "Failed to revalidate topic"), err)
	}

	s.pages.Revalidate(ctx, paths.ShowPost(topic.Slug, target.PostID))
	return finish(ctx, actionCreateComment, span, Result{
		Outcome: OutcomeSucceeded,
		State:   FormState{Errors: validation.FieldErrors{}, Success: true},
	}, nil)
}
