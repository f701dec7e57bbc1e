package server

import (
	"strconv"
	"strings"

	"agora/internal/models"
	"agora/internal/service"
	"agora/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateTopic handles POST /api/topics
// @Summary Create a topic
// @Description Validates the form, requires a session, creates the topic and redirects to it
// @Tags topics
// @Accept json,x-www-form-urlencoded,mpfd
// @Produce json
// @Param request body validation.TopicForm true "Topic form"
// @Success 303 {object} service.FormState
// @Failure 401 {object} service.FormState
// @Failure 422 {object} service.FormState
// @Security BearerAuth
// @Router /topics [post]
func (s *Server) CreateTopic(c *fiber.Ctx) error {
	var form validation.TopicForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	res := s.topicService.CreateTopic(c.UserContext(), currentSession(c), form)
	return respondResult(c, res)
}

// CreatePost handles POST /api/topics/:slug/posts
// @Summary Create a post
// @Tags posts
// @Accept json,x-www-form-urlencoded,mpfd
// @Produce json
// @Param slug path string true "Topic slug"
// @Param request body validation.PostForm true "Post form"
// @Success 303 {object} service.FormState
// @Failure 401 {object} service.FormState
// @Failure 422 {object} service.FormState
// @Security BearerAuth
// @Router /topics/{slug}/posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var form validation.PostForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	res := s.postService.CreatePost(c.UserContext(), currentSession(c), c.Params("slug"), form)
	return respondResult(c, res)
}

// CreateComment handles POST /api/posts/:postId/comments
// @Summary Comment on a post
// @Description Replies to another comment when parentId is given. Success revalidates the post page and does not redirect.
// @Tags comments
// @Accept json,x-www-form-urlencoded,mpfd
// @Produce json
// @Param postId path int true "Post ID"
// @Param request body object{content=string,parentId=int} true "Comment form"
// @Success 200 {object} service.FormState
// @Failure 401 {object} service.FormState
// @Failure 422 {object} service.FormState
// @Security BearerAuth
// @Router /posts/{postId}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}

	form, parentID, err := parseCommentBody(c)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, err)
	}

	res := s.commentService.CreateComment(c.UserContext(), currentSession(c),
		service.CommentTarget{PostID: postID, ParentID: parentID}, form)
	return respondResult(c, res)
}

// parseCommentBody reads the comment form and its optional parentId. JSON
// bodies carry parentId as a number, form bodies as a decimal string.
func parseCommentBody(c *fiber.Ctx) (validation.CommentForm, *uint, error) {
	if c.Is("json") {
		var body struct {
			Content  string `json:"content"`
			ParentID *uint  `json:"parentId"`
		}
		if err := c.BodyParser(&body); err != nil {
			return validation.CommentForm{}, nil, models.NewValidationError("Invalid request body")
		}
		form := validation.CommentForm{Content: body.Content}
		if body.ParentID != nil && *body.ParentID == 0 {
			return form, nil, models.NewValidationError("Invalid parent ID")
		}
		return form, body.ParentID, nil
	}

	form := validation.CommentForm{Content: c.FormValue("content")}
	raw := strings.TrimSpace(c.FormValue("parentId"))
	if raw == "" {
		return form, nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return form, nil, models.NewValidationError("Invalid parent ID")
	}
	parentID := uint(id)
	return form, &parentID, nil
}
