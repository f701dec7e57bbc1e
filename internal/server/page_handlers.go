package server

import (
	"strings"

	"agora/internal/models"
	"agora/internal/paths"
	"agora/internal/query"

	"github.com/gofiber/fiber/v2"
)

// HomePage is the payload of the landing page.
type HomePage struct {
	TopPosts []*models.PostSummary `json:"top_posts"`
	Topics   []*models.Topic       `json:"topics"`
}

// TopicPage is the payload of a topic page.
type TopicPage struct {
	Topic *models.Topic         `json:"topic"`
	Posts []*models.PostSummary `json:"posts"`
}

// PostPage is the payload of a post page with its comment threads.
type PostPage struct {
	Post     *models.PostSummary `json:"post"`
	Comments []query.Node        `json:"comments"`
}

// CommentsPage lists a post's comments both flat and threaded.
type CommentsPage struct {
	Comments []*models.CommentWithAuthor `json:"comments"`
	Thread   []query.Node                `json:"thread"`
}

// SearchPage is the payload of the search results page.
type SearchPage struct {
	Term  string                `json:"term"`
	Posts []*models.PostSummary `json:"posts"`
}

func writeReadError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusFor(err), err)
}

// GetHome handles GET /api/
// @Summary Home page
// @Description Top posts by comment count and all topics
// @Tags pages
// @Produce json
// @Success 200 {object} HomePage
// @Router / [get]
func (s *Server) GetHome(c *fiber.Ctx) error {
	ctx := c.UserContext()
	l := s.loader(c)

	var page HomePage
	err := s.pages.Aside(ctx, paths.Home(), &page, func() error {
		var err error
		if page.TopPosts, err = l.TopPosts(ctx); err != nil {
			return err
		}
		page.Topics, err = l.Topics(ctx)
		return err
	})
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(page)
}

// ListTopics handles GET /api/topics
// @Summary List topics
// @Tags topics
// @Produce json
// @Success 200 {array} models.Topic
// @Router /topics [get]
func (s *Server) ListTopics(c *fiber.Ctx) error {
	topics, err := s.loader(c).Topics(c.UserContext())
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(topics)
}

// GetTopic handles GET /api/topics/:slug
// @Summary Topic page
// @Tags topics
// @Produce json
// @Param slug path string true "Topic slug"
// @Success 200 {object} TopicPage
// @Failure 404 {object} models.ErrorResponse
// @Router /topics/{slug} [get]
func (s *Server) GetTopic(c *fiber.Ctx) error {
	ctx := c.UserContext()
	l := s.loader(c)
	slug := c.Params("slug")

	var page TopicPage
	err := s.pages.Aside(ctx, paths.ShowTopic(slug), &page, func() error {
		topic, err := l.TopicBySlug(ctx, slug)
		if err != nil {
			return err
		}
		if topic == nil {
			return models.NewNotFoundError("Topic", slug)
		}
		page.Topic = topic
		page.Posts, err = l.PostsByTopicSlug(ctx, slug)
		return err
	})
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(page)
}

// GetPost handles GET /api/topics/:slug/posts/:postId
// @Summary Post page
// @Description A post with its threaded comments
// @Tags posts
// @Produce json
// @Param slug path string true "Topic slug"
// @Param postId path int true "Post ID"
// @Success 200 {object} PostPage
// @Failure 404 {object} models.ErrorResponse
// @Router /topics/{slug}/posts/{postId} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	ctx := c.UserContext()
	l := s.loader(c)
	slug := c.Params("slug")

	var page PostPage
	err = s.pages.Aside(ctx, paths.ShowPost(slug, postID), &page, func() error {
		post, err := l.PostByID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil || post.TopicSlug != slug {
			return models.NewNotFoundError("Post", postID)
		}
		thread, err := l.ThreadForPost(ctx, postID)
		if err != nil {
			return err
		}
		page.Post = post
		page.Comments = thread.Tree()
		return nil
	})
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(page)
}

// ListComments handles GET /api/posts/:postId/comments
// @Summary List comments of a post
// @Tags comments
// @Produce json
// @Param postId path int true "Post ID"
// @Success 200 {object} CommentsPage
// @Router /posts/{postId}/comments [get]
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "postId")
	if err != nil {
		return nil
	}
	ctx := c.UserContext()
	l := s.loader(c)

	comments, err := l.CommentsByPostID(ctx, postID)
	if err != nil {
		return writeReadError(c, err)
	}
	thread, err := l.ThreadForPost(ctx, postID)
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(CommentsPage{Comments: comments, Thread: thread.Tree()})
}

// SearchPosts handles GET /api/search?term=...
// @Summary Search posts
// @Tags posts
// @Produce json
// @Param term query string true "Search term"
// @Success 200 {object} SearchPage
// @Failure 400 {object} models.ErrorResponse
// @Router /search [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	term := strings.TrimSpace(c.Query("term"))
	if term == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Search term is required"))
	}

	posts, err := s.loader(c).PostsBySearchTerm(c.UserContext(), term)
	if err != nil {
		return writeReadError(c, err)
	}
	return c.JSON(SearchPage{Term: term, Posts: posts})
}
