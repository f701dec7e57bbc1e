package server

import (
	"errors"
	"strings"
	"unicode"

	"agora/internal/auth"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/query"
	"agora/internal/service"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	sessionLocal = "session"
	loaderLocal  = "loader"
)

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label,
// e.g. "postId" -> "post ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		return strings.ToLower(strings.Join(splitCamel(param[:len(param)-2]), " ")) + " ID"
	}
	return param
}

func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	return append(words, s[start:])
}

// SessionMiddleware attaches the caller's session when a valid bearer token or
// session cookie is present, and a fresh query loader for the request. It never
// rejects a request; actions decide what an anonymous caller may do.
func (s *Server) SessionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := s.sessionToken(c); token != "" {
			session, err := s.sessions.Parse(c.UserContext(), token)
			if err == nil {
				c.Locals(sessionLocal, session)
				c.SetUserContext(middleware.WithUserID(c.UserContext(), session.UserID))
			}
		}
		c.Locals(loaderLocal, query.NewLoader(s.repos))
		return c.Next()
	}
}

func (s *Server) sessionToken(c *fiber.Ctx) string {
	if parts := strings.Fields(c.Get(fiber.HeaderAuthorization)); len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return c.Cookies(s.config.SessionCookie)
}

// currentSession returns nil for anonymous requests.
func currentSession(c *fiber.Ctx) *auth.Session {
	session, _ := c.Locals(sessionLocal).(*auth.Session)
	return session
}

func (s *Server) loader(c *fiber.Ctx) *query.Loader {
	if l, ok := c.Locals(loaderLocal).(*query.Loader); ok {
		return l
	}
	l := query.NewLoader(s.repos)
	c.Locals(loaderLocal, l)
	return l
}

// respondResult writes a form action result. Successful actions that navigate
// answer 303 See Other with the target in Location.
func respondResult(c *fiber.Ctx, res service.Result) error {
	switch res.Outcome {
	case service.OutcomeSucceeded:
		if res.Redirect != "" {
			c.Location(res.Redirect)
			return c.Status(fiber.StatusSeeOther).JSON(res.State)
		}
		return c.Status(fiber.StatusOK).JSON(res.State)
	case service.OutcomeUnauthenticated:
		return c.Status(fiber.StatusUnauthorized).JSON(res.State)
	default:
		return c.Status(fiber.StatusUnprocessableEntity).JSON(res.State)
	}
}
