package server

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"agora/internal/auth"
	"agora/internal/middleware"
	"agora/internal/models"
	"agora/internal/paths"

	"github.com/gofiber/fiber/v2"
)

const oauthStateCookie = "agora_oauth_state"

// GitHubSignIn handles GET /api/auth/github
// @Summary Sign in with GitHub
// @Description Redirects to the GitHub consent page
// @Tags auth
// @Success 302
// @Failure 503 {object} models.ErrorResponse
// @Router /auth/github [get]
func (s *Server) GitHubSignIn(c *fiber.Ctx) error {
	if !s.github.Enabled() {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable,
			errors.New("GitHub sign-in is not configured"))
	}

	state := auth.NewState()
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   int((10 * time.Minute).Seconds()),
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect(s.github.AuthCodeURL(state), fiber.StatusFound)
}

// GitHubCallback handles GET /api/auth/github/callback
// @Summary GitHub OAuth callback
// @Description Links the GitHub identity to a forum user, sets the session cookie and redirects home
// @Tags auth
// @Param code query string true "Authorization code"
// @Param state query string true "State issued by the sign-in redirect"
// @Success 303
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/github/callback [get]
func (s *Server) GitHubCallback(c *fiber.Ctx) error {
	ctx := c.UserContext()

	expected := c.Cookies(oauthStateCookie)
	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookie,
		Path:     "/api/auth",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
	})
	if expected == "" || c.Query("state") != expected {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid OAuth state"))
	}

	code := c.Query("code")
	if code == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Missing authorization code"))
	}

	user, err := s.github.Complete(ctx, code)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "github sign-in failed", slog.String("error", err.Error()))
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("GitHub sign-in failed"))
	}

	token, session, err := s.sessions.Issue(user)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
	}

	c.Cookie(&fiber.Cookie{
		Name:     s.config.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HTTPOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	middleware.Logger.InfoContext(middleware.WithUserID(ctx, user.ID), "user signed in")
	return c.Redirect(strings.TrimSuffix(s.config.PublicURL, "/")+paths.Home(), fiber.StatusSeeOther)
}

// SignOut handles POST /api/auth/signout
// @Summary Sign out
// @Description Revokes the current session token and clears the session cookie
// @Tags auth
// @Produce json
// @Success 200 {object} object{message=string}
// @Router /auth/signout [post]
func (s *Server) SignOut(c *fiber.Ctx) error {
	if session := currentSession(c); session != nil {
		if err := s.sessions.Revoke(c.UserContext(), session); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "session revocation failed", slog.String("error", err.Error()))
		}
	}
	c.ClearCookie(s.config.SessionCookie)
	return c.JSON(fiber.Map{"message": "Signed out"})
}

// GetSession handles GET /api/auth/session
// @Summary Current session
// @Description Returns the signed-in user's session, or null for anonymous callers
// @Tags auth
// @Produce json
// @Success 200 {object} object{session=auth.Session}
// @Router /auth/session [get]
func (s *Server) GetSession(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"session": currentSession(c)})
}
