package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"agora/internal/models"
	"agora/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const (
	// ProviderGitHub is the Account.Provider value of GitHub identities.
	ProviderGitHub = "github"

	defaultGitHubUserAPI = "https://api.github.com/user"
)

// GitHubConfig configures the GitHub OAuth application.
type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
	// Endpoint and UserAPI default to github.com and exist for tests.
	Endpoint oauth2.Endpoint
	UserAPI  string
}

// GitHub signs users in with their GitHub account.
type GitHub struct {
	oauth   *oauth2.Config
	userAPI string
	users   repository.UserRepository
}

type githubProfile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// NewGitHub returns the GitHub sign-in flow storing identities through users.
func NewGitHub(cfg GitHubConfig, users repository.UserRepository) *GitHub {
	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = github.Endpoint
	}
	userAPI := cfg.UserAPI
	if userAPI == "" {
		userAPI = defaultGitHubUserAPI
	}
	return &GitHub{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
		userAPI: userAPI,
		users:   users,
	}
}

// Enabled reports whether client credentials are configured.
func (g *GitHub) Enabled() bool {
	return g != nil && g.oauth.ClientID != "" && g.oauth.ClientSecret != ""
}

// NewState returns a random value binding the sign-in redirect to its callback.
func NewState() string {
	return uuid.NewString()
}

// AuthCodeURL is the GitHub consent page the browser is sent to.
func (g *GitHub) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// Complete exchanges the callback code, loads the GitHub profile and links it
// to a forum user, creating one on first sign-in.
func (g *GitHub) Complete(ctx context.Context, code string) (*models.User, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange oauth code: %w", err)
	}

	profile, err := g.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	scope, _ := token.Extra("scope").(string)
	account := models.Account{
		Provider:          ProviderGitHub,
		ProviderAccountID: strconv.FormatInt(profile.ID, 10),
		AccessToken:       token.AccessToken,
		TokenType:         token.TokenType,
		Scope:             scope,
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}
	user := models.User{Name: optional(name), Email: optional(profile.Email), Image: optional(profile.AvatarURL)}

	return g.users.UpsertOAuthUser(ctx, account, user)
}

func (g *GitHub) fetchProfile(ctx context.Context, token *oauth2.Token) (*githubProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userAPI, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch github profile: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch github profile: unexpected status %d", resp.StatusCode)
	}

	var profile githubProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode github profile: %w", err)
	}
	if profile.ID == 0 {
		return nil, fmt.Errorf("github profile has no id")
	}
	return &profile, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
