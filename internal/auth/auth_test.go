package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agora/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func name(s string) *string { return &s }

func TestManager_IssueAndParse(t *testing.T) {
	_, rdb := setupRedis(t)
	m := NewManager("test-secret", time.Hour, rdb)

	token, issued, err := m.Issue(&models.User{ID: 7, Name: name("octo")})
	require.NoError(t, err)
	require.NotEmpty(t, issued.TokenID)

	session, err := m.Parse(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), session.UserID)
	assert.Equal(t, "octo", *session.Name)
	assert.Nil(t, session.Image)
	assert.Equal(t, issued.TokenID, session.TokenID)
}

func TestManager_ParseRejects(t *testing.T) {
	m := NewManager("test-secret", time.Hour, nil)
	token, _, err := m.Issue(&models.User{ID: 1})
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewManager("other-secret", time.Hour, nil).Parse(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewManager("test-secret", time.Hour, nil)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Parse(context.Background(), token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse(context.Background(), "not-a-token")
		assert.Error(t, err)
	})
}

func TestManager_IssueRequiresSecret(t *testing.T) {
	_, _, err := NewManager("", time.Hour, nil).Issue(&models.User{ID: 1})
	assert.Error(t, err)
}

func TestManager_Revoke(t *testing.T) {
	mr, rdb := setupRedis(t)
	m := NewManager("test-secret", time.Hour, rdb)
	ctx := context.Background()

	token, session, err := m.Issue(&models.User{ID: 3})
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, session))

	assert.True(t, mr.Exists("blacklist:"+session.TokenID))
	assert.InDelta(t, time.Hour.Seconds(), mr.TTL("blacklist:"+session.TokenID).Seconds(), 5)

	_, err = m.Parse(ctx, token)
	assert.ErrorIs(t, err, ErrRevoked)

	assert.NoError(t, m.Revoke(ctx, nil))
}

type userRepoStub struct {
	account models.Account
	profile models.User
}

func (s *userRepoStub) FindByID(_ context.Context, id uint) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (s *userRepoStub) UpsertOAuthUser(_ context.Context, account models.Account, profile models.User) (*models.User, error) {
	s.account, s.profile = account, profile
	profile.ID = 11
	return &profile, nil
}

func TestGitHub_Complete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.Form.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "gho_abc",
			"token_type":   "bearer",
			"scope":        "read:user",
		})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gho_abc", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":         42,
			"login":      "octocat",
			"avatar_url": "https://avatars/octo.png",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	users := &userRepoStub{}
	gh := NewGitHub(GitHubConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		CallbackURL:  "http://localhost/api/auth/github/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:  srv.URL + "/login/oauth/authorize",
			TokenURL: srv.URL + "/login/oauth/access_token",
		},
		UserAPI: srv.URL + "/user",
	}, users)
	require.True(t, gh.Enabled())
	assert.Contains(t, gh.AuthCodeURL("xyz"), "state=xyz")

	user, err := gh.Complete(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, uint(11), user.ID)

	assert.Equal(t, ProviderGitHub, users.account.Provider)
	assert.Equal(t, "42", users.account.ProviderAccountID)
	assert.Equal(t, "gho_abc", users.account.AccessToken)
	assert.Equal(t, "read:user", users.account.Scope)
	assert.Equal(t, "octocat", *users.profile.Name)
	assert.Nil(t, users.profile.Email)
}

func TestGitHub_DisabledWithoutCredentials(t *testing.T) {
	assert.False(t, NewGitHub(GitHubConfig{}, &userRepoStub{}).Enabled())
	var gh *GitHub
	assert.False(t, gh.Enabled())
}
