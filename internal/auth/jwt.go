package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"agora/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	issuer    = "agora-api"
	audience  = "agora-client"
	blacklist = "blacklist:"
)

// ErrRevoked is returned by Parse for a token that was signed out.
var ErrRevoked = errors.New("token has been revoked")

type claims struct {
	Name  *string `json:"name,omitempty"`
	Image *string `json:"image,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs session tokens and tracks revoked ones in Redis.
type Manager struct {
	secret []byte
	ttl    time.Duration
	rdb    *redis.Client
	now    func() time.Time
}

// NewManager returns a Manager signing with secret. rdb may be nil, in which
// case revocation is not persisted.
func NewManager(secret string, ttl time.Duration, rdb *redis.Client) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl, rdb: rdb, now: time.Now}
}

// TTL is the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a session token for user.
func (m *Manager) Issue(user *models.User) (string, *Session, error) {
	if len(m.secret) == 0 {
		return "", nil, fmt.Errorf("JWT secret not configured")
	}

	now := m.now()
	session := &Session{
		UserID:    user.ID,
		Name:      user.Name,
		Image:     user.Image,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(m.ttl),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name:  user.Name,
		Image: user.Image,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        session.TokenID,
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, err
	}
	return signed, session, nil
}

// Parse verifies tokenString and returns its session.
func (m *Manager) Parse(ctx context.Context, tokenString string) (*Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}

	userID, err := strconv.ParseUint(c.Subject, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}

	if c.ID != "" && m.rdb != nil {
		n, err := m.rdb.Exists(ctx, blacklist+c.ID).Result()
		if err == nil && n > 0 {
			return nil, ErrRevoked
		}
	}

	return &Session{
		UserID:    uint(userID),
		Name:      c.Name,
		Image:     c.Image,
		TokenID:   c.ID,
		ExpiresAt: c.ExpiresAt.Time,
	}, nil
}

// Revoke blacklists the session's token until it would have expired anyway.
func (m *Manager) Revoke(ctx context.Context, s *Session) error {
	if s == nil || s.TokenID == "" || m.rdb == nil {
		return nil
	}
	ttl := s.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil
	}
	return m.rdb.Set(ctx, blacklist+s.TokenID, "1", ttl).Err()
}
