// Package session provides the redis-backed login sessions behind the
// browser cookie, plus the middleware that gates authenticated routes.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName carries the opaque session token.
	CookieName = "custodia_session"

	keyPrefix = "session:v1:"

	// UserIDLocal is the fiber locals key holding the authenticated user id.
	UserIDLocal = "user_id"
)

// ErrNoSession indicates the token does not map to a live session.
var ErrNoSession = errors.New("no session")

// Manager creates, resolves, and destroys login sessions in Redis.
type Manager struct {
	cache *redis.Client
	ttl   time.Duration
}

// NewManager builds a session manager with the given session lifetime.
func NewManager(cache *redis.Client, ttl time.Duration) *Manager {
	return &Manager{cache: cache, ttl: ttl}
}

// Create opens a session for the user and returns the opaque token.
func (m *Manager) Create(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()
	if err := m.cache.Set(ctx, keyPrefix+token, userID, m.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return token, nil
}

// UserID resolves a token to the owning user id and refreshes the TTL.
func (m *Manager) UserID(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	userID, err := m.cache.Get(ctx, keyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	m.cache.Expire(ctx, keyPrefix+token, m.ttl)
	return userID, nil
}

// Destroy removes a session. Destroying an unknown token is a no-op.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.cache.Del(ctx, keyPrefix+token).Err()
}

// SetCookie attaches the session cookie to the response.
func (m *Manager) SetCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(m.ttl),
	})
}

// ClearCookie expires the session cookie.
func (m *Manager) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
	})
}

// CurrentUserID returns the user id for the request's session cookie, or
// ErrNoSession.
func (m *Manager) CurrentUserID(c *fiber.Ctx) (string, error) {
	return m.UserID(c.UserContext(), c.Cookies(CookieName))
}

// Require is the login gate for protected routes: it resolves the session
// cookie and stores the user id in Locals. Browser requests are redirected
// to /login; API clients get a 401.
func Require(m *Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := m.CurrentUserID(c)
		if err != nil {
			if errors.Is(err, ErrNoSession) {
				if wantsHTML(c) {
					return c.Redirect("/login", http.StatusFound)
				}
				return fiber.NewError(http.StatusUnauthorized, "login required")
			}
			return fiber.NewError(http.StatusInternalServerError, "session store failure")
		}
		c.Locals(UserIDLocal, userID)
		return c.Next()
	}
}

func wantsHTML(c *fiber.Ctx) bool {
	return strings.Contains(c.Get(fiber.HeaderAccept), "text/html")
}
