package session

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	return NewManager(cache, time.Hour)
}

func TestSessionLifecycle(t *testing.T) {
	m := setupManager(t)
	ctx := context.Background()

	token, err := m.Create(ctx, "user-1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	userID, err := m.UserID(ctx, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if userID != "user-1" {
		t.Fatalf("expected user-1, got %s", userID)
	}

	if err := m.Destroy(ctx, token); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if _, err := m.UserID(ctx, token); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
}

func TestUnknownTokenIsNoSession(t *testing.T) {
	m := setupManager(t)
	if _, err := m.UserID(context.Background(), "bogus"); err != ErrNoSession {
		t.Fatalf("expected ErrNoSession, got %v", err)
	}
	if err := m.Destroy(context.Background(), ""); err != nil {
		t.Fatalf("destroy empty token: %v", err)
	}
}

func TestRequireRedirectsBrowsers(t *testing.T) {
	m := setupManager(t)

	app := fiber.New()
	app.Get("/accounts", Require(m), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	req := httptest.NewRequest(fiber.MethodGet, "/accounts", nil)
	req.Header.Set(fiber.HeaderAccept, "text/html")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if loc := resp.Header.Get(fiber.HeaderLocation); loc != "/login" {
		t.Fatalf("expected redirect to /login, got %q", loc)
	}
}

func TestRequireRejectsAPIClients(t *testing.T) {
	m := setupManager(t)

	app := fiber.New()
	app.Get("/accounts", Require(m), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/accounts", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestRequirePassesAuthenticated(t *testing.T) {
	m := setupManager(t)

	token, err := m.Create(context.Background(), "user-9")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	app := fiber.New()
	app.Get("/accounts", Require(m), func(c *fiber.Ctx) error {
		uid, _ := c.Locals(UserIDLocal).(string)
		return c.SendString(uid)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/accounts", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	resp.Body.Close()
	if string(body) != "user-9" {
		t.Fatalf("expected user id in body, got %q", string(body))
	}
}
