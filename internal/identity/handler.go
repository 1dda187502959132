package identity

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-pay/custodia/internal/metrics"
	"github.com/custodia-pay/custodia/internal/session"
)

// Handler exposes the login lifecycle endpoints.
type Handler struct {
	service  *Service
	sessions *session.Manager
}

// NewHandler constructs an identity HTTP handler.
func NewHandler(service *Service, sessions *session.Manager) *Handler {
	return &Handler{service: service, sessions: sessions}
}

type credentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func loginView(err string) fiber.Map {
	v := fiber.Map{"view": "login"}
	if err != "" {
		v["error"] = err
	}
	return v
}

func registerView(err string) fiber.Map {
	v := fiber.Map{"view": "register"}
	if err != "" {
		v["error"] = err
	}
	return v
}

// Root redirects to the account list when logged in, to login otherwise.
func (h *Handler) Root(c *fiber.Ctx) error {
	if _, err := h.sessions.CurrentUserID(c); err == nil {
		return c.Redirect("/accounts", http.StatusFound)
	}
	return c.Redirect("/login", http.StatusFound)
}

// LoginPage renders the login view; an authenticated caller is sent straight
// to the account list.
func (h *Handler) LoginPage(c *fiber.Ctx) error {
	if _, err := h.sessions.CurrentUserID(c); err == nil {
		return c.Redirect("/accounts", http.StatusFound)
	}
	return c.JSON(loginView(""))
}

// Login verifies credentials and opens a session.
func (h *Handler) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(loginView(err.Error()))
	}

	user, err := h.service.Authenticate(c.UserContext(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failed").Inc()
		if errors.Is(err, ErrInvalidCredentials) {
			return c.Status(http.StatusUnauthorized).JSON(loginView(err.Error()))
		}
		return c.Status(http.StatusInternalServerError).JSON(loginView("login failed"))
	}

	token, err := h.sessions.Create(c.UserContext(), user.ID)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(loginView("login failed"))
	}
	h.sessions.SetCookie(c, token)
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	return c.Redirect("/accounts", http.StatusFound)
}

// RegisterPage renders the registration view.
func (h *Handler) RegisterPage(c *fiber.Ctx) error {
	if _, err := h.sessions.CurrentUserID(c); err == nil {
		return c.Redirect("/accounts", http.StatusFound)
	}
	return c.JSON(registerView(""))
}

// Register creates a new user and sends the caller to the login page.
func (h *Handler) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(registerView(err.Error()))
	}

	_, err := h.service.Register(c.UserContext(), Credentials{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(registerView(err.Error()))
	}

	return c.Redirect("/login", http.StatusFound)
}

// Logout destroys the current session.
func (h *Handler) Logout(c *fiber.Ctx) error {
	token := c.Cookies(session.CookieName)
	if err := h.sessions.Destroy(c.UserContext(), token); err != nil {
		return fiber.NewError(http.StatusInternalServerError, "logout failed")
	}
	h.sessions.ClearCookie(c)
	return c.Redirect("/accounts", http.StatusFound)
}
