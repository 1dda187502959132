package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/custodia-pay/custodia/internal/identity"
)

// RegisterIdentityRoutes wires the public login lifecycle endpoints. The
// rate limiter guards the credential-bearing login POST only.
func RegisterIdentityRoutes(app *fiber.App, h *identity.Handler, rateLimiter fiber.Handler) {
	app.Get("/", h.Root)
	app.Get("/login", h.LoginPage)
	app.Post("/login", rateLimiter, h.Login)
	app.Get("/register", h.RegisterPage)
	app.Post("/register", h.Register)
	app.Get("/logout", h.Logout)
}
