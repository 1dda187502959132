package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/custodia-pay/custodia/internal/accounts"
	"github.com/custodia-pay/custodia/internal/session"
)

// RegisterAccountRoutes wires the session-gated account pages.
func RegisterAccountRoutes(app *fiber.App, h *accounts.Handler, sessions *session.Manager) {
	group := app.Group("/accounts", session.Require(sessions))
	group.Get("/", h.Index)
	group.Post("/", h.Action)
}
