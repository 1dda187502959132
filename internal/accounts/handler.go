package accounts

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/custodia-pay/custodia/internal/metrics"
	"github.com/custodia-pay/custodia/internal/session"
)

// Form actions accepted by the accounts page.
const (
	actionListReceipts   = "list_receipts"
	actionGenerateBeacon = "generate_beacon"
	actionClearBeacons   = "clear_beacons"
	actionRemoveAccount  = "remove_account"
	actionNewAccount     = "new_account"
)

// UserDirectory resolves the authenticated user record. The account create
// RPC seeds the remote account name with the username.
type UserDirectory interface {
	Username(ctx context.Context, userID string) (string, error)
}

// Handler serves the accounts page and its form actions.
type Handler struct {
	service *Service
	users   UserDirectory
}

// NewHandler builds the accounts HTTP handler.
func NewHandler(service *Service, users UserDirectory) *Handler {
	return &Handler{service: service, users: users}
}

type actionRequest struct {
	Action      string `json:"action" form:"action"`
	AccountName string `json:"account_name" form:"account_name"`
}

// Index renders the accounts page.
func (h *Handler) Index(c *fiber.Ctx) error {
	userID, _ := c.Locals(session.UserIDLocal).(string)
	view, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(view)
}

// Action dispatches one accounts form submission. Failures re-render the
// accounts page with the error inline rather than replacing the page.
func (h *Handler) Action(c *fiber.Ctx) error {
	userID, _ := c.Locals(session.UserIDLocal).(string)

	var req actionRequest
	if err := c.BodyParser(&req); err != nil {
		return h.renderWithError(c, userID, "invalid form submission")
	}

	ctx := c.UserContext()
	switch req.Action {
	case actionListReceipts:
		view, err := h.service.Receipts(ctx, userID, req.AccountName)
		if err != nil {
			metrics.AccountOpsTotal.WithLabelValues(req.Action, "failed").Inc()
			return h.renderWithError(c, userID, err.Error())
		}
		metrics.AccountOpsTotal.WithLabelValues(req.Action, "ok").Inc()
		return c.JSON(view)
	case actionGenerateBeacon:
		return h.perform(c, userID, req.Action, func() error {
			return h.service.GenerateBeacon(ctx, userID, req.AccountName)
		})
	case actionClearBeacons:
		return h.perform(c, userID, req.Action, func() error {
			return h.service.ClearBeacons(ctx, userID, req.AccountName)
		})
	case actionRemoveAccount:
		return h.perform(c, userID, req.Action, func() error {
			return h.service.RemoveAccount(ctx, userID, req.AccountName)
		})
	case actionNewAccount:
		return h.perform(c, userID, req.Action, func() error {
			username, err := h.users.Username(ctx, userID)
			if err != nil {
				return err
			}
			return h.service.CreateAccount(ctx, userID, username)
		})
	default:
		return h.renderWithError(c, userID, "unknown action")
	}
}

// perform runs one mutating action and re-renders the accounts page,
// carrying the error inline on failure.
func (h *Handler) perform(c *fiber.Ctx, userID, action string, op func() error) error {
	if err := op(); err != nil {
		metrics.AccountOpsTotal.WithLabelValues(action, "failed").Inc()
		return h.renderWithError(c, userID, err.Error())
	}
	metrics.AccountOpsTotal.WithLabelValues(action, "ok").Inc()
	view, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(view)
}

func (h *Handler) renderWithError(c *fiber.Ctx, userID, message string) error {
	view, err := h.service.List(c.UserContext(), userID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	view.Error = message
	return c.JSON(view)
}
