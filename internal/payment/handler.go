package payment

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmlink/farm-market-backend/internal/order"
	"github.com/farmlink/farm-market-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/payment/session", h.createSession)
}

// RegisterPublicRoutes exposes verification: the provider redirect carrying
// the session reference may arrive after the buyer's tab is gone, so it is
// not tied to an authenticated session.
func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/payment/verify", h.verify)
}

func (h *Handler) createSession(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	input := new(order.CheckoutInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	session, err := h.service.CreateSession(c.Context(), userID, *input)
	if err != nil {
		switch err {
		case ErrPaymentFailed:
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"message": "payment failed",
				"details": "the payment provider could not create a checkout session; retry or switch to cash on delivery",
			})
		case ErrEmptyCart:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"url": session.URL, "session_id": session.ID})
}

type verifyRequest struct {
	SessionID string `json:"session_id"`
}

func (h *Handler) verify(c *fiber.Ctx) error {
	payload := new(verifyRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "session_id is required"})
	}

	result, err := h.service.Verify(c.Context(), payload.SessionID)
	if err != nil {
		if err == ErrSessionNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "payment session not found"})
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"success": false, "message": "payment verification failed"})
	}

	return c.JSON(result)
}
