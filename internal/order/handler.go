package order

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmlink/farm-market-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/checkout", h.checkout)
	app.Get("/api/v1/orders", h.listOrders)
	app.Get("/api/v1/orders/:id", h.getOrder)
	app.Patch("/api/v1/orders/:id/status", h.updateStatus)
	app.Get("/api/v1/farmer/orders", h.listFarmerOrders)
	app.Get("/api/v1/admin/orders", h.listAllOrders)
}

// checkout is the cash-on-delivery path; card payments go through the
// payment session endpoints instead.
func (h *Handler) checkout(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	input := new(CheckoutInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if input.PaymentMethod != PaymentCashOnDelivery {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "checkout accepts cash-on-delivery only; card payments use the payment session flow",
		})
	}

	created, err := h.service.Checkout(c.Context(), userID, *input)
	if err != nil {
		if err == ErrEmptyCart {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "cart is empty"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListForUser(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := user.GetRoleFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	ord, err := h.service.GetOrder(c.Params("id"))
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	// buyers see their own orders; farmers see only their own items;
	// admins see everything
	switch {
	case ord.UserID == userID:
	case user.Can(role, user.CapViewAllOrders):
	case user.Can(role, user.CapManageOrders) && ownsItems(ord, userID):
		ord = filterItems(ord, userID)
	default:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
	}

	return c.JSON(ord)
}

type statusRequest struct {
	Action string `json:"action"`
}

func (h *Handler) updateStatus(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := user.GetRoleFromCtx(c)
	if err != nil || !user.Can(role, user.CapManageOrders) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
	}

	payload := new(statusRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	admin := user.Can(role, user.CapViewAllOrders)
	updated, message, err := h.service.ApplyAction(c.Context(), c.Params("id"), userID, admin, payload.Action)
	if err != nil {
		switch err {
		case ErrUnknownAction:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "unknown action"})
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "order not found"})
		case ErrNotYourOrder:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "order has no items belonging to you"})
		case ErrInvalidTransition:
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": "status cannot change that way"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"order": updated, "message": message})
}

func (h *Handler) listFarmerOrders(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}
	role, err := user.GetRoleFromCtx(c)
	if err != nil || !user.Can(role, user.CapManageOrders) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
	}

	orders, err := h.service.ListForFarmer(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) listAllOrders(c *fiber.Ctx) error {
	role, err := user.GetRoleFromCtx(c)
	if err != nil || !user.Can(role, user.CapViewAllOrders) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
	}

	orders, err := h.service.ListAll()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}
