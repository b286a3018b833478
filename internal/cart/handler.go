package cart

import (
	"github.com/gofiber/fiber/v2"

	"github.com/farmlink/farm-market-backend/internal/product"
	"github.com/farmlink/farm-market-backend/internal/user"
)

// Handler delegates cart operations to the cart service.
type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart", h.addToCart)
	app.Delete("/api/v1/cart/:productId<[0-9]+>", h.removeFromCart)
	app.Delete("/api/v1/cart", h.clearCart)
}

type cartRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity,omitempty"`
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	payload := new(cartRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	// negative quantities decrement; zero returns the current cart
	cart, err := h.service.AddToCart(userID, payload.ProductID, payload.Quantity)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	cart, err := h.service.GetCart(userID)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) removeFromCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	productID, err := c.ParamsInt("productId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid productId"})
	}

	cart, err := h.service.RemoveFromCart(userID, productID)
	if err != nil {
		return cartError(c, err)
	}
	return c.JSON(cart)
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	if err := h.service.ClearCart(userID); err != nil {
		return cartError(c, err)
	}
	return c.JSON(fiber.Map{"message": "cart cleared"})
}

func cartError(c *fiber.Ctx, err error) error {
	switch err {
	case ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "user not found"})
	case product.ErrNotFound:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
