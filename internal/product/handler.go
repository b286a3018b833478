package product

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/farmlink/farm-market-backend/internal/user"
)

type Handler struct {
	service ServiceInterface
}

func NewHandler(s ServiceInterface) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.listProducts)
	app.Get("/api/v1/products/:id<[0-9]+>", h.getProduct)
	app.Get("/api/v1/categories", h.listCategories)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/farmer/products", h.listOwnProducts)
	app.Post("/api/v1/products", h.createProduct)
	app.Put("/api/v1/products/:id<[0-9]+>", h.updateProduct)
	app.Delete("/api/v1/products/:id<[0-9]+>", h.deleteProduct)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	return c.JSON(h.service.List(c.Query("category")))
}

func (h *Handler) listCategories(c *fiber.Ctx) error {
	return c.JSON(AllowedCategories)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	p, err := h.service.GetByID(id)
	if err != nil {
		if err == ErrNotFound {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(p)
}

func (h *Handler) listOwnProducts(c *fiber.Ctx) error {
	farmerID, err := farmerFromCtx(c)
	if err != nil {
		return rejectAuth(c, err)
	}
	return c.JSON(h.service.ListByFarmer(farmerID))
}

type productRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       string  `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    *string `json:"imageUrl"`
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	farmerID, err := farmerFromCtx(c)
	if err != nil {
		return rejectAuth(c, err)
	}

	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	price, err := decimal.NewFromString(payload.Price)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid price"})
	}

	now := time.Now().UTC().Format(time.RFC3339)
	created, err := h.service.Create(Product{
		FarmerID:    farmerID,
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		Price:       price,
		Quantity:    payload.Quantity,
		ImageURL:    payload.ImageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	farmerID, err := farmerFromCtx(c)
	if err != nil {
		return rejectAuth(c, err)
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	price, err := decimal.NewFromString(payload.Price)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid price"})
	}

	updated, err := h.service.Update(farmerID, id, Product{
		Name:        payload.Name,
		Description: payload.Description,
		Category:    payload.Category,
		Price:       price,
		Quantity:    payload.Quantity,
		ImageURL:    payload.ImageURL,
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		case ErrNotOwner:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "not your product"})
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	farmerID, err := farmerFromCtx(c)
	if err != nil {
		return rejectAuth(c, err)
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid id"})
	}

	if err := h.service.Delete(farmerID, id); err != nil {
		switch err {
		case ErrNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "product not found"})
		case ErrNotOwner:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "not your product"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "product deleted"})
}

// farmerFromCtx authorizes product management and returns the caller id.
func farmerFromCtx(c *fiber.Ctx) (int, error) {
	userID, err := user.GetUserIDFromCtx(c)
	if err != nil {
		return 0, fiber.ErrUnauthorized
	}
	role, err := user.GetRoleFromCtx(c)
	if err != nil || !user.Can(role, user.CapManageProducts) {
		return 0, fiber.ErrForbidden
	}
	return userID, nil
}

func rejectAuth(c *fiber.Ctx, err error) error {
	if err == fiber.ErrForbidden {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
	}
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
}
