package assistant

import "github.com/gofiber/fiber/v2"

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/assistant/chat", h.chat)
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *Handler) chat(c *fiber.Ctx) error {
	payload := new(chatRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	return c.JSON(fiber.Map{"reply": h.service.Reply(c.Context(), payload.Message)})
}
