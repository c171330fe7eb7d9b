package handlers

import (
	"auzland/internal/ai"
	"auzland/internal/domain"
	"auzland/internal/log"

	"github.com/gofiber/fiber/v2"
)

// AIHandler fronts the natural-language filter assistant.
type AIHandler struct {
	Translator *ai.Translator
}

func (h *AIHandler) Filter(c *fiber.Ctx) error {
	var in struct {
		UserMessage         string             `json:"userMessage"`
		ConversationHistory []ai.Turn          `json:"conversationHistory"`
		CurrentFilters      domain.FilterState `json:"currentFilters"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if in.UserMessage == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "userMessage is required"})
	}

	reply, err := h.Translator.Translate(c.Context(), in.UserMessage, in.ConversationHistory, in.CurrentFilters)
	if err != nil {
		log.Error(c, "ai.filter", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "assistant unavailable, try again"})
	}

	log.Info(c, "ai.filter", map[string]any{"cleared": reply.Filters.ClearAll})
	return c.JSON(reply)
}
