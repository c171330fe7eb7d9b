package handlers

import (
	"errors"

	"auzland/internal/domain"
	"auzland/internal/log"
	"auzland/internal/services"
	"auzland/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// ContactHandler takes public contact-form submissions. The endpoint is
// called cross-origin from the marketing site, so it answers preflights and
// stamps CORS headers on every response, including errors.
type ContactHandler struct {
	Contact *services.ContactService
}

func corsHeaders(c *fiber.Ctx) {
	c.Set("Access-Control-Allow-Origin", "*")
	c.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	c.Set("Access-Control-Allow-Headers", "Content-Type")
}

// Preflights answer 200 with an empty body, which is what the marketing
// site's fetch wrapper checks for.
func (h *ContactHandler) Options(c *fiber.Ctx) error {
	corsHeaders(c)
	return c.Status(fiber.StatusOK).SendString("")
}

func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	corsHeaders(c)

	var in struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	email, okEmail := validate.Email(in.Email)
	phone, okPhone := validate.Phone(in.Phone)
	name, okName := validate.Name(in.Name)
	if !okEmail || !okPhone || !okName {
		log.Security(c, "contact.validation.fail", map[string]any{"email": in.Email})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "all fields are required"})
	}

	msg := &domain.ContactMessage{
		Name:    name,
		Email:   email,
		Phone:   phone,
		Subject: in.Subject,
		Message: in.Message,
	}
	err := h.Contact.Submit(msg)
	if errors.Is(err, services.ErrMissingFields) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "all fields are required"})
	}
	if err != nil {
		log.Error(c, "contact.submit", err, map[string]any{"id": msg.ID})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not send message"})
	}

	log.Audit(c, "contact.submit", map[string]any{"id": msg.ID})
	return c.JSON(fiber.Map{"ok": true})
}
