package handlers

import (
	"errors"

	"auzland/internal/domain"
	"auzland/internal/log"
	"auzland/internal/repos"
	"auzland/internal/services"
	"auzland/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler covers account provisioning and the contact-message view.
// Every route behind it passes RequireAdmin first.
type AdminHandler struct {
	Auth     *services.AuthService
	Users    *repos.UserRepo
	Contacts *repos.ContactRepo
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		log.Error(c, "admin.users.list", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list users"})
	}
	out := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		out = append(out, fiber.Map{"id": u.ID, "email": u.Email, "name": u.Name, "role": u.Role})
	}
	return c.JSON(fiber.Map{"users": out})
}

func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var in struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	email, okEmail := validate.Email(in.Email)
	name, okName := validate.Name(in.Name)
	if !okEmail || !okName {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email or name"})
	}
	if !validate.Password(in.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "password must be 8-20 chars with upper, lower, digit and symbol",
		})
	}

	u, err := h.Auth.CreateUser(email, name, in.Password, in.Role)
	if errors.Is(err, services.ErrDuplicateEmail) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "email already in use"})
	}
	if err != nil {
		log.Error(c, "admin.users.create", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not create user"})
	}

	log.Audit(c, "admin.users.create", map[string]any{"id": u.ID, "email": u.Email, "role": u.Role})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user": fiber.Map{"id": u.ID, "email": u.Email, "name": u.Name, "role": u.Role},
	})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid user id"})
	}
	if u, _ := c.Locals("user").(*domain.User); u != nil && u.ID == id {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot delete yourself"})
	}
	if err := h.Users.Delete(id); err != nil {
		log.Error(c, "admin.users.delete", err, map[string]any{"id": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not delete user"})
	}
	log.Audit(c, "admin.users.delete", map[string]any{"id": id})
	return c.JSON(fiber.Map{"ok": true})
}

// ListContacts shows the most recent contact-form submissions.
func (h *AdminHandler) ListContacts(c *fiber.Ctx) error {
	msgs, err := h.Contacts.Latest(100)
	if err != nil {
		log.Error(c, "admin.contacts.list", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not list messages"})
	}
	out := make([]fiber.Map, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, fiber.Map{
			"id": m.ID, "name": m.Name, "email": m.Email, "phone": m.Phone,
			"subject": m.Subject, "message": m.Message, "createdAt": m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"messages": out})
}
