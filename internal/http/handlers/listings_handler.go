package handlers

import (
	"errors"

	"auzland/internal/log"
	"auzland/internal/repos"
	"auzland/internal/services"

	"github.com/gofiber/fiber/v2"
)

// ListingsHandler serves the full-document CSV endpoint the dashboard works
// against: fetch the whole collection with its version token, put it back
// with the token from the fetch.
type ListingsHandler struct {
	Listings *services.ListingService
}

func (h *ListingsHandler) Get(c *fiber.Ctx) error {
	csv, version, err := h.Listings.Raw()
	if err != nil {
		log.Error(c, "listings.get", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load listings"})
	}
	return c.JSON(fiber.Map{"csv": csv, "versionId": version})
}

func (h *ListingsHandler) Put(c *fiber.Ctx) error {
	var in struct {
		CSV               string `json:"csv"`
		ExpectedVersionID string `json:"expectedVersionId"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if in.CSV == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "csv is required"})
	}

	version, err := h.Listings.SaveRaw(in.CSV, in.ExpectedVersionID)
	if errors.Is(err, repos.ErrVersionConflict) {
		log.Security(c, "listings.put.conflict", map[string]any{"expected": in.ExpectedVersionID})
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "version conflict, reload and retry"})
	}
	if err != nil {
		log.Error(c, "listings.put", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save listings"})
	}

	log.Audit(c, "listings.put", map[string]any{"bytes": len(in.CSV), "version": version})
	return c.JSON(fiber.Map{"versionId": version})
}
