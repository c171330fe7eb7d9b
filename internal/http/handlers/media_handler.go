package handlers

import (
	"errors"

	"auzland/internal/log"
	"auzland/internal/services"
	"auzland/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type MediaHandler struct {
	Media *services.MediaService
}

// Presign exchanges a media key for a time-limited URL. Failures keep the
// {ok:false} shape so clients can drop the image without special-casing.
func (h *MediaHandler) Presign(c *fiber.Ctx) error {
	key, ok := validate.MediaKey(c.Query("key"))
	if !ok {
		log.Security(c, "media.presign.badkey", map[string]any{"key": c.Query("key")})
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"ok": false, "error": "invalid media key"})
	}

	u, err := h.Media.PresignedURL(key)
	if errors.Is(err, services.ErrMediaNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"ok": false, "error": "media not found"})
	}
	if err != nil {
		log.Error(c, "media.presign", err, map[string]any{"key": key})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"ok": false, "error": "could not presign"})
	}
	return c.JSON(fiber.Map{"ok": true, "presignedUrl": u})
}

// File serves a previously presigned media object. The signature covers the
// key and expiry, so a tampered path or an expired link both 404 without
// touching the disk.
func (h *MediaHandler) File(c *fiber.Ctx) error {
	// Keys carry their own media/ prefix, so the wildcard is the whole key:
	// /media/media/p-1/front.jpg serves key media/p-1/front.jpg.
	key, ok := validate.MediaKey(c.Params("*"))
	if !ok {
		log.Security(c, "media.traversal.block", map[string]any{"path": c.Params("*")})
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err := h.Media.Verify(key, c.Query("exp"), c.Query("sig")); err != nil {
		log.Security(c, "media.sig.fail", map[string]any{"key": key, "reason": err.Error()})
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendFile(h.Media.FilePath(key), true)
}
