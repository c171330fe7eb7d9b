package handlers

import (
	"auzland/internal/domain"
	"auzland/internal/log"
	"auzland/internal/services"
	"auzland/internal/validate"

	"github.com/gofiber/fiber/v2"
)

// PropertiesHandler is the customer-facing read API: hidden listings never
// leave the server, filtering and sorting happen here rather than in the
// browser.
type PropertiesHandler struct {
	Listings *services.ListingService
}

func filterFromQuery(c *fiber.Ctx) domain.FilterState {
	return domain.FilterState{
		QuickSearch:  c.Query("quickSearch"),
		Suburb:       c.Query("suburb"),
		Address:      c.Query("address"),
		PropertyType: c.Query("propertyType"),
		Availability: c.Query("availability"),
		RegoStatus:   c.Query("registrationConstructionStatus"),

		PriceMin:     c.Query("priceMin"),
		PriceMax:     c.Query("priceMax"),
		BedMin:       c.Query("bedMin"),
		BedMax:       c.Query("bedMax"),
		BathMin:      c.Query("bathMin"),
		BathMax:      c.Query("bathMax"),
		GarageMin:    c.Query("garageMin"),
		GarageMax:    c.Query("garageMax"),
		FrontageMin:  c.Query("frontageMin"),
		FrontageMax:  c.Query("frontageMax"),
		LandSizeMin:  c.Query("landSizeMin"),
		LandSizeMax:  c.Query("landSizeMax"),
		BuildSizeMin: c.Query("buildSizeMin"),
		BuildSizeMax: c.Query("buildSizeMax"),
	}
}

func (h *PropertiesHandler) List(c *fiber.Ctx) error {
	f := filterFromQuery(c)
	page, size := validate.PageParams(c.Query("page"), c.Query("pageSize"))

	items, total, err := h.Listings.PublicView(f, c.Query("sort"), c.Query("dir"), page, size)
	if err != nil {
		log.Error(c, "properties.list", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load properties"})
	}
	if items == nil {
		items = []domain.Listing{}
	}
	return c.JSON(fiber.Map{
		"items":    items,
		"total":    total,
		"page":     page,
		"pageSize": size,
	})
}
