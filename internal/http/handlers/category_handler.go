package handlers

import (
	"time"

	"aifinder/internal/log"
	"aifinder/internal/services"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
	Timeout time.Duration
}

// Home renders the landing page with the category listing.
func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	cats, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		log.Error(c, "home.categories.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load categories. Please retry."})
	}
	return render(c, "index", fiber.Map{"Categories": cats})
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	cats, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		return writeError(c, "categories.list", err)
	}
	return c.JSON(cats)
}
