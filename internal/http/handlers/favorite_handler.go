package handlers

import (
	"time"

	"aifinder/internal/apperror"
	applog "aifinder/internal/log"
	"aifinder/internal/metrics"
	"aifinder/internal/services"
	"aifinder/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type FavoriteHandler struct {
	Favorites *services.FavoriteService
	Metrics   *metrics.Metrics
	Timeout   time.Duration
}

type favoriteRequest struct {
	UserID     int64 `json:"user_id" form:"user_id"`
	NeuroID    int64 `json:"neuro_id" form:"neuro_id"`
	CategoryID int64 `json:"category_id" form:"category_id"`
}

func (h *FavoriteHandler) AddNetwork(c *fiber.Ctx) error {
	var in favoriteRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, "favorites.network.add", err)
	}
	if in.UserID <= 0 {
		return writeError(c, "favorites.network.add", apperror.InvalidInput("user_id", "user_id is required"))
	}
	if in.NeuroID <= 0 {
		return writeError(c, "favorites.network.add", apperror.InvalidInput("neuro_id", "neuro_id is required"))
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	created, err := h.Favorites.AddNetwork(ctx, in.UserID, in.NeuroID)
	if err != nil {
		return writeError(c, "favorites.network.add", err)
	}
	return h.added(c, "network", created, map[string]any{"user_id": in.UserID, "neuro_id": in.NeuroID})
}

func (h *FavoriteHandler) AddCategory(c *fiber.Ctx) error {
	var in favoriteRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, "favorites.category.add", err)
	}
	if in.UserID <= 0 {
		return writeError(c, "favorites.category.add", apperror.InvalidInput("user_id", "user_id is required"))
	}
	if in.CategoryID <= 0 {
		return writeError(c, "favorites.category.add", apperror.InvalidInput("category_id", "category_id is required"))
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	created, err := h.Favorites.AddCategory(ctx, in.UserID, in.CategoryID)
	if err != nil {
		return writeError(c, "favorites.category.add", err)
	}
	return h.added(c, "category", created, map[string]any{"user_id": in.UserID, "category_id": in.CategoryID})
}

// added answers 201 whether or not the association already existed.
func (h *FavoriteHandler) added(c *fiber.Ctx, kind string, created bool, fields map[string]any) error {
	msg := "already in favorites"
	if created {
		msg = "added to favorites"
		if h.Metrics != nil {
			h.Metrics.FavoriteCreated(kind)
		}
	}
	fields["created"] = created
	applog.Audit(c, "favorites."+kind+".add", fields)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": msg, "created": created})
}

func (h *FavoriteHandler) ListNetworks(c *fiber.Ctx) error {
	uid, ok := validate.ID(c.Params("user_id"))
	if !ok {
		return writeError(c, "favorites.network.list", apperror.InvalidInput("user_id", "user_id must be a positive integer"))
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	items, err := h.Favorites.ListNetworks(ctx, uid)
	if err != nil {
		return writeError(c, "favorites.network.list", err)
	}
	return c.JSON(items)
}

func (h *FavoriteHandler) ListCategories(c *fiber.Ctx) error {
	uid, ok := validate.ID(c.Params("user_id"))
	if !ok {
		return writeError(c, "favorites.category.list", apperror.InvalidInput("user_id", "user_id must be a positive integer"))
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	cats, err := h.Favorites.ListCategories(ctx, uid)
	if err != nil {
		return writeError(c, "favorites.category.list", err)
	}
	return c.JSON(cats)
}
