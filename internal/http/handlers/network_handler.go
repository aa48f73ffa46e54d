package handlers

import (
	"time"

	"aifinder/internal/apperror"
	"aifinder/internal/domain"
	"aifinder/internal/log"
	"aifinder/internal/metrics"
	"aifinder/internal/services"
	"aifinder/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type NetworkHandler struct {
	Catalog *services.CatalogService
	Rater   *services.RatingService
	Metrics *metrics.Metrics
	Timeout time.Duration
}

// List serves GET /networks with the optional category_id and search
// filters. An unknown category yields an empty list.
func (h *NetworkHandler) List(c *fiber.Ctx) error {
	catID, ok := validate.OptionalID(c.Query("category_id"))
	if !ok {
		return writeError(c, "networks.list", apperror.InvalidInput("category_id", "category_id must be a positive integer"))
	}
	f := domain.ItemFilter{CategoryID: catID, Search: validate.Search(c.Query("search"))}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	items, err := h.Catalog.Search(ctx, f)
	if err != nil {
		return writeError(c, "networks.list", err)
	}
	return c.JSON(items)
}

func (h *NetworkHandler) Get(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("neuro_id"))
	if !ok {
		return writeError(c, "networks.get", apperror.InvalidInput("neuro_id", "neuro_id must be a positive integer"))
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	item, err := h.Catalog.GetNetwork(ctx, id)
	if err != nil {
		return writeError(c, "networks.get", err)
	}
	return c.JSON(item)
}

func (h *NetworkHandler) Ratings(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("neuro_id"))
	if !ok {
		return writeError(c, "networks.ratings", apperror.InvalidInput("neuro_id", "neuro_id must be a positive integer"))
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	ratings, err := h.Catalog.NetworkRatings(ctx, id)
	if err != nil {
		return writeError(c, "networks.ratings", err)
	}
	return c.JSON(ratings)
}

type rateRequest struct {
	UserID      int64 `json:"user_id" form:"user_id"`
	RatingValue int   `json:"rating_value" form:"rating_value"`
}

// Rate records the caller's rating and answers with the recomputed average.
func (h *NetworkHandler) Rate(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("neuro_id"))
	if !ok {
		return writeError(c, "networks.rate", apperror.InvalidInput("neuro_id", "neuro_id must be a positive integer"))
	}
	var in rateRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, "networks.rate", err)
	}
	if in.UserID <= 0 {
		return writeError(c, "networks.rate", apperror.InvalidInput("user_id", "user_id is required"))
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	agg, err := h.Rater.Rate(ctx, in.UserID, id, in.RatingValue)
	if err != nil {
		return writeError(c, "networks.rate", err)
	}

	if h.Metrics != nil {
		h.Metrics.RatingRecorded()
	}
	log.Audit(c, "networks.rate", map[string]any{
		"user_id": in.UserID, "neuro_id": id, "rating_value": in.RatingValue, "average": agg.Average,
	})
	return c.JSON(fiber.Map{"newAverage": agg.Average})
}
