package handlers

import (
	"errors"
	"time"

	"aifinder/internal/apperror"
	"aifinder/internal/log"
	"aifinder/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Auth    *services.AuthService
	Timeout time.Duration
}

type credentials struct {
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in credentials
	if err := parseBody(c, &in); err != nil {
		return writeError(c, "auth.register", err)
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	id, err := h.Auth.Register(ctx, in.Email, in.Username, in.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrDuplicateEmail) {
			log.Security(c, "auth.register.duplicate", nil)
		}
		return writeError(c, "auth.register", err)
	}

	log.Audit(c, "auth.register.success", map[string]any{"user_id": id})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "user registered",
		"user_id": id,
	})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in credentials
	if err := parseBody(c, &in); err != nil {
		return writeError(c, "auth.login", err)
	}

	ctx, cancel := dbContext(c, h.Timeout)
	defer cancel()
	u, err := h.Auth.Login(ctx, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrInvalidCredentials) {
			log.Security(c, "auth.login.fail", nil)
		}
		return writeError(c, "auth.login", err)
	}

	log.Audit(c, "auth.login.success", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{
		"message":  "login successful",
		"user_id":  u.ID,
		"username": u.Username,
	})
}
