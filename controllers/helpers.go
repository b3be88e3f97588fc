// path: controllers/helpers.go
package controllers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/PaoloBrandonE/Denuncia-app/auth"
	"github.com/PaoloBrandonE/Denuncia-app/models"
)

type ErrorResp struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func badReq(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResp{OK: false, Error: msg})
}

func serverErr(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResp{OK: false, Error: err.Error()})
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResp{OK: false, Error: msg})
}

func forbidden(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusForbidden).JSON(ErrorResp{OK: false, Error: msg})
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// requireUser resolves the caller's session. On failure it has already
// written the 401 response and the handler should return nil.
func requireUser(c *fiber.Ctx) (models.User, bool) {
	token := bearerToken(c)
	if token == "" {
		_ = unauthorized(c, auth.Message(auth.ErrNoSession))
		return models.User{}, false
	}
	u, err := authService.UserFromToken(c.Context(), token)
	if err != nil {
		_ = unauthorized(c, auth.Message(err))
		return models.User{}, false
	}
	return u, true
}
