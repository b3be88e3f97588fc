// path: controllers/auth.go
package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/PaoloBrandonE/Denuncia-app/auth"
	"github.com/PaoloBrandonE/Denuncia-app/models"
)

type RegisterPayload struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	NationalID string `json:"national_id"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a citizen account. Roles are never taken from
// the request.
func HandleRegister(c *fiber.Ctx) error {
	var p RegisterPayload
	if err := c.BodyParser(&p); err != nil {
		return badReq(c, "invalid JSON")
	}

	u, err := authService.SignUp(c.Context(), auth.SignUpInput{
		FirstName:  p.FirstName,
		LastName:   p.LastName,
		NationalID: p.NationalID,
		Email:      p.Email,
		Password:   p.Password,
	})
	if err != nil {
		return c.Status(authStatus(err)).JSON(models.SessionResp{OK: false, Error: auth.Message(err)})
	}
	return c.Status(fiber.StatusCreated).JSON(models.SessionResp{OK: true, User: u})
}

func HandleLogin(c *fiber.Ctx) error {
	var p LoginPayload
	if err := c.BodyParser(&p); err != nil {
		return badReq(c, "invalid JSON")
	}

	sess, u, err := authService.SignIn(c.Context(), p.Email, p.Password)
	if err != nil {
		return c.Status(authStatus(err)).JSON(models.SessionResp{OK: false, Error: auth.Message(err)})
	}
	return c.JSON(models.SessionResp{OK: true, Token: sess.Token, User: u})
}

func HandleLogout(c *fiber.Ctx) error {
	authService.SignOut(bearerToken(c))
	return c.JSON(fiber.Map{"ok": true})
}

func authStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrNoSession):
		return fiber.StatusUnauthorized
	case errors.Is(err, auth.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
