// path: controllers/transitions.go
package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/PaoloBrandonE/Denuncia-app/models"
	"github.com/PaoloBrandonE/Denuncia-app/stats"
	"github.com/PaoloBrandonE/Denuncia-app/store"
)

func HandleApprove(c *fiber.Ctx) error {
	return handleTransition(c, transitioner.Approve)
}

func HandleReject(c *fiber.Ctx) error {
	return handleTransition(c, transitioner.Reject)
}

func HandleMarkInProgress(c *fiber.Ctx) error {
	return handleTransition(c, transitioner.MarkInProgress)
}

func HandleResolve(c *fiber.Ctx) error {
	return handleTransition(c, transitioner.Resolve)
}

func handleTransition(c *fiber.Ctx, act func(context.Context, models.User, string) error) error {
	user, ok := requireUser(c)
	if !ok {
		return nil
	}
	id := c.Params("id")

	err := act(c.Context(), user, id)
	switch {
	case err == nil:
		return c.JSON(fiber.Map{"ok": true, "id": id})
	case errors.Is(err, stats.ErrActionNotAllowed):
		return forbidden(c, err.Error())
	case errors.Is(err, stats.ErrUpdateInFlight):
		return c.Status(fiber.StatusConflict).JSON(ErrorResp{OK: false, Error: err.Error()})
	case errors.Is(err, store.ErrInvalidTransition):
		return c.Status(fiber.StatusConflict).JSON(ErrorResp{OK: false, Error: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResp{OK: false, Error: err.Error()})
	default:
		return serverErr(c, err)
	}
}
