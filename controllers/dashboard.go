// path: controllers/dashboard.go
package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PaoloBrandonE/Denuncia-app/models"
	"github.com/PaoloBrandonE/Denuncia-app/stats"
	"github.com/PaoloBrandonE/Denuncia-app/store"
)

type DashboardResp struct {
	OK    bool          `json:"ok"`
	Role  string        `json:"role"`
	Stats stats.Summary `json:"stats"`
}

// HandleDashboard returns the caller's role-scoped aggregates. Citizens
// see figures over their own reports only; authorities and admins over
// everything.
func HandleDashboard(c *fiber.Ctx) error {
	user, ok := requireUser(c)
	if !ok {
		return nil
	}

	scope := store.All()
	if user.Role == models.RoleCitizen {
		scope = store.Mine(user.ID)
	}
	reports, err := reportsStore.ListOnce(c.Context(), scope)
	if err != nil {
		return serverErr(c, err)
	}

	return c.JSON(DashboardResp{
		OK:    true,
		Role:  string(user.Role),
		Stats: stats.ForRole(user.Role, reports, user.ID),
	})
}
