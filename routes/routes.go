// path: routes/routes.go
package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/PaoloBrandonE/Denuncia-app/controllers"
)

// Register attaches all API endpoints to the app.
func Register(app *fiber.App) {
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", controllers.HandleRegister)
	authGroup.Post("/login", controllers.HandleLogin)
	authGroup.Post("/logout", controllers.HandleLogout)

	api.Post("/reports", controllers.HandleCreateReport)
	api.Get("/reports", controllers.HandleListReports)
	api.Get("/reports/stream", controllers.HandleStreamReports)

	api.Post("/reports/:id/approve", controllers.HandleApprove)
	api.Post("/reports/:id/reject", controllers.HandleReject)
	api.Post("/reports/:id/progress", controllers.HandleMarkInProgress)
	api.Post("/reports/:id/resolve", controllers.HandleResolve)

	api.Get("/dashboard", controllers.HandleDashboard)
}
