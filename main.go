// path: main.go
package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/PaoloBrandonE/Denuncia-app/auth"
	"github.com/PaoloBrandonE/Denuncia-app/controllers"
	"github.com/PaoloBrandonE/Denuncia-app/database"
	"github.com/PaoloBrandonE/Denuncia-app/media"
	"github.com/PaoloBrandonE/Denuncia-app/routes"
	"github.com/PaoloBrandonE/Denuncia-app/stats"
	"github.com/PaoloBrandonE/Denuncia-app/store"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	if err := database.Connect(ctx); err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = database.Disconnect(dctx)
	}()

	st := store.NewMongo()
	authSvc := auth.NewService(st)
	defer authSvc.Close()

	// Session observer runs for the life of the process; explicit
	// unsubscribe on shutdown.
	unsubscribe := authSvc.OnAuthChange(func(userID string) {
		if userID == "" {
			log.Printf("auth: session closed")
			return
		}
		log.Printf("auth: session opened user=%s", userID)
	})
	defer unsubscribe()

	hoster, err := media.NewHosterFromEnv(ctx)
	if err != nil {
		log.Fatalf("minio init failed: %v", err)
	}

	controllers.Setup(st, authSvc, stats.NewTransitioner(st), hoster)

	app := fiber.New()
	app.Use(recover.New())

	// Log concise request lines
	app.Use(logger.New(logger.Config{
		TimeFormat: "15:04:05",
	}))

	// CORS (dev-friendly)
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "*",
		AllowCredentials: false,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))

	// Health
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })

	// API
	routes.Register(app)

	log.Println("API listening on :3005")
	log.Fatal(app.Listen(":3005"))
}
