package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"greenbasket/internal/config"
	"greenbasket/internal/handler"
	"greenbasket/internal/middleware"
	"greenbasket/internal/repository"
	"greenbasket/internal/service"
	"greenbasket/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (sweep reports will not be archived)", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, minioClient, cfg)
	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Post("/interactions", h.Interaction.Track)

	protected.Get("/recommendations", h.Recommendation.List)

	profile := protected.Group("/profile")
	profile.Get("/preferences", h.Interaction.GetPreferences)
	profile.Put("/survey", h.Interaction.UpdateSurvey)

	goals := protected.Group("/goals")
	goals.Post("/", h.Goal.Create)
	goals.Get("/", h.Goal.List)
	goals.Get("/:goalId", h.Goal.Get)
	goals.Put("/:goalId", h.Goal.Update)
	goals.Delete("/:goalId", h.Goal.Delete)
	goals.Get("/:goalId/stats", h.Goal.GetStats)

	purchases := protected.Group("/purchases")
	purchases.Post("/", h.Purchase.Track)
	purchases.Get("/", h.Purchase.History)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)

	protected.Get("/impact/stats", h.Impact.GetStats)

	internal := v1.Group("/internal", middleware.AuthRequired(authService))
	internal.Post("/sweep", h.Sweep.Run)
}
