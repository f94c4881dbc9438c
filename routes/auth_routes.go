package routes

import (
	"github.com/edverse/campus-backend/handlers"
	"github.com/edverse/campus-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Get("/profile", middleware.Protected(), handlers.GetProfile)
}
