package routes

import (
	"github.com/edverse/campus-backend/handlers"
	"github.com/edverse/campus-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func AttemptRoutes(app *fiber.App) {
	api := app.Group("/api")

	attempt := api.Group("/attempt", middleware.Protected())
	attempt.Post("/:quizId/start", handlers.StartAttempt)
	attempt.Post("/:resultId/submit", handlers.SubmitAttempt)
	attempt.Get("/user/history", handlers.GetHistory)
	attempt.Get("/:resultId", handlers.GetResult)
}
