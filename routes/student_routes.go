package routes

import (
	"github.com/edverse/campus-backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func StudentRoutes(app *fiber.App) {
	api := app.Group("/api")

	students := api.Group("/students")
	students.Get("", handlers.ListStudents)
	students.Get("/:id", handlers.GetStudent)
	students.Post("", handlers.CreateStudent)
	students.Put("/:id", handlers.UpdateStudent)
	students.Delete("/:id", handlers.DeleteStudent)
}
