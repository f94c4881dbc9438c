package routes

import (
	"github.com/edverse/campus-backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func CourseRoutes(app *fiber.App) {
	api := app.Group("/api")

	courses := api.Group("/courses")
	courses.Get("", handlers.ListCourses)
	courses.Get("/:id", handlers.GetCourse)
	courses.Post("", handlers.CreateCourse)
	courses.Put("/:id", handlers.UpdateCourse)
	courses.Delete("/:id", handlers.DeleteCourse)
}
