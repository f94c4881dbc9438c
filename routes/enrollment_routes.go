package routes

import (
	"github.com/edverse/campus-backend/handlers"
	"github.com/gofiber/fiber/v2"
)

func EnrollmentRoutes(app *fiber.App) {
	api := app.Group("/api")

	enrollments := api.Group("/enrollments")
	enrollments.Post("", handlers.EnrollStudent)
	enrollments.Get("", handlers.ListEnrollments)
	enrollments.Get("/student/:studentId", handlers.GetStudentEnrollments)
	enrollments.Delete("/:id", handlers.DeleteEnrollment)
}
