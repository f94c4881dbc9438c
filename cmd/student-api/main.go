package main

import (
	"log"

	config "github.com/edverse/campus-backend/configs"
	"github.com/edverse/campus-backend/database"
	"github.com/edverse/campus-backend/routes"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	database.ConnectDB()
	database.MigrateStudentApp()

	app := routes.NewApp("Student Management")
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.StudentRoutes(app)
	routes.CourseRoutes(app)
	routes.EnrollmentRoutes(app)

	port := config.ConfigOr("STUDENT_API_PORT", "5001")
	log.Printf("Student API listening on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
