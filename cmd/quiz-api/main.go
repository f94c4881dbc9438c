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
	database.MigrateQuizApp()
	database.SeedAdmin()

	app := routes.NewApp("Quiz Platform")
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.AuthRoutes(app)
	routes.QuizRoutes(app)
	routes.AttemptRoutes(app)

	port := config.ConfigOr("QUIZ_API_PORT", "5000")
	log.Printf("Quiz API listening on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
