package routes

import (
	"github.com/edverse/campus-backend/handlers"
	"github.com/edverse/campus-backend/middleware"
	"github.com/gofiber/fiber/v2"
)

func QuizRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Reads need any valid token; writes need the admin role on top.
	quiz := api.Group("/quiz", middleware.Protected())
	quiz.Get("", handlers.ListQuizzes)
	quiz.Get("/:quizId", handlers.GetQuiz)

	quiz.Post("", middleware.AdminRequired(), handlers.CreateQuiz)
	quiz.Put("/:quizId", middleware.AdminRequired(), handlers.UpdateQuiz)
	quiz.Delete("/:quizId", middleware.AdminRequired(), handlers.DeleteQuiz)

	quiz.Post("/:quizId/questions", middleware.AdminRequired(), handlers.CreateQuestion)
	quiz.Get("/:quizId/questions", middleware.AdminRequired(), handlers.ListQuestions)

	questions := api.Group("/questions", middleware.Protected(), middleware.AdminRequired())
	questions.Put("/:questionId", handlers.UpdateQuestion)
	questions.Delete("/:questionId", handlers.DeleteQuestion)
}
