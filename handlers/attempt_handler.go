package handlers

import (
	"github.com/edverse/campus-backend/apperr"
	"github.com/edverse/campus-backend/database"
	"github.com/edverse/campus-backend/services"
	"github.com/edverse/campus-backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SubmitAnswersRequest struct {
	Answers []struct {
		QuestionID     string `json:"questionId" validate:"required,uuid"`
		SelectedOption string `json:"selectedOption" validate:"required,oneof=A B C D"`
	} `json:"answers" validate:"required,min=1,dive"`
}

func StartAttempt(c *fiber.Ctx) error {
	userID, err := utils.UserIDFromToken(c)
	if err != nil {
		return apperr.New(apperr.KindUnauthorized, "Invalid or missing token")
	}
	quizID, err := parseIDParam(c, "quizId")
	if err != nil {
		return err
	}

	result, err := services.NewAttemptService(database.DB).Start(quizID, userID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Quiz attempt started",
		"resultId": result.AttemptID,
		"duration": result.DurationMinutes,
		"endTime":  result.EndTime,
	})
}

func SubmitAttempt(c *fiber.Ctx) error {
	userID, err := utils.UserIDFromToken(c)
	if err != nil {
		return apperr.New(apperr.KindUnauthorized, "Invalid or missing token")
	}
	attemptID, err := parseIDParam(c, "resultId")
	if err != nil {
		return err
	}

	var req SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	answers := make([]services.AnswerSubmission, len(req.Answers))
	for i, a := range req.Answers {
		questionID, _ := uuid.Parse(a.QuestionID)
		answers[i] = services.AnswerSubmission{
			QuestionID:     questionID,
			SelectedOption: a.SelectedOption,
		}
	}

	result, err := services.NewAttemptService(database.DB).Submit(attemptID, userID, answers)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Quiz submitted successfully",
		"score":   result.Score,
		"passed":  result.Passed,
	})
}

func GetHistory(c *fiber.Ctx) error {
	userID, err := utils.UserIDFromToken(c)
	if err != nil {
		return apperr.New(apperr.KindUnauthorized, "Invalid or missing token")
	}

	entries, err := services.NewAttemptService(database.DB).History(userID)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}

func GetResult(c *fiber.Ctx) error {
	userID, err := utils.UserIDFromToken(c)
	if err != nil {
		return apperr.New(apperr.KindUnauthorized, "Invalid or missing token")
	}
	attemptID, err := parseIDParam(c, "resultId")
	if err != nil {
		return err
	}

	entry, err := services.NewAttemptService(database.DB).Result(attemptID, userID)
	if err != nil {
		return err
	}
	return c.JSON(entry)
}
