package handlers

import (
	"errors"

	"github.com/edverse/campus-backend/apperr"
	"github.com/edverse/campus-backend/database"
	"github.com/edverse/campus-backend/models"
	"github.com/edverse/campus-backend/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreateQuizRequest struct {
	Title           string   `json:"title" validate:"required"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"duration" validate:"required,gt=0"`
	PassingScore    *float64 `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
}

// QuizPatch applies only the fields the caller supplied. Each pointer maps
// to exactly one column, replacing the old dynamic SET-clause assembly.
type QuizPatch struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	DurationMinutes *int     `json:"duration" validate:"omitempty,gt=0"`
	PassingScore    *float64 `json:"passing_score" validate:"omitempty,gte=0,lte=100"`
}

func (p *QuizPatch) empty() bool {
	return p.Title == nil && p.Description == nil && p.DurationMinutes == nil && p.PassingScore == nil
}

func CreateQuiz(c *fiber.Ctx) error {
	var req CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	quiz := models.Quiz{
		Title:           req.Title,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PassingScore:    req.PassingScore,
	}
	if err := database.DB.Create(&quiz).Error; err != nil {
		return apperr.Internal(err, "Failed to create quiz")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Quiz created successfully",
		"quizId":  quiz.ID,
	})
}

func ListQuizzes(c *fiber.Ctx) error {
	var quizzes []models.Quiz
	if err := database.DB.Order("created_at DESC").Find(&quizzes).Error; err != nil {
		return apperr.Internal(err, "Failed to fetch quizzes")
	}
	return c.JSON(quizzes)
}

// questionView is the question shape rendered to non-admin callers: the
// correct option is redacted.
type questionView struct {
	ID           uuid.UUID `json:"id"`
	QuizID       uuid.UUID `json:"quiz_id"`
	QuestionText string    `json:"question"`
	OptionA      string    `json:"option_a"`
	OptionB      string    `json:"option_b"`
	OptionC      string    `json:"option_c"`
	OptionD      string    `json:"option_d"`
}

func GetQuiz(c *fiber.Ctx) error {
	quizID, err := parseIDParam(c, "quizId")
	if err != nil {
		return err
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Quiz not found")
		}
		return apperr.Internal(err, "Failed to fetch quiz")
	}

	var questions []models.Question
	err = database.DB.Where("quiz_id = ?", quiz.ID).Order("created_at, id").Find(&questions).Error
	if err != nil {
		return apperr.Internal(err, "Failed to fetch quiz")
	}

	if utils.RoleFromToken(c) == models.RoleAdmin {
		quiz.Questions = questions
		return c.JSON(quiz)
	}

	views := make([]questionView, len(questions))
	for i, q := range questions {
		views[i] = questionView{
			ID:           q.ID,
			QuizID:       q.QuizID,
			QuestionText: q.QuestionText,
			OptionA:      q.OptionA,
			OptionB:      q.OptionB,
			OptionC:      q.OptionC,
			OptionD:      q.OptionD,
		}
	}
	return c.JSON(fiber.Map{
		"id":               quiz.ID,
		"title":            quiz.Title,
		"description":      quiz.Description,
		"duration_minutes": quiz.DurationMinutes,
		"created_at":       quiz.CreatedAt,
		"questions":        views,
	})
}

func UpdateQuiz(c *fiber.Ctx) error {
	quizID, err := parseIDParam(c, "quizId")
	if err != nil {
		return err
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Quiz not found")
		}
		return apperr.Internal(err, "Failed to update quiz")
	}

	var patch QuizPatch
	if err := c.BodyParser(&patch); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(patch); err != nil {
		return apperr.Validation(err.Error())
	}
	if patch.empty() {
		return apperr.Validation("No fields to update")
	}

	if patch.Title != nil {
		quiz.Title = *patch.Title
	}
	if patch.Description != nil {
		quiz.Description = *patch.Description
	}
	if patch.DurationMinutes != nil {
		quiz.DurationMinutes = *patch.DurationMinutes
	}
	if patch.PassingScore != nil {
		quiz.PassingScore = patch.PassingScore
	}

	if err := database.DB.Save(&quiz).Error; err != nil {
		return apperr.Internal(err, "Failed to update quiz")
	}
	return c.JSON(fiber.Map{"message": "Quiz updated successfully"})
}

func DeleteQuiz(c *fiber.Ctx) error {
	quizID, err := parseIDParam(c, "quizId")
	if err != nil {
		return err
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Quiz not found")
		}
		return apperr.Internal(err, "Failed to delete quiz")
	}

	// Attempts and questions go first so the delete succeeds under
	// enforced foreign keys too, where the quiz row cannot fall while
	// attempts still reference it.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Attempt{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quiz).Error
	})
	if err != nil {
		return apperr.Internal(err, "Failed to delete quiz")
	}

	return c.JSON(fiber.Map{"message": "Quiz deleted successfully"})
}
