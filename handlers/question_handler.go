package handlers

import (
	"errors"

	"github.com/edverse/campus-backend/apperr"
	"github.com/edverse/campus-backend/database"
	"github.com/edverse/campus-backend/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type QuestionRequest struct {
	QuestionText  string `json:"question" validate:"required"`
	OptionA       string `json:"option_a" validate:"required"`
	OptionB       string `json:"option_b" validate:"required"`
	OptionC       string `json:"option_c" validate:"required"`
	OptionD       string `json:"option_d" validate:"required"`
	CorrectOption string `json:"correct_option" validate:"required,oneof=A B C D"`
}

type QuestionPatch struct {
	QuestionText  *string `json:"question"`
	OptionA       *string `json:"option_a"`
	OptionB       *string `json:"option_b"`
	OptionC       *string `json:"option_c"`
	OptionD       *string `json:"option_d"`
	CorrectOption *string `json:"correct_option" validate:"omitempty,oneof=A B C D"`
}

func (p *QuestionPatch) empty() bool {
	return p.QuestionText == nil && p.OptionA == nil && p.OptionB == nil &&
		p.OptionC == nil && p.OptionD == nil && p.CorrectOption == nil
}

func CreateQuestion(c *fiber.Ctx) error {
	quizID, err := parseIDParam(c, "quizId")
	if err != nil {
		return err
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Quiz not found")
		}
		return apperr.Internal(err, "Failed to create question")
	}

	var req QuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	question := models.Question{
		QuizID:        quiz.ID,
		QuestionText:  req.QuestionText,
		OptionA:       req.OptionA,
		OptionB:       req.OptionB,
		OptionC:       req.OptionC,
		OptionD:       req.OptionD,
		CorrectOption: req.CorrectOption,
	}
	if err := database.DB.Create(&question).Error; err != nil {
		return apperr.Internal(err, "Failed to create question")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Question created successfully",
		"questionId": question.ID,
	})
}

func ListQuestions(c *fiber.Ctx) error {
	quizID, err := parseIDParam(c, "quizId")
	if err != nil {
		return err
	}

	var quiz models.Quiz
	if err := database.DB.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Quiz not found")
		}
		return apperr.Internal(err, "Failed to fetch questions")
	}

	var questions []models.Question
	err = database.DB.Where("quiz_id = ?", quiz.ID).Order("created_at, id").Find(&questions).Error
	if err != nil {
		return apperr.Internal(err, "Failed to fetch questions")
	}
	return c.JSON(questions)
}

func UpdateQuestion(c *fiber.Ctx) error {
	questionID, err := parseIDParam(c, "questionId")
	if err != nil {
		return err
	}

	var question models.Question
	if err := database.DB.First(&question, "id = ?", questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Question not found")
		}
		return apperr.Internal(err, "Failed to update question")
	}

	var patch QuestionPatch
	if err := c.BodyParser(&patch); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(patch); err != nil {
		return apperr.Validation(err.Error())
	}
	if patch.empty() {
		return apperr.Validation("No fields to update")
	}

	if patch.QuestionText != nil {
		question.QuestionText = *patch.QuestionText
	}
	if patch.OptionA != nil {
		question.OptionA = *patch.OptionA
	}
	if patch.OptionB != nil {
		question.OptionB = *patch.OptionB
	}
	if patch.OptionC != nil {
		question.OptionC = *patch.OptionC
	}
	if patch.OptionD != nil {
		question.OptionD = *patch.OptionD
	}
	if patch.CorrectOption != nil {
		question.CorrectOption = *patch.CorrectOption
	}

	if err := database.DB.Save(&question).Error; err != nil {
		return apperr.Internal(err, "Failed to update question")
	}
	return c.JSON(fiber.Map{"message": "Question updated successfully"})
}

func DeleteQuestion(c *fiber.Ctx) error {
	questionID, err := parseIDParam(c, "questionId")
	if err != nil {
		return err
	}

	result := database.DB.Delete(&models.Question{}, "id = ?", questionID)
	if result.Error != nil {
		return apperr.Internal(result.Error, "Failed to delete question")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Question not found")
	}
	return c.JSON(fiber.Map{"message": "Question deleted successfully"})
}
