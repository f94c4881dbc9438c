package handlers

import (
	"errors"

	"github.com/edverse/campus-backend/apperr"
	"github.com/edverse/campus-backend/database"
	"github.com/edverse/campus-backend/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type StudentRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	DOB       string `json:"dob" validate:"required,datetime=2006-01-02"`
	Phone     string `json:"phone" validate:"omitempty,numeric,min=10,max=15"`
	Address   string `json:"address"`
}

// Whitelisted sort columns; anything else falls back to the default order.
var studentSortColumns = map[string]bool{
	"first_name": true,
	"last_name":  true,
	"created_at": true,
}

func ListStudents(c *fiber.Ctx) error {
	query := database.DB.Model(&models.Student{})

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR email LIKE ?",
			pattern, pattern, pattern,
		)
	}

	if sort := c.Query("sort"); studentSortColumns[sort] {
		query = query.Order(sort)
	} else {
		query = query.Order("created_at DESC")
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return apperr.Internal(err, "Failed to fetch students")
	}
	return c.JSON(students)
}

func GetStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var student models.Student
	if err := database.DB.First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Student not found")
		}
		return apperr.Internal(err, "Failed to fetch student")
	}
	return c.JSON(student)
}

func CreateStudent(c *fiber.Ctx) error {
	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	student := models.Student{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		DOB:       req.DOB,
		Phone:     req.Phone,
		Address:   req.Address,
	}
	if err := database.DB.Create(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Validation("Email already exists")
		}
		return apperr.Internal(err, "Failed to create student")
	}
	return c.Status(fiber.StatusCreated).JSON(student)
}

func UpdateStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	var student models.Student
	if err := database.DB.First(&student, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Student not found")
		}
		return apperr.Internal(err, "Failed to update student")
	}

	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.Email = req.Email
	student.DOB = req.DOB
	student.Phone = req.Phone
	student.Address = req.Address

	if err := database.DB.Save(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Validation("Email already exists")
		}
		return apperr.Internal(err, "Failed to update student")
	}
	return c.JSON(student)
}

func DeleteStudent(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var rows int64
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Student{}, "id = ?", id)
		rows = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return apperr.Internal(err, "Failed to delete student")
	}
	if rows == 0 {
		return apperr.NotFound("Student not found")
	}
	return c.JSON(fiber.Map{"message": "Student deleted successfully"})
}
