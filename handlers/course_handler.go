package handlers

import (
	"errors"

	"github.com/edverse/campus-backend/apperr"
	"github.com/edverse/campus-backend/database"
	"github.com/edverse/campus-backend/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CourseRequest struct {
	CourseName string `json:"course_name" validate:"required,min=3"`
	CourseCode string `json:"course_code" validate:"required,min=3"`
	Credits    int    `json:"credits" validate:"required,min=1,max=5"`
}

func ListCourses(c *fiber.Ctx) error {
	var courses []models.Course
	if err := database.DB.Order("course_name").Find(&courses).Error; err != nil {
		return apperr.Internal(err, "Failed to fetch courses")
	}
	return c.JSON(courses)
}

func GetCourse(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Course not found")
		}
		return apperr.Internal(err, "Failed to fetch course")
	}
	return c.JSON(course)
}

func CreateCourse(c *fiber.Ctx) error {
	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	course := models.Course{
		CourseName: req.CourseName,
		CourseCode: req.CourseCode,
		Credits:    req.Credits,
	}
	if err := database.DB.Create(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Validation("Course code already exists")
		}
		return apperr.Internal(err, "Failed to create course")
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

func UpdateCourse(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req CourseRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	var course models.Course
	if err := database.DB.First(&course, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("Course not found")
		}
		return apperr.Internal(err, "Failed to update course")
	}

	course.CourseName = req.CourseName
	course.CourseCode = req.CourseCode
	course.Credits = req.Credits

	if err := database.DB.Save(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Validation("Course code already exists")
		}
		return apperr.Internal(err, "Failed to update course")
	}
	return c.JSON(course)
}

func DeleteCourse(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var rows int64
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Course{}, "id = ?", id)
		rows = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return apperr.Internal(err, "Failed to delete course")
	}
	if rows == 0 {
		return apperr.NotFound("Course not found")
	}
	return c.JSON(fiber.Map{"message": "Course deleted successfully"})
}
