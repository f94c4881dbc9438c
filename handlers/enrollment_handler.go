package handlers

import (
	"errors"
	"time"

	"github.com/edverse/campus-backend/apperr"
	"github.com/edverse/campus-backend/database"
	"github.com/edverse/campus-backend/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EnrollRequest struct {
	StudentID string `json:"student_id" validate:"required,uuid"`
	CourseID  string `json:"course_id" validate:"required,uuid"`
}

type enrollmentRow struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	CourseName     string    `json:"course_name"`
	CourseCode     string    `json:"course_code"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	Grade          *string   `json:"grade"`
}

type studentCourseRow struct {
	CourseName     string    `json:"course_name"`
	CourseCode     string    `json:"course_code"`
	Credits        int       `json:"credits"`
	EnrollmentDate time.Time `json:"enrollment_date"`
	Grade          *string   `json:"grade"`
}

func EnrollStudent(c *fiber.Ctx) error {
	var req EnrollRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation("Student ID and Course ID are required")
	}

	studentID, _ := uuid.Parse(req.StudentID)
	courseID, _ := uuid.Parse(req.CourseID)

	enrollment := models.Enrollment{
		StudentID:      studentID,
		CourseID:       courseID,
		EnrollmentDate: time.Now(),
	}
	if err := database.DB.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Validation("Student already enrolled in this course")
		}
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperr.NotFound("Student or course not found")
		}
		return apperr.Internal(err, "Failed to enroll student")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Enrollment successful",
		"enrollment_id": enrollment.ID,
	})
}

func ListEnrollments(c *fiber.Ctx) error {
	var rows []enrollmentRow
	err := database.DB.Model(&models.Enrollment{}).
		Select("enrollments.id, students.first_name, students.last_name, courses.course_name, courses.course_code, enrollments.enrollment_date, enrollments.grade").
		Joins("JOIN students ON students.id = enrollments.student_id").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Order("enrollments.enrollment_date DESC").
		Scan(&rows).Error
	if err != nil {
		return apperr.Internal(err, "Failed to fetch enrollments")
	}
	if rows == nil {
		rows = []enrollmentRow{}
	}
	return c.JSON(rows)
}

func GetStudentEnrollments(c *fiber.Ctx) error {
	studentID, err := parseIDParam(c, "studentId")
	if err != nil {
		return err
	}

	var rows []studentCourseRow
	err = database.DB.Model(&models.Enrollment{}).
		Select("courses.course_name, courses.course_code, courses.credits, enrollments.enrollment_date, enrollments.grade").
		Joins("JOIN courses ON courses.id = enrollments.course_id").
		Where("enrollments.student_id = ?", studentID).
		Scan(&rows).Error
	if err != nil {
		return apperr.Internal(err, "Failed to fetch enrollments")
	}
	if rows == nil {
		rows = []studentCourseRow{}
	}
	return c.JSON(rows)
}

func DeleteEnrollment(c *fiber.Ctx) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	result := database.DB.Delete(&models.Enrollment{}, "id = ?", id)
	if result.Error != nil {
		return apperr.Internal(result.Error, "Failed to unenroll")
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Enrollment not found")
	}
	return c.JSON(fiber.Map{"message": "Unenrolled successfully"})
}
