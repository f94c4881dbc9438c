package handlers

import (
	"errors"
	"time"

	"github.com/edverse/campus-backend/apperr"
	config "github.com/edverse/campus-backend/configs"
	"github.com/edverse/campus-backend/database"
	"github.com/edverse/campus-backend/models"
	"github.com/edverse/campus-backend/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

const tokenTTL = 24 * time.Hour

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin student"`
}

type LoginRequest struct {
	// Username matches against either username or email.
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func issueToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

func RegisterUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}
	if req.Role == "" {
		req.Role = models.RoleStudent
	}

	var count int64
	err := database.DB.Model(&models.User{}).
		Where("username = ? OR email = ?", req.Username, req.Email).
		Count(&count).Error
	if err != nil {
		return apperr.Internal(err, "Registration failed")
	}
	if count > 0 {
		return apperr.Validation("Username or email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err, "Registration failed")
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     req.Role,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		// The unique columns back up the existence check under concurrent
		// registrations.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.Validation("Username or email already exists")
		}
		return apperr.Internal(err, "Registration failed")
	}

	token, err := issueToken(&user)
	if err != nil {
		return apperr.Internal(err, "Failed to create token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"userId":  user.ID,
		"token":   token,
		"role":    user.Role,
	})
}

func LoginUser(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return apperr.Validation(err.Error())
	}

	var user models.User
	err := database.DB.Where("username = ? OR email = ?", req.Username, req.Username).
		First(&user).Error
	if err != nil {
		return apperr.New(apperr.KindUnauthorized, "Invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return apperr.New(apperr.KindUnauthorized, "Invalid credentials")
	}

	token, err := issueToken(&user)
	if err != nil {
		return apperr.Internal(err, "Failed to create token")
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"userId":  user.ID,
		"token":   token,
		"role":    user.Role,
	})
}

func GetProfile(c *fiber.Ctx) error {
	userID, err := utils.UserIDFromToken(c)
	if err != nil {
		return apperr.New(apperr.KindUnauthorized, "Invalid or missing token")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return apperr.NotFound("User not found")
	}

	return c.JSON(fiber.Map{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"role":       user.Role,
		"created_at": user.CreatedAt,
	})
}
