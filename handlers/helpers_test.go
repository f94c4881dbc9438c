package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/edverse/campus-backend/database"
	"github.com/edverse/campus-backend/models"
	"github.com/edverse/campus-backend/routes"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var handlerDBSeq int64

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Foreign keys are enforced so the tests see the same constraint
	// behavior the postgres schema has.
	dsn := fmt.Sprintf("file:handlers_%d?mode=memory&cache=shared&_busy_timeout=5000&_foreign_keys=1", atomic.AddInt64(&handlerDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:         true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Attempt{},
		&models.Student{},
		&models.Course{},
		&models.Enrollment{},
	))
	return db
}

// setupQuizApp wires the quiz platform routes over a fresh in-memory
// database, the same way cmd/quiz-api does.
func setupQuizApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	database.DB = setupDB(t)

	app := routes.NewApp("quiz-test")
	routes.AuthRoutes(app)
	routes.QuizRoutes(app)
	routes.AttemptRoutes(app)
	return app
}

// setupStudentApp wires the student management routes, mirroring
// cmd/student-api.
func setupStudentApp(t *testing.T) *fiber.App {
	t.Helper()
	database.DB = setupDB(t)

	app := routes.NewApp("student-test")
	routes.StudentRoutes(app)
	routes.CourseRoutes(app)
	routes.EnrollmentRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded map[string]interface{}
	if len(raw) > 0 {
		// Some endpoints return arrays; callers needing those decode the
		// body themselves via doJSONList.
		_ = json.Unmarshal(raw, &decoded)
	}
	return resp, decoded
}

func doJSONList(t *testing.T, app *fiber.App, method, path, token string) (*http.Response, []map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp, decoded
}

// register creates a user through the API and returns its token.
func register(t *testing.T, app *fiber.App, username, role string) string {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "register %s: %v", username, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}
