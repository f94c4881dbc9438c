package services

import (
	"errors"
	"time"

	"github.com/edverse/campus-backend/apperr"
	"github.com/edverse/campus-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PassingThreshold is the fixed percentage a submission must reach to pass.
// The quiz's own passing_score column exists but is deliberately not
// consulted here; the engine has always scored against this constant.
const PassingThreshold = 60.0

// AttemptService owns the attempt lifecycle: a (user, quiz) pair moves from
// no attempt, to in_progress at start, to completed at submit, and never
// back. Uniqueness of the pair is guaranteed by the attempts table's
// composite unique index, not by a read-then-write check.
type AttemptService struct {
	db *gorm.DB
}

func NewAttemptService(db *gorm.DB) *AttemptService {
	return &AttemptService{db: db}
}

type StartResult struct {
	AttemptID       uuid.UUID `json:"resultId"`
	DurationMinutes int       `json:"duration"`
	EndTime         time.Time `json:"endTime"`
}

type AnswerSubmission struct {
	QuestionID     uuid.UUID
	SelectedOption string
}

type SubmitResult struct {
	Score  float64 `json:"score"`
	Passed bool    `json:"passed"`
}

type HistoryEntry struct {
	ID              uuid.UUID `json:"id"`
	QuizID          uuid.UUID `json:"quiz_id"`
	Score           float64   `json:"score"`
	Status          string    `json:"status"`
	TakenAt         time.Time `json:"taken_at"`
	Title           string    `json:"title"`
	DurationMinutes int       `json:"duration_minutes"`
}

// Start opens an attempt and returns the server-computed deadline. The
// deadline is informational: the client drives its timer from it, and the
// engine does not re-check it at submit time. A second start for the same
// pair conflicts regardless of whether the first attempt was submitted.
func (s *AttemptService) Start(quizID, userID uuid.UUID) (*StartResult, error) {
	var quiz models.Quiz
	if err := s.db.First(&quiz, "id = ?", quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Quiz not found")
		}
		return nil, apperr.Internal(err, "Failed to start quiz attempt")
	}

	attempt := models.Attempt{
		QuizID:  quizID,
		UserID:  userID,
		Score:   0,
		Status:  models.AttemptInProgress,
		TakenAt: time.Now(),
	}
	if err := s.db.Create(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateAttempt(quizID, userID)
		}
		return nil, apperr.Internal(err, "Failed to start quiz attempt")
	}

	return &StartResult{
		AttemptID:       attempt.ID,
		DurationMinutes: quiz.DurationMinutes,
		EndTime:         attempt.TakenAt.Add(time.Duration(quiz.DurationMinutes) * time.Minute),
	}, nil
}

func (s *AttemptService) duplicateAttempt(quizID, userID uuid.UUID) error {
	var existing models.Attempt
	err := s.db.Select("id").First(&existing, "quiz_id = ? AND user_id = ?", quizID, userID).Error
	if err != nil {
		return apperr.Internal(err, "Failed to start quiz attempt")
	}
	return apperr.Conflict("You have already taken this quiz", map[string]interface{}{
		"resultId": existing.ID,
	})
}

// Submit scores the answers against the attempt's quiz and finalizes the
// attempt in a single update. Answers referencing questions outside the
// quiz are simply not found in the key and count as wrong; they cannot
// leak credit across quizzes. Individual answers are not persisted, only
// the aggregate percentage, so per-question review is not possible
// afterwards.
func (s *AttemptService) Submit(attemptID, userID uuid.UUID, answers []AnswerSubmission) (*SubmitResult, error) {
	var attempt models.Attempt
	err := s.db.First(&attempt, "id = ? AND user_id = ?", attemptID, userID).Error
	if err != nil {
		// An attempt owned by someone else is indistinguishable from a
		// missing one.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Quiz result not found")
		}
		return nil, apperr.Internal(err, "Failed to submit quiz")
	}

	if attempt.Status == models.AttemptCompleted {
		return nil, apperr.Validation("Quiz has already been submitted")
	}

	var questions []models.Question
	if err := s.db.Where("quiz_id = ?", attempt.QuizID).Find(&questions).Error; err != nil {
		return nil, apperr.Internal(err, "Failed to submit quiz")
	}

	correctByID := make(map[uuid.UUID]string, len(questions))
	for _, q := range questions {
		correctByID[q.ID] = q.CorrectOption
	}

	correctCount := 0
	for _, answer := range answers {
		if key, ok := correctByID[answer.QuestionID]; ok && key == answer.SelectedOption {
			correctCount++
		}
	}

	// The denominator is the quiz's full question count. Questions the
	// client omitted from the submission count as wrong rather than being
	// excluded from the calculation.
	var percentage float64
	if len(questions) > 0 {
		percentage = float64(correctCount) / float64(len(questions)) * 100
	}

	// The status predicate makes the in_progress -> completed transition a
	// compare-and-swap. Two racing submits both pass the read guard above,
	// but only one update matches a row.
	res := s.db.Model(&models.Attempt{}).
		Where("id = ? AND status = ?", attempt.ID, models.AttemptInProgress).
		Updates(map[string]interface{}{
			"score":  percentage,
			"status": models.AttemptCompleted,
		})
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "Failed to submit quiz")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Validation("Quiz has already been submitted")
	}

	return &SubmitResult{
		Score:  percentage,
		Passed: percentage >= PassingThreshold,
	}, nil
}

// History lists the caller's attempts, newest first, in-progress ones
// included. The status column is what tells a pending attempt apart from a
// submitted 0%.
func (s *AttemptService) History(userID uuid.UUID) ([]HistoryEntry, error) {
	var entries []HistoryEntry
	err := s.db.Model(&models.Attempt{}).
		Select("attempts.id, attempts.quiz_id, attempts.score, attempts.status, attempts.taken_at, quizzes.title, quizzes.duration_minutes").
		Joins("JOIN quizzes ON quizzes.id = attempts.quiz_id").
		Where("attempts.user_id = ?", userID).
		Order("attempts.taken_at DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, apperr.Internal(err, "Failed to fetch quiz history")
	}
	if entries == nil {
		entries = []HistoryEntry{}
	}
	return entries, nil
}

// Result fetches one attempt with its quiz metadata, scoped to the owner.
func (s *AttemptService) Result(attemptID, userID uuid.UUID) (*HistoryEntry, error) {
	var entry HistoryEntry
	err := s.db.Model(&models.Attempt{}).
		Select("attempts.id, attempts.quiz_id, attempts.score, attempts.status, attempts.taken_at, quizzes.title, quizzes.duration_minutes").
		Joins("JOIN quizzes ON quizzes.id = attempts.quiz_id").
		Where("attempts.id = ? AND attempts.user_id = ?", attemptID, userID).
		Scan(&entry).Error
	if err != nil {
		return nil, apperr.Internal(err, "Failed to fetch result")
	}
	if entry.ID == uuid.Nil {
		return nil, apperr.NotFound("Result not found")
	}
	return &entry, nil
}
