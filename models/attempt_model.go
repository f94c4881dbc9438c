package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
)

// Attempt is one student's instance of taking one quiz. The composite
// unique index makes the one-attempt-per-user-per-quiz invariant atomic:
// concurrent starts race on the insert and exactly one wins.
type Attempt struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attempts_quiz_user" json:"quiz_id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_attempts_quiz_user" json:"user_id"`
	// Score is the final percentage. It stays 0 while the attempt is in
	// progress; Status is what distinguishes "not submitted yet" from a
	// genuine 0%.
	Score   float64   `gorm:"not null;default:0" json:"score"`
	Status  string    `gorm:"size:20;not null;default:'in_progress'" json:"status"`
	TakenAt time.Time `gorm:"not null" json:"taken_at"`

	Quiz Quiz `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (a *Attempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
