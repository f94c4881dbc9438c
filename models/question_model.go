package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	QuizID       uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz_id"`
	QuestionText string    `gorm:"type:text;not null" json:"question"`
	OptionA      string    `gorm:"type:text;not null" json:"option_a"`
	OptionB      string    `gorm:"type:text;not null" json:"option_b"`
	OptionC      string    `gorm:"type:text;not null" json:"option_c"`
	OptionD      string    `gorm:"type:text;not null" json:"option_d"`
	// CorrectOption is the single letter A-D. Matching at scoring time is
	// exact and case-sensitive.
	CorrectOption string `gorm:"size:1;not null" json:"correct_option"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
