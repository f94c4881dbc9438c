package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Course struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CourseName string    `gorm:"size:255;not null" json:"course_name"`
	CourseCode string    `gorm:"size:50;not null;unique" json:"course_code"`
	Credits    int       `gorm:"not null" json:"credits"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
