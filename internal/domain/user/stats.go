package user

import (
	"time"

	"github.com/google/uuid"
)

type UserStats struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"-"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	User             *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	CoursesCompleted int       `gorm:"column:courses_completed;not null" json:"courses_completed"`
	QuizzesTaken     int       `gorm:"column:quizzes_taken;not null" json:"quizzes_taken"`
	OverallProgress  int       `gorm:"column:overall_progress;not null" json:"overall_progress"`
	CreatedAt        time.Time `gorm:"not null" json:"-"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (UserStats) TableName() string { return "user_stats" }
