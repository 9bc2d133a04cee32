package learning

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/edusmart-backend/internal/domain/user"
)

// QuizResult is the latest score a user got on a quiz. Resubmitting
// overwrites the row for (user, quiz).
type QuizResult struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_result_user_quiz,priority:1" json:"user_id"`
	User      *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	QuizID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_quiz_result_user_quiz,priority:2;index" json:"quiz_id"`
	Quiz      *Quiz      `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuizID;references:ID" json:"-"`
	Score     int        `gorm:"column:score;not null" json:"score"`
	DateTaken time.Time  `gorm:"column:date_taken;not null;index" json:"date_taken"`
	CreatedAt time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null" json:"updated_at"`
}

func (QuizResult) TableName() string { return "quiz_result" }
