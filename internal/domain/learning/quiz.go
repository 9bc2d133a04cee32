package learning

import (
	"time"

	"github.com/google/uuid"
)

const (
	DifficultyBeginner     = "Beginner"
	DifficultyIntermediate = "Intermediate"
	DifficultyAdvanced     = "Advanced"
)

type Quiz struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TopicID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"topic_id"`
	Topic          *Topic     `gorm:"constraint:OnDelete:CASCADE;foreignKey:TopicID;references:ID" json:"-"`
	Title          string     `gorm:"column:title;not null" json:"title"`
	Description    string     `gorm:"column:description;type:text" json:"description"`
	Duration       string     `gorm:"column:duration;not null" json:"duration"`
	Difficulty     string     `gorm:"column:difficulty;not null" json:"difficulty"`
	QuestionsCount int        `gorm:"column:questions_count;not null" json:"questions_count"`
	IsCompleted    bool       `gorm:"column:is_completed;not null" json:"is_completed"`
	CompletedAt    *time.Time `gorm:"column:completed_at;index" json:"completed_at"`
	CreatedAt      time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"not null" json:"updated_at"`
}

func (Quiz) TableName() string { return "learning_quiz" }

func (q *Quiz) SetCompleted(done bool, now time.Time) bool {
	if q.IsCompleted == done {
		return false
	}
	q.IsCompleted = done
	q.CompletedAt = completionStamp(done, now)
	return true
}
