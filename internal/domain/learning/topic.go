package learning

import (
	"time"

	"github.com/google/uuid"
)

type Topic struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	JourneyID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_topic_journey_order,priority:1" json:"journey_id"`
	Journey     *Journey   `gorm:"constraint:OnDelete:CASCADE;foreignKey:JourneyID;references:ID" json:"-"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Description string     `gorm:"column:description;type:text" json:"description"`
	Order       int        `gorm:"column:sort_order;not null;uniqueIndex:idx_topic_journey_order,priority:2" json:"order"`
	Duration    string     `gorm:"column:duration;not null" json:"duration"`
	IsCompleted bool       `gorm:"column:is_completed;not null" json:"is_completed"`
	CompletedAt *time.Time `gorm:"column:completed_at;index" json:"completed_at"`
	Quizzes     []*Quiz    `gorm:"foreignKey:TopicID" json:"quizzes"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (Topic) TableName() string { return "learning_topic" }

// SetCompleted moves the completion flag and keeps CompletedAt in step with
// it. Returns false when done already matches the stored state.
func (t *Topic) SetCompleted(done bool, now time.Time) bool {
	if t.IsCompleted == done {
		return false
	}
	t.IsCompleted = done
	t.CompletedAt = completionStamp(done, now)
	return true
}

func completionStamp(done bool, now time.Time) *time.Time {
	if !done {
		return nil
	}
	ts := now.UTC()
	return &ts
}
