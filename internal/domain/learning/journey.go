package learning

import (
	"time"

	"github.com/google/uuid"
)

// AllLessonsCompleted is the NextLesson label once every topic is done.
const AllLessonsCompleted = "All lessons completed"

type Journey struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PathID           uuid.UUID `gorm:"type:uuid;not null;index" json:"path_id"`
	Path             *Path     `gorm:"constraint:OnDelete:CASCADE;foreignKey:PathID;references:ID" json:"-"`
	Position         int       `gorm:"column:position;not null" json:"-"`
	Title            string    `gorm:"column:title;not null" json:"title"`
	Description      string    `gorm:"column:description;type:text" json:"description"`
	Owner            Owner     `gorm:"column:owner_user_id;index" json:"owner_user_id"`
	TotalLessons     int       `gorm:"column:total_lessons;not null" json:"total_lessons"`
	CompletedLessons int       `gorm:"column:completed_lessons;not null" json:"completed_lessons"`
	Progress         int       `gorm:"column:progress;not null" json:"progress"`
	NextLesson       *string   `gorm:"column:next_lesson" json:"next_lesson"`
	Topics           []*Topic  `gorm:"foreignKey:JourneyID" json:"topics,omitempty"`
	CreatedAt        time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time `gorm:"not null" json:"updated_at"`
}

func (Journey) TableName() string { return "learning_journey" }

// ProgressOf is floor(100*completed/total), 0 when there is nothing to complete.
func ProgressOf(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (100 * completed) / total
}
