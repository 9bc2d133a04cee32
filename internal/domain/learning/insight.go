package learning

import (
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/edusmart-backend/internal/domain/user"
)

const (
	InsightStrength    = "strength"
	InsightImprovement = "improvement"
)

type LearningInsight struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *user.User `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	InsightType string     `gorm:"column:insight_type;not null" json:"insight_type"`
	Description string     `gorm:"column:description;type:text;not null" json:"description"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
}

func (LearningInsight) TableName() string { return "learning_insight" }
