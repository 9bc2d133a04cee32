package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	SourceGenerated = "generated"
	SourceTemplate  = "template"
	SourceSeed      = "seed"
)

type Path struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title           string         `gorm:"column:title;not null" json:"title"`
	Description     string         `gorm:"column:description;type:text" json:"description"`
	Duration        string         `gorm:"column:duration;not null" json:"duration"`
	MatchPercentage int            `gorm:"column:match_percentage;not null;index" json:"match_percentage"`
	Source          string         `gorm:"column:source;not null" json:"source"`
	Request         datatypes.JSON `gorm:"column:request" json:"-"`
	Journeys        []*Journey     `gorm:"foreignKey:PathID" json:"journeys,omitempty"`
	CreatedAt       time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null" json:"updated_at"`
}

func (Path) TableName() string { return "learning_path" }
