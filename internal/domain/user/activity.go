package user

import (
	"time"

	"github.com/google/uuid"
)

// DayLayout is the storage format of UserActivity.Day.
const DayLayout = "2006-01-02"

// UserActivity marks a calendar day (server-local) on which the user did
// something. One row per (user, day).
type UserActivity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_activity_day,priority:1" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"-"`
	Day       string    `gorm:"column:day;size:10;not null;uniqueIndex:idx_user_activity_day,priority:2" json:"day"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (UserActivity) TableName() string { return "user_activity" }

// DayOf formats t's calendar date in t's location.
func DayOf(t time.Time) string { return t.Format(DayLayout) }
