package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	TypeStudent = "student"
	TypeParent  = "parent"
	TypeTeacher = "teacher"
)

// ValidType reports whether t is one of the known account types.
func ValidType(t string) bool {
	switch t {
	case TypeStudent, TypeParent, TypeTeacher:
		return true
	}
	return false
}

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Email     string    `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password  string    `gorm:"not null;column:password" json:"-"`
	FirstName string    `gorm:"not null;column:first_name" json:"first_name"`
	LastName  string    `gorm:"not null;column:last_name" json:"last_name"`
	UserType  string    `gorm:"not null;column:user_type;default:student" json:"user_type"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string { return "user" }
