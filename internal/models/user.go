package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleInstructor UserRole = "instructor"
	RoleStudent    UserRole = "student"
)

func UserRoles() []UserRole {
	return []UserRole{RoleAdmin, RoleInstructor, RoleStudent}
}

// User is owned by the identity provider; this service only reads it and
// edits the display name.
type User struct {
	ID          string                        `json:"_id" gorm:"primaryKey;size:36"`
	FirebaseUID string                        `json:"firebaseUID" gorm:"uniqueIndex;not null;size:128"`
	Email       string                        `json:"email" gorm:"uniqueIndex;not null;size:255"`
	FirstName   string                        `json:"firstName" gorm:"size:100"`
	LastName    string                        `json:"lastName" gorm:"size:100"`
	Roles       datatypes.JSONSlice[UserRole] `json:"roles" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
