package models

import (
	"time"
)

// User represents a registered marketplace member. Authentication is
// handled upstream; this record only carries profile data used for
// display-name resolution and moderation.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"not null;uniqueIndex;size:255" json:"email"`
	FullName  string    `gorm:"size:255" json:"full_name,omitempty"`
	Role      string    `gorm:"size:50;default:user" json:"role"`
	Phone     string    `gorm:"size:50" json:"phone,omitempty"`
	Location  string    `gorm:"size:255" json:"location,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName returns the table name for User
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}
