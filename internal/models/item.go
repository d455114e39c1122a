package models

import (
	"time"
)

// Item status values
const (
	ItemStatusAvailable = "available"
	ItemStatusReserved  = "reserved"
	ItemStatusGiven     = "given"
)

// Item represents an educational material listed on the marketplace
// (textbook, uniform, supplies). Messages may reference an item to give
// a conversation context.
type Item struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `gorm:"size:100;index" json:"category"`
	Condition   string    `gorm:"size:50" json:"condition,omitempty"`
	Status      string    `gorm:"size:50;default:available;index" json:"status"`
	Approved    bool      `gorm:"default:false" json:"approved"`
	CreatedBy   string    `gorm:"not null;size:255;index" json:"created_by"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName returns the table name for Item
func (Item) TableName() string {
	return "items"
}
