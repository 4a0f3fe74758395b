package models

import (
	"time"

	"gorm.io/gorm"
)

// Message represents a message in a maintenance request conversation between
// the customer and the assigned technician.
type Message struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	RequestID string `gorm:"not null;index" json:"request_id"` // id of the maintenance request this belongs to
	// No gorm relation to MaintenanceRequest: the request store rewrites
	// its table wholesale, which a foreign key constraint would reject.
	SenderName     string         `gorm:"not null" json:"sender_name"`
	SenderRole     string         `gorm:"not null" json:"sender_role"`
	SenderIdentity string         `gorm:"not null;index" json:"sender_identity"` // contact identifier of the sender
	Text           string         `gorm:"type:text;not null" json:"text"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
