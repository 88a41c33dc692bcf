package model

import "gorm.io/gorm"

// Notification is a best-effort message for one user. Read only ever
// moves from false to true.
type Notification struct {
	gorm.Model
	RecipientID uint             `gorm:"index;not null" json:"recipientID"`
	Type        NotificationType `gorm:"type:varchar(32);not null" json:"type"`
	Message     string           `gorm:"type:varchar(512);not null" json:"message"`
	ProjectID   *uint            `json:"projectID,omitempty"`
	TaskID      *uint            `json:"taskID,omitempty"`
	Read        bool             `gorm:"not null;default:false" json:"read"`
}
