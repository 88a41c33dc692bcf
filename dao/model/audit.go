package model

import "gorm.io/gorm"

// AuditLog is one immutable record of a task mutation. The Prev/New pairs
// are populated only for fields that were submitted in the triggering
// command; a submitted-but-unchanged field still yields an identical pair.
// Rows are never updated; they are removed only when their task is deleted.
type AuditLog struct {
	gorm.Model
	TaskID  uint   `gorm:"index;not null" json:"taskID"`
	ActorID uint   `gorm:"index;not null" json:"actorID"`
	Message string `gorm:"type:varchar(512)" json:"message"`

	PrevStatus *TaskStatus `gorm:"type:varchar(32)" json:"prevStatus,omitempty"`
	NewStatus  *TaskStatus `gorm:"type:varchar(32)" json:"newStatus,omitempty"`

	PrevPriority *TaskPriority `gorm:"type:varchar(32)" json:"prevPriority,omitempty"`
	NewPriority  *TaskPriority `gorm:"type:varchar(32)" json:"newPriority,omitempty"`

	// Assignee pairs keep a "submitted" marker separate from the value:
	// an assignee can legitimately change to or from nobody (NULL).
	AssigneeSubmitted bool  `gorm:"not null;default:false" json:"-"`
	PrevAssigneeID    *uint `json:"prevAssigneeID,omitempty"`
	NewAssigneeID     *uint `json:"newAssigneeID,omitempty"`
}
