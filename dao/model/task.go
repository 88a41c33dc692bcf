package model

import "gorm.io/gorm"

// Task is a trackable unit of work inside exactly one project.
// ProjectID never changes after creation. Position is the zero-based rank
// of the task in its project; live tasks of a project always occupy
// positions 0..N-1 with no gaps.
type Task struct {
	gorm.Model
	Title       string       `gorm:"type:varchar(128);not null" json:"title"`
	Description *string      `gorm:"type:varchar(1024)" json:"description,omitempty"`
	Status      TaskStatus   `gorm:"type:varchar(32);not null" json:"status"`
	Priority    TaskPriority `gorm:"type:varchar(32);not null" json:"priority"`
	ProjectID   uint         `gorm:"index;not null" json:"projectID"`
	AssigneeID  *uint        `gorm:"index" json:"assigneeID,omitempty"`
	CreatorID   uint         `gorm:"index;not null" json:"creatorID"`
	Position    int          `gorm:"not null;default:0" json:"position"`
}
