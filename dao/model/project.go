package model

import "gorm.io/gorm"

// Project is the collaboration scope. The owner always has a Membership
// row with ProjectRoleOwner; memberships are unique per (project, user).
type Project struct {
	gorm.Model
	Name        string  `gorm:"type:varchar(64);not null" json:"name"`
	Description *string `gorm:"type:varchar(256)" json:"description,omitempty"`
	OwnerID     uint    `gorm:"index;not null" json:"ownerID"`

	Memberships []Membership `json:"-"`
}

// Membership associates a user with a project and a role.
type Membership struct {
	gorm.Model
	ProjectID uint        `gorm:"uniqueIndex:idx_project_user;not null" json:"projectID"`
	UserID    uint        `gorm:"uniqueIndex:idx_project_user;not null" json:"userID"`
	Role      ProjectRole `gorm:"type:varchar(32);not null" json:"role"`
}
