package model

import "gorm.io/gorm"

// User is the basic identity of the system. Password holds a bcrypt hash.
type User struct {
	gorm.Model
	Name     string  `gorm:"uniqueIndex;type:varchar(32);not null" json:"name"`
	Nickname *string `gorm:"type:varchar(32)" json:"nickname,omitempty"`
	Email    *string `gorm:"type:varchar(128)" json:"email,omitempty"`
	Password string  `gorm:"type:varchar(128);not null" json:"-"`
	Role     Role    `gorm:"type:varchar(32);not null" json:"role"`

	Memberships []Membership `json:"-"`
}
