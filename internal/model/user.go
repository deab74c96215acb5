package model

import (
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name        string     `gorm:"size:100;not null" json:"name"`
	Email       string     `gorm:"size:100;unique;not null" json:"email"`
	Password    string     `gorm:"size:100;not null" json:"-"`
	Role        UserRole   `gorm:"type:enum('student','instructor','admin');default:'student'" json:"role"`
	FranchiseID *uint      `gorm:"index;type:bigint unsigned" json:"franchiseId,omitempty"`
	Franchise   *Franchise `gorm:"foreignKey:FranchiseID" json:"franchise,omitempty"`
	Phone       string     `gorm:"size:20" json:"phone"`
	Avatar      string     `gorm:"size:255" json:"avatar"`
	Disabled    bool       `gorm:"default:false" json:"disabled"`
	LastLogin   time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen    time.Time  `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
