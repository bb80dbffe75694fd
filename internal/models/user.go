// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// User represents an account in the inkwell application.
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Username    string     `gorm:"size:20;uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PhoneNumber string     `gorm:"size:15;uniqueIndex;not null" json:"phone_number"`
	Password    string     `gorm:"not null" json:"-"`
	FirstName   string     `gorm:"size:150" json:"-"`
	LastName    string     `gorm:"size:150" json:"-"`
	IsStaff     bool       `gorm:"not null;default:false" json:"-"`
	IsSuperuser bool       `gorm:"not null;default:false" json:"-"`
	IsActive    bool       `gorm:"not null;default:true" json:"-"`
	DateJoined  time.Time  `gorm:"autoCreateTime" json:"-"`
	LastLogin   *time.Time `json:"-"`
	Posts       []BlogPost `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"-"`
}
