package models

import "time"

// BlacklistedToken records a refresh token id that may no longer be exchanged.
type BlacklistedToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JTI       string    `gorm:"column:jti;size:64;uniqueIndex;not null" json:"jti"`
	UserID    uint      `gorm:"index" json:"user_id"`
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenPair is the access/refresh pair handed out on login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
