package models

import (
	"time"
)

// BlogPost is a short text post. Deleting a post only flips IsDeleted.
type BlogPost struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:100;not null" json:"title"`
	Subtitle    string    `gorm:"size:100;not null" json:"subtitle"`
	Body        *string   `gorm:"type:text" json:"body"`
	DateCreated time.Time `gorm:"autoCreateTime;<-:create" json:"date_created"`
	IsDeleted   bool      `gorm:"not null;default:false;index" json:"is_deleted"`
	AuthorID    *uint     `gorm:"index" json:"author"`
	Author      *User     `gorm:"foreignKey:AuthorID" json:"-"`
}

// TableName pins the table name used by migrations and raw queries.
func (BlogPost) TableName() string {
	return "blog_posts"
}

// IsAuthoredBy reports whether userID is the post's author.
func (p *BlogPost) IsAuthoredBy(userID uint) bool {
	return p.AuthorID != nil && *p.AuthorID == userID
}

// PostPage is one page of a paginated post listing.
type PostPage struct {
	Count    int64      `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []BlogPost `json:"results"`
}
