// Package models defines the persisted entities and the application error type.
package models

import "time"

// User is a registered account. IsAdmin grants post management.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Name      string    `gorm:"size:1000;not null" json:"name"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Posts    []BlogPost `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
	Comments []Comment  `gorm:"foreignKey:AuthorID" json:"comments,omitempty"`
}
