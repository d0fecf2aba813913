package models

import "time"

// Post represents a discussion post inside a board.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BoardKey  string    `gorm:"size:64;index;not null" json:"board_key"`
	AuthorID  uint      `gorm:"index;not null" json:"author_id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ViewCount int64     `gorm:"not null;default:0" json:"view_count"`
	LikeCount int64     `gorm:"not null;default:0" json:"like_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
