package model

import "time"

// Post 帖子，作者不可变更
type Post struct {
	ID        uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID  uint64    `json:"user_id" gorm:"not null;index:idx_post_author"`
	Title     string    `json:"title" gorm:"type:varchar(200);not null"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_post_created"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *User `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Post) TableName() string { return "posts" }
