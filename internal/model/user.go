package model

import "time"

// User 用户；用户名唯一，密码只保存 bcrypt 哈希
type User struct {
	ID           uint64    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username     string    `json:"username" gorm:"type:varchar(30);uniqueIndex:ux_users_username;not null"`
	PasswordHash string    `json:"-" gorm:"type:varchar(100);not null"`
	Bio          string    `json:"bio" gorm:"type:text;not null;default:''"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserSummary 列表场景的用户信息（搜索、关注列表、互关列表）
type UserSummary struct {
	ID          uint64    `json:"id"`
	Username    string    `json:"username"`
	Bio         string    `json:"bio"`
	CreatedAt   time.Time `json:"created_at"`
	IsFollowing *bool     `json:"is_following,omitempty"`
	IsMutual    *bool     `json:"is_mutual,omitempty"`
}

// Summary 去掉敏感字段
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Bio: u.Bio, CreatedAt: u.CreatedAt}
}
