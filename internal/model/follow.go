package model

import (
	"time"
)

// Follow 关注关系（A 关注 B）
type Follow struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	FollowerID  uint64 `gorm:"not null;index:idx_follow_pair,unique,priority:1"`
	FollowingID uint64 `gorm:"not null;index:idx_follow_pair,unique,priority:2;index:idx_follow_following;check:chk_follows_not_self,follower_id <> following_id"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (follower_id, following_id)，互关判断的两次查找都走这个索引
	CreatedAt time.Time `gorm:"index:idx_follow_created"`

	// 任一端用户删除时级联删除关注边
	Follower  *User `gorm:"foreignKey:FollowerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Following *User `gorm:"foreignKey:FollowingID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Follow) TableName() string { return "follows" }
