package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/mutual-circle/internal/model"
)

// mutualWithSQL 返回"col 与查看者互关"的谓词，需绑定两次查看者 ID。
// 两个 EXISTS 都命中 idx_follow_pair，不物化互关列表。
func mutualWithSQL(col string) string {
	return `(EXISTS (SELECT 1 FROM follows f1 WHERE f1.follower_id = ? AND f1.following_id = ` + col + `)` +
		` AND EXISTS (SELECT 1 FROM follows f2 WHERE f2.follower_id = ` + col + ` AND f2.following_id = ?))`
}

type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID uint64) error
	Delete(ctx context.Context, followerID, followingID uint64) error
	Exists(ctx context.Context, followerID, followingID uint64) (bool, error)
	IsMutual(ctx context.Context, userA, userB uint64) (bool, error)
	ListMutuals(ctx context.Context, userID uint64, limit int) ([]*model.User, error)
	ListFollowings(ctx context.Context, followerID uint64, offset, limit int) ([]*model.User, error)
	ListFollowers(ctx context.Context, followingID uint64, offset, limit int) ([]*model.User, error)
	CountFollowings(ctx context.Context, followerID uint64) (int64, error)
	CountFollowers(ctx context.Context, followingID uint64) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

// Create 依赖唯一索引判重：并发重复关注只会有一条成功，其余返回 ErrDuplicate
func (r *followRepository) Create(ctx context.Context, followerID, followingID uint64) error {
	f := &model.Follow{FollowerID: followerID, FollowingID: followingID}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

// Delete 没有可删除的边时返回 ErrNotFound
func (r *followRepository) Delete(ctx context.Context, followerID, followingID uint64) error {
	res := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID uint64) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// IsMutual 一条语句同时检查两个方向的边
func (r *followRepository) IsMutual(ctx context.Context, userA, userB uint64) (bool, error) {
	if userA == userB {
		return false, nil
	}
	var cnt int64
	err := r.db.WithContext(ctx).
		Table("follows AS f1").
		Where("f1.follower_id = ? AND f1.following_id = ?", userA, userB).
		Where("EXISTS (SELECT 1 FROM follows f2 WHERE f2.follower_id = ? AND f2.following_id = ?)", userB, userA).
		Count(&cnt).Error
	if err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// ListMutuals 互关好友，按"我关注对方"的时间倒序
func (r *followRepository) ListMutuals(ctx context.Context, userID uint64, limit int) ([]*model.User, error) {
	_, limit = normalizePage(0, limit, 50)
	var res []*model.User
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN follows f1 ON f1.following_id = users.id").
		Where("f1.follower_id = ?", userID).
		Where("EXISTS (SELECT 1 FROM follows f2 WHERE f2.follower_id = users.id AND f2.following_id = ?)", userID).
		Order("f1.created_at DESC").
		Order("f1.id DESC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowings(ctx context.Context, followerID uint64, offset, limit int) ([]*model.User, error) {
	offset, limit = normalizePage(offset, limit, 10)
	var res []*model.User
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN follows ON follows.following_id = users.id").
		Where("follows.follower_id = ?", followerID).
		Order("follows.created_at DESC").
		Order("follows.id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowers(ctx context.Context, followingID uint64, offset, limit int) ([]*model.User, error) {
	offset, limit = normalizePage(offset, limit, 10)
	var res []*model.User
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.following_id = ?", followingID).
		Order("follows.created_at DESC").
		Order("follows.id DESC").
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *followRepository) CountFollowings(ctx context.Context, followerID uint64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("follower_id = ?", followerID).Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountFollowers(ctx context.Context, followingID uint64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("following_id = ?", followingID).Count(&cnt).Error
	return cnt, err
}
