package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/mutual-circle/internal/model"
)

// UserRelationRow 带关注状态的用户行
type UserRelationRow struct {
	model.User
	IsFollowing bool
	IsMutual    bool
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uint64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	Search(ctx context.Context, viewerID uint64, keyword string, limit int) ([]*UserRelationRow, error)
	Delete(ctx context.Context, id uint64) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

// Create 用户名冲突时返回 ErrDuplicate
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "username"}}, DoNothing: true}).
		Create(user)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicate
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// Search 按用户名模糊匹配，排除查看者自己，并附带关注 / 互关状态
func (r *userRepository) Search(ctx context.Context, viewerID uint64, keyword string, limit int) ([]*UserRelationRow, error) {
	_, limit = normalizePage(0, limit, 20)
	pattern := "%" + escapeLike(keyword) + "%"

	var rows []*UserRelationRow
	err := r.db.WithContext(ctx).
		Table("users").
		Select(`users.*,
			EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = ? AND f.following_id = users.id) AS is_following,
			`+mutualWithSQL("users.id")+` AS is_mutual`,
			viewerID, viewerID, viewerID).
		Where("users.username LIKE ? ESCAPE '\\' AND users.id <> ?", pattern, viewerID).
		Order("users.username").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// Delete 删除用户，关注边与帖子由外键级联删除
func (r *userRepository) Delete(ctx context.Context, id uint64) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
