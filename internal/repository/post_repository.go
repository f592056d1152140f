package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/mutual-circle/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id uint64) (*model.Post, error)
	ListByAuthor(ctx context.Context, authorID uint64, offset, limit int) ([]*model.Post, error)
	CountByAuthor(ctx context.Context, authorID uint64) (int64, error)
	DeleteByAuthor(ctx context.Context, id, authorID uint64) error
	// ListFeed 查看者互关作者的帖子，按 created_at、id 倒序
	ListFeed(ctx context.Context, viewerID uint64, offset, limit int) ([]*model.Post, error)
	CountFeed(ctx context.Context, viewerID uint64) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id uint64) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Joins("Author").
		Where("posts.id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint64, offset, limit int) ([]*model.Post, error) {
	offset, limit = normalizePage(offset, limit, 20)
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Joins("Author").
		Where("posts.author_id = ?", authorID).
		Scopes(newestFirst).
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).Where("author_id = ?", authorID).Count(&cnt).Error
	return cnt, err
}

// DeleteByAuthor 只删除属于 authorID 的帖子，否则返回 ErrNotFound
func (r *postRepository) DeleteByAuthor(ctx context.Context, id, authorID uint64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND author_id = ?", id, authorID).Delete(&model.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postRepository) ListFeed(ctx context.Context, viewerID uint64, offset, limit int) ([]*model.Post, error) {
	offset, limit = normalizePage(offset, limit, 20)
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Joins("Author").
		Scopes(mutualAuthorOf(viewerID)).
		Scopes(newestFirst).
		Offset(offset).Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) CountFeed(ctx context.Context, viewerID uint64) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Scopes(mutualAuthorOf(viewerID)).
		Count(&cnt).Error
	return cnt, err
}

// mutualAuthorOf 过滤出作者与 viewerID 互关的帖子
func mutualAuthorOf(viewerID uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(mutualWithSQL("posts.author_id"), viewerID, viewerID)
	}
}

// newestFirst id 作为同一时间戳的决胜字段，保证分页稳定
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.created_at DESC").Order("posts.id DESC")
}
