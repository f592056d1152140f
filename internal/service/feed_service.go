package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/mutual-circle/internal/model"
	"github.com/d60-Lab/mutual-circle/internal/repository"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// FeedPage Feed 流的一页
type FeedPage struct {
	Posts   []*model.Post `json:"posts"`
	Count   int           `json:"count"`
	Total   int64         `json:"total"`
	HasMore bool          `json:"has_more"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

// FeedService 只聚合与查看者互关的作者的帖子（不含自己），按时间倒序
type FeedService interface {
	GetFeed(ctx context.Context, viewerID uint64, limit, offset int) (*FeedPage, error)
	GetFeedCount(ctx context.Context, viewerID uint64) (int64, error)
}

type feedService struct {
	postRepo repository.PostRepository
}

func NewFeedService(postRepo repository.PostRepository) FeedService {
	return &feedService{postRepo: postRepo}
}

func (s *feedService) GetFeed(ctx context.Context, viewerID uint64, limit, offset int) (*FeedPage, error) {
	limit, offset = clampPage(limit, offset)
	posts, err := s.postRepo.ListFeed(ctx, viewerID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	total, err := s.GetFeedCount(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return &FeedPage{
		Posts:   posts,
		Count:   len(posts),
		Total:   total,
		HasMore: int64(offset+len(posts)) < total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}

func (s *feedService) GetFeedCount(ctx context.Context, viewerID uint64) (int64, error) {
	total, err := s.postRepo.CountFeed(ctx, viewerID)
	if err != nil {
		return 0, fmt.Errorf("count feed: %w", err)
	}
	return total, nil
}

// clampPage limit 默认 20，上限 100；offset 不能为负
func clampPage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
