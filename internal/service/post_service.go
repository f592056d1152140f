package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/mutual-circle/internal/model"
	"github.com/d60-Lab/mutual-circle/internal/repository"
)

// PostPage 帖子列表的一页
type PostPage struct {
	Posts   []*model.Post `json:"posts"`
	Count   int           `json:"count"`
	Total   int64         `json:"total"`
	HasMore bool          `json:"has_more"`
	Limit   int           `json:"limit"`
	Offset  int           `json:"offset"`
}

type PostService interface {
	Create(ctx context.Context, authorID uint64, title, content string) (*model.Post, error)
	GetByID(ctx context.Context, postID, viewerID uint64) (*model.Post, error)
	ListByAuthor(ctx context.Context, username string, viewerID uint64, limit, offset int) (*PostPage, error)
	ListMine(ctx context.Context, authorID uint64, limit, offset int) (*PostPage, error)
	DeleteOwn(ctx context.Context, postID, authorID uint64) error
}

type postService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
	gate     AccessGate
}

func NewPostService(userRepo repository.UserRepository, postRepo repository.PostRepository, gate AccessGate) PostService {
	return &postService{userRepo: userRepo, postRepo: postRepo, gate: gate}
}

func (s *postService) Create(ctx context.Context, authorID uint64, title, content string) (*model.Post, error) {
	if authorID == Anonymous {
		return nil, newError(KindValidation, "author is required")
	}
	p := &model.Post{AuthorID: authorID, Title: title, Content: content}
	if err := s.postRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return p, nil
}

// GetByID 帖子不存在返回 not_found；存在但无权查看返回 forbidden
func (s *postService) GetByID(ctx context.Context, postID, viewerID uint64) (*model.Post, error) {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, postNotFound(postID)
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	if err := s.gate.Authorize(ctx, viewerID, p.AuthorID); err != nil {
		return nil, err
	}
	return p, nil
}

// ListByAuthor 授权只在开头检查一次，而不是逐行检查
func (s *postService) ListByAuthor(ctx context.Context, username string, viewerID uint64, limit, offset int) (*PostPage, error) {
	author, err := resolveUser(ctx, s.userRepo, username)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, viewerID, author.ID); err != nil {
		return nil, err
	}
	return s.listAuthor(ctx, author.ID, limit, offset)
}

func (s *postService) ListMine(ctx context.Context, authorID uint64, limit, offset int) (*PostPage, error) {
	return s.listAuthor(ctx, authorID, limit, offset)
}

// DeleteOwn 帖子不存在返回 not_found；属于他人返回 forbidden
func (s *postService) DeleteOwn(ctx context.Context, postID, authorID uint64) error {
	p, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return postNotFound(postID)
		}
		return fmt.Errorf("get post: %w", err)
	}
	if p.AuthorID != authorID {
		return newError(KindForbidden, "post %d belongs to another user", postID)
	}
	if err := s.postRepo.DeleteByAuthor(ctx, postID, authorID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// 并发删除
			return postNotFound(postID)
		}
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

func (s *postService) listAuthor(ctx context.Context, authorID uint64, limit, offset int) (*PostPage, error) {
	limit, offset = clampPage(limit, offset)
	posts, err := s.postRepo.ListByAuthor(ctx, authorID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	total, err := s.postRepo.CountByAuthor(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}
	if posts == nil {
		posts = []*model.Post{}
	}
	return &PostPage{
		Posts:   posts,
		Count:   len(posts),
		Total:   total,
		HasMore: int64(offset+len(posts)) < total,
		Limit:   limit,
		Offset:  offset,
	}, nil
}
