package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/mutual-circle/internal/model"
	"github.com/d60-Lab/mutual-circle/internal/repository"
)

const (
	defaultMutualLimit = 50
	maxMutualLimit     = 200
)

// FollowResult 关注结果；IsMutual 表示这次关注是否形成了互关
type FollowResult struct {
	Success  bool `json:"success"`
	IsMutual bool `json:"is_mutual"`
}

type UnfollowResult struct {
	Success bool `json:"success"`
}

// UserPage 关注 / 粉丝列表的一页
type UserPage struct {
	Users    []model.UserSummary `json:"users"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Total    int64               `json:"total"`
	HasMore  bool                `json:"has_more"`
}

// RelationshipService 关系链服务
type RelationshipService interface {
	Follow(ctx context.Context, followerID uint64, targetUsername string) (*FollowResult, error)
	Unfollow(ctx context.Context, followerID uint64, targetUsername string) (*UnfollowResult, error)
	IsMutual(ctx context.Context, userA, userB uint64) (bool, error)
	ListMutuals(ctx context.Context, userID uint64, limit int) ([]*model.User, error)
	ListFollowing(ctx context.Context, viewerID uint64, username string, page, pageSize int) (*UserPage, error)
	ListFollowers(ctx context.Context, viewerID uint64, username string, page, pageSize int) (*UserPage, error)
}

type relationshipService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	gate       AccessGate
}

func NewRelationshipService(userRepo repository.UserRepository, followRepo repository.FollowRepository, gate AccessGate) RelationshipService {
	return &relationshipService{userRepo: userRepo, followRepo: followRepo, gate: gate}
}

func (s *relationshipService) Follow(ctx context.Context, followerID uint64, targetUsername string) (*FollowResult, error) {
	target, err := resolveUser(ctx, s.userRepo, targetUsername)
	if err != nil {
		return nil, err
	}
	if target.ID == followerID {
		return nil, ErrFollowSelf
	}
	if err := s.followRepo.Create(ctx, followerID, target.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, newError(KindDuplicateFollow, "already following %s", target.Username)
		}
		return nil, fmt.Errorf("create follow: %w", err)
	}
	mutual, err := s.followRepo.IsMutual(ctx, followerID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("check mutual follow: %w", err)
	}
	return &FollowResult{Success: true, IsMutual: mutual}, nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID uint64, targetUsername string) (*UnfollowResult, error) {
	target, err := resolveUser(ctx, s.userRepo, targetUsername)
	if err != nil {
		return nil, err
	}
	if err := s.followRepo.Delete(ctx, followerID, target.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFollowing, "not following %s", target.Username)
		}
		return nil, fmt.Errorf("delete follow: %w", err)
	}
	return &UnfollowResult{Success: true}, nil
}

func (s *relationshipService) IsMutual(ctx context.Context, userA, userB uint64) (bool, error) {
	return s.followRepo.IsMutual(ctx, userA, userB)
}

func (s *relationshipService) ListMutuals(ctx context.Context, userID uint64, limit int) ([]*model.User, error) {
	if limit < 1 {
		limit = defaultMutualLimit
	}
	if limit > maxMutualLimit {
		limit = maxMutualLimit
	}
	return s.followRepo.ListMutuals(ctx, userID, limit)
}

// ListFollowing 查询某用户关注的人，需要查看者本人或互关
func (s *relationshipService) ListFollowing(ctx context.Context, viewerID uint64, username string, page, pageSize int) (*UserPage, error) {
	return s.listEdges(ctx, viewerID, username, page, pageSize, s.followRepo.ListFollowings, s.followRepo.CountFollowings)
}

// ListFollowers 查询某用户的粉丝，需要查看者本人或互关
func (s *relationshipService) ListFollowers(ctx context.Context, viewerID uint64, username string, page, pageSize int) (*UserPage, error) {
	return s.listEdges(ctx, viewerID, username, page, pageSize, s.followRepo.ListFollowers, s.followRepo.CountFollowers)
}

func (s *relationshipService) listEdges(
	ctx context.Context,
	viewerID uint64,
	username string,
	page, pageSize int,
	list func(context.Context, uint64, int, int) ([]*model.User, error),
	count func(context.Context, uint64) (int64, error),
) (*UserPage, error) {
	owner, err := resolveUser(ctx, s.userRepo, username)
	if err != nil {
		return nil, err
	}
	if err := s.gate.Authorize(ctx, viewerID, owner.ID); err != nil {
		return nil, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	offset := (page - 1) * pageSize

	items, err := list(ctx, owner.ID, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	total, err := count(ctx, owner.ID)
	if err != nil {
		return nil, fmt.Errorf("count relations: %w", err)
	}

	res := &UserPage{Users: make([]model.UserSummary, len(items)), Page: page, PageSize: pageSize, Total: total}
	for i, it := range items {
		res.Users[i] = it.Summary()
	}
	res.HasMore = int64(offset+len(items)) < total
	return res, nil
}

// resolveUser 用户名 -> 用户，不存在时返回 not_found
func resolveUser(ctx context.Context, repo repository.UserRepository, username string) (*model.User, error) {
	u, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, userNotFound(username)
		}
		return nil, fmt.Errorf("get user %q: %w", username, err)
	}
	return u, nil
}
