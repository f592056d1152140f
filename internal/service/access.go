package service

import (
	"context"
	"fmt"

	"github.com/d60-Lab/mutual-circle/internal/repository"
)

// Anonymous 未登录的查看者
const Anonymous uint64 = 0

// Decision 授权结果
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "ALLOW"
	}
	return "DENY"
}

// AccessGate 判断查看者能否看到某用户的内容。
// 每次调用都实时查询关注边，不缓存互关状态，取关立即生效。
type AccessGate interface {
	CanView(ctx context.Context, viewerID, ownerID uint64) (Decision, error)
	// Authorize 把 Deny 转成 ErrForbidden
	Authorize(ctx context.Context, viewerID, ownerID uint64) error
}

type accessGate struct {
	followRepo repository.FollowRepository
}

func NewAccessGate(followRepo repository.FollowRepository) AccessGate {
	return &accessGate{followRepo: followRepo}
}

func (g *accessGate) CanView(ctx context.Context, viewerID, ownerID uint64) (Decision, error) {
	if viewerID == Anonymous {
		return Deny, nil
	}
	if viewerID == ownerID {
		return Allow, nil
	}
	mutual, err := g.followRepo.IsMutual(ctx, viewerID, ownerID)
	if err != nil {
		return Deny, fmt.Errorf("check mutual follow: %w", err)
	}
	if mutual {
		return Allow, nil
	}
	return Deny, nil
}

func (g *accessGate) Authorize(ctx context.Context, viewerID, ownerID uint64) error {
	d, err := g.CanView(ctx, viewerID, ownerID)
	if err != nil {
		return err
	}
	if d == Deny {
		return ErrForbidden
	}
	return nil
}
