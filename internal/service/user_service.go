package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/mutual-circle/internal/model"
	"github.com/d60-Lab/mutual-circle/internal/repository"
	"github.com/d60-Lab/mutual-circle/pkg/validate"
)

// TokenIssuer 登录成功后签发访问令牌
type TokenIssuer interface {
	Issue(userID uint64, username string) (string, time.Time, error)
}

// LoginLimiter 按用户名统计连续登录失败
type LoginLimiter interface {
	Blocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// Credentials 注册 / 登录输入
type Credentials struct {
	Username string `validate:"required,min=3,max=30,username"`
	Password string `validate:"required,min=6,max=72"`
}

type LoginResult struct {
	User      *model.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Profile 用户主页信息；IsFollowing / IsMutual 仅对已登录查看者返回
type Profile struct {
	ID             uint64    `json:"id"`
	Username       string    `json:"username"`
	Bio            string    `json:"bio"`
	CreatedAt      time.Time `json:"created_at"`
	FollowingCount int64     `json:"following_count"`
	FollowersCount int64     `json:"followers_count"`
	IsFollowing    *bool     `json:"is_following,omitempty"`
	IsMutual       *bool     `json:"is_mutual,omitempty"`
}

type UserService interface {
	Register(ctx context.Context, in Credentials) (*model.User, error)
	Login(ctx context.Context, in Credentials) (*LoginResult, error)
	GetProfile(ctx context.Context, username string, viewerID uint64) (*Profile, error)
	Search(ctx context.Context, keyword string, viewerID uint64, limit int) ([]model.UserSummary, error)
}

type UserOption func(*userService)

// WithBcryptCost 测试中可调低哈希成本
func WithBcryptCost(cost int) UserOption {
	return func(s *userService) { s.bcryptCost = cost }
}

// WithLoginLimiter 设置登录失败限制器
func WithLoginLimiter(l LoginLimiter) UserOption {
	return func(s *userService) { s.limiter = l }
}

type userService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
	tokens     TokenIssuer
	limiter    LoginLimiter
	validate   *validator.Validate
	bcryptCost int
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository, tokens TokenIssuer, opts ...UserOption) UserService {
	s := &userService{
		userRepo:   userRepo,
		followRepo: followRepo,
		tokens:     tokens,
		validate:   validate.New(),
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *userService) Register(ctx context.Context, in Credentials) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if err := s.validate.Struct(in); err != nil {
		return nil, validationError(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Username: in.Username, PasswordHash: string(hash)}
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// Login 用户名不存在与密码错误返回同一个错误
func (s *userService) Login(ctx context.Context, in Credentials) (*LoginResult, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, newError(KindValidation, "username and password are required")
	}
	if s.limiter != nil {
		blocked, err := s.limiter.Blocked(ctx, in.Username)
		if err != nil {
			return nil, fmt.Errorf("check login limiter: %w", err)
		}
		if blocked {
			return nil, ErrTooManyAttempts
		}
	}

	u, err := s.userRepo.GetByUsername(ctx, in.Username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		if s.limiter != nil {
			if err := s.limiter.RecordFailure(ctx, in.Username); err != nil {
				return nil, fmt.Errorf("record login failure: %w", err)
			}
		}
		return nil, ErrBadCredentials
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, in.Username); err != nil {
			return nil, fmt.Errorf("reset login limiter: %w", err)
		}
	}
	token, exp, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{User: u, Token: token, ExpiresAt: exp}, nil
}

// GetProfile 基本资料公开，便于发现用户；帖子与关系列表仍受互关限制
func (s *userService) GetProfile(ctx context.Context, username string, viewerID uint64) (*Profile, error) {
	u, err := resolveUser(ctx, s.userRepo, username)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowings(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("count following: %w", err)
	}
	followers, err := s.followRepo.CountFollowers(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("count followers: %w", err)
	}
	p := &Profile{
		ID:             u.ID,
		Username:       u.Username,
		Bio:            u.Bio,
		CreatedAt:      u.CreatedAt,
		FollowingCount: following,
		FollowersCount: followers,
	}
	if viewerID == Anonymous {
		return p, nil
	}

	isFollowing, err := s.followRepo.Exists(ctx, viewerID, u.ID)
	if err != nil {
		return nil, fmt.Errorf("check following: %w", err)
	}
	isMutual, err := s.followRepo.IsMutual(ctx, viewerID, u.ID)
	if err != nil {
		return nil, fmt.Errorf("check mutual follow: %w", err)
	}
	p.IsFollowing = &isFollowing
	p.IsMutual = &isMutual
	return p, nil
}

func (s *userService) Search(ctx context.Context, keyword string, viewerID uint64, limit int) ([]model.UserSummary, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, newError(KindValidation, "search keyword must not be empty")
	}
	if limit < 1 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	rows, err := s.userRepo.Search(ctx, viewerID, keyword, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	res := make([]model.UserSummary, len(rows))
	for i, row := range rows {
		sum := row.User.Summary()
		isFollowing, isMutual := row.IsFollowing, row.IsMutual
		sum.IsFollowing = &isFollowing
		sum.IsMutual = &isMutual
		res[i] = sum
	}
	return res, nil
}

func validationError(err error) *Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return newError(KindValidation, "%s failed on %q rule", strings.ToLower(fe.Field()), fe.Tag())
	}
	return newError(KindValidation, "%s", err.Error())
}
