package api

import (
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/d60-Lab/mutual-circle/config"
	_ "github.com/d60-Lab/mutual-circle/docs"
	"github.com/d60-Lab/mutual-circle/internal/api/handler"
	"github.com/d60-Lab/mutual-circle/internal/api/middleware"
	"github.com/d60-Lab/mutual-circle/internal/repository"
	"github.com/d60-Lab/mutual-circle/internal/service"
	"github.com/d60-Lab/mutual-circle/pkg/auth"
	"github.com/d60-Lab/mutual-circle/pkg/validate"
)

// Options 路由可选组件
type Options struct {
	Sentry    bool // 已初始化 Sentry 时挂载 sentrygin
	Tracing   bool // 已初始化 OTel 时挂载 otelgin
	Swagger   bool
	Gzip      bool
	RateLimit config.RateLimitConfig
}

// NewHandler 由数据库连接组装 repository、service 和 handler
func NewHandler(db *gorm.DB, tokens service.TokenIssuer, opts ...service.UserOption) *handler.Handler {
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)

	gate := service.NewAccessGate(followRepo)

	return handler.New(
		service.NewUserService(userRepo, followRepo, tokens, opts...),
		service.NewRelationshipService(userRepo, followRepo, gate),
		service.NewPostService(userRepo, postRepo, gate),
		service.NewFeedService(postRepo),
	)
}

// NewRouter 注册中间件与全部路由
func NewRouter(h *handler.Handler, tokens *auth.TokenManager, serviceName string, opts Options) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = validate.Register(v)
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), middleware.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if opts.Tracing {
		r.Use(otelgin.Middleware(serviceName))
	}
	if opts.Gzip {
		r.Use(gzip.Gzip(gzip.DefaultCompression))
	}
	r.Use(middleware.RateLimit(opts.RateLimit.RPS, opts.RateLimit.Burst))

	r.GET("/health", handler.Health)
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.Auth(tokens)
	optionalAuth := middleware.OptionalAuth(tokens)

	apiGroup := r.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)

		users := apiGroup.Group("/users")
		users.GET("", requireAuth, h.SearchUsers)
		users.GET("/:username", optionalAuth, h.GetProfile)
		users.GET("/:username/posts", requireAuth, h.ListUserPosts)
		users.POST("/:username/follow", requireAuth, h.Follow)
		users.DELETE("/:username/follow", requireAuth, h.Unfollow)
		users.GET("/:username/following", requireAuth, h.ListFollowing)
		users.GET("/:username/followers", requireAuth, h.ListFollowers)

		me := apiGroup.Group("/me", requireAuth)
		me.GET("/mutual-follows", h.ListMutuals)
		me.GET("/posts", h.ListMyPosts)

		posts := apiGroup.Group("/posts")
		posts.POST("", requireAuth, h.CreatePost)
		posts.GET("/:id", optionalAuth, h.GetPost)
		posts.DELETE("/:id", requireAuth, h.DeletePost)

		apiGroup.GET("/feed", requireAuth, h.GetFeed)
	}

	return r
}
