package handler

import (
	"errors"
	"net/http"
	"strconv"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/mutual-circle/internal/api/middleware"
	"github.com/d60-Lab/mutual-circle/internal/service"
	"github.com/d60-Lab/mutual-circle/pkg/logger"
	"github.com/d60-Lab/mutual-circle/pkg/response"
)

// Handler 聚合所有 HTTP 处理函数
type Handler struct {
	userService service.UserService
	relService  service.RelationshipService
	postService service.PostService
	feedService service.FeedService
}

func New(userService service.UserService, relService service.RelationshipService, postService service.PostService, feedService service.FeedService) *Handler {
	return &Handler{userService: userService, relService: relService, postService: postService, feedService: feedService}
}

var kindStatus = map[service.ErrorKind]int{
	service.KindNotFound:        http.StatusNotFound,
	service.KindForbidden:       http.StatusForbidden,
	service.KindSelfFollow:      http.StatusBadRequest,
	service.KindDuplicateFollow: http.StatusConflict,
	service.KindNotFollowing:    http.StatusConflict,
	service.KindValidation:      http.StatusBadRequest,
	service.KindConflict:        http.StatusConflict,
	service.KindUnauthorized:    http.StatusUnauthorized,
	service.KindTooManyAttempts: http.StatusTooManyRequests,
}

// fail 业务错误按类别映射状态码并原样返回原因；其余错误记录日志、上报 Sentry 后返回 500
func (h *Handler) fail(c *gin.Context, err error) {
	var se *service.Error
	if errors.As(err, &se) {
		if status, ok := kindStatus[se.Kind]; ok {
			response.Fail(c, status, string(se.Kind), se.Reason)
			return
		}
	}

	logger.Error("request failed",
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	response.InternalError(c, err)
}

// viewer 当前查看者，匿名为 service.Anonymous
func viewer(c *gin.Context) uint64 {
	if id, ok := middleware.UserID(c); ok {
		return id
	}
	return service.Anonymous
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func pathUint(c *gin.Context, key string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil || v == 0 {
		return 0, false
	}
	return v, true
}
