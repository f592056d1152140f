package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mutual-circle/pkg/auth"
	"github.com/d60-Lab/mutual-circle/pkg/response"
)

const (
	ctxUserID   = "user_id"
	ctxUsername = "username"
)

// Auth 要求 Bearer Token
func Auth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearer(c)
		if !ok {
			response.Unauthorized(c, "missing bearer token")
			return
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			response.Unauthorized(c, err.Error())
			return
		}
		setUser(c, claims)
		c.Next()
	}
}

// OptionalAuth 有合法 Token 时解析用户，否则按匿名继续
func OptionalAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearer(c); ok {
			if claims, err := tokens.Parse(token); err == nil {
				setUser(c, claims)
			}
		}
		c.Next()
	}
}

// UserID 当前登录用户；匿名时返回 false
func UserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok && id != 0
}

func setUser(c *gin.Context, claims *auth.Claims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxUsername, claims.Username)
}

func bearer(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	scheme, token, found := strings.Cut(h, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}
