package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mutual-circle/internal/service"
	"github.com/d60-Lab/mutual-circle/pkg/response"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required,min=3,max=30,username"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 注册
// @Summary 用户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body credentialsRequest true "用户名与密码"
// @Success 201 {object} response.Response{data=model.UserSummary}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response "用户名已被占用"
// @Router /api/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	u, err := h.userService.Register(c.Request.Context(), service.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, u.Summary())
}

// Login 登录
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "用户名与密码"
// @Success 200 {object} response.Response{data=service.LoginResult}
// @Failure 401 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.userService.Login(c.Request.Context(), service.Credentials{Username: req.Username, Password: req.Password})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}

// GetProfile 用户主页
// @Summary 用户信息
// @Description 基本信息公开；已登录时附带 is_following / is_mutual
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=service.Profile}
// @Failure 404 {object} response.Response
// @Router /api/users/{username} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.userService.GetProfile(c.Request.Context(), c.Param("username"), viewer(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, p)
}

// SearchUsers 搜索用户
// @Summary 按用户名搜索
// @Tags 用户
// @Produce json
// @Security BearerAuth
// @Param q query string true "关键词"
// @Param limit query int false "数量" default(20)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Failure 400 {object} response.Response
// @Router /api/users [get]
func (h *Handler) SearchUsers(c *gin.Context) {
	users, err := h.userService.Search(c.Request.Context(), c.Query("q"), viewer(c), queryInt(c, "limit", 20))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, gin.H{"users": users, "count": len(users)})
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}
