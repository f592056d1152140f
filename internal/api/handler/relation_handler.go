package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mutual-circle/pkg/response"
)

// Follow 关注用户
// @Summary 关注用户
// @Description 返回这次关注是否形成互关
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param username path string true "被关注者用户名"
// @Success 200 {object} response.Response{data=service.FollowResult}
// @Failure 400 {object} response.Response "不能关注自己"
// @Failure 404 {object} response.Response "用户不存在"
// @Failure 409 {object} response.Response "已经关注"
// @Router /api/users/{username}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	res, err := h.relService.Follow(c.Request.Context(), viewer(c), c.Param("username"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Description 立即生效：若原本互关，双方都会失去对方帖子的访问权
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param username path string true "被取消关注者用户名"
// @Success 200 {object} response.Response{data=service.UnfollowResult}
// @Failure 404 {object} response.Response "用户不存在"
// @Failure 409 {object} response.Response "未关注该用户"
// @Router /api/users/{username}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
	res, err := h.relService.Unfollow(c.Request.Context(), viewer(c), c.Param("username"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, res)
}

// ListMutuals 我的互关好友
// @Summary 互关好友列表
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量" default(50)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/me/mutual-follows [get]
func (h *Handler) ListMutuals(c *gin.Context) {
	users, err := h.relService.ListMutuals(c.Request.Context(), viewer(c), queryInt(c, "limit", 50))
	if err != nil {
		h.fail(c, err)
		return
	}
	list := make([]interface{}, len(users))
	for i, u := range users {
		list[i] = u.Summary()
	}
	response.Success(c, gin.H{"mutual_follows": list, "count": len(list)})
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表（需互关）
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=service.UserPage}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{username}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, err := h.relService.ListFollowing(c.Request.Context(), viewer(c), c.Param("username"),
		queryInt(c, "page", 1), queryInt(c, "page_size", 10))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, page)
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表（需互关）
// @Tags 关系链
// @Produce json
// @Security BearerAuth
// @Param username path string true "用户名"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=service.UserPage}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{username}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, err := h.relService.ListFollowers(c.Request.Context(), viewer(c), c.Param("username"),
		queryInt(c, "page", 1), queryInt(c, "page_size", 10))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, page)
}
