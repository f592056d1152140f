package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mutual-circle/pkg/response"
)

type createPostRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=200"`
	Content string `json:"content" binding:"required,min=1,max=10000"`
}

// CreatePost 发帖
// @Summary 创建帖子
// @Tags 帖子
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body createPostRequest true "帖子内容"
// @Success 201 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Router /api/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	title, content := strings.TrimSpace(req.Title), strings.TrimSpace(req.Content)
	if title == "" || content == "" {
		response.BadRequest(c, "title and content must not be blank")
		return
	}
	post, err := h.postService.Create(c.Request.Context(), viewer(c), title, content)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, post)
}

// GetPost 帖子详情
// @Summary 帖子详情
// @Description 作者本人或与作者互关的用户可见；不存在返回 404，无权查看返回 403
// @Tags 帖子
// @Produce json
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/posts/{id} [get]
func (h *Handler) GetPost(c *gin.Context) {
	id, ok := pathUint(c, "id")
	if !ok {
		response.BadRequest(c, "invalid post id")
		return
	}
	post, err := h.postService.GetByID(c.Request.Context(), id, viewer(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, post)
}

// DeletePost 删除自己的帖子
// @Summary 删除帖子
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param id path int true "帖子ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := pathUint(c, "id")
	if !ok {
		response.BadRequest(c, "invalid post id")
		return
	}
	if err := h.postService.DeleteOwn(c.Request.Context(), id, viewer(c)); err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListUserPosts 指定用户的帖子
// @Summary 用户帖子列表（需互关）
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param username path string true "用户名"
// @Param limit query int false "数量" default(20)
// @Param offset query int false "偏移" default(0)
// @Success 200 {object} response.Response{data=service.PostPage}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/users/{username}/posts [get]
func (h *Handler) ListUserPosts(c *gin.Context) {
	page, err := h.postService.ListByAuthor(c.Request.Context(), c.Param("username"), viewer(c),
		queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, page)
}

// ListMyPosts 我的帖子
// @Summary 我的帖子
// @Tags 帖子
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量" default(20)
// @Param offset query int false "偏移" default(0)
// @Success 200 {object} response.Response{data=service.PostPage}
// @Router /api/me/posts [get]
func (h *Handler) ListMyPosts(c *gin.Context) {
	page, err := h.postService.ListMine(c.Request.Context(), viewer(c), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, page)
}
