package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/mutual-circle/pkg/response"
)

// GetFeed Feed 流
// @Summary 获取 Feed 流
// @Description 只包含与当前用户互关的作者的帖子，按发布时间倒序
// @Tags Feed
// @Produce json
// @Security BearerAuth
// @Param limit query int false "数量" default(20)
// @Param offset query int false "偏移" default(0)
// @Success 200 {object} response.Response{data=service.FeedPage}
// @Router /api/feed [get]
func (h *Handler) GetFeed(c *gin.Context) {
	page, err := h.feedService.GetFeed(c.Request.Context(), viewer(c), queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, page)
}
