package handler

import (
	"github.com/gin-gonic/gin"

	appnotification "github.com/qiwen/vendormall/internal/application/notification"
	"github.com/qiwen/vendormall/internal/interface/http/middleware"
	"github.com/qiwen/vendormall/pkg/response"
)

// NotificationHandler 站内通知HTTP处理器
type NotificationHandler struct {
	useCase *appnotification.NotificationsUseCase
}

// NewNotificationHandler 创建通知处理器
func NewNotificationHandler(useCase *appnotification.NotificationsUseCase) *NotificationHandler {
	return &NotificationHandler{useCase: useCase}
}

// List 我的通知
// @Summary      通知列表
// @Description  定向通知+全站广播, 按创建时间倒序分页
// @Tags         通知
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页大小"
// @Success      200 {object} response.Response "通知列表"
// @Router       /api/v1/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	items, total, err := h.useCase.List(c.Request.Context(), middleware.MustGetUserID(c), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, items, total, page, pageSize)
}

// MarkRead 标记已读
// @Summary      标记通知已读
// @Tags         通知
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "通知ID"
// @Success      200 {object} response.Response "标记成功"
// @Router       /api/v1/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.useCase.MarkRead(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}
