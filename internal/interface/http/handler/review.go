package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appreview "github.com/qiwen/vendormall/internal/application/review"
	"github.com/qiwen/vendormall/internal/interface/http/dto"
	"github.com/qiwen/vendormall/internal/interface/http/middleware"
	"github.com/qiwen/vendormall/pkg/metrics"
	"github.com/qiwen/vendormall/pkg/mq"
	"github.com/qiwen/vendormall/pkg/response"
)

// ReviewHandler 评价HTTP处理器
type ReviewHandler struct {
	writeUseCase *appreview.WriteReviewUseCase
	pinUseCase   *appreview.PinReviewUseCase
	listUseCase  *appreview.ListReviewsUseCase
	publisher    *mq.Publisher
}

// NewReviewHandler 创建评价处理器
func NewReviewHandler(
	writeUseCase *appreview.WriteReviewUseCase,
	pinUseCase *appreview.PinReviewUseCase,
	listUseCase *appreview.ListReviewsUseCase,
	publisher *mq.Publisher,
) *ReviewHandler {
	return &ReviewHandler{
		writeUseCase: writeUseCase,
		pinUseCase:   pinUseCase,
		listUseCase:  listUseCase,
		publisher:    publisher,
	}
}

// Create 创建评价
// @Summary      创建评价
// @Description  对上架商品写评价(每人每商品一条), 同事务重算商品评分
// @Tags         评价
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateReviewRequest true "评价内容"
// @Success      200 {object} response.Response "创建成功"
// @Failure      404 {object} response.Response "商品不存在或已下架"
// @Failure      409 {object} response.Response "已评价过该商品"
// @Router       /api/v1/reviews [post]
func (h *ReviewHandler) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.writeUseCase.Create(c.Request.Context(), appreview.CreateReviewRequest{
		ProductID: req.ProductID,
		UserID:    middleware.MustGetUserID(c),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	metrics.IncCounter(metrics.ReviewRecomputesTotal)
	publishEvent(h.publisher, mq.KeyReviewCreated, mq.ReviewEvent{
		ReviewID:   result.ID,
		ProductID:  result.ProductID,
		VendorID:   result.ProductVendorID,
		UserID:     result.UserID,
		Rating:     result.Rating,
		OccurredAt: time.Now(),
	})

	response.Success(c, result)
}

// Update 修改评价
// @Summary      修改评价
// @Description  作者本人修改评分/内容, 同事务重算商品评分
// @Tags         评价
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评价ID"
// @Param        request body dto.UpdateReviewRequest true "评价内容"
// @Success      200 {object} response.Response "修改成功"
// @Failure      403 {object} response.Response "不是评价作者"
// @Failure      404 {object} response.Response "评价不存在"
// @Router       /api/v1/reviews/{id} [put]
func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.writeUseCase.Update(c.Request.Context(), appreview.UpdateReviewRequest{
		ReviewID: id,
		UserID:   middleware.MustGetUserID(c),
		Rating:   req.Rating,
		Comment:  req.Comment,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	metrics.IncCounter(metrics.ReviewRecomputesTotal)
	response.Success(c, result)
}

// Delete 删除评价
// @Summary      删除评价
// @Description  作者本人删除; 同事务清理置顶记录并重算商品评分
// @Tags         评价
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评价ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      403 {object} response.Response "不是评价作者"
// @Failure      404 {object} response.Response "评价不存在"
// @Router       /api/v1/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.writeUseCase.Delete(c.Request.Context(), id, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	metrics.IncCounter(metrics.ReviewRecomputesTotal)
	publishEvent(h.publisher, mq.KeyReviewDeleted, mq.ReviewEvent{
		ReviewID:   result.ID,
		ProductID:  result.ProductID,
		VendorID:   result.ProductVendorID,
		UserID:     result.UserID,
		Rating:     result.Rating,
		OccurredAt: time.Now(),
	})

	response.Success(c, nil)
}

// Pin 置顶评价
// @Summary      置顶评价
// @Description  商家置顶自己商品下的评价, 每商家最多4条, 超限details返回limit/current
// @Tags         评价
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评价ID"
// @Success      200 {object} response.Response "置顶成功"
// @Failure      403 {object} response.Response "评价不属于该商家的商品"
// @Failure      409 {object} response.Response "已置顶或超出配额"
// @Router       /api/v1/vendor/reviews/{id}/pin [post]
func (h *ReviewHandler) Pin(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.pinUseCase.Pin(c.Request.Context(), id, middleware.GetVendorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Unpin 取消置顶
// @Summary      取消置顶
// @Description  幂等操作, 未置顶时也返回成功
// @Tags         评价
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "评价ID"
// @Success      200 {object} response.Response "取消成功"
// @Router       /api/v1/vendor/reviews/{id}/pin [delete]
func (h *ReviewHandler) Unpin(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.pinUseCase.Unpin(c.Request.Context(), id, middleware.GetVendorID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// ListPinned 商家的置顶评价
// @Summary      置顶评价列表
// @Tags         评价
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "置顶评价"
// @Router       /api/v1/vendor/reviews/pinned [get]
func (h *ReviewHandler) ListPinned(c *gin.Context) {
	result, err := h.pinUseCase.ListPinned(c.Request.Context(), middleware.GetVendorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListByProduct 商品的评价列表
// @Summary      商品评价列表
// @Description  按时间倒序分页, 置顶评价带is_pinned标记, 附带评分快照
// @Tags         评价
// @Produce      json
// @Param        id path int true "商品ID"
// @Param        page query int false "页码"
// @Param        page_size query int false "每页大小"
// @Success      200 {object} response.Response "评价列表"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/products/{id}/reviews [get]
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	page, pageSize := parsePageQuery(c)
	result, err := h.listUseCase.ByProduct(c.Request.Context(), id, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ListMine 我的评价
// @Summary      我的评价列表
// @Tags         评价
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页大小"
// @Success      200 {object} response.Response "评价列表"
// @Router       /api/v1/users/reviews [get]
func (h *ReviewHandler) ListMine(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	items, total, err := h.listUseCase.ByUser(c.Request.Context(), middleware.MustGetUserID(c), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, items, total, page, pageSize)
}

// parsePageQuery 解析分页查询参数(非法值回落默认)
func parsePageQuery(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))
	return page, pageSize
}
