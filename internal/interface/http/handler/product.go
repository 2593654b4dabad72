package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	appproduct "github.com/qiwen/vendormall/internal/application/product"
	"github.com/qiwen/vendormall/internal/domain/product"
	"github.com/qiwen/vendormall/internal/interface/http/dto"
	"github.com/qiwen/vendormall/internal/interface/http/middleware"
	apperrors "github.com/qiwen/vendormall/pkg/errors"
	"github.com/qiwen/vendormall/pkg/metrics"
	"github.com/qiwen/vendormall/pkg/mq"
	"github.com/qiwen/vendormall/pkg/response"
)

// ProductHandler 商品HTTP处理器
// 商家写接口都要求RequireAuth+RequireVendor, vendor_id取自Token,
// 归属校验(不能改别人的商品)在应用层做
type ProductHandler struct {
	createUseCase    *appproduct.CreateProductUseCase
	updateUseCase    *appproduct.UpdateProductUseCase
	deleteUseCase    *appproduct.DeleteProductUseCase
	createVariantUC  *appproduct.CreateVariantUseCase
	updateVariantUC  *appproduct.UpdateVariantUseCase
	deleteVariantUC  *appproduct.DeleteVariantUseCase
	adjustStockUC    *appproduct.AdjustStockUseCase
	inventoryUseCase *appproduct.VendorInventoryUseCase
	browseUseCase    *appproduct.BrowseProductsUseCase
	publisher        *mq.Publisher
}

// NewProductHandler 创建商品处理器
func NewProductHandler(
	createUseCase *appproduct.CreateProductUseCase,
	updateUseCase *appproduct.UpdateProductUseCase,
	deleteUseCase *appproduct.DeleteProductUseCase,
	createVariantUC *appproduct.CreateVariantUseCase,
	updateVariantUC *appproduct.UpdateVariantUseCase,
	deleteVariantUC *appproduct.DeleteVariantUseCase,
	adjustStockUC *appproduct.AdjustStockUseCase,
	inventoryUseCase *appproduct.VendorInventoryUseCase,
	browseUseCase *appproduct.BrowseProductsUseCase,
	publisher *mq.Publisher,
) *ProductHandler {
	return &ProductHandler{
		createUseCase:    createUseCase,
		updateUseCase:    updateUseCase,
		deleteUseCase:    deleteUseCase,
		createVariantUC:  createVariantUC,
		updateVariantUC:  updateVariantUC,
		deleteVariantUC:  deleteVariantUC,
		adjustStockUC:    adjustStockUC,
		inventoryUseCase: inventoryUseCase,
		browseUseCase:    browseUseCase,
		publisher:        publisher,
	}
}

// Create 创建商品
// @Summary      创建商品
// @Description  商家在指定分类下创建商品, seo_slug自动派生
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateProductRequest true "商品信息"
// @Success      200 {object} response.Response "创建成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "分类已停用"
// @Router       /api/v1/vendor/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	start := time.Now()
	result, err := h.createUseCase.Execute(c.Request.Context(), appproduct.CreateProductRequest{
		VendorID:        middleware.GetVendorID(c),
		Title:           req.Title,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		Brand:           req.Brand,
		Tags:            req.Tags,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
	})
	recordCatalogWrite("create_product", start, err)

	if err != nil {
		response.Error(c, err)
		return
	}

	publishEvent(h.publisher, mq.KeyProductCreated, mq.ProductEvent{
		ProductID:  result.ID,
		VendorID:   result.VendorID,
		Title:      result.Title,
		OccurredAt: time.Now(),
	})

	response.Success(c, result)
}

// Update 更新商品
// @Summary      更新商品
// @Description  商家更新自己的商品; 改标题会重新派生seo_slug
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.UpdateProductRequest true "更新字段"
// @Success      200 {object} response.Response "更新成功"
// @Failure      403 {object} response.Response "不是商品归属商家"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/vendor/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	start := time.Now()
	result, err := h.updateUseCase.Execute(c.Request.Context(), appproduct.UpdateProductRequest{
		ProductID:       id,
		VendorID:        middleware.GetVendorID(c),
		Title:           req.Title,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		Brand:           req.Brand,
		Tags:            req.Tags,
		IsActive:        req.IsActive,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
	})
	recordCatalogWrite("update_product", start, err)

	if err != nil {
		response.Error(c, err)
		return
	}

	publishEvent(h.publisher, mq.KeyProductUpdated, mq.ProductEvent{
		ProductID:  result.ID,
		VendorID:   result.VendorID,
		Title:      result.Title,
		OccurredAt: time.Now(),
	})

	response.Success(c, result)
}

// Delete 删除商品
// @Summary      删除商品
// @Description  软删除商品并停用其全部规格(同一事务)
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      403 {object} response.Response "不是商品归属商家"
// @Failure      404 {object} response.Response "商品不存在"
// @Router       /api/v1/vendor/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	vendorID := middleware.GetVendorID(c)

	start := time.Now()
	result, err := h.deleteUseCase.Execute(c.Request.Context(), id, vendorID)
	recordCatalogWrite("delete_product", start, err)

	if err != nil {
		response.Error(c, err)
		return
	}

	publishEvent(h.publisher, mq.KeyProductDeleted, mq.ProductEvent{
		ProductID:  id,
		VendorID:   vendorID,
		OccurredAt: time.Now(),
	})

	response.Success(c, result)
}

// CreateVariant 创建规格
// @Summary      创建规格
// @Description  为商品新增SKU, 同事务初始化零库存记录
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Param        request body dto.CreateVariantRequest true "规格信息"
// @Success      200 {object} response.Response "创建成功"
// @Failure      400 {object} response.Response "价格非法"
// @Failure      409 {object} response.Response "SKU已存在"
// @Router       /api/v1/vendor/products/{id}/variants [post]
func (h *ProductHandler) CreateVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CreateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	start := time.Now()
	result, err := h.createVariantUC.Execute(c.Request.Context(), appproduct.CreateVariantRequest{
		ProductID:       id,
		VendorID:        middleware.GetVendorID(c),
		SKU:             req.SKU,
		Attributes:      req.Attributes,
		PriceMRP:        req.PriceMRP,
		PriceSelling:    req.PriceSelling,
		DiscountPercent: req.DiscountPercent,
		WeightValue:     req.WeightValue,
		WeightUnit:      req.WeightUnit,
		Images:          toImages(req.Images),
	})
	recordCatalogWrite("create_variant", start, err)

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateVariant 更新规格
// @Summary      更新规格
// @Description  更新SKU的价格/属性/图片/上下架状态
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "规格ID"
// @Param        request body dto.UpdateVariantRequest true "更新字段"
// @Success      200 {object} response.Response "更新成功"
// @Failure      400 {object} response.Response "价格非法"
// @Failure      404 {object} response.Response "规格不存在"
// @Router       /api/v1/vendor/variants/{id} [put]
func (h *ProductHandler) UpdateVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	start := time.Now()
	result, err := h.updateVariantUC.Execute(c.Request.Context(), appproduct.UpdateVariantRequest{
		VariantID:       id,
		VendorID:        middleware.GetVendorID(c),
		Attributes:      req.Attributes,
		PriceMRP:        req.PriceMRP,
		PriceSelling:    req.PriceSelling,
		DiscountPercent: req.DiscountPercent,
		WeightValue:     req.WeightValue,
		WeightUnit:      req.WeightUnit,
		Images:          toImages(req.Images),
		IsActive:        req.IsActive,
	})
	recordCatalogWrite("update_variant", start, err)

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteVariant 删除规格
// @Summary      删除规格
// @Description  软删除SKU, 库存记录保留
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "规格ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      403 {object} response.Response "不是商品归属商家"
// @Failure      404 {object} response.Response "规格不存在"
// @Router       /api/v1/vendor/variants/{id} [delete]
func (h *ProductHandler) DeleteVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	start := time.Now()
	result, err := h.deleteVariantUC.Execute(c.Request.Context(), id, middleware.GetVendorID(c))
	recordCatalogWrite("delete_variant", start, err)

	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// AdjustStock 调整库存
// @Summary      调整库存
// @Description  正数补货, 负数扣减; 扣减超过可用量(stock-reserved)被拒绝,
// @Description  details返回available/requested
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "规格ID"
// @Param        request body dto.AdjustStockRequest true "调整量"
// @Success      200 {object} response.Response "调整成功"
// @Failure      409 {object} response.Response "可用库存不足"
// @Router       /api/v1/vendor/variants/{id}/stock [post]
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	vendorID := middleware.GetVendorID(c)

	start := time.Now()
	result, err := h.adjustStockUC.Execute(c.Request.Context(), appproduct.AdjustStockRequest{
		VariantID: id,
		VendorID:  vendorID,
		Delta:     req.Delta,
	})
	recordCatalogWrite("adjust_stock", start, err)

	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeInsufficientStock) {
			metrics.IncCounter(metrics.StockRejectionsTotal)
		}
		response.Error(c, err)
		return
	}

	publishEvent(h.publisher, mq.KeyInventoryAdjusted, mq.StockEvent{
		VariantID:  id,
		ProductID:  result.ProductID,
		VendorID:   vendorID,
		Delta:      req.Delta,
		Stock:      result.Inventory.Stock,
		OccurredAt: time.Now(),
	})

	// 调整后落到阈值以下时推低库存告警
	if result.LowStock {
		metrics.IncCounter(metrics.LowStockEventsTotal)
		publishEvent(h.publisher, mq.KeyInventoryLowStock, mq.LowStockEvent{
			VariantID:  id,
			ProductID:  result.ProductID,
			VendorID:   vendorID,
			SKU:        result.SKU,
			Stock:      result.Inventory.Stock,
			Threshold:  result.Inventory.LowStockThreshold,
			OccurredAt: time.Now(),
		})
	}

	response.Success(c, result)
}

// InventoryOverview 商家库存总览
// @Summary      库存总览
// @Description  商家名下全部SKU的库存快照(含可用量)
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "库存列表"
// @Router       /api/v1/vendor/inventory [get]
func (h *ProductHandler) InventoryOverview(c *gin.Context) {
	result, err := h.inventoryUseCase.Overview(c.Request.Context(), middleware.GetVendorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// VariantInventory 单个规格库存
// @Summary      规格库存
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "规格ID"
// @Success      200 {object} response.Response "库存快照"
// @Failure      404 {object} response.Response "规格不存在"
// @Router       /api/v1/vendor/variants/{id}/inventory [get]
func (h *ProductHandler) VariantInventory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.inventoryUseCase.VariantInventory(c.Request.Context(), id, middleware.GetVendorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// UpdateThreshold 更新低库存阈值
// @Summary      更新低库存阈值
// @Tags         商品
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "规格ID"
// @Param        request body dto.UpdateThresholdRequest true "阈值"
// @Success      200 {object} response.Response "更新成功"
// @Router       /api/v1/vendor/variants/{id}/threshold [put]
func (h *ProductHandler) UpdateThreshold(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.inventoryUseCase.UpdateThreshold(c.Request.Context(), id, middleware.GetVendorID(c), *req.Threshold)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// List 公开商品列表
// @Summary      商品列表
// @Description  按分类/关键词筛选, 支持最新/评分排序, 附带价格区间
// @Tags         商品
// @Produce      json
// @Param        page query int false "页码"
// @Param        page_size query int false "每页大小"
// @Param        category_id query int false "分类ID"
// @Param        keyword query string false "关键词(标题/品牌)"
// @Param        sort_by query string false "created_at_desc/rating_desc"
// @Success      200 {object} response.Response "商品列表"
// @Router       /api/v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	result, err := h.browseUseCase.List(c.Request.Context(), appproduct.ListProductsRequest{
		Page:       req.Page,
		PageSize:   req.PageSize,
		CategoryID: req.CategoryID,
		Keyword:    req.Keyword,
		SortBy:     req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DetailBySlug 公开商品详情
// @Summary      商品详情
// @Description  按seo_slug查询上架商品, 附带各规格的可购买状态
// @Tags         商品
// @Produce      json
// @Param        slug path string true "SEO slug"
// @Success      200 {object} response.Response "商品详情"
// @Failure      404 {object} response.Response "商品不存在或已下架"
// @Router       /api/v1/products/slug/{slug} [get]
func (h *ProductHandler) DetailBySlug(c *gin.Context) {
	slug := c.Param("slug")
	if slug == "" {
		response.ErrorWithCode(c, 40900, "参数错误: 非法的slug")
		return
	}

	result, err := h.browseUseCase.DetailBySlug(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// VendorProducts 商家自己的商品列表
// @Summary      商家商品列表
// @Description  含未上架商品, 仅商家本人可见
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页大小"
// @Success      200 {object} response.Response "商品列表"
// @Router       /api/v1/vendor/products [get]
func (h *ProductHandler) VendorProducts(c *gin.Context) {
	page, pageSize := parsePageQuery(c)
	items, total, err := h.browseUseCase.VendorList(c.Request.Context(), middleware.GetVendorID(c), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPage(c, items, total, page, pageSize)
}

// VendorVariants 商家商品的全部规格
// @Summary      商品规格列表
// @Description  含停用规格, 仅商家本人可见
// @Tags         商品
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "商品ID"
// @Success      200 {object} response.Response "规格列表"
// @Router       /api/v1/vendor/products/{id}/variants [get]
func (h *ProductHandler) VendorVariants(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.browseUseCase.VendorVariants(c.Request.Context(), id, middleware.GetVendorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// toImages HTTP DTO→领域值对象
func toImages(images []dto.ImageDTO) []product.Image {
	if images == nil {
		return nil
	}
	out := make([]product.Image, 0, len(images))
	for _, img := range images {
		out = append(out, product.Image{URL: img.URL, Alt: img.Alt})
	}
	return out
}
