package handler

import (
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appcategory "github.com/qiwen/vendormall/internal/application/category"
	"github.com/qiwen/vendormall/internal/domain/category"
	"github.com/qiwen/vendormall/internal/infrastructure/persistence/redis"
	"github.com/qiwen/vendormall/internal/interface/http/dto"
	"github.com/qiwen/vendormall/pkg/mq"
	"github.com/qiwen/vendormall/pkg/response"
)

// CategoryHandler 分类HTTP处理器
// 设计说明:
// 1. 树/面包屑是读热点, 走Redis cache-aside; 任何写操作全量失效目录缓存
//    (分类树整体很小, 精细失效不值得)
// 2. 写成功后发布事件供worker生成站内通知; 发布失败只记日志
type CategoryHandler struct {
	createUseCase *appcategory.CreateCategoryUseCase
	updateUseCase *appcategory.UpdateCategoryUseCase
	statusUseCase *appcategory.SetCategoryStatusUseCase
	deleteUseCase *appcategory.DeleteCategoryUseCase
	browseUseCase *appcategory.BrowseCategoriesUseCase
	cache         *redis.CatalogCache
	publisher     *mq.Publisher
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(
	createUseCase *appcategory.CreateCategoryUseCase,
	updateUseCase *appcategory.UpdateCategoryUseCase,
	statusUseCase *appcategory.SetCategoryStatusUseCase,
	deleteUseCase *appcategory.DeleteCategoryUseCase,
	browseUseCase *appcategory.BrowseCategoriesUseCase,
	cache *redis.CatalogCache,
	publisher *mq.Publisher,
) *CategoryHandler {
	return &CategoryHandler{
		createUseCase: createUseCase,
		updateUseCase: updateUseCase,
		statusUseCase: statusUseCase,
		deleteUseCase: deleteUseCase,
		browseUseCase: browseUseCase,
		cache:         cache,
		publisher:     publisher,
	}
}

// invalidateCache 目录写操作后全量失效缓存
func (h *CategoryHandler) invalidateCache(c *gin.Context) {
	if err := h.cache.Invalidate(c.Request.Context()); err != nil {
		// 缓存失效失败不影响已落库的写入, TTL会兜底
		log.Printf("❌ 目录缓存失效失败: %v", err)
	}
}

// Create 创建分类
// @Summary      创建分类
// @Description  创建分类(可指定父分类), path由name派生
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateCategoryRequest true "分类信息"
// @Success      200 {object} response.Response "创建成功"
// @Failure      400 {object} response.Response "参数错误"
// @Failure      409 {object} response.Response "path已存在"
// @Router       /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	start := time.Now()
	result, err := h.createUseCase.Execute(c.Request.Context(), appcategory.CreateCategoryRequest{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		SortOrder:   req.SortOrder,
		Attributes:  toAttributeSpecs(req.Attributes),
	})
	recordCatalogWrite("create_category", start, err)

	if err != nil {
		response.Error(c, err)
		return
	}

	h.invalidateCache(c)
	publishEvent(h.publisher, mq.KeyCategoryCreated, mq.CategoryEvent{
		CategoryID: result.ID,
		Name:       result.Name,
		Path:       result.Path,
		OccurredAt: time.Now(),
	})

	response.Success(c, result)
}

// Update 更新分类
// @Summary      更新分类
// @Description  更新分类; 改名会同事务改写整棵子树的path前缀
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Param        request body dto.UpdateCategoryRequest true "更新字段"
// @Success      200 {object} response.Response "更新成功"
// @Failure      404 {object} response.Response "分类不存在"
// @Failure      409 {object} response.Response "新path已存在"
// @Router       /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	// 指标按是否改名分开统计: 改名是子树UPDATE, 耗时量级不同
	operation := "update_category"
	if req.Name != nil {
		operation = "rename_category"
	}

	start := time.Now()
	result, err := h.updateUseCase.Execute(c.Request.Context(), appcategory.UpdateCategoryRequest{
		CategoryID:  id,
		Name:        req.Name,
		Description: req.Description,
		SortOrder:   req.SortOrder,
		Attributes:  toAttributeSpecs(req.Attributes),
	})
	recordCatalogWrite(operation, start, err)

	if err != nil {
		response.Error(c, err)
		return
	}

	h.invalidateCache(c)
	if result.OldPath != "" {
		publishEvent(h.publisher, mq.KeyCategoryRenamed, mq.CategoryEvent{
			CategoryID: result.Category.ID,
			Name:       result.Category.Name,
			OldPath:    result.OldPath,
			NewPath:    result.NewPath,
			OccurredAt: time.Now(),
		})
	}

	response.Success(c, result)
}

// SetStatus 启用/停用分类
// @Summary      启用/停用分类
// @Description  停用会级联整棵子树; 启用只作用于自身
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Param        request body dto.SetCategoryStatusRequest true "目标状态"
// @Success      200 {object} response.Response "变更成功"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id}/status [put]
func (h *CategoryHandler) SetStatus(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.SetCategoryStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, 40900, "参数错误: "+err.Error())
		return
	}

	start := time.Now()
	result, err := h.statusUseCase.Execute(c.Request.Context(), appcategory.SetCategoryStatusRequest{
		CategoryID: id,
		IsActive:   *req.IsActive,
	})
	recordCatalogWrite("set_category_status", start, err)

	if err != nil {
		response.Error(c, err)
		return
	}

	h.invalidateCache(c)
	if !*req.IsActive {
		publishEvent(h.publisher, mq.KeyCategoryDeactivated, mq.CategoryEvent{
			CategoryID: result.Category.ID,
			Name:       result.Category.Name,
			Path:       result.Category.Path,
			OccurredAt: time.Now(),
		})
	}

	response.Success(c, result)
}

// Delete 删除分类
// @Summary      删除分类
// @Description  软删除; 有活跃子分类或活跃商品时拒绝, details返回阻塞数量
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response "删除成功"
// @Failure      404 {object} response.Response "分类不存在"
// @Failure      409 {object} response.Response "存在活跃子分类或商品"
// @Router       /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	start := time.Now()
	err := h.deleteUseCase.Execute(c.Request.Context(), id)
	recordCatalogWrite("delete_category", start, err)

	if err != nil {
		response.Error(c, err)
		return
	}

	h.invalidateCache(c)
	publishEvent(h.publisher, mq.KeyCategoryDeleted, mq.CategoryEvent{
		CategoryID: id,
		OccurredAt: time.Now(),
	})

	response.Success(c, nil)
}

// Tree 分类树
// @Summary      分类树
// @Description  全部启用分类组成的树(Redis缓存, TTL 5分钟)
// @Tags         分类
// @Produce      json
// @Success      200 {object} response.Response "分类树"
// @Router       /api/v1/categories/tree [get]
func (h *CategoryHandler) Tree(c *gin.Context) {
	// 先查缓存; 缓存值是已序列化的响应数据, 命中时不再反序列化
	if data, err := h.cache.GetTree(c.Request.Context()); err == nil {
		response.Success(c, json.RawMessage(data))
		return
	}

	result, err := h.browseUseCase.Tree(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	if data, err := json.Marshal(result); err == nil {
		_ = h.cache.SetTree(c.Request.Context(), data)
	}

	response.Success(c, result)
}

// Detail 分类详情
// @Summary      分类详情
// @Description  单个分类信息, 附带该分类子树下的活跃商品数
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response "分类详情"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id} [get]
func (h *CategoryHandler) Detail(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.browseUseCase.Detail(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Breadcrumbs 面包屑
// @Summary      面包屑导航
// @Description  根分类到当前分类的链路(Redis缓存)
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response "面包屑链路"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id}/breadcrumbs [get]
func (h *CategoryHandler) Breadcrumbs(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if data, err := h.cache.GetBreadcrumbs(c.Request.Context(), id); err == nil {
		response.Success(c, json.RawMessage(data))
		return
	}

	result, err := h.browseUseCase.Breadcrumbs(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	if data, err := json.Marshal(result); err == nil {
		_ = h.cache.SetBreadcrumbs(c.Request.Context(), id, data)
	}

	response.Success(c, result)
}

// Subcategories 直接子分类
// @Summary      子分类列表
// @Description  指定分类的直接子分类(仅启用, 按sort_order排序)
// @Tags         分类
// @Produce      json
// @Param        id path int true "分类ID"
// @Success      200 {object} response.Response "子分类列表"
// @Failure      404 {object} response.Response "分类不存在"
// @Router       /api/v1/categories/{id}/children [get]
func (h *CategoryHandler) Subcategories(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.browseUseCase.Subcategories(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// parseIDParam 解析路径中的数字ID, 非法时直接写错误响应
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, 40900, "参数错误: 非法的"+name)
		return 0, false
	}
	return uint(id), true
}

// toAttributeSpecs HTTP DTO→领域值对象
func toAttributeSpecs(specs []dto.AttributeSpecDTO) []category.AttributeSpec {
	if specs == nil {
		return nil
	}
	out := make([]category.AttributeSpec, 0, len(specs))
	for _, s := range specs {
		out = append(out, category.AttributeSpec{Name: s.Name, Values: s.Values})
	}
	return out
}
