package dto

import "fmt"

// CreateProductRequest HTTP创建商品请求
type CreateProductRequest struct {
	Title           string   `json:"title" binding:"required,min=1,max=200" example:"纯棉圆领T恤"`
	Description     string   `json:"description" binding:"max=10000"`
	CategoryID      uint     `json:"category_id" binding:"required,min=1"`
	Brand           string   `json:"brand" binding:"max=100"`
	Tags            []string `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	MetaTitle       string   `json:"meta_title" binding:"max=200"`
	MetaDescription string   `json:"meta_description" binding:"max=500"`
}

// UpdateProductRequest HTTP更新商品请求
// 指针字段缺省表示不修改
type UpdateProductRequest struct {
	Title           *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Description     *string  `json:"description" binding:"omitempty,max=10000"`
	CategoryID      *uint    `json:"category_id" binding:"omitempty,min=1"`
	Brand           *string  `json:"brand" binding:"omitempty,max=100"`
	Tags            []string `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	IsActive        *bool    `json:"is_active"`
	MetaTitle       *string  `json:"meta_title" binding:"omitempty,max=200"`
	MetaDescription *string  `json:"meta_description" binding:"omitempty,max=500"`
}

// ListProductsRequest HTTP商品列表请求
type ListProductsRequest struct {
	Page       int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	CategoryID uint   `form:"category_id" binding:"omitempty,min=1"`
	Keyword    string `form:"keyword" binding:"omitempty,max=100" example:"T恤"`
	SortBy     string `form:"sort_by" binding:"omitempty,oneof=created_at_desc rating_desc" example:"created_at_desc"`
}

// ImageDTO 规格图片
type ImageDTO struct {
	URL string `json:"url" binding:"required,url,max=500"`
	Alt string `json:"alt" binding:"max=200"`
}

// CreateVariantRequest HTTP创建规格请求
// 价格以分为单位; discount_percent缺省时由价格推导
type CreateVariantRequest struct {
	SKU             string            `json:"sku" binding:"required,min=1,max=64" example:"TS-RED-XL-001"`
	Attributes      map[string]string `json:"attributes" binding:"omitempty,max=20"`
	PriceMRP        int64             `json:"price_mrp" binding:"required,min=1" example:"9900"`
	PriceSelling    int64             `json:"price_selling" binding:"min=0" example:"7900"`
	DiscountPercent *int              `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	WeightValue     float64           `json:"weight_value" binding:"omitempty,min=0"`
	WeightUnit      string            `json:"weight_unit" binding:"omitempty,oneof=g kg" example:"g"`
	Images          []ImageDTO        `json:"images" binding:"omitempty,max=10,dive"`
}

// UpdateVariantRequest HTTP更新规格请求
type UpdateVariantRequest struct {
	Attributes      map[string]string `json:"attributes" binding:"omitempty,max=20"`
	PriceMRP        *int64            `json:"price_mrp" binding:"omitempty,min=1"`
	PriceSelling    *int64            `json:"price_selling" binding:"omitempty,min=0"`
	DiscountPercent *int              `json:"discount_percent" binding:"omitempty,min=0,max=100"`
	WeightValue     *float64          `json:"weight_value" binding:"omitempty,min=0"`
	WeightUnit      *string           `json:"weight_unit" binding:"omitempty,oneof=g kg"`
	Images          []ImageDTO        `json:"images" binding:"omitempty,max=10,dive"`
	IsActive        *bool             `json:"is_active"`
}

// AdjustStockRequest HTTP库存调整请求
// delta正数补货、负数扣减; 不允许为0
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required" example:"50"`
}

// UpdateThresholdRequest HTTP低库存阈值更新请求
type UpdateThresholdRequest struct {
	Threshold *int `json:"threshold" binding:"required,min=0" example:"10"`
}

// FormatPriceYuan 格式化价格(分→元)
// 例如:7900分 → "79.00"
func FormatPriceYuan(priceFen int64) string {
	yuan := float64(priceFen) / 100.0
	return fmt.Sprintf("%.2f", yuan)
}
