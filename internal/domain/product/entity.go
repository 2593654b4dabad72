package product

import (
	"fmt"
	"math"
	"time"

	"github.com/qiwen/vendormall/pkg/slug"
)

// DefaultLowStockThreshold 新建规格的默认低库存阈值
const DefaultLowStockThreshold = 5

// Product 商品实体(聚合根)
// DDD设计说明:
// 1. 商品归属于唯一商家(VendorID), 所有写操作都要做归属校验
// 2. 可售内容(价格/SKU/库存)全部下沉到Variant, Product只承载展示信息
// 3. AvgRating/RatingCount是评价聚合的冗余快照, 由评价模块在同一事务内同步维护
// 4. SeoSlug = slug(title) + "-" + 创建时刻毫秒时间戳, 近乎唯一且可读,
//    数据库唯一索引兜底
type Product struct {
	ID              uint
	VendorID        uint     // 归属商家ID
	Title           string   // 标题
	Description     string   // 详情描述
	CategoryID      uint     // 所属分类ID
	Brand           string   // 品牌
	Tags            []string // 标签
	IsActive        bool     // 是否上架
	AvgRating       float64  // 平均评分(1位小数, 无评价为0)
	RatingCount     int      // 评价数量
	SeoSlug         string   // SEO slug
	MetaTitle       string   // SEO标题(缺省取Title)
	MetaDescription string   // SEO描述(缺省取Description前160字符)
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewProduct 创建新商品(工厂方法)
// metaTitle/metaDescription传空串时按SEO缺省规则填充
func NewProduct(vendorID uint, title, description string, categoryID uint, brand string, tags []string, metaTitle, metaDescription string) *Product {
	now := time.Now()
	p := &Product{
		VendorID:        vendorID,
		Title:           title,
		Description:     description,
		CategoryID:      categoryID,
		Brand:           brand,
		Tags:            tags,
		IsActive:        true,
		SeoSlug:         NewSeoSlug(title),
		MetaTitle:       metaTitle,
		MetaDescription: metaDescription,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	p.fillSEODefaults()
	return p
}

// NewSeoSlug 生成SEO slug: slug(title) + "-" + 当前毫秒时间戳
func NewSeoSlug(title string) string {
	return fmt.Sprintf("%s-%d", slug.Slugify(title), time.Now().UnixMilli())
}

// Retitle 修改标题并重新生成SeoSlug
func (p *Product) Retitle(newTitle string) {
	p.Title = newTitle
	p.SeoSlug = NewSeoSlug(newTitle)
	p.UpdatedAt = time.Now()
}

// ApplyRating 写入评分快照(由评价聚合重算后调用)
func (p *Product) ApplyRating(avg float64, count int) {
	p.AvgRating = avg
	p.RatingCount = count
	p.UpdatedAt = time.Now()
}

// IsOwnedBy 商品是否归属指定商家
func (p *Product) IsOwnedBy(vendorID uint) bool {
	return p.VendorID == vendorID
}

// fillSEODefaults SEO字段缺省填充
func (p *Product) fillSEODefaults() {
	if p.MetaTitle == "" {
		p.MetaTitle = p.Title
	}
	if p.MetaDescription == "" {
		p.MetaDescription = truncateRunes(p.Description, 160)
	}
}

// truncateRunes 按rune截断, 避免把多字节字符切坏
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Variant 商品规格(SKU)
// 价格以"分"为单位的int64存储(避免浮点精度问题)
type Variant struct {
	ID              uint
	ProductID       uint
	SKU             string            // 全局唯一SKU编码
	Attributes      map[string]string // 规格属性(颜色/尺码等), 更新时整体覆盖
	PriceMRP        int64             // 市场价(分)
	PriceSelling    int64             // 售价(分)
	DiscountPercent int               // 折扣百分比(未显式给出时由价格推导)
	WeightValue     float64           // 重量数值
	WeightUnit      string            // 重量单位(g/kg)
	Images          []Image           // 图片(只存URL, 不处理二进制)
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Image 规格图片
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// NewVariant 创建新规格(工厂方法)
// discountPercent为nil时按价格推导
func NewVariant(productID uint, sku string, attributes map[string]string, priceMRP, priceSelling int64, discountPercent *int, weightValue float64, weightUnit string, images []Image) (*Variant, error) {
	if priceMRP <= 0 || priceSelling < 0 || priceSelling > priceMRP {
		return nil, ErrInvalidPrice
	}

	discount := 0
	if discountPercent != nil {
		discount = *discountPercent
	} else {
		discount = DiscountFor(priceMRP, priceSelling)
	}

	now := time.Now()
	return &Variant{
		ProductID:       productID,
		SKU:             sku,
		Attributes:      attributes,
		PriceMRP:        priceMRP,
		PriceSelling:    priceSelling,
		DiscountPercent: discount,
		WeightValue:     weightValue,
		WeightUnit:      weightUnit,
		Images:          images,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// DiscountFor 由价格推导折扣百分比: round(((mrp - selling) / mrp) * 100)
// 如 mrp=10000, selling=8000 → 20
func DiscountFor(mrp, selling int64) int {
	if mrp <= 0 {
		return 0
	}
	return int(math.Round(float64(mrp-selling) / float64(mrp) * 100))
}

// Reprice 更新价格并重算折扣
// explicitDiscount非nil时以显式值为准, 否则由合并后的价格推导
func (v *Variant) Reprice(priceMRP, priceSelling int64, explicitDiscount *int) error {
	if priceMRP <= 0 || priceSelling < 0 || priceSelling > priceMRP {
		return ErrInvalidPrice
	}
	v.PriceMRP = priceMRP
	v.PriceSelling = priceSelling
	if explicitDiscount != nil {
		v.DiscountPercent = *explicitDiscount
	} else {
		v.DiscountPercent = DiscountFor(priceMRP, priceSelling)
	}
	v.UpdatedAt = time.Now()
	return nil
}

// Inventory 库存记录(与Variant一对一)
// 核心不等式: 可用量 = Stock - Reserved
// Reserved由外部订单流程维护, 本核心只读它参与可用量计算
type Inventory struct {
	ID                uint
	VariantID         uint
	Stock             int // 在库总量
	Reserved          int // 已预留量
	LowStockThreshold int // 低库存阈值
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewInventory 创建库存记录(规格创建事务内调用)
// 初始: stock=0, reserved=0, threshold=5
func NewInventory(variantID uint) *Inventory {
	now := time.Now()
	return &Inventory{
		VariantID:         variantID,
		Stock:             0,
		Reserved:          0,
		LowStockThreshold: DefaultLowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// Available 可用量
func (i *Inventory) Available() int {
	return i.Stock - i.Reserved
}

// IsLowStock 是否触达低库存阈值
func (i *Inventory) IsLowStock() bool {
	return i.Stock <= i.LowStockThreshold
}

// VendorStock 商家库存总览的投影(inventory⋈variant⋈product)
type VendorStock struct {
	VariantID         uint   `json:"variant_id"`
	SKU               string `json:"sku"`
	ProductID         uint   `json:"product_id"`
	ProductTitle      string `json:"product_title"`
	Stock             int    `json:"stock"`
	Reserved          int    `json:"reserved"`
	Available         int    `json:"available"`
	LowStockThreshold int    `json:"low_stock_threshold"`
}

// PriceRange 商品维度的价格区间(公开列表页用)
type PriceRange struct {
	ProductID uint  `json:"product_id"`
	Min       int64 `json:"min"`
	Max       int64 `json:"max"`
}
