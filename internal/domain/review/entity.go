package review

import (
	"math"
	"time"
)

// MaxPinsPerVendor 每个商家最多置顶的评价数
const MaxPinsPerVendor = 4

// Review 评价实体(聚合根)
// DDD设计说明:
// 1. (ProductID, UserID)唯一: 一个用户对一个商品只能有一条评价,
//    重复评价走更新而不是新增; 唯一索引兜底并发窗口
// 2. 评价的每次增删改都同步重算商品的AvgRating/RatingCount快照,
//    重算与评价写入在同一数据库事务内, 读侧永远看不到撕裂状态
type Review struct {
	ID                 uint
	ProductID          uint
	UserID             uint
	Rating             int    // 1-5星
	Comment            string // 评价内容
	IsVerifiedPurchase bool   // 是否已购认证(外部订单系统打标, 核心只存储)
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewReview 创建新评价(工厂方法)
func NewReview(productID, userID uint, rating int, comment string, verified bool) (*Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}
	now := time.Now()
	return &Review{
		ProductID:          productID,
		UserID:             userID,
		Rating:             rating,
		Comment:            comment,
		IsVerifiedPurchase: verified,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Revise 修改评分与内容
func (r *Review) Revise(rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	r.Rating = rating
	r.Comment = comment
	r.UpdatedAt = time.Now()
	return nil
}

// IsAuthoredBy 是否为指定用户所写
func (r *Review) IsAuthoredBy(userID uint) bool {
	return r.UserID == userID
}

// PinnedReview 商家置顶记录
// (ReviewID, VendorID)唯一; 商家只能置顶自己商品下的评价, 且上限4条
type PinnedReview struct {
	ID        uint
	ReviewID  uint
	VendorID  uint
	CreatedAt time.Time
}

// NewPinnedReview 创建置顶记录
func NewPinnedReview(reviewID, vendorID uint) *PinnedReview {
	return &PinnedReview{
		ReviewID:  reviewID,
		VendorID:  vendorID,
		CreatedAt: time.Now(),
	}
}

// RatingStats 评分聚合结果(未舍入)
type RatingStats struct {
	Avg   float64
	Count int
}

// RoundedAvg 按1位小数四舍五入的平均分
// 无评价时为0
func (s RatingStats) RoundedAvg() float64 {
	if s.Count == 0 {
		return 0
	}
	return math.Round(s.Avg*10) / 10
}
