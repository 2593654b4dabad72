package mysql

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/qiwen/vendormall/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 自动迁移表结构（AutoMigrate）
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	// 1. 构建DSN连接字符串
	dsn := cfg.Database.DSN()

	// 2. 配置GORM日志
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	// 3. 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 4. 配置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	// 最大打开连接数（建议：CPU核数 * 2 + 磁盘数量）
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	// 最大空闲连接数（建议：MaxOpenConns的1/4到1/2）
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	// 连接最大存活时间（防止数据库主动断开连接）
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// 5. 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Println("✓ 数据库连接成功")

	// 6. 自动迁移表结构（开发环境）
	// 注意：生产环境应使用专门的迁移工具（如golang-migrate）
	if err := autoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	return db, nil
}

// autoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. 生产环境应使用版本化的迁移脚本，不要依赖AutoMigrate
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&UserModel{},
		&CategoryModel{},
		&ProductModel{},
		&VariantModel{},
		&InventoryModel{},
		&ReviewModel{},
		&PinnedReviewModel{},
		&NotificationModel{},
	)
}

// UserModel GORM用户模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/user/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type UserModel struct {
	ID        uint           `gorm:"primaryKey"`
	Email     string         `gorm:"uniqueIndex;size:100;not null;comment:邮箱"`
	Password  string         `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	Nickname  string         `gorm:"size:50;not null;comment:昵称"`
	IsVendor  bool           `gorm:"default:false;comment:是否已开店"`
	StoreName string         `gorm:"size:100;comment:店铺名称"`
	CreatedAt time.Time      `gorm:"comment:创建时间"`
	UpdatedAt time.Time      `gorm:"comment:更新时间"`
	DeletedAt gorm.DeletedAt `gorm:"index;comment:删除时间（软删除）"`
}

// TableName 指定表名
func (UserModel) TableName() string {
	return "users"
}

// CategoryModel GORM分类模型
// 设计说明:
// 1. Path是物化路径, 全局唯一索引; 子树查询都走path前缀
//    (path = ? OR path LIKE ?+"/%"), LIKE的通配符在右侧可以吃到索引
// 2. Attributes属性模板以JSON列存储(serializer:json),
//    核心不按属性过滤, 无需拆表
// 3. is_active承载停用/软删除语义, 不使用gorm.DeletedAt
//    (停用分类仍要参与面包屑与商家视角查询)
type CategoryModel struct {
	ID          uint      `gorm:"primaryKey"`
	Name        string    `gorm:"size:100;not null;comment:分类名称"`
	Slug        string    `gorm:"size:120;not null;comment:URL标识"`
	ParentID    *uint     `gorm:"index;comment:父分类ID"`
	Level       int       `gorm:"index;not null;default:0;comment:层级深度"`
	Path        string    `gorm:"uniqueIndex;size:500;not null;comment:物化路径"`
	Description string    `gorm:"type:text;comment:描述"`
	IsActive    bool      `gorm:"index;default:true;comment:是否启用"`
	SortOrder   int       `gorm:"default:0;comment:同级排序权重"`
	Attributes  string    `gorm:"type:json;comment:属性模板(JSON)"`
	CreatedAt   time.Time `gorm:"comment:创建时间"`
	UpdatedAt   time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CategoryModel) TableName() string {
	return "categories"
}

// ProductModel GORM商品模型
// 设计说明:
// 1. avg_rating/rating_count是评价聚合的冗余快照, 评价事务内同步回写
// 2. seo_slug唯一索引(标题slug+毫秒时间戳, 冲突概率极低但仍需兜底)
// 3. idx_list复合索引覆盖"分类+上架状态"的列表查询
type ProductModel struct {
	ID              uint      `gorm:"primaryKey"`
	VendorID        uint      `gorm:"index;not null;comment:归属商家ID"`
	Title           string    `gorm:"size:200;not null;comment:标题"`
	Description     string    `gorm:"type:text;comment:详情描述"`
	CategoryID      uint      `gorm:"index:idx_list;not null;comment:分类ID"`
	Brand           string    `gorm:"size:100;comment:品牌"`
	Tags            string    `gorm:"type:json;comment:标签(JSON)"`
	IsActive        bool      `gorm:"index:idx_list;default:true;comment:是否上架"`
	AvgRating       float64   `gorm:"type:decimal(3,1);default:0;comment:平均评分快照"`
	RatingCount     int       `gorm:"default:0;comment:评价数快照"`
	SeoSlug         string    `gorm:"uniqueIndex;size:250;not null;comment:SEO slug"`
	MetaTitle       string    `gorm:"size:200;comment:SEO标题"`
	MetaDescription string    `gorm:"size:500;comment:SEO描述"`
	CreatedAt       time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ProductModel) TableName() string {
	return "products"
}

// VariantModel GORM规格模型
// 设计说明:
// 1. SKU全局唯一(跨商家也不允许重复, 对齐仓储系统的扫码场景)
// 2. 价格以分为单位的BIGINT存储
// 3. attributes/images以JSON列存储, 更新时整体覆盖
type VariantModel struct {
	ID              uint      `gorm:"primaryKey"`
	ProductID       uint      `gorm:"index;not null;comment:商品ID"`
	SKU             string    `gorm:"uniqueIndex;size:64;not null;comment:SKU编码"`
	Attributes      string    `gorm:"type:json;comment:规格属性(JSON)"`
	PriceMRP        int64     `gorm:"not null;comment:市场价(分)"`
	PriceSelling    int64     `gorm:"not null;comment:售价(分)"`
	DiscountPercent int       `gorm:"default:0;comment:折扣百分比"`
	WeightValue     float64   `gorm:"default:0;comment:重量数值"`
	WeightUnit      string    `gorm:"size:10;comment:重量单位"`
	Images          string    `gorm:"type:json;comment:图片(JSON)"`
	IsActive        bool      `gorm:"index;default:true;comment:是否启用"`
	CreatedAt       time.Time `gorm:"comment:创建时间"`
	UpdatedAt       time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (VariantModel) TableName() string {
	return "variants"
}

// InventoryModel GORM库存模型
// 设计说明:
// 1. 与规格一对一(variant_id唯一索引)
// 2. 可用量 = stock - reserved, 扣减校验内联在UPDATE谓词中,
//    不依赖SELECT FOR UPDATE
type InventoryModel struct {
	ID                uint      `gorm:"primaryKey"`
	VariantID         uint      `gorm:"uniqueIndex;not null;comment:规格ID"`
	Stock             int       `gorm:"not null;default:0;comment:在库总量"`
	Reserved          int       `gorm:"not null;default:0;comment:已预留量"`
	LowStockThreshold int       `gorm:"not null;default:5;comment:低库存阈值"`
	CreatedAt         time.Time `gorm:"comment:创建时间"`
	UpdatedAt         time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (InventoryModel) TableName() string {
	return "inventories"
}

// ReviewModel GORM评价模型
// 设计说明:
// 1. (product_id, user_id)复合唯一索引: 一人一商品一条评价
// 2. 评价是物理删除(用户行使删除权后不留痕)
type ReviewModel struct {
	ID                 uint      `gorm:"primaryKey"`
	ProductID          uint      `gorm:"uniqueIndex:uk_product_user;index;not null;comment:商品ID"`
	UserID             uint      `gorm:"uniqueIndex:uk_product_user;index;not null;comment:用户ID"`
	Rating             int       `gorm:"type:tinyint;not null;comment:评分(1-5)"`
	Comment            string    `gorm:"type:text;comment:评价内容"`
	IsVerifiedPurchase bool      `gorm:"default:false;comment:是否已购认证"`
	CreatedAt          time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt          time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (ReviewModel) TableName() string {
	return "reviews"
}

// PinnedReviewModel GORM置顶记录模型
// (review_id, vendor_id)复合唯一: 同一商家不能重复置顶同一评价
type PinnedReviewModel struct {
	ID        uint      `gorm:"primaryKey"`
	ReviewID  uint      `gorm:"uniqueIndex:uk_review_vendor;not null;comment:评价ID"`
	VendorID  uint      `gorm:"uniqueIndex:uk_review_vendor;index;not null;comment:商家ID"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
}

// TableName 指定表名
func (PinnedReviewModel) TableName() string {
	return "pinned_reviews"
}

// NotificationModel GORM通知模型(worker进程写入)
type NotificationModel struct {
	ID        uint      `gorm:"primaryKey"`
	Type      string    `gorm:"size:32;not null;comment:通知类型"`
	Scope     string    `gorm:"size:16;not null;comment:user/broadcast"`
	Title     string    `gorm:"size:200;not null;comment:标题"`
	Message   string    `gorm:"type:text;comment:内容"`
	UserID    *uint     `gorm:"index;comment:接收者(广播为NULL)"`
	IsRead    bool      `gorm:"default:false;comment:是否已读"`
	CreatedAt time.Time `gorm:"index;comment:创建时间"`
}

// TableName 指定表名
func (NotificationModel) TableName() string {
	return "notifications"
}
