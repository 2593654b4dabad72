package category

import (
	"time"

	"github.com/qiwen/vendormall/pkg/slug"
)

// Category 分类实体(聚合根)
// DDD设计说明:
// 1. 层级关系用物化路径(Path)表达: 根分类path=slug, 子分类path=父path+"/"+slug
//    好处: 查整棵子树只需一个前缀查询, 不用递归
// 2. Level冗余存储层级深度(根为0), 用于树形组装时排序
// 3. Path全局唯一(数据库唯一索引保证), 同一父级下不允许同名slug
// 4. Attributes是该分类下商品的属性模板(如服装分类定义"颜色/尺码"),
//    只作展示约定, 核心不强制校验商品属性
type Category struct {
	ID          uint
	Name        string          // 展示名称
	Slug        string          // URL安全标识(由Name派生)
	ParentID    *uint           // 父分类ID(根分类为nil)
	Level       int             // 层级深度(根为0)
	Path        string          // 物化路径, 如 men/shoes/sports
	Description string          // 分类描述
	IsActive    bool            // 是否启用
	SortOrder   int             // 同级排序权重(升序)
	Attributes  []AttributeSpec // 属性模板
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AttributeSpec 分类属性模板项
// 如 {Name: "颜色", Values: ["红", "蓝"]}
type AttributeSpec struct {
	Name   string   `json:"name"`
	Values []string `json:"values,omitempty"`
}

// NewCategory 创建新分类(工厂方法)
// parent为nil表示根分类; slug与path由name和parent推导, 调用方不可指定
func NewCategory(name, description string, parent *Category, sortOrder int, attributes []AttributeSpec) *Category {
	s := slug.Slugify(name)

	var parentID *uint
	parentPath := ""
	level := 0
	if parent != nil {
		parentID = &parent.ID
		parentPath = parent.Path
		level = parent.Level + 1
	}

	now := time.Now()
	return &Category{
		Name:        name,
		Slug:        s,
		ParentID:    parentID,
		Level:       level,
		Path:        slug.BuildPath(parentPath, s),
		Description: description,
		IsActive:    true,
		SortOrder:   sortOrder,
		Attributes:  attributes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Rename 重命名(领域行为)
// 只更新自身的name/slug/path; 后代路径的联动改写是仓储层的集合操作,
// 由应用层在同一事务中触发
func (c *Category) Rename(newName string) (oldPath, newPath string) {
	oldPath = c.Path
	newSlug := slug.Slugify(newName)

	parentPath := ""
	if idx := len(c.Path) - len(c.Slug) - 1; idx > 0 {
		parentPath = c.Path[:idx]
	}

	c.Name = newName
	c.Slug = newSlug
	c.Path = slug.BuildPath(parentPath, newSlug)
	c.UpdatedAt = time.Now()
	return oldPath, c.Path
}

// Deactivate 停用(领域行为)
// 后代的级联停用同样是仓储层集合操作
func (c *Category) Deactivate() {
	c.IsActive = false
	c.UpdatedAt = time.Now()
}

// IsRoot 是否为根分类
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
