package dto

// AttributeSpecDTO 分类属性模板项
type AttributeSpecDTO struct {
	Name   string   `json:"name" binding:"required,max=50" example:"颜色"`
	Values []string `json:"values" binding:"omitempty,dive,max=50" example:"红,蓝"`
}

// CreateCategoryRequest HTTP创建分类请求
type CreateCategoryRequest struct {
	Name        string             `json:"name" binding:"required,min=1,max=100" example:"男装"`
	Description string             `json:"description" binding:"max=2000"`
	ParentID    *uint              `json:"parent_id" binding:"omitempty,min=1"`
	SortOrder   int                `json:"sort_order" binding:"omitempty,min=0,max=9999"`
	Attributes  []AttributeSpecDTO `json:"attributes" binding:"omitempty,dive"`
}

// UpdateCategoryRequest HTTP更新分类请求
// 指针字段缺省表示不修改
type UpdateCategoryRequest struct {
	Name        *string            `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string            `json:"description" binding:"omitempty,max=2000"`
	SortOrder   *int               `json:"sort_order" binding:"omitempty,min=0,max=9999"`
	Attributes  []AttributeSpecDTO `json:"attributes" binding:"omitempty,dive"`
}

// SetCategoryStatusRequest HTTP分类状态变更请求
type SetCategoryStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}
