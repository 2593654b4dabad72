package dto

// CreateReviewRequest HTTP创建评价请求
type CreateReviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required,min=1"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5" example:"5"`
	Comment   string `json:"comment" binding:"max=5000"`
}

// UpdateReviewRequest HTTP修改评价请求
type UpdateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=5000"`
}

// ListReviewsRequest HTTP评价列表请求
type ListReviewsRequest struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}
