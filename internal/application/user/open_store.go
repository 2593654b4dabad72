package user

import (
	"context"

	"github.com/qiwen/vendormall/internal/domain/user"
	"github.com/qiwen/vendormall/pkg/jwt"
)

// OpenStoreUseCase 开店用例(买家升级为商家)
// 设计说明：
// 开店成功后立刻重签Token: 旧Token的vendor_id为0,
// 不重签的话商家要重新登录才能访问商家接口
type OpenStoreUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
}

// NewOpenStoreUseCase 创建开店用例
func NewOpenStoreUseCase(userService user.Service, jwtManager *jwt.Manager) *OpenStoreUseCase {
	return &OpenStoreUseCase{
		userService: userService,
		jwtManager:  jwtManager,
	}
}

// OpenStoreRequest 开店请求
type OpenStoreRequest struct {
	UserID    uint // 来自认证上下文
	StoreName string
}

// OpenStoreResponse 开店响应
type OpenStoreResponse struct {
	User         UserInfo `json:"user"`
	AccessToken  string   `json:"access_token"` // 带vendor_id的新Token
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int64    `json:"expires_in"`
}

// Execute 执行开店
func (uc *OpenStoreUseCase) Execute(ctx context.Context, req OpenStoreRequest) (*OpenStoreResponse, error) {
	u, err := uc.userService.OpenStore(ctx, req.UserID, req.StoreName)
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.jwtManager.GenerateToken(u.ID, u.Email, u.VendorID())
	if err != nil {
		return nil, err
	}

	return &OpenStoreResponse{
		User:         NewUserInfo(u),
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}
