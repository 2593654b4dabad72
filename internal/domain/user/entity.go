package user

import (
	"time"
)

// User 用户实体（聚合根）
// DDD设计说明：
// 1. 买家与商家共用一张用户表: IsVendor=true的账号具备商家身份,
//    其商家ID(vendor_id)就是UserID本身, 目录核心把它当不透明标识
// 2. 密码已加密存储（bcrypt），不应该有GetPassword()等方法暴露明文
// 3. 领域实体不依赖GORM tag（infrastructure层的Repository实现时会处理映射）
type User struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	IsVendor  bool   // 是否已开店
	StoreName string // 店铺名称(仅商家)
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(email, hashedPassword, nickname string) *User {
	now := time.Now()
	return &User{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// OpenStore 开店（领域行为）
// 开店后账号获得商家身份, vendor_id即UserID
func (u *User) OpenStore(storeName string) error {
	if u.IsVendor {
		return ErrAlreadyVendor
	}
	u.IsVendor = true
	u.StoreName = storeName
	u.UpdatedAt = time.Now()
	return nil
}

// VendorID 商家标识(未开店返回0)
func (u *User) VendorID() uint {
	if !u.IsVendor {
		return 0
	}
	return u.ID
}

// UpdateNickname 更新昵称（领域行为）
func (u *User) UpdateNickname(nickname string) {
	u.Nickname = nickname
	u.UpdatedAt = time.Now()
}
