//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// 工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appcategory "github.com/qiwen/vendormall/internal/application/category"
	appnotification "github.com/qiwen/vendormall/internal/application/notification"
	appproduct "github.com/qiwen/vendormall/internal/application/product"
	appreview "github.com/qiwen/vendormall/internal/application/review"
	appuser "github.com/qiwen/vendormall/internal/application/user"
	"github.com/qiwen/vendormall/internal/domain/category"
	"github.com/qiwen/vendormall/internal/domain/product"
	"github.com/qiwen/vendormall/internal/domain/user"
	"github.com/qiwen/vendormall/internal/infrastructure/config"
	"github.com/qiwen/vendormall/internal/infrastructure/persistence/mysql"
	"github.com/qiwen/vendormall/internal/infrastructure/persistence/redis"
	"github.com/qiwen/vendormall/internal/interface/http/handler"
	"github.com/qiwen/vendormall/internal/interface/http/middleware"
	"github.com/qiwen/vendormall/pkg/jwt"
	"github.com/qiwen/vendormall/pkg/mq"
)

// infrastructureSet 基础设施层依赖
var infrastructureSet = wire.NewSet(
	config.Load,
	mysql.NewDB,
	redis.NewClient,
	providePublisher,
)

// repositorySet 仓储层依赖
// Transactor/ProductCounter是应用层与领域层声明的接口,
// 这里把具体实现绑上去
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewCategoryRepository,
	mysql.NewProductRepository,
	mysql.NewVariantRepository,
	mysql.NewInventoryRepository,
	mysql.NewReviewRepository,
	mysql.NewPinRepository,
	mysql.NewNotificationRepository,
	mysql.NewTxManager,
	wire.Bind(new(appcategory.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(appproduct.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(appreview.Transactor), new(*mysql.TxManager)),
	wire.Bind(new(category.ProductCounter), new(product.Repository)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,
	category.NewService,
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewLoginUseCase,
	appuser.NewLogoutUseCase,
	appuser.NewOpenStoreUseCase,

	appcategory.NewCreateCategoryUseCase,
	appcategory.NewUpdateCategoryUseCase,
	appcategory.NewSetCategoryStatusUseCase,
	appcategory.NewDeleteCategoryUseCase,
	appcategory.NewBrowseCategoriesUseCase,

	appproduct.NewCreateProductUseCase,
	appproduct.NewUpdateProductUseCase,
	appproduct.NewDeleteProductUseCase,
	appproduct.NewCreateVariantUseCase,
	appproduct.NewUpdateVariantUseCase,
	appproduct.NewDeleteVariantUseCase,
	appproduct.NewAdjustStockUseCase,
	appproduct.NewVendorInventoryUseCase,
	appproduct.NewBrowseProductsUseCase,

	appreview.NewWriteReviewUseCase,
	appreview.NewPinReviewUseCase,
	appreview.NewListReviewsUseCase,

	appnotification.NewNotificationsUseCase,
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,
	provideSessionStore,
	redis.NewCatalogCache,
	middleware.NewAuthMiddleware,
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,
	handler.NewCategoryHandler,
	handler.NewProductHandler,
	handler.NewReviewHandler,
	handler.NewNotificationHandler,
)

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

// provideSessionStore 从Redis客户端创建Session存储
func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

// providePublisher 创建消息发布者(MQ未启用或连接失败时返回nil, 事件发布降级)
func providePublisher(cfg *config.Config) *mq.Publisher {
	if !cfg.MQ.Enabled {
		return nil
	}
	publisher, err := mq.NewPublisher(cfg.MQ.URL, mq.ExchangeEvents, mq.ExchangeTypeTopic)
	if err != nil {
		log.Printf("⚠️  MQ连接失败, 事件发布已降级: %v", err)
		return nil
	}
	return publisher
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册复用main.go里的registerRoutes, 保证两种组装方式的路由一致
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	productHandler *handler.ProductHandler,
	reviewHandler *handler.ReviewHandler,
	notificationHandler *handler.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())
	registerRoutes(r, userHandler, categoryHandler, productHandler, reviewHandler, notificationHandler, authMiddleware)
	return r
}

// InitializeApp 初始化整个应用
// Wire会在wire_gen.go中生成实际的初始化代码
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		middlewareSet,
		handlerSet,
		provideGinEngine,
	)
	return nil, nil
}
