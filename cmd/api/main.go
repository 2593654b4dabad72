package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/qiwen/vendormall/docs" // swagger文档
	appcategory "github.com/qiwen/vendormall/internal/application/category"
	appnotification "github.com/qiwen/vendormall/internal/application/notification"
	appproduct "github.com/qiwen/vendormall/internal/application/product"
	appreview "github.com/qiwen/vendormall/internal/application/review"
	appuser "github.com/qiwen/vendormall/internal/application/user"
	"github.com/qiwen/vendormall/internal/domain/category"
	"github.com/qiwen/vendormall/internal/domain/user"
	"github.com/qiwen/vendormall/internal/infrastructure/config"
	"github.com/qiwen/vendormall/internal/infrastructure/persistence/mysql"
	"github.com/qiwen/vendormall/internal/infrastructure/persistence/redis"
	"github.com/qiwen/vendormall/internal/interface/http/handler"
	"github.com/qiwen/vendormall/internal/interface/http/middleware"
	"github.com/qiwen/vendormall/pkg/jwt"
	"github.com/qiwen/vendormall/pkg/metrics"
	"github.com/qiwen/vendormall/pkg/mq"
	"github.com/qiwen/vendormall/pkg/response"
	"github.com/qiwen/vendormall/pkg/tracing"
)

// @title           VendorMall 多商家目录API
// @version         1.0
// @description     多商家电商的目录核心: 分类树/商品/规格库存/评价
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// main API进程入口(手动依赖注入; wire.go提供等价的生成式组装)
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 数据库: %s:%d/%s\n", cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)
	fmt.Printf("  - Redis: %s\n", cfg.Redis.Addr())

	// 2. 指标与链路追踪
	metrics.InitMetrics()

	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer("vendormall-api", cfg.Tracing.Endpoint)
		if err != nil {
			log.Fatalf("初始化Tracer失败: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("关闭Tracer失败: %v", err)
			}
		}()
	}

	// 3. 初始化数据库连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	// 4. 初始化Redis连接
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 5. 初始化消息发布者(可选)
	// 连不上MQ只降级: 目录读写不依赖事件, 通知晚到可以接受
	var publisher *mq.Publisher
	if cfg.MQ.Enabled {
		publisher, err = mq.NewPublisher(cfg.MQ.URL, mq.ExchangeEvents, mq.ExchangeTypeTopic)
		if err != nil {
			log.Printf("⚠️  MQ连接失败, 事件发布已降级: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	}

	// 6. 依赖注入（手动组装）
	// Repository ← Service ← UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	productRepo := mysql.NewProductRepository(db)
	variantRepo := mysql.NewVariantRepository(db)
	inventoryRepo := mysql.NewInventoryRepository(db)
	reviewRepo := mysql.NewReviewRepository(db)
	pinRepo := mysql.NewPinRepository(db)
	notificationRepo := mysql.NewNotificationRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	catalogCache := redis.NewCatalogCache(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)

	// 领域层
	userService := user.NewService(userRepo)
	categoryService := category.NewService(categoryRepo, productRepo)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	openStoreUseCase := appuser.NewOpenStoreUseCase(userService, jwtManager)

	createCategoryUC := appcategory.NewCreateCategoryUseCase(categoryService)
	updateCategoryUC := appcategory.NewUpdateCategoryUseCase(categoryRepo, txManager)
	categoryStatusUC := appcategory.NewSetCategoryStatusUseCase(categoryRepo, txManager)
	deleteCategoryUC := appcategory.NewDeleteCategoryUseCase(categoryService)
	browseCategoriesUC := appcategory.NewBrowseCategoriesUseCase(categoryService)

	createProductUC := appproduct.NewCreateProductUseCase(productRepo, categoryRepo)
	updateProductUC := appproduct.NewUpdateProductUseCase(productRepo, categoryRepo)
	deleteProductUC := appproduct.NewDeleteProductUseCase(productRepo, variantRepo, txManager)
	createVariantUC := appproduct.NewCreateVariantUseCase(productRepo, variantRepo, inventoryRepo, txManager)
	updateVariantUC := appproduct.NewUpdateVariantUseCase(productRepo, variantRepo)
	deleteVariantUC := appproduct.NewDeleteVariantUseCase(productRepo, variantRepo)
	adjustStockUC := appproduct.NewAdjustStockUseCase(productRepo, variantRepo, inventoryRepo)
	vendorInventoryUC := appproduct.NewVendorInventoryUseCase(productRepo, variantRepo, inventoryRepo)
	browseProductsUC := appproduct.NewBrowseProductsUseCase(productRepo, variantRepo, inventoryRepo)

	writeReviewUC := appreview.NewWriteReviewUseCase(reviewRepo, pinRepo, productRepo, txManager)
	pinReviewUC := appreview.NewPinReviewUseCase(reviewRepo, pinRepo, productRepo, txManager)
	listReviewsUC := appreview.NewListReviewsUseCase(reviewRepo, pinRepo, productRepo)

	notificationsUC := appnotification.NewNotificationsUseCase(notificationRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase, openStoreUseCase)
	categoryHandler := handler.NewCategoryHandler(
		createCategoryUC, updateCategoryUC, categoryStatusUC, deleteCategoryUC, browseCategoriesUC,
		catalogCache, publisher,
	)
	productHandler := handler.NewProductHandler(
		createProductUC, updateProductUC, deleteProductUC,
		createVariantUC, updateVariantUC, deleteVariantUC, adjustStockUC,
		vendorInventoryUC, browseProductsUC, publisher,
	)
	reviewHandler := handler.NewReviewHandler(writeReviewUC, pinReviewUC, listReviewsUC, publisher)
	notificationHandler := handler.NewNotificationHandler(notificationsUC)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 7. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 8. 注册路由
	registerRoutes(r, userHandler, categoryHandler, productHandler, reviewHandler, notificationHandler, authMiddleware)

	// 9. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档: http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	userHandler *handler.UserHandler,
	categoryHandler *handler.CategoryHandler,
	productHandler *handler.ProductHandler,
	reviewHandler *handler.ReviewHandler,
	notificationHandler *handler.NotificationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/logout", authMiddleware.RequireAuth(), userHandler.Logout)
			users.POST("/open-store", authMiddleware.RequireAuth(), userHandler.OpenStore)
			users.GET("/reviews", authMiddleware.RequireAuth(), reviewHandler.ListMine)
		}

		// 分类模块
		categories := v1.Group("/categories")
		{
			// 公开读
			categories.GET("/tree", categoryHandler.Tree)
			categories.GET("/:id", categoryHandler.Detail)
			categories.GET("/:id/breadcrumbs", categoryHandler.Breadcrumbs)
			categories.GET("/:id/children", categoryHandler.Subcategories)

			// 运营写(需要登录)
			categories.POST("", authMiddleware.RequireAuth(), categoryHandler.Create)
			categories.PUT("/:id", authMiddleware.RequireAuth(), categoryHandler.Update)
			categories.PUT("/:id/status", authMiddleware.RequireAuth(), categoryHandler.SetStatus)
			categories.DELETE("/:id", authMiddleware.RequireAuth(), categoryHandler.Delete)
		}

		// 商品公开读
		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/slug/:slug", productHandler.DetailBySlug)
			products.GET("/:id/reviews", reviewHandler.ListByProduct)
		}

		// 评价(买家, 需要登录)
		reviews := v1.Group("/reviews")
		reviews.Use(authMiddleware.RequireAuth())
		{
			reviews.POST("", reviewHandler.Create)
			reviews.PUT("/:id", reviewHandler.Update)
			reviews.DELETE("/:id", reviewHandler.Delete)
		}

		// 通知(需要登录)
		notifications := v1.Group("/notifications")
		notifications.Use(authMiddleware.RequireAuth())
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		// 商家模块(需要登录+已开店)
		vendor := v1.Group("/vendor")
		vendor.Use(authMiddleware.RequireAuth(), authMiddleware.RequireVendor())
		{
			vendor.POST("/products", productHandler.Create)
			vendor.GET("/products", productHandler.VendorProducts)
			vendor.PUT("/products/:id", productHandler.Update)
			vendor.DELETE("/products/:id", productHandler.Delete)
			vendor.POST("/products/:id/variants", productHandler.CreateVariant)
			vendor.GET("/products/:id/variants", productHandler.VendorVariants)

			vendor.PUT("/variants/:id", productHandler.UpdateVariant)
			vendor.DELETE("/variants/:id", productHandler.DeleteVariant)
			vendor.POST("/variants/:id/stock", productHandler.AdjustStock)
			vendor.GET("/variants/:id/inventory", productHandler.VariantInventory)
			vendor.PUT("/variants/:id/threshold", productHandler.UpdateThreshold)

			vendor.GET("/inventory", productHandler.InventoryOverview)

			vendor.POST("/reviews/:id/pin", reviewHandler.Pin)
			vendor.DELETE("/reviews/:id/pin", reviewHandler.Unpin)
			vendor.GET("/reviews/pinned", reviewHandler.ListPinned)
		}
	}
}
