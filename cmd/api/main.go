package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appavailability "github.com/linwan/kimono-rental/internal/application/availability"
	appbooking "github.com/linwan/kimono-rental/internal/application/booking"
	appcatalog "github.com/linwan/kimono-rental/internal/application/catalog"
	appplan "github.com/linwan/kimono-rental/internal/application/plan"
	appstock "github.com/linwan/kimono-rental/internal/application/stock"
	appuser "github.com/linwan/kimono-rental/internal/application/user"
	"github.com/linwan/kimono-rental/internal/domain/plan"
	"github.com/linwan/kimono-rental/internal/domain/user"
	"github.com/linwan/kimono-rental/internal/infrastructure/config"
	"github.com/linwan/kimono-rental/internal/infrastructure/event"
	"github.com/linwan/kimono-rental/internal/infrastructure/persistence/mysql"
	"github.com/linwan/kimono-rental/internal/infrastructure/persistence/redis"
	"github.com/linwan/kimono-rental/internal/interface/http/handler"
	"github.com/linwan/kimono-rental/internal/interface/http/middleware"
	"github.com/linwan/kimono-rental/pkg/jwt"
	"github.com/linwan/kimono-rental/pkg/keylock"
	"github.com/linwan/kimono-rental/pkg/metrics"
	"github.com/linwan/kimono-rental/pkg/response"
	"github.com/linwan/kimono-rental/pkg/tracing"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go提供等价的Wire自动生成版本）
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
	fmt.Printf("  - 准入锁超时: %v, 重试上限: %d\n", cfg.Engine.LockTimeout, cfg.Engine.CreateRetries)
	fmt.Printf("  - 区域关键词: %v\n", cfg.Engine.RegionKeywords)

	// 2. 初始化可观测性
	metrics.InitMetrics()
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorURL)
		if err != nil {
			log.Fatalf("初始化Tracer失败: %v", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Printf("关闭Tracer失败: %v", err)
			}
		}()
	}

	// 3. 初始化数据库与Redis连接
	db, err := mysql.NewDB(cfg)
	if err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatalf("初始化Redis失败: %v", err)
	}

	// 4. 初始化事件发布器(mq.enabled=false时为Nop实现)
	publisher, cleanup, err := event.NewMQPublisher(cfg)
	if err != nil {
		log.Fatalf("初始化事件发布器失败: %v", err)
	}
	defer cleanup()

	// 5. 依赖注入（手动组装）
	// Repository ← Service/UseCase ← Handler

	// 基础设施层
	userRepo := mysql.NewUserRepository(db)
	storeRepo := mysql.NewStoreRepository(db)
	garmentRepo := mysql.NewGarmentRepository(db)
	inventoryRepo := mysql.NewInventoryRepository(db)
	bookingRepo := mysql.NewBookingRepository(db)
	planRepo := mysql.NewPlanRepository(db)
	txManager := mysql.NewTxManager(db)
	sessionStore := redis.NewSessionStore(redisClient)
	planLinkCache := redis.NewPlanLinkCache(redisClient)
	jwtManager := jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
	admissionLocks := keylock.New(cfg.Engine.LockTimeout)

	// 领域层
	userService := user.NewService(userRepo)
	regionMapper := plan.NewMapper(cfg.Engine.RegionKeywords)

	// 应用层
	registerUseCase := appuser.NewRegisterUseCase(userService)
	loginUseCase := appuser.NewLoginUseCase(userService, jwtManager, sessionStore)
	logoutUseCase := appuser.NewLogoutUseCase(sessionStore)
	createBookingUseCase := appbooking.NewCreateBookingUseCase(
		bookingRepo, inventoryRepo, planRepo, txManager,
		admissionLocks, publisher, cfg.Engine.CreateRetries,
	)
	transitionUseCase := appbooking.NewTransitionUseCase(bookingRepo, publisher)
	bookingQueryUseCase := appbooking.NewQueryUseCase(bookingRepo)
	availabilityUseCase := appavailability.NewQueryUseCase(inventoryRepo, bookingRepo, planRepo, planLinkCache)
	relinkUseCase := appplan.NewRelinkPlanUseCase(planRepo, storeRepo, regionMapper, planLinkCache)
	publishPlanUseCase := appplan.NewPublishPlanUseCase(planRepo, relinkUseCase)
	batchOpsUseCase := appplan.NewBatchOpsUseCase(planRepo, txManager)
	planQueryUseCase := appplan.NewQueryUseCase(planRepo)
	stockUseCase := appstock.NewManageStockUseCase(inventoryRepo, storeRepo, garmentRepo)
	catalogUseCase := appcatalog.NewManageCatalogUseCase(storeRepo, garmentRepo)

	// 接口层
	userHandler := handler.NewUserHandler(registerUseCase, loginUseCase, logoutUseCase)
	bookingHandler := handler.NewBookingHandler(createBookingUseCase, transitionUseCase, bookingQueryUseCase)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityUseCase)
	planHandler := handler.NewPlanHandler(publishPlanUseCase, relinkUseCase, batchOpsUseCase, planQueryUseCase)
	stockHandler := handler.NewStockHandler(stockUseCase)
	catalogHandler := handler.NewCatalogHandler(catalogUseCase)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, sessionStore)

	// 6. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(middleware.Metrics())

	// 7. 注册路由
	registerRoutes(r, &handlers{
		user:         userHandler,
		booking:      bookingHandler,
		availability: availabilityHandler,
		plan:         planHandler,
		stock:        stockHandler,
		catalog:      catalogHandler,
		auth:         authMiddleware,
	})

	// 8. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/ping\n", addr)
	fmt.Printf("   API文档:  http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("   指标采集: http://localhost%s/metrics\n", addr)
	fmt.Printf("   创建预约: POST http://localhost%s/api/v1/bookings (游客也可预约)\n", addr)
	fmt.Printf("   查可用量: GET  http://localhost%s/api/v1/availability\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// handlers 路由注册参数包
type handlers struct {
	user         *handler.UserHandler
	booking      *handler.BookingHandler
	availability *handler.AvailabilityHandler
	plan         *handler.PlanHandler
	stock        *handler.StockHandler
	catalog      *handler.CatalogHandler
	auth         *middleware.AuthMiddleware
}

// registerRoutes 注册路由
func registerRoutes(r *gin.Engine, h *handlers) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标端点
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API路由组
	v1 := r.Group("/api/v1")
	{
		// 用户模块
		users := v1.Group("/users")
		{
			users.POST("/register", h.user.Register)
			users.POST("/login", h.user.Login)
			users.POST("/logout", h.auth.RequireAuth(), h.user.Logout)
		}

		// 公开目录与可用量查询(无需登录)
		v1.GET("/stores", h.catalog.ListStores)
		v1.GET("/garments", h.catalog.ListGarments)
		v1.GET("/availability", h.availability.Query)
		v1.GET("/plans/:id", h.plan.Get)
		v1.GET("/plans/:id/availability", h.availability.QueryForPlan)

		// 预约模块
		bookings := v1.Group("/bookings")
		{
			// 创建预约:游客无Token也可下单(OptionalAuth)
			bookings.POST("", h.auth.OptionalAuth(), h.booking.Create)

			// 取消预约:游客单由商户/管理员代为取消,但中间件仍挂OptionalAuth
			// 让登录顾客取消自己的单
			bookings.POST("/:id/cancel", h.auth.OptionalAuth(), h.booking.Cancel)

			// 查询需登录
			bookings.GET("", h.auth.RequireAuth(), h.booking.ListMine)
			bookings.GET("/:id", h.auth.RequireAuth(), h.booking.Get)
		}

		// 商户模块(商户/管理员)
		merchant := v1.Group("/merchant")
		merchant.Use(h.auth.RequireAuth(), h.auth.RequireRole("merchant", "admin"))
		{
			// 预约受理
			merchant.GET("/bookings/no/:booking_no", h.booking.GetByNo)
			merchant.POST("/bookings/:id/confirm", h.booking.Confirm)
			merchant.POST("/bookings/:id/advance", h.booking.Advance)

			// 套餐管理
			merchant.POST("/plans", h.plan.Publish)
			merchant.POST("/plans/:id/relink", h.plan.Relink)
			merchant.POST("/plans/batch-active", h.plan.BatchSetActive)
			merchant.POST("/plans/batch-theme", h.plan.BatchSetTheme)
			merchant.POST("/themes", h.plan.CreateTheme)

			// 库存与利用率
			merchant.PUT("/stock", h.stock.SetCapacity)
			merchant.GET("/stores/:id/stock", h.stock.ListByStore)
			merchant.GET("/stores/:id/utilization", h.availability.Utilization)
		}

		// 管理员模块(目录维护)
		admin := v1.Group("/admin")
		admin.Use(h.auth.RequireAuth(), h.auth.RequireRole("admin"))
		{
			admin.POST("/stores", h.catalog.CreateStore)
			admin.PUT("/stores/:id/active", h.catalog.SetStoreActive)
			admin.POST("/garments", h.catalog.CreateGarment)
		}
	}
}
