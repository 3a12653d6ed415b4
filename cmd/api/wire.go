//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入（如Spring的@Autowired）不同，Wire在编译期生成代码
// 3. 优势：零运行时开销、类型安全、编译期检测循环依赖
//
// Wire工作流程：
// Step 1: 编写wire.go（本文件），定义Providers和Injector
// Step 2: 运行 `wire gen ./cmd/api`
// Step 3: Wire生成wire_gen.go，包含完整的依赖创建代码
// Step 4: main.go调用wire_gen.go中的InitializeApp()

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appavailability "github.com/linwan/kimono-rental/internal/application/availability"
	appbooking "github.com/linwan/kimono-rental/internal/application/booking"
	appcatalog "github.com/linwan/kimono-rental/internal/application/catalog"
	appplan "github.com/linwan/kimono-rental/internal/application/plan"
	appstock "github.com/linwan/kimono-rental/internal/application/stock"
	appuser "github.com/linwan/kimono-rental/internal/application/user"
	"github.com/linwan/kimono-rental/internal/domain/booking"
	"github.com/linwan/kimono-rental/internal/domain/inventory"
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
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：配置加载、数据库连接、Redis连接、事件发布器
var infrastructureSet = wire.NewSet(
	config.Load,          // 加载配置文件
	mysql.NewDB,          // 创建MySQL连接
	redis.NewClient,      // 创建Redis连接
	event.NewMQPublisher, // 事件发布器(含cleanup)
)

// repositorySet 仓储层依赖
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,      // 用户仓储
	mysql.NewStoreRepository,     // 门店仓储
	mysql.NewGarmentRepository,   // 款式仓储
	mysql.NewInventoryRepository, // 库存仓储
	mysql.NewBookingRepository,   // 预约仓储
	mysql.NewPlanRepository,      // 套餐仓储
	mysql.NewTxManager,           // 事务管理器
	redis.NewPlanLinkCache,       // 套餐关联缓存

	// application层的TxManager/LinkCache端口绑定到具体实现
	wire.Bind(new(appbooking.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appplan.TxManager), new(*mysql.TxManager)),
	wire.Bind(new(appavailability.LinkCache), new(*redis.PlanLinkCache)),
	wire.Bind(new(appplan.LinkCache), new(*redis.PlanLinkCache)),
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	user.NewService,     // 用户领域服务
	provideRegionMapper, // 区域匹配器(需要从config提取关键词)
)

// applicationSet 应用层依赖
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,          // 用户注册用例
	appuser.NewLoginUseCase,             // 用户登录用例
	appuser.NewLogoutUseCase,            // 用户登出用例
	provideCreateBookingUseCase,         // 创建预约用例(需要从config提取引擎参数)
	appbooking.NewTransitionUseCase,     // 预约状态流转用例
	appbooking.NewQueryUseCase,          // 预约查询用例
	appavailability.NewQueryUseCase,     // 可用量查询用例
	appplan.NewRelinkPlanUseCase,        // 套餐重连用例
	appplan.NewPublishPlanUseCase,       // 套餐发布用例
	appplan.NewBatchOpsUseCase,          // 套餐批量操作用例
	appplan.NewQueryUseCase,             // 套餐查询用例
	appstock.NewManageStockUseCase,      // 库存管理用例
	appcatalog.NewManageCatalogUseCase,  // 目录管理用例
)

// middlewareSet 中间件依赖
var middlewareSet = wire.NewSet(
	provideJWTManager,            // JWT管理器（需要从config提取参数）
	provideSessionStore,          // Session存储（需要从Redis创建）
	middleware.NewAuthMiddleware, // 认证中间件
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewUserHandler,         // 用户处理器
	handler.NewBookingHandler,      // 预约处理器
	handler.NewAvailabilityHandler, // 可用量处理器
	handler.NewPlanHandler,         // 套餐处理器
	handler.NewStockHandler,        // 库存处理器
	handler.NewCatalogHandler,      // 目录处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================
// 有些依赖的构造函数参数需要从Config中提取，Wire无法自动完成，
// 需要手动编写Provider函数

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

// provideRegionMapper 从配置创建区域匹配器
// 关键词声明顺序即优先级
func provideRegionMapper(cfg *config.Config) *plan.Mapper {
	return plan.NewMapper(cfg.Engine.RegionKeywords)
}

// provideCreateBookingUseCase 创建预约用例
// 锁超时和重试上限来自engine配置段,Wire无法从Config自动提取标量参数
func provideCreateBookingUseCase(
	cfg *config.Config,
	bookingRepo booking.Repository,
	inventoryRepo inventory.Repository,
	planRepo plan.Repository,
	txManager appbooking.TxManager,
	publisher event.Publisher,
) *appbooking.CreateBookingUseCase {
	return appbooking.NewCreateBookingUseCase(
		bookingRepo,
		inventoryRepo,
		planRepo,
		txManager,
		keylock.New(cfg.Engine.LockTimeout),
		publisher,
		cfg.Engine.CreateRetries,
	)
}

// provideGinEngine 创建并配置Gin引擎
// 路由注册复用main.go的registerRoutes,保持两种注入方式路由一致
func provideGinEngine(
	cfg *config.Config,
	userHandler *handler.UserHandler,
	bookingHandler *handler.BookingHandler,
	availabilityHandler *handler.AvailabilityHandler,
	planHandler *handler.PlanHandler,
	stockHandler *handler.StockHandler,
	catalogHandler *handler.CatalogHandler,
	authMiddleware *middleware.AuthMiddleware,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.Metrics())

	registerRoutes(r, &handlers{
		user:         userHandler,
		booking:      bookingHandler,
		availability: availabilityHandler,
		plan:         planHandler,
		stock:        stockHandler,
		catalog:      catalogHandler,
		auth:         authMiddleware,
	})

	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================

// InitializeApp 初始化整个应用
// 返回：配置好的Gin引擎 + cleanup(关闭事件发布器等)
func InitializeApp() (*gin.Engine, func(), error) {
	wire.Build(
		// 基础设施层
		infrastructureSet,

		// 仓储层
		repositorySet,

		// 领域层
		domainSet,

		// 应用层
		applicationSet,

		// 中间件层
		middlewareSet,

		// 接口层
		handlerSet,

		// Gin引擎
		provideGinEngine,
	)
	return nil, nil, nil
}
