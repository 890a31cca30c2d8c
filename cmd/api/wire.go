//go:build wireinject
// +build wireinject

// Wire依赖注入配置文件
//
// 教学说明：
// 1. Wire是Google开发的编译期依赖注入工具
// 2. 与运行时反射注入不同，Wire在编译期生成代码
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

	appbook "github.com/benhanover/kaplat/internal/application/book"
	"github.com/benhanover/kaplat/internal/domain/book"
	"github.com/benhanover/kaplat/internal/infrastructure/config"
	"github.com/benhanover/kaplat/internal/interface/http/handler"
	"github.com/benhanover/kaplat/internal/interface/http/middleware"
)

// ========================================
// Wire Provider Sets (依赖分组)
// ========================================

// infrastructureSet 基础设施层依赖
// 包含：配置加载、存储后端组装
// buildBackends内部按配置创建PostgreSQL/MongoDB/内存仓储,
// 并在Redis启用时套上缓存层,所以这里不单列各后端的Provider。
var infrastructureSet = wire.NewSet(
	config.Load,   // 加载配置文件
	buildBackends, // 组装存储后端列表
)

// domainSet 领域层依赖
var domainSet = wire.NewSet(
	providePrimaryBackend, // 主后端标识（需要从config提取）
	book.NewService,       // 图书领域服务
)

// applicationSet 应用层依赖
// 包含：所有Use Case的构造函数
var applicationSet = wire.NewSet(
	appbook.NewCreateBookUseCase,  // 创建用例
	appbook.NewGetBookUseCase,     // 单本查询用例
	appbook.NewListBooksUseCase,   // 列表查询用例
	appbook.NewCountBooksUseCase,  // 计数用例
	appbook.NewUpdatePriceUseCase, // 价格更新用例
	appbook.NewDeleteBookUseCase,  // 删除用例
)

// handlerSet HTTP处理器依赖
var handlerSet = wire.NewSet(
	handler.NewBookHandler, // 图书处理器
)

// ========================================
// Custom Providers (自定义Provider)
// ========================================

// providePrimaryBackend 从配置提取主后端标识
// book.NewService需要book.Backend参数,Wire无法自动从Config提取。
func providePrimaryBackend(cfg *config.Config) book.Backend {
	return book.Backend(cfg.Persistence.Primary)
}

// provideGinEngine 创建并配置Gin引擎
// 中间件和路由注册与main.go的手动组装保持一致。
func provideGinEngine(
	cfg *config.Config,
	bookHandler *handler.BookHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(middleware.Metrics())

	registerRoutes(r, bookHandler)
	return r
}

// ========================================
// Wire Injector (依赖注入器)
// ========================================
//
// 依赖链：
// *gin.Engine 需要 → *handler.BookHandler
// *handler.BookHandler 需要 → 各Use Case
// 各Use Case 需要 → book.Service
// book.Service 需要 → []book.ConfiguredBackend + book.Backend
// []book.ConfiguredBackend 需要 → *config.Config

// InitializeApp 初始化整个应用
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		// 基础设施层
		infrastructureSet,

		// 领域层
		domainSet,

		// 应用层
		applicationSet,

		// 接口层
		handlerSet,

		// Gin引擎
		provideGinEngine,
	)

	// 占位返回值,实际代码由wire_gen.go生成
	return nil, nil
}
