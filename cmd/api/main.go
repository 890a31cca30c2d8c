package main

import (
	"fmt"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	appbook "github.com/benhanover/kaplat/internal/application/book"
	"github.com/benhanover/kaplat/internal/domain/book"
	"github.com/benhanover/kaplat/internal/infrastructure/config"
	"github.com/benhanover/kaplat/internal/infrastructure/persistence/memory"
	mongopersist "github.com/benhanover/kaplat/internal/infrastructure/persistence/mongo"
	"github.com/benhanover/kaplat/internal/infrastructure/persistence/postgres"
	redispersist "github.com/benhanover/kaplat/internal/infrastructure/persistence/redis"
	"github.com/benhanover/kaplat/internal/interface/http/handler"
	"github.com/benhanover/kaplat/internal/interface/http/middleware"
	"github.com/benhanover/kaplat/pkg/metrics"
)

// main 主程序入口
// 说明：手动依赖注入（wire.go里有等价的Wire版本）
func main() {
	// 1. 加载配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	fmt.Printf("✓ 配置加载成功\n")
	fmt.Printf("  - 服务端口: %d\n", cfg.Server.Port)
	fmt.Printf("  - 运行模式: %s\n", cfg.Server.Mode)
	fmt.Printf("  - 存储后端: %v (主后端: %s)\n", cfg.Persistence.Backends, cfg.Persistence.Primary)

	// 2. 初始化指标
	metrics.InitMetrics()

	// 3. 初始化存储后端
	backends, err := buildBackends(cfg)
	if err != nil {
		log.Fatalf("初始化存储后端失败: %v", err)
	}

	// 4. 依赖注入（手动组装）
	// Repository ← Service ← UseCase ← Handler

	// 领域层
	bookService := book.NewService(backends, book.Backend(cfg.Persistence.Primary))

	// 应用层
	createUseCase := appbook.NewCreateBookUseCase(bookService)
	getUseCase := appbook.NewGetBookUseCase(bookService)
	listUseCase := appbook.NewListBooksUseCase(bookService)
	countUseCase := appbook.NewCountBooksUseCase(bookService)
	updateUseCase := appbook.NewUpdatePriceUseCase(bookService)
	deleteUseCase := appbook.NewDeleteBookUseCase(bookService)

	// 接口层
	bookHandler := handler.NewBookHandler(
		createUseCase, getUseCase, listUseCase,
		countUseCase, updateUseCase, deleteUseCase,
	)

	// 5. 初始化Gin引擎
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(middleware.Metrics())

	// 6. 注册路由
	registerRoutes(r, bookHandler)

	// 7. 启动服务
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	fmt.Printf("\n🚀 服务启动成功！\n")
	fmt.Printf("   访问地址: http://localhost%s\n", addr)
	fmt.Printf("   健康检查: http://localhost%s/books/health\n", addr)
	fmt.Printf("   指标: http://localhost%s/metrics\n", addr)
	fmt.Printf("   API文档: http://localhost%s/swagger/index.html\n", addr)
	fmt.Printf("\n按Ctrl+C停止服务\n\n")

	if err := r.Run(addr); err != nil {
		log.Fatalf("启动服务失败: %v", err)
	}
}

// buildBackends 按配置组装存储后端
// 后端顺序与配置顺序一致,写操作按此顺序复制。
// Redis启用时每个后端都套一层读缓存,key按后端命名空间隔离。
func buildBackends(cfg *config.Config) ([]book.ConfiguredBackend, error) {
	cache := func(repo book.Repository, name book.Backend) book.Repository {
		return repo
	}

	if cfg.Redis.Enabled {
		redisClient, err := redispersist.NewClient(cfg)
		if err != nil {
			return nil, err
		}
		cache = func(repo book.Repository, name book.Backend) book.Repository {
			return redispersist.NewBookCache(repo, redisClient, name, cfg.Redis.TTL)
		}
	}

	backends := make([]book.ConfiguredBackend, 0, len(cfg.Persistence.Backends))
	for _, name := range cfg.Persistence.Backends {
		var repo book.Repository

		switch book.Backend(name) {
		case book.BackendPostgres:
			db, err := postgres.NewDB(cfg)
			if err != nil {
				return nil, err
			}
			repo = postgres.NewBookRepository(db)

		case book.BackendMongo:
			client, err := mongopersist.NewClient(cfg)
			if err != nil {
				return nil, err
			}
			repo = mongopersist.NewBookRepository(mongopersist.Collection(client, cfg))

		case book.BackendMemory:
			repo = memory.NewBookRepository()

		default:
			// 配置校验已拦截,兜底防止静默跳过
			return nil, fmt.Errorf("无法识别的存储后端: %s", name)
		}

		backends = append(backends, book.ConfiguredBackend{
			Name: book.Backend(name),
			Repo: cache(repo, book.Backend(name)),
		})
	}
	return backends, nil
}

// registerRoutes 注册路由
func registerRoutes(r *gin.Engine, bookHandler *handler.BookHandler) {
	// 健康检查(纯文本,不走统一信封)
	r.GET("/books/health", bookHandler.Health)

	// 图书接口
	r.POST("/book", bookHandler.CreateBook)
	r.GET("/book", bookHandler.GetBook)
	r.PUT("/book", bookHandler.UpdateBookPrice)
	r.DELETE("/book", bookHandler.DeleteBook)
	r.GET("/books", bookHandler.ListBooks)
	r.GET("/books/total", bookHandler.CountBooks)

	// Prometheus指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Swagger文档
	// 访问 http://localhost:8574/swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
