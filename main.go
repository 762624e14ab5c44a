package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auto_builder_go/api"
	"auto_builder_go/config"
	"auto_builder_go/model"
	"auto_builder_go/repository"
	"auto_builder_go/service"
	"auto_builder_go/utils"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type Application struct {
	cfg        *config.GlobalConfig
	db         *gorm.DB
	llmService service.LlmService
	ormService *service.OrmService
	httpServer *http.Server
}

// NewApplication 创建新的应用程序实例
func NewApplication() *Application {
	return &Application{}
}

// InitDatabase 初始化数据库连接
func (app *Application) InitDatabase() error {
	log.Println("初始化数据库连接...")

	// MySQL 连接配置
	// 格式: "user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
	db, err := gorm.Open(mysql.Open(app.cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("数据库连接失败: %v", err)
	}

	// 获取底层的 SQL DB 对象以设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取数据库连接失败: %v", err)
	}

	// 设置连接池参数
	sqlDB.SetMaxIdleConns(app.cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(app.cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(app.cfg.Database.ConnMaxLifetime) * time.Minute)

	app.db = db
	log.Println("✓ MySQL 数据库连接成功")

	// 自动迁移数据库表
	if err := db.AutoMigrate(
		&model.TaskEntity{},
		&model.ConversationEntity{},
		&model.MessageEntity{},
		&model.FileEntity{},
	); err != nil {
		return fmt.Errorf("数据库迁移失败: %v", err)
	}

	log.Println("✓ 数据库表迁移完成")
	return nil
}

// InitServices 初始化所有服务
func (app *Application) InitServices() error {
	log.Println("========================================")
	log.Println("   初始化应用程序服务")
	log.Println("========================================")

	// 加载配置
	cfg, err := config.InitConfig()
	if err != nil {
		return fmt.Errorf("配置加载失败: %v", err)
	}
	app.cfg = cfg

	// 初始化数据库
	if err := app.InitDatabase(); err != nil {
		return fmt.Errorf("数据库初始化失败: %v", err)
	}

	// 初始化仓库
	taskRepo := repository.NewTaskRepository(app.db)
	convRepo := repository.NewConversationRepository(app.db)

	// 初始化生成后端
	llmService, err := service.NewLlmService(cfg)
	if err != nil {
		return fmt.Errorf("生成后端初始化失败: %v", err)
	}
	app.llmService = llmService
	log.Printf("生成后端: %s（可用: %v）", llmService.ProviderName(), llmService.Available())

	// 相对路径统一按项目根目录解析
	cfg.AutoBuilder.OrmXmlPath = utils.ResolvePath(cfg.AutoBuilder.OrmXmlPath)
	cfg.AutoBuilder.UploadDir = utils.ResolvePath(cfg.AutoBuilder.UploadDir)

	// 初始化生成服务，规则后端始终保留一份用于 ?backend=rule
	ormService := service.NewOrmService(llmService, cfg.AutoBuilder)
	ruleOrmService := service.NewOrmService(service.NewRuleBackend(cfg.AutoBuilder), cfg.AutoBuilder)
	app.ormService = ormService

	// 初始化XML合并服务和任务服务
	xmlService := service.NewXmlService(cfg.AutoBuilder)
	taskService := service.NewTaskService(ormService, xmlService, taskRepo)

	// 初始化会话服务
	convService := service.NewConversationService(llmService, convRepo, cfg.AutoBuilder)

	// 组装HTTP服务
	router := api.NewRouter(&api.Services{
		Orm:          ormService,
		RuleOrm:      ruleOrmService,
		Task:         taskService,
		Xml:          xmlService,
		Conversation: convService,
		Provider:     llmService,
	})
	app.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	log.Println("✓ 所有服务初始化完成")
	return nil
}

// Start 启动应用程序
func (app *Application) Start() error {
	log.Println("========================================")
	log.Println("   启动实体生成服务")
	log.Println("========================================")

	go func() {
		log.Printf("HTTP服务监听 %s", app.httpServer.Addr)
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("HTTP服务异常退出: %v", err)
		}
	}()

	log.Println("✓ 应用程序已启动")
	return nil
}

// Stop 停止应用程序
func (app *Application) Stop() error {
	log.Println("========================================")
	log.Println("   停止应用程序")
	log.Println("========================================")

	// 停止HTTP服务
	if app.httpServer != nil {
		log.Println("停止HTTP服务...")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.httpServer.Shutdown(ctx); err != nil {
			log.Printf("HTTP服务关闭失败: %v", err)
		}
	}

	// 关闭数据库连接
	if app.db != nil {
		log.Println("关闭数据库连接...")
		if sqlDB, err := app.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	log.Println("✓ 应用程序已安全停止")
	return nil
}

// waitForShutdown 等待关闭信号
func (app *Application) waitForShutdown() {
	// 创建信号监听通道
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// 等待信号
	sig := <-sigChan
	log.Printf("接收到信号: %v，开始优雅关闭...", sig)

	// 创建带超时的上下文
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 在单独的goroutine中执行关闭操作
	done := make(chan struct{})
	go func() {
		app.Stop()
		close(done)
	}()

	// 等待关闭完成或超时
	select {
	case <-done:
		log.Println("✓ 应用程序优雅关闭完成")
	case <-ctx.Done():
		log.Println("⚠️ 关闭超时，强制退出")
	}
}

func main() {
	// 设置日志格式
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("🚀 启动实体生成服务...")

	// 创建应用程序实例
	app := NewApplication()

	// 初始化服务
	if err := app.InitServices(); err != nil {
		log.Fatalf("❌ 服务初始化失败: %v", err)
	}

	// 启动应用程序
	if err := app.Start(); err != nil {
		log.Fatalf("❌ 应用程序启动失败: %v", err)
	}

	// 等待关闭信号
	app.waitForShutdown()

	log.Println("👋 应用程序已退出")
}
