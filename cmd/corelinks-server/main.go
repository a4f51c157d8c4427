package main

import (
	"context"
	"fmt"
	"time"

	"corelinks/internal/handler"
	"corelinks/internal/model"
	"corelinks/internal/server"
	"corelinks/internal/service"
	"corelinks/internal/service/metadata"
	"corelinks/internal/service/mq"
	"corelinks/internal/service/txbuilder"

	"corelinks/pkg/cache"
	"corelinks/pkg/config"
	"corelinks/pkg/database"
	"corelinks/pkg/logger"

	"go.uber.org/zap"
)

// @title CoreLinks API
// @version 1.0
// @description Shareable payment action links for Core chain

// @contact.name API Support
// @contact.url http://www.swagger.io/support
// @contact.email support@swagger.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// 0. 初始化 Config
	config.Init()

	// 1. 初始化 Logger
	logger.Init(config.Global.App.Env)
	defer logger.Sync()

	// 2. 构造 DSN 并连接数据库
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		config.Global.DB.Host,
		config.Global.DB.User,
		config.Global.DB.Password,
		config.Global.DB.Name,
		config.Global.DB.Port,
	)
	db, err := database.ConnectPostgres(dsn)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3. 连接 Redis
	rdb, err := database.ConnectRedis(config.Global.Redis.Addr, config.Global.Redis.Password, config.Global.Redis.DB)
	if err != nil {
		logger.Fatal("Redis 连接失败", zap.Error(err))
	}

	// 4. 执行数据库迁移 (Auto Migrate)
	if config.Global.App.Env == "development" {
		logger.Info("开发环境: 尝试自动迁移 Schema (GORM AutoMigrate)...")
		if err := db.AutoMigrate(model.AllModels()...); err != nil {
			logger.Fatal("数据库自动迁移失败", zap.Error(err))
		}
		logger.Info("数据库自动迁移完成 (Dev Mode)")
	} else {
		logger.Info("生产环境: 跳过 AutoMigrate，请使用 migrate 工具管理 Schema")
	}

	// 5. 缓存: 进程内 L1 + Redis L2
	localCache := cache.NewMemoryCache(5*time.Minute, 10*time.Minute)
	appCache := cache.NewMultiLevelCache(localCache, cache.NewRedisCache(rdb))

	// 6. 核心业务服务
	actionService := service.NewSQLActionService(db, appCache, config.Global.App.BaseURL)

	// 6.1 交易描述构造器 (纯计算)
	builder := txbuilder.NewBuilder(config.Global.Chain)

	// 6.2 元数据合成器: RPC tokenURI 读取 + HTTP 文档拉取
	// RPC 连不上不致命，合成器会降级到本地模板
	var tokenReader metadata.TokenURIReader
	if reader, err := metadata.NewRPCTokenReader(config.Global.Chain.RpcURL); err != nil {
		logger.Warn("RPC 连接失败，NFT 元数据将使用本地模板", zap.Error(err))
	} else {
		tokenReader = reader
	}
	synth := metadata.NewSynthesizer(config.Global.Chain, tokenReader, metadata.NewHTTPDocFetcher(10*time.Second))
	metadataService := service.NewMetadataService(actionService, synth, appCache)

	// 7. 初始化消息队列
	mqType := config.Global.Redis.MQType
	var producer mq.Producer
	var consumer mq.Consumer

	if mqType == "kafka" {
		logger.Info("使用 Kafka 作为消息队列...")
		kafkaBrokers := config.Global.Kafka.Brokers
		producer = mq.NewKafkaProducer(kafkaBrokers)
		consumer = mq.NewKafkaConsumer(kafkaBrokers, "corelinks_warmup_group")
	} else {
		logger.Info("使用 Redis Streams 作为消息队列...")
		producer = mq.NewRedisProducer(rdb)
		consumer = mq.NewRedisConsumer(rdb, "corelinks_warmup", "warmup-0")
	}

	// 8. 启动消息中继服务 (Outbox -> MQ)
	relayService := service.NewRelayService(db, producer)
	go relayService.Start(context.Background())

	// 9. 启动元数据预热消费者
	warmupService := service.NewWarmupService(consumer, metadataService)
	go func() {
		if err := warmupService.Start(context.Background()); err != nil {
			logger.Error("Warmup 启动失败", zap.Error(err))
		}
	}()

	// 10. HTTP Router
	actionHandler := handler.NewActionHandler(actionService, metadataService, builder)
	r := server.NewHTTPRouter(actionHandler)

	// 11. 启动应用 (阻塞)
	app := server.New(server.Config{HttpPort: config.Global.App.HttpPort}, r)
	app.Run()

	// 12. 退出后资源清理
	logger.Info("正在关闭数据库连接...")
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	rdb.Close()
	logger.Info("系统已退出")
}
