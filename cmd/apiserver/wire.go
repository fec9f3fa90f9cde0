package main

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"flp/matchd/internal/app/config"
	"flp/matchd/internal/app/consumer"
	"flp/matchd/internal/app/domains/modules/mdclaim"
	"flp/matchd/internal/app/domains/modules/mdremote"
	"flp/matchd/internal/app/domains/repo/rpcoverage"
	"flp/matchd/internal/app/domains/repo/rpwork"
	"flp/matchd/internal/app/domains/services/svclaim"
	"flp/matchd/internal/app/domains/services/svmatch"
	"flp/matchd/internal/app/domains/services/svrefresh"
	"flp/matchd/internal/app/domains/services/svwatch"
	"flp/matchd/internal/app/infra/mq/lmstfy"
	redisx "flp/matchd/internal/app/infra/persistence/redis"
	"flp/matchd/internal/app/pkg/logger"
	"flp/matchd/internal/app/server/handlers/candidate"
	"flp/matchd/internal/app/server/handlers/claim"
	"flp/matchd/internal/app/server/handlers/watch"
	"flp/matchd/internal/app/server/routers"
)

// App 应用聚合（HTTP 引擎 + 后台组件）
type App struct {
	Engine         *gin.Engine
	ChangeConsumer *consumer.ChangeConsumer
	RefreshCoord   *svrefresh.Coordinator
	Logger         logger.Logger
}

// InitializeApp 组装应用依赖
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	log, err := logger.NewZapLogger(cfg.App.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger failed: %w", err)
	}

	// 存储层
	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{})
	if err != nil {
		return nil, nil, fmt.Errorf("connect mysql failed: %w", err)
	}

	pubsub, err := redisx.NewPubSubClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis pubsub failed: %w", err)
	}

	cache, err := redisx.NewCandidateCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Match.CacheTTL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis cache failed: %w", err)
	}

	lmstfyClient, err := lmstfy.NewClient(cfg.Lmstfy.Host, cfg.Lmstfy.Port, cfg.Lmstfy.Namespace, cfg.Lmstfy.Token)
	if err != nil {
		return nil, nil, fmt.Errorf("create lmstfy client failed: %w", err)
	}

	// 仓储
	workRepo := rpwork.NewWorkItemRepository(db)
	coverageRepo := rpcoverage.NewCoverageRepository(db)

	// 模块
	remoteModule := mdremote.NewRemoteModule(lmstfyClient, pubsub, workRepo, cfg.Match.RemoteQueue, log)
	claimModule := mdclaim.NewClaimModule(workRepo, &mdclaim.Config{
		MaxRetries:  cfg.Claim.MaxRetries,
		BaseBackoff: cfg.Claim.BaseBackoff,
	}, log)

	// 服务
	matchService := svmatch.NewMatchService(coverageRepo, workRepo, remoteModule, cache, &svmatch.Options{
		RemoteTimeout: cfg.Match.RemoteTimeout,
	}, log)
	claimService := svclaim.NewClaimService(claimModule, log)
	watchService := svwatch.NewWatchService(workRepo, &svwatch.Options{
		InitialInterval: cfg.Watch.InitialInterval,
		MaxInterval:     cfg.Watch.MaxInterval,
	}, log)

	// 刷新协调与变更通知消费
	refreshCoord := svrefresh.NewCoordinator(cache, cfg.Refresh.Interval, log)
	changeConsumer := consumer.NewChangeConsumer(pubsub, refreshCoord, cfg.Refresh.ChangeChannel, log)

	// HTTP 层
	engine := routers.SetupRoutes(
		candidate.NewCandidateHandler(matchService),
		claim.NewClaimHandler(claimService),
		watch.NewWatchHandler(watchService),
		log,
	)

	cleanup := func() {
		_ = pubsub.Close()
		_ = cache.Close()
		_ = log.Sync()
	}

	return &App{
		Engine:         engine,
		ChangeConsumer: changeConsumer,
		RefreshCoord:   refreshCoord,
		Logger:         log,
	}, cleanup, nil
}
