// @title        Admin Console Users API
// @version      1.0
// @description  使用者管理 API，供 admin console 使用
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"admin-console/internal/cache"
	"admin-console/internal/config"
	"admin-console/internal/database"
	"admin-console/internal/logging"
	"admin-console/internal/router"
	"admin-console/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	loadConfig      = config.LoadAPI
	newLogger       = logging.New
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	rollbackFn      = database.RollbackAll
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc        = os.Exit
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger("api", cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	if cfg.MigrateDown {
		if err := rollbackFn(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("Migration 退回失敗: %w", err)
		}
		logger.Info("migrations rolled back")
		return nil
	}

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	tokens, err := service.NewTokens(cfg.SecretKey, cfg.TokenTTL)
	if err != nil {
		return err
	}

	if err := ensureSuperuser(ctx, db, cfg.FirstSuperuser, cfg.FirstSuperuserPassword, logger); err != nil {
		return err
	}

	e := router.New(logger)
	router.SetupAPI(e, db, rdb, tokens, logger)

	logger.Info("users api listening", zap.String("addr", cfg.Addr))
	return startServer(e, cfg.Addr)
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
