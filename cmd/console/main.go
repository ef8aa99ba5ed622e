package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"admin-console/internal/cache"
	"admin-console/internal/client"
	"admin-console/internal/config"
	"admin-console/internal/form"
	"admin-console/internal/handler/console"
	"admin-console/internal/logging"
	"admin-console/internal/notify"
	"admin-console/internal/router"
	"admin-console/internal/service"
	"admin-console/internal/session"
	"admin-console/internal/store"
	"admin-console/internal/worker"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// usersAPI 為 console 需要的 users API 操作
type usersAPI interface {
	store.UsersAPI
	console.Authenticator
}

var (
	loadConfig     = config.LoadConsole
	newLogger      = logging.New
	newRedisClient = cache.NewRedisClient
	newAPIClient   = func(opts client.Options) (usersAPI, error) { return client.New(opts) }
	newWorkerPool  = worker.NewPool
	startServer    = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	sweepInterval  = time.Minute
	exitFunc       = os.Exit
)

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, err := newLogger("console", cfg.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb, err := newRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer rdb.Close()

	apiClient, err := newAPIClient(client.Options{BaseURL: cfg.APIURL, Timeout: cfg.APITimeout})
	if err != nil {
		return err
	}

	// console 只驗證令牌，不簽發
	tokens, err := service.NewTokens(cfg.SecretKey, 0)
	if err != nil {
		return err
	}

	pool := newWorkerPool(cfg.WorkerCount, logger)
	defer pool.Stop()

	users := store.NewUsers(apiClient, rdb, pool, logger)
	sessions := session.NewRegistry(func(id string) *form.Dialog {
		dlog := logger.With(zap.String("session", id))
		return form.NewDialog(form.Options{
			Creator:  users,
			Notifier: notify.NewFlash(rdb, id),
			OnClose:  func() { dlog.Debug("add user dialog closed") },
			Logger:   dlog,
		})
	})
	go sweepSessions(ctx, sessions, cfg.SessionIdle, sweepInterval, logger)

	renderer, err := console.NewRenderer()
	if err != nil {
		return err
	}
	e := router.New(logger)
	e.Renderer = renderer
	router.SetupConsole(e, console.New(console.Options{
		Sessions:      sessions,
		Users:         users,
		Auth:          apiClient,
		Cache:         rdb,
		Logger:        logger,
		SecureCookies: cfg.SecureCookies,
	}), tokens)

	logger.Info("console listening", zap.String("addr", cfg.Addr), zap.String("users_api", cfg.APIURL))
	return startServer(e, cfg.Addr)
}

// sweepSessions 定期清除閒置的 session
func sweepSessions(ctx context.Context, sessions *session.Registry, maxIdle, every time.Duration, log *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := sessions.Sweep(maxIdle); n > 0 {
				log.Debug("idle sessions removed", zap.Int("count", n), zap.Int("remaining", sessions.Len()))
			}
		}
	}
}

func main() {
	if err := run(); err != nil {
		log.Print(err)
		exitFunc(1)
	}
}
