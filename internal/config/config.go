// Package config 由環境變數載入 users API 與 console 的設定
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR,required,notEmpty"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

// API 為 cmd/api 的設定
type API struct {
	Addr        string        `env:"API_ADDR" envDefault:":8080"`
	DatabaseURL string        `env:"DATABASE_URL,required,notEmpty"`
	SecretKey   string        `env:"SECRET_KEY,required,notEmpty"`
	TokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"192h"`
	Debug       bool          `env:"DEBUG"`
	Redis       Redis
	// 設定時只退回所有 migration 後結束，不啟動服務
	MigrateDown bool `env:"MIGRATE_DOWN"`

	// 首次啟動時建立的 superuser，兩者皆設定才會建立
	FirstSuperuser         string `env:"FIRST_SUPERUSER"`
	FirstSuperuserPassword string `env:"FIRST_SUPERUSER_PASSWORD"`
}

// Console 為 cmd/console 的設定
type Console struct {
	Addr        string        `env:"CONSOLE_ADDR" envDefault:":8081"`
	APIURL      string        `env:"USERS_API_URL" envDefault:"http://localhost:8080"`
	APITimeout  time.Duration `env:"USERS_API_TIMEOUT" envDefault:"10s"`
	SecretKey   string        `env:"SECRET_KEY,required,notEmpty"`
	WorkerCount int           `env:"WORKER_COUNT" envDefault:"2"`
	SessionIdle time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`
	// SecureCookies 在 TLS 後方時開啟
	SecureCookies bool `env:"SECURE_COOKIES"`
	Debug         bool `env:"DEBUG"`
	Redis         Redis
}

func LoadAPI() (API, error) {
	var cfg API
	if err := ParseEnv(&cfg); err != nil {
		return API{}, err
	}
	return cfg, nil
}

func LoadConsole() (Console, error) {
	var cfg Console
	if err := ParseEnv(&cfg); err != nil {
		return Console{}, err
	}
	if cfg.WorkerCount <= 0 {
		return Console{}, fmt.Errorf("invalid WORKER_COUNT: %d", cfg.WorkerCount)
	}
	return cfg, nil
}
