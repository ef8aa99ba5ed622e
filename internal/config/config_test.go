package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type envTestConfig struct {
	Port int `env:"ADMIN_CONSOLE_TEST_PORT" envDefault:"123"`
}

func TestParseEnv(t *testing.T) {
	var cfg envTestConfig
	require.NoError(t, ParseEnv(&cfg))
	require.Equal(t, 123, cfg.Port)

	t.Setenv("ADMIN_CONSOLE_TEST_PORT", "not-an-int")
	require.ErrorContains(t, ParseEnv(&cfg), "parse env:")
}

func TestLoadAPI(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://db")
	t.Setenv("SECRET_KEY", "s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := LoadAPI()
	require.NoError(t, err)
	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "postgres://db", cfg.DatabaseURL)
	require.Equal(t, 192*time.Hour, cfg.TokenTTL)
	require.Equal(t, Redis{Addr: "localhost:6379", DB: 2}, cfg.Redis)
	require.Empty(t, cfg.FirstSuperuser)

	t.Setenv("DATABASE_URL", "")
	_, err = LoadAPI()
	require.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoadConsole(t *testing.T) {
	t.Setenv("SECRET_KEY", "s")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConsole()
	require.NoError(t, err)
	require.Equal(t, ":8081", cfg.Addr)
	require.Equal(t, "http://localhost:8080", cfg.APIURL)
	require.Equal(t, 10*time.Second, cfg.APITimeout)
	require.Equal(t, 2, cfg.WorkerCount)
	require.Equal(t, 30*time.Minute, cfg.SessionIdle)
	require.False(t, cfg.SecureCookies)

	t.Setenv("WORKER_COUNT", "0")
	_, err = LoadConsole()
	require.ErrorContains(t, err, "WORKER_COUNT")

	t.Setenv("WORKER_COUNT", "2")
	t.Setenv("REDIS_ADDR", "")
	_, err = LoadConsole()
	require.ErrorContains(t, err, "REDIS_ADDR")
}
