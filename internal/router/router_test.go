package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admin-console/internal/cache"
	"admin-console/internal/database"
	"admin-console/internal/handler/console"
	"admin-console/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func routeSet(e *echo.Echo) map[string]struct{} {
	got := map[string]struct{}{}
	for _, r := range e.Routes() {
		got[r.Method+" "+r.Path] = struct{}{}
	}
	return got
}

func newTokens(t *testing.T) *service.Tokens {
	tokens, err := service.NewTokens("secret", time.Hour)
	require.NoError(t, err)
	return tokens
}

func TestSetupAPI(t *testing.T) {
	e := echo.New()
	SetupAPI(e, &database.FakeDB{}, &cache.FakeCache{}, newTokens(t), zap.NewNop())

	got := routeSet(e)
	expected := []string{
		http.MethodGet + " /api/v1/ping",
		http.MethodPost + " /api/v1/login/access-token",
		http.MethodPost + " /api/v1/users",
		http.MethodGet + " /api/v1/users",
		http.MethodGet + " /api/v1/users/me",
	}
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}

	// 未帶令牌不得建立使用者
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSetupConsole(t *testing.T) {
	e := echo.New()
	SetupConsole(e, console.New(console.Options{}), newTokens(t))

	got := routeSet(e)
	expected := []string{
		http.MethodGet + " /admin/login",
		http.MethodPost + " /admin/login",
		http.MethodGet + " /admin/users",
		http.MethodPost + " /admin/users",
		http.MethodGet + " /admin/users/new",
		http.MethodPost + " /admin/users/new/fields/:field",
		http.MethodPost + " /admin/users/new/toggle/:field",
		http.MethodPost + " /admin/users/new/cancel",
	}
	for _, k := range expected {
		_, ok := got[k]
		require.True(t, ok, "missing route %s", k)
	}

	// 未登入導向登入頁
	req := httptest.NewRequest(http.MethodGet, "/admin/users", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/admin/login", rec.Header().Get(echo.HeaderLocation))
}
