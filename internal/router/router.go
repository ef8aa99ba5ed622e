// File: internal/router/router.go
package router

import (
	"admin-console/internal/cache"
	"admin-console/internal/database"
	"admin-console/internal/handler"
	"admin-console/internal/handler/auth"
	"admin-console/internal/handler/console"
	"admin-console/internal/handler/users"
	"admin-console/internal/middleware"
	"admin-console/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SetupAPI 註冊 users API 路由
func SetupAPI(e *echo.Echo, db database.DB, cch cache.Cache, tokens *service.Tokens, log *zap.Logger) {
	v1 := e.Group("/api/v1")

	// 健康檢查
	v1.GET("/ping", handler.PingHandler(db, cch))

	// OAuth2 password flow 登入
	v1.POST("/login/access-token", auth.LoginHandler(db, tokens, log))

	// 任何已登入使用者
	v1.GET("/users/me", users.ReadUserMeHandler(db, log), middleware.RequireAuth(tokens))

	// superuser 專屬
	apiUsers := v1.Group("/users", middleware.RequireSuperuser(tokens))
	apiUsers.POST("", users.CreateUserHandler(db, log))
	apiUsers.GET("", users.ListUsersHandler(db, log))
}

// SetupConsole 註冊管理介面路由；除登入頁外皆需 superuser 令牌
func SetupConsole(e *echo.Echo, h *console.Handler, tokens *service.Tokens) {
	e.GET(console.LoginPath, h.LoginPage)
	e.POST(console.LoginPath, h.Login)

	pages := e.Group(console.UsersPath, middleware.RequireConsoleLogin(tokens, console.LoginPath))
	pages.GET("", h.UsersPage)
	pages.POST("", h.Submit)
	pages.GET("/new", h.OpenDialog)
	pages.POST("/new/fields/:field", h.BlurField)
	pages.POST("/new/toggle/:field", h.ToggleField)
	pages.POST("/new/cancel", h.CancelDialog)
}
