package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"admin-console/internal/client"
	"admin-console/internal/service"

	"github.com/labstack/echo/v4"
)

const (
	ContextUserKey = "user"
	// TokenCookie 為 console 登入後保存存取令牌的 cookie
	TokenCookie = "console_token"
)

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "Not authenticated")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	return parts[1], nil
}

func extractClaims(c echo.Context, tokens *service.Tokens) (*service.CustomClaims, error) {
	tokenString, err := bearerToken(c)
	if err != nil {
		return nil, err
	}
	claims, err := tokens.Verify(tokenString)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, fmt.Sprintf("Could not validate credentials: %v", err))
	}
	return claims, nil
}

// RequireAuth 驗證 Bearer 令牌並將 claims 放入 context
func RequireAuth(tokens *service.Tokens) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := extractClaims(c, tokens)
			if err != nil {
				return err
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// RequireSuperuser 只允許 is_superuser 的令牌
func RequireSuperuser(tokens *service.Tokens) echo.MiddlewareFunc {
	auth := RequireAuth(tokens)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return auth(func(c echo.Context) error {
			claims := c.Get(ContextUserKey).(*service.CustomClaims)
			if !claims.IsSuperuser {
				return echo.NewHTTPError(http.StatusForbidden, "The user doesn't have enough privileges")
			}
			return next(c)
		})
	}
}

// RequireConsoleLogin 從 cookie 讀取令牌；未登入或非 superuser 時導向登入頁。
// 令牌同時放入 request context，供 users API client 轉送。
func RequireConsoleLogin(tokens *service.Tokens, loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(TokenCookie)
			if err != nil || cookie.Value == "" {
				return toLogin(c, loginPath)
			}
			claims, err := tokens.Verify(cookie.Value)
			if err != nil || !claims.IsSuperuser {
				return toLogin(c, loginPath)
			}
			c.Set(ContextUserKey, claims)
			req := c.Request()
			c.SetRequest(req.WithContext(client.WithToken(req.Context(), cookie.Value)))
			return next(c)
		}
	}
}

// htmx 請求改用 HX-Redirect 整頁跳轉，避免登入頁被換進局部區塊
func toLogin(c echo.Context, loginPath string) error {
	if c.Request().Header.Get("HX-Request") == "true" {
		c.Response().Header().Set("HX-Redirect", loginPath)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, loginPath)
}
