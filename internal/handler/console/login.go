package console

import (
	"net/http"
	"strings"

	"admin-console/internal/api"
	"admin-console/internal/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type loginPage struct {
	Username string
	Error    string
}

// LoginPage GET /admin/login
func (h *Handler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", loginPage{})
}

// Login POST /admin/login
// 向 users API 取得令牌並寫入 cookie
func (h *Handler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		return c.Render(http.StatusUnprocessableEntity, "login.html",
			loginPage{Username: username, Error: "Email and password are required"})
	}

	token, err := h.auth.Login(c.Request().Context(), username, password)
	if err != nil {
		h.log.Warn("console login failed", zap.String("username", username), zap.Error(err))
		return c.Render(http.StatusBadRequest, "login.html", loginPage{Username: username, Error: api.Detail(err)})
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token.AccessToken,
		Path:     cookiePath,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return redirect(c, UsersPath)
}
