// File: internal/handler/auth/login.go
package auth

import (
	"errors"
	"net/http"
	"strings"

	"admin-console/internal/api"
	"admin-console/internal/database"
	"admin-console/internal/repository"
	"admin-console/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	getUserByEmail   = repository.GetUserByEmail
	authenticateUser = service.AuthenticateUser
)

// LoginHandler 使用 OAuth2 password form 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 使用 Email (username) 與 Password 進行驗證，回傳 bearer 存取令牌
// @Tags        login
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       username formData string true "Email"
// @Param       password formData string true "密碼"
// @Success     200      {object} api.Token
// @Failure     400      {object} api.ErrorResponse
// @Failure     422      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Router      /v1/login/access-token [post]
func LoginHandler(db database.DB, tokens *service.Tokens, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid form data"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: err.Error()})
		}

		user, err := getUserByEmail(c.Request().Context(), db, strings.ToLower(req.Username))
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: service.ErrInvalidCredentials.Error()})
		}
		if err != nil {
			log.Error("lookup user for login", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "login failed"})
		}

		// 密碼錯誤與帳號停用都回 400，訊息不同
		if err := authenticateUser(*user, req.Password); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: err.Error()})
		}

		token, err := tokens.Issue(*user)
		if err != nil {
			log.Error("issue token", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "failed to issue token"})
		}
		return c.JSON(http.StatusOK, api.Token{AccessToken: token, TokenType: "bearer"})
	}
}
