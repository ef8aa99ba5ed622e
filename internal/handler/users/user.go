// File: internal/handler/users/user.go
package users

import (
	"errors"
	"net/http"
	"strings"

	"admin-console/internal/api"
	"admin-console/internal/database"
	"admin-console/internal/middleware"
	"admin-console/internal/model"
	"admin-console/internal/repository"
	"admin-console/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	defaultLimit     = 100
	emailTakenDetail = "The user with this email already exists in the system."
)

// 測試時可替換
var (
	hashPassword   = service.HashPassword
	createUser     = repository.CreateUser
	getUserByEmail = repository.GetUserByEmail
	getUserByID    = repository.GetUserByID
	listUsers      = repository.ListUsers
)

func toResponse(u *model.User) api.User {
	return api.User{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		IsSuperuser: u.IsSuperuser,
		IsActive:    u.IsActive,
	}
}

// CreateUserHandler 建立新使用者 (僅限 superuser)
// @Summary     Create user
// @Description 建立新帳號，Email 會轉成小寫；未帶 is_active 時預設啟用
// @Tags        users
// @Accept      json
// @Produce     json
// @Param       request body api.UserCreate true "新使用者"
// @Success     200 {object} api.User
// @Failure     400 {object} api.ErrorResponse "Email 已存在"
// @Failure     422 {object} api.ErrorResponse "欄位驗證失敗"
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /v1/users [post]
func CreateUserHandler(db database.DB, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := api.UserCreate{IsActive: true}
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "invalid request body"})
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: err.Error()})
		}
		req.Email = strings.ToLower(req.Email)
		ctx := c.Request().Context()

		// 先查一次，讓重複 Email 回傳明確訊息
		if _, err := getUserByEmail(ctx, db, req.Email); err == nil {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: emailTakenDetail})
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Error("lookup user by email", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "failed to create user"})
		}

		hash, err := hashPassword(req.Password)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "failed to hash password"})
		}

		user, err := createUser(ctx, db, &model.User{
			Email:          req.Email,
			FullName:       req.FullName,
			HashedPassword: hash,
			IsActive:       req.IsActive,
			IsSuperuser:    req.IsSuperuser,
		})
		// 兩個請求同時建立同一個 Email 時由 unique index 擋下
		if errors.Is(err, repository.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: emailTakenDetail})
		}
		if err != nil {
			log.Error("create user", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "failed to create user"})
		}

		log.Info("user created", zap.Int("user_id", user.ID), zap.Bool("is_superuser", user.IsSuperuser))
		return c.JSON(http.StatusOK, toResponse(user))
	}
}

type listParams struct {
	Skip  int `query:"skip" validate:"gte=0"`
	Limit int `query:"limit" validate:"gte=1,lte=1000"`
}

// ListUsersHandler 分頁列出使用者 (僅限 superuser)
// @Summary     List users
// @Tags        users
// @Produce     json
// @Param       skip  query int false "略過筆數" default(0)
// @Param       limit query int false "每頁筆數" default(100)
// @Success     200 {object} api.UsersPublic
// @Failure     422 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /v1/users [get]
func ListUsersHandler(db database.DB, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		params := listParams{Limit: defaultLimit}
		if err := (&echo.DefaultBinder{}).BindQueryParams(c, &params); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: "invalid query parameters"})
		}
		if err := c.Validate(&params); err != nil {
			return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: err.Error()})
		}

		users, count, err := listUsers(c.Request().Context(), db, params.Skip, params.Limit)
		if err != nil {
			log.Error("list users", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "failed to list users"})
		}

		resp := api.UsersPublic{Data: make([]api.User, 0, len(users)), Count: count}
		for i := range users {
			resp.Data = append(resp.Data, toResponse(&users[i]))
		}
		return c.JSON(http.StatusOK, resp)
	}
}

// ReadUserMeHandler 回傳令牌所屬的使用者
// @Summary     Read current user
// @Tags        users
// @Produce     json
// @Success     200 {object} api.User
// @Failure     400 {object} api.ErrorResponse "帳號已停用"
// @Failure     404 {object} api.ErrorResponse
// @Security    ApiKeyAuth
// @Router      /v1/users/me [get]
func ReadUserMeHandler(db database.DB, log *zap.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, ok := c.Get(middleware.ContextUserKey).(*service.CustomClaims)
		if !ok {
			return c.JSON(http.StatusUnauthorized, api.ErrorResponse{Detail: "Not authenticated"})
		}
		user, err := getUserByID(c.Request().Context(), db, claims.UserID)
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, api.ErrorResponse{Detail: "User not found"})
		}
		if err != nil {
			log.Error("lookup user by id", zap.Int("user_id", claims.UserID), zap.Error(err))
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Detail: "failed to read user"})
		}
		if !user.IsActive {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "Inactive user"})
		}
		return c.JSON(http.StatusOK, toResponse(user))
	}
}
