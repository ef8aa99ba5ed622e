package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"admin-console/internal/api"
	"admin-console/internal/database"
	"admin-console/internal/model"
	"admin-console/internal/repository"
	"admin-console/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// helper to build echo context
func newLoginCtx(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login/access-token", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

type errBinder struct{}

func (errBinder) Bind(i any, c echo.Context) error { return errors.New("bind") }

type errValidator struct{}

func (errValidator) Validate(i any) error { return errors.New("v") }

type okValidator struct{}

func (okValidator) Validate(i any) error { return nil }

func restore() {
	getUserByEmail = repository.GetUserByEmail
	authenticateUser = service.AuthenticateUser
}

func TestLoginHandler(t *testing.T) {
	tokens, err := service.NewTokens("secret", time.Hour)
	require.NoError(t, err)
	log := zap.NewNop()
	db := &database.FakeDB{}

	t.Run("bind error", func(t *testing.T) {
		e := echo.New()
		e.Binder = errBinder{}
		ctx, rec := newLoginCtx(e, "")
		require.NoError(t, LoginHandler(db, tokens, log)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validate error", func(t *testing.T) {
		e := echo.New()
		e.Validator = errValidator{}
		ctx, rec := newLoginCtx(e, "username=a")
		require.NoError(t, LoginHandler(db, tokens, log)(ctx))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unknown user", func(t *testing.T) {
		t.Cleanup(restore)
		e := echo.New()
		e.Validator = okValidator{}
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) {
			return nil, repository.ErrNotFound
		}
		ctx, rec := newLoginCtx(e, "username=a@b.io&password=b")
		require.NoError(t, LoginHandler(db, tokens, log)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"detail":"Incorrect email or password"}`, rec.Body.String())
	})

	t.Run("lookup error", func(t *testing.T) {
		t.Cleanup(restore)
		e := echo.New()
		e.Validator = okValidator{}
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) {
			return nil, errors.New("db")
		}
		ctx, rec := newLoginCtx(e, "username=a@b.io&password=b")
		require.NoError(t, LoginHandler(db, tokens, log)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("inactive", func(t *testing.T) {
		t.Cleanup(restore)
		e := echo.New()
		e.Validator = okValidator{}
		getUserByEmail = func(context.Context, database.DB, string) (*model.User, error) {
			return &model.User{ID: 1}, nil
		}
		authenticateUser = func(model.User, string) error { return service.ErrInactiveUser }
		ctx, rec := newLoginCtx(e, "username=a@b.io&password=b")
		require.NoError(t, LoginHandler(db, tokens, log)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.JSONEq(t, `{"detail":"Inactive user"}`, rec.Body.String())
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		e := echo.New()
		e.Validator = okValidator{}
		hash, err := service.HashPassword("password1")
		require.NoError(t, err)
		var gotEmail string
		getUserByEmail = func(_ context.Context, _ database.DB, email string) (*model.User, error) {
			gotEmail = email
			return &model.User{ID: 3, Email: email, HashedPassword: hash, IsActive: true, IsSuperuser: true}, nil
		}
		ctx, rec := newLoginCtx(e, "username=Admin@Example.com&password=password1")
		require.NoError(t, LoginHandler(db, tokens, log)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "admin@example.com", gotEmail)

		var tok api.Token
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tok))
		require.Equal(t, "bearer", tok.TokenType)
		claims, err := tokens.Verify(tok.AccessToken)
		require.NoError(t, err)
		require.Equal(t, 3, claims.UserID)
		require.True(t, claims.IsSuperuser)
	})
}
