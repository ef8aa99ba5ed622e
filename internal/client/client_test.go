package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admin-console/internal/api"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, setup func(e *echo.Echo)) *Client {
	t.Helper()
	e := echo.New()
	setup(e)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	c, err := New(Options{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c
}

func TestNewDefaults(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", c.base.String())
	require.Equal(t, 10*time.Second, c.http.Timeout)
	require.Equal(t, "admin-console", c.userAgent)

	hc := &http.Client{}
	c, err = New(Options{HTTPClient: hc})
	require.NoError(t, err)
	require.Same(t, hc, c.http)

	_, err = New(Options{BaseURL: "://bad"})
	require.Error(t, err)
}

func TestCreateUser(t *testing.T) {
	var got map[string]any
	var auth string
	c := newServer(t, func(e *echo.Echo) {
		e.POST("/api/v1/users", func(ctx echo.Context) error {
			auth = ctx.Request().Header.Get("Authorization")
			require.NoError(t, json.NewDecoder(ctx.Request().Body).Decode(&got))
			return ctx.JSON(http.StatusOK, api.User{ID: 3, Email: "a@b.com", IsActive: true})
		})
	})

	ctx := WithToken(context.Background(), "tok")
	user, err := c.CreateUser(ctx, api.UserCreate{Email: "a@b.com", Password: "12345678", IsActive: true})
	require.NoError(t, err)
	require.Equal(t, 3, user.ID)
	require.Equal(t, "Bearer tok", auth)
	require.Equal(t, "a@b.com", got["email"])
	require.Equal(t, "12345678", got["password"])
	require.NotContains(t, got, "confirm_password")
}

func TestCreateUserDetailError(t *testing.T) {
	c := newServer(t, func(e *echo.Echo) {
		e.POST("/api/v1/users", func(ctx echo.Context) error {
			return ctx.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "Email already exists"})
		})
	})

	_, err := c.CreateUser(context.Background(), api.UserCreate{Email: "a@b.com"})
	var de *api.DetailError
	require.True(t, errors.As(err, &de))
	require.Equal(t, http.StatusBadRequest, de.StatusCode)
	require.Equal(t, "Email already exists", de.Detail)
}

func TestErrorWithoutDetail(t *testing.T) {
	c := newServer(t, func(e *echo.Echo) {
		e.GET("/api/v1/users", func(ctx echo.Context) error {
			return ctx.String(http.StatusBadGateway, "<html>oops</html>")
		})
	})
	_, err := c.ListUsers(context.Background(), 0, 10)
	require.Equal(t, http.StatusText(http.StatusBadGateway), api.Detail(err))
}

func TestListUsers(t *testing.T) {
	c := newServer(t, func(e *echo.Echo) {
		e.GET("/api/v1/users", func(ctx echo.Context) error {
			require.Equal(t, "5", ctx.QueryParam("skip"))
			require.Equal(t, "20", ctx.QueryParam("limit"))
			return ctx.JSON(http.StatusOK, api.UsersPublic{Data: []api.User{{ID: 1}, {ID: 2}}, Count: 2})
		})
	})
	users, err := c.ListUsers(context.Background(), 5, 20)
	require.NoError(t, err)
	require.Equal(t, 2, users.Count)
	require.Len(t, users.Data, 2)
}

func TestLogin(t *testing.T) {
	c := newServer(t, func(e *echo.Echo) {
		e.POST("/api/v1/login/access-token", func(ctx echo.Context) error {
			if ctx.FormValue("username") != "admin@example.com" || ctx.FormValue("password") != "pw" {
				return ctx.JSON(http.StatusBadRequest, api.ErrorResponse{Detail: "Incorrect email or password"})
			}
			return ctx.JSON(http.StatusOK, api.Token{AccessToken: "jwt", TokenType: "bearer"})
		})
	})
	tok, err := c.Login(context.Background(), "admin@example.com", "pw")
	require.NoError(t, err)
	require.Equal(t, "jwt", tok.AccessToken)

	_, err = c.Login(context.Background(), "admin@example.com", "bad")
	require.Equal(t, "Incorrect email or password", api.Detail(err))
}

func TestDecodeError(t *testing.T) {
	c := newServer(t, func(e *echo.Echo) {
		e.GET("/api/v1/users", func(ctx echo.Context) error {
			return ctx.String(http.StatusOK, "not json")
		})
	})
	_, err := c.ListUsers(context.Background(), 0, 1)
	require.Error(t, err)
	var de *api.DetailError
	require.False(t, errors.As(err, &de))
}

func TestTransportError(t *testing.T) {
	c, err := New(Options{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)
	_, err = c.ListUsers(context.Background(), 0, 1)
	require.Error(t, err)
}

func TestTokenFrom(t *testing.T) {
	require.Empty(t, TokenFrom(context.Background()))
	require.Equal(t, "x", TokenFrom(WithToken(context.Background(), "x")))
}
