package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"admin-console/internal/api"
	"admin-console/internal/cache"
	"admin-console/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	createFn func(ctx context.Context, req api.UserCreate) (*api.User, error)
	listFn   func(ctx context.Context, skip, limit int) (*api.UsersPublic, error)
	lists    int
}

func (f *fakeAPI) CreateUser(ctx context.Context, req api.UserCreate) (*api.User, error) {
	return f.createFn(ctx, req)
}

func (f *fakeAPI) ListUsers(ctx context.Context, skip, limit int) (*api.UsersPublic, error) {
	f.lists++
	return f.listFn(ctx, skip, limit)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryFake()
	fa := &fakeAPI{
		createFn: func(_ context.Context, req api.UserCreate) (*api.User, error) {
			return &api.User{ID: 2, Email: req.Email}, nil
		},
		listFn: func(_ context.Context, skip, limit int) (*api.UsersPublic, error) {
			require.Equal(t, 0, skip)
			require.Equal(t, PageSize, limit)
			return &api.UsersPublic{Data: []api.User{{ID: 1}, {ID: 2, Email: "b@c.com", IsActive: true}}, Count: 2}, nil
		},
	}
	s := NewUsers(fa, c, worker.Inline{}, nil)

	u, err := s.CreateUser(ctx, api.UserCreate{Email: "b@c.com"})
	require.NoError(t, err)
	require.Equal(t, 2, u.ID)
	require.Equal(t, 1, fa.lists)

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.True(t, users[1].IsActive)

	raw, err := c.Get(ctx, usersCacheKey).Bytes()
	require.NoError(t, err)
	var cached []api.User
	require.NoError(t, json.Unmarshal(raw, &cached))
	require.Len(t, cached, 2)
}

func TestCreateUserError(t *testing.T) {
	fa := &fakeAPI{createFn: func(context.Context, api.UserCreate) (*api.User, error) {
		return nil, api.NewDetailError(http.StatusBadRequest, "Email already exists")
	}}
	s := NewUsers(fa, cache.NewMemoryFake(), worker.Inline{}, nil)
	_, err := s.CreateUser(context.Background(), api.UserCreate{})
	require.Equal(t, "Email already exists", api.Detail(err))
	require.Zero(t, fa.lists)
}

func TestCreateUserRefreshFailureIsLogged(t *testing.T) {
	fa := &fakeAPI{
		createFn: func(context.Context, api.UserCreate) (*api.User, error) { return &api.User{ID: 5}, nil },
		listFn: func(context.Context, int, int) (*api.UsersPublic, error) {
			return nil, errors.New("down")
		},
	}
	p := worker.NewPool(1, nil)
	p.Stop()
	s := NewUsers(fa, cache.NewMemoryFake(), p, nil)
	u, err := s.CreateUser(context.Background(), api.UserCreate{})
	require.NoError(t, err)
	require.Equal(t, 5, u.ID)

	s = NewUsers(fa, cache.NewMemoryFake(), worker.Inline{}, nil)
	_, err = s.CreateUser(context.Background(), api.UserCreate{})
	require.NoError(t, err)
}

func TestListFromCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryFake()
	payload, _ := json.Marshal([]api.User{{ID: 7, Email: "x@y.com"}})
	require.NoError(t, c.Set(ctx, usersCacheKey, payload, 0).Err())

	fa := &fakeAPI{listFn: func(context.Context, int, int) (*api.UsersPublic, error) {
		t.Fatal("api should not be called")
		return nil, nil
	}}
	s := NewUsers(fa, c, worker.Inline{}, nil)
	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []api.User{{ID: 7, Email: "x@y.com"}}, users)

	// 第二次直接走記憶體
	users, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
}

func TestListFallsBackToAPI(t *testing.T) {
	ctx := context.Background()
	broken := &cache.FakeCache{
		GetFn: func(context.Context, string) *redis.StringCmd {
			return redis.NewStringResult("", errors.New("down"))
		},
		SetFn: func(context.Context, string, any, time.Duration) *redis.StatusCmd {
			return redis.NewStatusResult("", errors.New("down"))
		},
	}
	fa := &fakeAPI{listFn: func(context.Context, int, int) (*api.UsersPublic, error) {
		return &api.UsersPublic{Data: []api.User{{ID: 1}}, Count: 1}, nil
	}}
	s := NewUsers(fa, broken, worker.Inline{}, nil)
	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	garbage := cache.NewMemoryFake()
	require.NoError(t, garbage.Set(ctx, usersCacheKey, "{", 0).Err())
	s = NewUsers(fa, garbage, worker.Inline{}, nil)
	users, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	failing := &fakeAPI{listFn: func(context.Context, int, int) (*api.UsersPublic, error) {
		return nil, errors.New("down")
	}}
	s = NewUsers(failing, cache.NewMemoryFake(), worker.Inline{}, nil)
	_, err = s.List(ctx)
	require.Error(t, err)
}

func TestUpsert(t *testing.T) {
	users := []api.User{{ID: 1, Email: "a"}}
	users = upsert(users, api.User{ID: 1, Email: "b"})
	require.Equal(t, []api.User{{ID: 1, Email: "b"}}, users)
	users = upsert(users, api.User{ID: 2})
	require.Len(t, users, 2)
}
