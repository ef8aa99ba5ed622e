// Package store holds the console-wide list of users and the operation that
// creates new ones.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"admin-console/internal/api"
	"admin-console/internal/cache"
	"admin-console/internal/worker"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	usersCacheKey = "console:users"
	// PageSize is how many users a refresh fetches.
	PageSize = 100
	cacheTTL = 5 * time.Minute
)

// UsersAPI is the slice of the users API client the store needs.
type UsersAPI interface {
	CreateUser(ctx context.Context, req api.UserCreate) (*api.User, error)
	ListUsers(ctx context.Context, skip, limit int) (*api.UsersPublic, error)
}

type Users struct {
	api   UsersAPI
	cache cache.Cache
	pool  worker.Pool
	log   *zap.Logger

	mu     sync.RWMutex
	users  []api.User
	loaded bool
}

func NewUsers(a UsersAPI, c cache.Cache, p worker.Pool, log *zap.Logger) *Users {
	if log == nil {
		log = zap.NewNop()
	}
	return &Users{api: a, cache: c, pool: p, log: log}
}

// CreateUser creates the user remotely, records it in the list and schedules
// a background refresh so server-side defaults show up.
func (s *Users) CreateUser(ctx context.Context, req api.UserCreate) (*api.User, error) {
	user, err := s.api.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.users = upsert(s.users, *user)
	snapshot := append([]api.User(nil), s.users...)
	s.mu.Unlock()
	s.save(ctx, snapshot)

	bg := context.WithoutCancel(ctx)
	if err := s.pool.Submit(func() {
		if err := s.Refresh(bg); err != nil {
			s.log.Warn("refresh users after create", zap.Error(err))
		}
	}); err != nil {
		s.log.Warn("schedule users refresh", zap.Error(err))
	}
	return user, nil
}

// List returns the known users, loading them from the cache or the API on
// first use.
func (s *Users) List(ctx context.Context) ([]api.User, error) {
	s.mu.RLock()
	if s.loaded {
		out := append([]api.User(nil), s.users...)
		s.mu.RUnlock()
		return out, nil
	}
	s.mu.RUnlock()

	if cached, ok := s.load(ctx); ok {
		s.mu.Lock()
		s.users = cached
		s.loaded = true
		s.mu.Unlock()
		return append([]api.User(nil), cached...), nil
	}

	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.User(nil), s.users...), nil
}

// Refresh replaces the list with the first page from the API.
func (s *Users) Refresh(ctx context.Context) error {
	page, err := s.api.ListUsers(ctx, 0, PageSize)
	if err != nil {
		return fmt.Errorf("Users.Refresh: %w", err)
	}
	users := append([]api.User(nil), page.Data...)

	s.mu.Lock()
	s.users = users
	s.loaded = true
	s.mu.Unlock()
	s.save(ctx, users)
	return nil
}

func (s *Users) save(ctx context.Context, users []api.User) {
	payload, err := json.Marshal(users)
	if err != nil {
		s.log.Error("encode users snapshot", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, usersCacheKey, payload, cacheTTL).Err(); err != nil {
		s.log.Warn("cache users snapshot", zap.Error(err))
	}
}

func (s *Users) load(ctx context.Context) ([]api.User, bool) {
	raw, err := s.cache.Get(ctx, usersCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.Warn("read users snapshot", zap.Error(err))
		}
		return nil, false
	}
	var users []api.User
	if err := json.Unmarshal(raw, &users); err != nil {
		s.log.Warn("decode users snapshot", zap.Error(err))
		return nil, false
	}
	return users, true
}

func upsert(users []api.User, u api.User) []api.User {
	for i := range users {
		if users[i].ID == u.ID {
			users[i] = u
			return users
		}
	}
	return append(users, u)
}
