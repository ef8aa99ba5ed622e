package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"admin-console/internal/cache"

	"github.com/redis/go-redis/v9"
)

// FlashTTL bounds how long undelivered toasts survive in the cache.
const FlashTTL = 10 * time.Minute

var (
	jsonMarshal   = json.Marshal
	jsonUnmarshal = json.Unmarshal
)

// Flash queues toasts for one console session until the next page render
// drains them.
type Flash struct {
	cache     cache.Cache
	sessionID string
}

func NewFlash(c cache.Cache, sessionID string) *Flash {
	return &Flash{cache: c, sessionID: sessionID}
}

func flashKey(sessionID string) string {
	return "console:flash:" + sessionID
}

// Notify appends t to the session's pending toasts.
func (f *Flash) Notify(ctx context.Context, t Toast) error {
	pending, err := f.load(ctx)
	if err != nil {
		return err
	}
	pending = append(pending, t)
	payload, err := jsonMarshal(pending)
	if err != nil {
		return fmt.Errorf("Flash.Notify: %w", err)
	}
	if err := f.cache.Set(ctx, flashKey(f.sessionID), payload, FlashTTL).Err(); err != nil {
		return fmt.Errorf("Flash.Notify: %w", err)
	}
	return nil
}

// Drain returns and removes every pending toast, oldest first.
func (f *Flash) Drain(ctx context.Context) ([]Toast, error) {
	pending, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}
	if err := f.cache.Del(ctx, flashKey(f.sessionID)).Err(); err != nil {
		return nil, fmt.Errorf("Flash.Drain: %w", err)
	}
	return pending, nil
}

func (f *Flash) load(ctx context.Context) ([]Toast, error) {
	raw, err := f.cache.Get(ctx, flashKey(f.sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Flash.load: %w", err)
	}
	var pending []Toast
	if err := jsonUnmarshal(raw, &pending); err != nil {
		return nil, fmt.Errorf("Flash.load: %w", err)
	}
	return pending, nil
}
