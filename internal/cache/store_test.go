package cache

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNewRedisStoreRejectsBadURL(t *testing.T) {
	t.Parallel()

	if _, err := NewRedisStore(context.Background(), "not-a-redis-url"); err == nil {
		t.Fatalf("expected parse error")
	}
}

// memoryRedis answers GET and SET from a map so the client never dials.
type memoryRedis struct {
	data map[string]string
	args [][]any
}

func (m *memoryRedis) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

func (m *memoryRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		m.args = append(m.args, cmd.Args())
		switch c := cmd.(type) {
		case *redis.StringCmd:
			value, ok := m.data[fmt.Sprint(c.Args()[1])]
			if !ok {
				c.SetErr(redis.Nil)
				return redis.Nil
			}
			c.SetVal(value)
			return nil
		case *redis.StatusCmd:
			if strings.EqualFold(c.Name(), "set") {
				m.data[fmt.Sprint(c.Args()[1])] = fmt.Sprint(c.Args()[2])
				c.SetVal("OK")
				return nil
			}
		}
		return next(ctx, cmd)
	}
}

func (m *memoryRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newMemoryRedisStore(t *testing.T) (*RedisStore, *memoryRedis) {
	t.Helper()

	fake := &memoryRedis{data: map[string]string{}}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(fake)
	t.Cleanup(func() { _ = client.Close() })
	return &RedisStore{client: client}, fake
}

func TestRedisStoreMissThenSaveThenHit(t *testing.T) {
	t.Parallel()

	store, fake := newMemoryRedisStore(t)
	ctx := context.Background()

	value, ok, err := store.Load(ctx, "en:ja:cat")
	if err != nil || ok || value != "" {
		t.Fatalf("expected clean miss, got %q %v %v", value, ok, err)
	}

	entry := Entry{Key: "en:ja:cat", Original: "cat", Translation: "猫", FromLang: "en", ToLang: "ja", Provider: "lingva"}
	if err := store.Save(ctx, entry, time.Hour); err != nil {
		t.Fatalf("save: %v", err)
	}
	last := fake.args[len(fake.args)-1]
	if len(last) < 5 || fmt.Sprint(last[3]) != "ex" || fmt.Sprint(last[4]) != "3600" {
		t.Fatalf("expected SET with a one hour expiry, got %v", last)
	}

	value, ok, err = store.Load(ctx, "en:ja:cat")
	if err != nil || !ok || value != "猫" {
		t.Fatalf("expected hit, got %q %v %v", value, ok, err)
	}
}

func TestPostgresStoreWithoutPool(t *testing.T) {
	t.Parallel()

	store := NewPostgresStore(nil)
	ctx := context.Background()

	value, ok, err := store.Load(ctx, "en:ja:cat")
	if err != nil || ok || value != "" {
		t.Fatalf("expected no-rows to map to a clean miss, got %q %v %v", value, ok, err)
	}
	if err := store.Save(ctx, Entry{Key: "en:ja:cat", Translation: "猫"}, time.Hour); err == nil {
		t.Fatalf("expected save error without a pool")
	}
	if _, err := store.Prune(ctx); err == nil {
		t.Fatalf("expected prune error without a pool")
	}
	if _, err := store.Count(ctx); err == nil {
		t.Fatalf("expected count error without a pool")
	}
	if err := store.Ping(ctx); err == nil {
		t.Fatalf("expected ping error without a pool")
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
