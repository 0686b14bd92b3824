package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNilClientBehavesAsEmptyCache(t *testing.T) {
	var r *RedisClient
	ctx := context.Background()

	if r.Enabled() {
		t.Error("nil client must report disabled")
	}

	var dest map[string]string
	if err := r.Get(ctx, "report:1", &dest); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("expected cache miss, got %v", err)
	}
	if err := r.Set(ctx, "report:1", map[string]string{"a": "b"}, time.Minute); err == nil {
		t.Error("expected error when setting without a connection")
	}
	if err := r.Delete(ctx, "report:1"); err != nil {
		t.Errorf("delete on disabled cache should be a no-op, got %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("close on disabled cache should be a no-op, got %v", err)
	}
}

func TestNewRedisClientInvalidURL(t *testing.T) {
	if c := NewRedisClient("not a redis url", zerolog.Nop()); c != nil {
		t.Error("expected nil client for invalid url")
	}
}

func TestReportKey(t *testing.T) {
	if got := ReportKey(42); got != "report:42" {
		t.Errorf("unexpected key %q", got)
	}
}
