package cache

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
)

func stubRedisInit(t *testing.T) *string {
	t.Helper()

	origNewClient := newRedisClient
	origPing := pingRedis
	t.Cleanup(func() {
		newRedisClient = origNewClient
		pingRedis = origPing
		Client = nil
	})

	var capturedAddr string
	newRedisClient = func(opts *redis.Options) *redis.Client {
		capturedAddr = opts.Addr
		return redis.NewClient(opts)
	}
	pingRedis = func(ctx context.Context, client *redis.Client) error {
		return nil
	}
	return &capturedAddr
}

func TestInitRedisWithCustomAddr(t *testing.T) {
	t.Setenv("REDIS_URL", "cache-host:9999")

	addr := stubRedisInit(t)
	InitRedis(context.Background())
	if *addr != "cache-host:9999" {
		t.Fatalf("expected custom addr, got %s", *addr)
	}
	if Client == nil {
		t.Fatal("expected client to be set")
	}
}

func TestInitRedisDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "")

	addr := stubRedisInit(t)
	InitRedis(context.Background())
	if *addr != "localhost:6379" {
		t.Fatalf("expected default addr, got %s", *addr)
	}
}

func TestInitRedisParsesURLScheme(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://:secret@cache-host:6380/2")

	addr := stubRedisInit(t)
	InitRedis(context.Background())
	if *addr != "cache-host:6380" {
		t.Fatalf("expected parsed addr, got %s", *addr)
	}
}
