package storage

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/logging"
)

func getRedisClient(t *testing.T) *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	return client
}

func TestRedisAdapter_SetGetDelete(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	adapter := NewRedisAdapter(client, "test")

	// Setup
	client.Del(ctx, "storefront:test:token")

	if _, ok, err := adapter.Get(ctx, "token"); err != nil || ok {
		t.Fatalf("expected missing key, ok=%v err=%v", ok, err)
	}

	if err := adapter.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}

	// Verify the key is namespaced
	raw, _ := client.Get(ctx, "storefront:test:token").Result()
	if raw != "abc" {
		t.Errorf("expected namespaced key, got %q", raw)
	}

	if err := adapter.Delete(ctx, "token"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := adapter.Get(ctx, "token"); ok {
		t.Error("expected key deleted")
	}
}

func TestRedisAdapter_CartRoundTrip(t *testing.T) {
	client := getRedisClient(t)
	defer client.Close()

	ctx := context.Background()
	store := NewCartStore(NewRedisAdapter(client, "test"), logging.Discard())

	// Setup
	client.Del(ctx, "storefront:test:"+CartKey)

	cart := domain.Cart{}.Add(domain.Product{ID: "p1", Price: 200}).Increase("p1")
	if err := store.Save(ctx, cart); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := store.Load(ctx)
	if len(got) != 1 || got[0].Quantity != 2 {
		t.Errorf("unexpected cart: %+v", got)
	}

	// Cleanup
	client.Del(ctx, "storefront:test:"+CartKey)
}
