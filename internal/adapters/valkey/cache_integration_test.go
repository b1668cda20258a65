//go:build integration

package valkey_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/samirrijal/expedition-planner/internal/adapters/valkey"
)

func TestCache_RoundTrip(t *testing.T) {
	addr := os.Getenv("EXPEDITION_VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	c, err := valkey.New(addr, "expedition-test:")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	if err := c.Set(ctx, "elevation:70.00000:20.00000", []byte("312"), 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "elevation:70.00000:20.00000")
	if err != nil || string(got) != "312" {
		t.Fatalf("get = %q, %v", got, err)
	}
	if err := c.Delete(ctx, "elevation:70.00000:20.00000"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "elevation:70.00000:20.00000"); !errors.Is(err, valkey.ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
}
