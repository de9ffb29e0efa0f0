package reminder_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/notexe/reminders/internal/reminder"
)

// Needs a running server, e.g. REMINDERS_TEST_REDIS_ADDR=localhost:6379.
func newRedisStore(t *testing.T) *reminder.RedisStore {
	t.Helper()
	addr := os.Getenv("REMINDERS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("REMINDERS_TEST_REDIS_ADDR not set")
	}

	key := fmt.Sprintf("reminders-test-%d", time.Now().UnixNano())
	store, err := reminder.NewRedisStore(addr, "", 0, key)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		store.Save(context.Background(), nil)
		store.Close()
	})
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newRedisStore(t)
	ctx := context.Background()

	if got := store.Load(ctx); len(got) != 0 {
		t.Fatalf("fresh key must load empty, got %d", len(got))
	}

	want := sampleReminders()
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	assertSameReminders(t, store.Load(ctx), want)
}

func TestRedisStoreUnreachable(t *testing.T) {
	if _, err := reminder.NewRedisStore("127.0.0.1:1", "", 0, ""); err == nil {
		t.Fatalf("expected connection error")
	}
}
