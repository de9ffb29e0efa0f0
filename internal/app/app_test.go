package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/notexe/reminders/internal/app"
	"github.com/notexe/reminders/internal/clock"
	"github.com/notexe/reminders/internal/notify"
	"github.com/notexe/reminders/internal/reminder"
)

func writeConfig(t *testing.T, permission string) string {
	t.Helper()
	for _, key := range []string{"REMINDERS_DB_PATH", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := "storage:\n  path: " + filepath.Join(dir, "data", "reminders.db") + "\n" +
		"notify:\n  permission: " + permission + "\n" +
		"log:\n  file: " + filepath.Join(dir, "logs", "reminders.log") + "\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestNewDeliversAndPersists(t *testing.T) {
	ctx := context.Background()
	path := writeConfig(t, "granted")
	start := time.Date(2026, 10, 19, 8, 0, 0, 0, time.Local)
	clk := clock.NewFake(start)
	var out bytes.Buffer

	a, err := app.New(ctx, app.Options{ConfigPath: path, NoColor: true, ConsoleOut: &out, Clock: clk})
	if err != nil {
		t.Fatalf("new app: %v", err)
	}

	if _, err := a.Engine.Add(ctx, reminder.AddInput{
		Title: "Stretch",
		Date:  start,
		Time:  "08:01",
	}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if a.Scheduler.Active() != 1 {
		t.Fatalf("expected one armed timer, got %d", a.Scheduler.Active())
	}

	clk.Advance(2 * time.Minute)
	if !strings.Contains(out.String(), "Stretch") {
		t.Fatalf("console notification missing: %q", out.String())
	}

	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := app.New(ctx, app.Options{ConfigPath: path, NoColor: true, ConsoleOut: &out, Clock: clk})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got := reopened.Engine.Reminders()
	if len(got) != 1 || got[0].Title != "Stretch" {
		t.Fatalf("reminders not persisted: %+v", got)
	}
}

func TestPermissionModes(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewFake(time.Date(2026, 10, 19, 8, 0, 0, 0, time.Local))

	cases := []struct {
		permission string
		headless   bool
		want       notify.Permission
	}{
		{"ask", true, notify.PermissionGranted},
		{"ask", false, notify.PermissionDefault},
		{"denied", true, notify.PermissionDenied},
		{"granted", false, notify.PermissionGranted},
	}
	for _, tc := range cases {
		path := writeConfig(t, tc.permission)
		a, err := app.New(ctx, app.Options{ConfigPath: path, Ephemeral: true, Headless: tc.headless, ConsoleOut: &bytes.Buffer{}, Clock: clk})
		if err != nil {
			t.Fatalf("%s: new app: %v", tc.permission, err)
		}
		if got := a.Gate.Permission(); got != tc.want {
			t.Errorf("%s headless=%v: permission = %s, want %s", tc.permission, tc.headless, got, tc.want)
		}
		a.Close()
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, "sometimes")
	if _, err := app.New(context.Background(), app.Options{ConfigPath: path, Ephemeral: true}); err == nil {
		t.Fatalf("expected invalid configuration error")
	}
}
