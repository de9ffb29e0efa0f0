package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/notexe/reminders/internal/notify"
	"github.com/notexe/reminders/internal/reminder"
)

type recorder struct {
	got []notify.Notification
	err error
}

func (r *recorder) Notify(_ context.Context, n notify.Notification) error {
	r.got = append(r.got, n)
	return r.err
}

func TestForReminderUsesTwelveHourBody(t *testing.T) {
	cases := map[string]string{
		"00:05": "Standup at 12:05 AM",
		"09:30": "Standup at 9:30 AM",
		"12:00": "Standup at 12:00 PM",
		"23:59": "Standup at 11:59 PM",
	}
	for in, want := range cases {
		n := notify.ForReminder(reminder.Reminder{Title: "Standup", Time: in})
		if n.Title != "Standup" || n.Body != want {
			t.Fatalf("time %s: got %+v, want body %q", in, n, want)
		}
	}
}

func TestParsePushDefaults(t *testing.T) {
	n := notify.ParsePush(nil)
	if n.Title != notify.DefaultPushTitle || n.Body != notify.DefaultPushBody {
		t.Fatalf("empty payload: %+v", n)
	}

	n = notify.ParsePush([]byte(`{"title":"Pay rent"}`))
	if n.Title != "Pay rent" || n.Body != notify.DefaultPushBody {
		t.Fatalf("partial payload: %+v", n)
	}

	n = notify.ParsePush([]byte(`not json`))
	if n.Title != notify.DefaultPushTitle {
		t.Fatalf("malformed payload: %+v", n)
	}
}

func TestGateDropsUntilGranted(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	gate := notify.NewGate(rec)

	if err := gate.Notify(ctx, notify.Notification{Title: "a"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(rec.got) != 0 {
		t.Fatalf("default permission must drop notifications")
	}

	asked := 0
	ask := func(context.Context) (bool, error) {
		asked++
		return true, nil
	}
	if p := gate.RequestPermission(ctx, ask); p != notify.PermissionGranted {
		t.Fatalf("permission = %s", p)
	}
	gate.RequestPermission(ctx, ask)
	if asked != 1 {
		t.Fatalf("permission must be requested once, asked %d times", asked)
	}

	if err := gate.Notify(ctx, notify.Notification{Title: "b"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(rec.got) != 1 || rec.got[0].Title != "b" {
		t.Fatalf("granted gate must forward, got %+v", rec.got)
	}
}

func TestGateAskErrorDenies(t *testing.T) {
	gate := notify.NewGate(&recorder{})
	p := gate.RequestPermission(context.Background(), func(context.Context) (bool, error) {
		return false, errors.New("no tty")
	})
	if p != notify.PermissionDenied {
		t.Fatalf("permission = %s", p)
	}
}

func TestMultiJoinsErrors(t *testing.T) {
	ok := &recorder{}
	bad := &recorder{err: errors.New("boom")}

	err := notify.Multi{bad, ok}.Notify(context.Background(), notify.Notification{Title: "x"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(ok.got) != 1 {
		t.Fatalf("failure of one notifier must not skip the others")
	}
}

func TestConsoleWritesPlainLine(t *testing.T) {
	var buf bytes.Buffer
	c := notify.NewConsole(&buf, false)
	if err := c.Notify(context.Background(), notify.Notification{Title: "Tea", Body: "Tea at 4:00 PM"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if !strings.Contains(buf.String(), "Tea — Tea at 4:00 PM") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestTelegramSendsHTMLMessage(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tg := notify.NewTelegram("TOKEN", "42", srv.URL, time.Second)
	if err := tg.Notify(context.Background(), notify.Notification{Title: "A<B", Body: "A<B at 1:00 PM"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if got["chat_id"] != "42" || got["parse_mode"] != "HTML" {
		t.Fatalf("unexpected request %+v", got)
	}
	if got["text"] != "<b>A&lt;B</b>\nA&lt;B at 1:00 PM" {
		t.Fatalf("unexpected text %q", got["text"])
	}
}

func TestTelegramAPIErrorIsNotificationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":false,"description":"chat not found"}`))
	}))
	defer srv.Close()

	err := notify.NewTelegram("T", "1", srv.URL, time.Second).Notify(context.Background(), notify.Notification{Title: "x"})
	if !errors.Is(err, notify.ErrNotification) {
		t.Fatalf("expected ErrNotification, got %v", err)
	}
	if !strings.Contains(err.Error(), "chat not found") {
		t.Fatalf("error must carry API description: %v", err)
	}
}
