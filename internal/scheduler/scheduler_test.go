package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/notexe/reminders/internal/clock"
	"github.com/notexe/reminders/internal/notify"
	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/scheduler"
)

type countingNotifier struct {
	mu     sync.Mutex
	titles []string
	fail   bool
}

func (c *countingNotifier) Notify(_ context.Context, n notify.Notification) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.titles = append(c.titles, n.Title)
	if c.fail {
		return errors.New("platform declined")
	}
	return nil
}

func (c *countingNotifier) count(title string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.titles {
		if t == title {
			n++
		}
	}
	return n
}

var start = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)

func at(title string, offset time.Duration, freq reminder.Frequency) reminder.Reminder {
	rt := start.Add(offset)
	return reminder.Reminder{
		Date:         reminder.StartOfDay(rt),
		Title:        title,
		Time:         rt.Format("15:04"),
		Frequency:    freq,
		ReminderTime: rt,
	}
}

func TestOnceFiresExactlyOnce(t *testing.T) {
	clk := clock.NewFake(start)
	n := &countingNotifier{}
	s := scheduler.New(clk, n)
	defer s.Stop()

	if got := s.Resync(clk.Now(), []reminder.Reminder{at("once", 90*time.Second, reminder.Once)}); got != 1 {
		t.Fatalf("scheduled = %d", got)
	}

	clk.Advance(89 * time.Second)
	if n.count("once") != 0 {
		t.Fatalf("fired early")
	}
	clk.Advance(time.Second)
	if n.count("once") != 1 {
		t.Fatalf("expected one notification at +90s, got %d", n.count("once"))
	}
	clk.Advance(time.Hour)
	if n.count("once") != 1 {
		t.Fatalf("once reminder fired again: %d", n.count("once"))
	}
	if s.Active() != 0 {
		t.Fatalf("no timer may remain for a fired once reminder")
	}
}

func TestRepeatingFiresUntilStopped(t *testing.T) {
	clk := clock.NewFake(start)
	n := &countingNotifier{}
	s := scheduler.New(clk, n)

	s.Resync(clk.Now(), []reminder.Reminder{at("water", time.Second, reminder.Every5Minutes)})

	clk.Advance(time.Second)
	if n.count("water") != 1 {
		t.Fatalf("expected first notification at +1s")
	}
	clk.Advance(5 * time.Minute)
	if n.count("water") != 2 {
		t.Fatalf("expected repeat at +5m, got %d", n.count("water"))
	}
	clk.Advance(5 * time.Minute)
	if n.count("water") != 3 {
		t.Fatalf("expected repeat at +10m, got %d", n.count("water"))
	}

	s.Stop()
	clk.Advance(time.Hour)
	if n.count("water") != 3 {
		t.Fatalf("fired after stop: %d", n.count("water"))
	}
	if clk.Pending() != 0 {
		t.Fatalf("stop must disarm all timers, %d pending", clk.Pending())
	}
}

func TestPastRemindersAreSkipped(t *testing.T) {
	clk := clock.NewFake(start)
	n := &countingNotifier{}
	s := scheduler.New(clk, n)
	defer s.Stop()

	got := s.Resync(clk.Now(), []reminder.Reminder{
		at("missed", -time.Minute, reminder.EveryMinute),
		at("now", 0, reminder.Once),
		{Title: "no time"},
	})
	if got != 1 {
		t.Fatalf("only the reminder due now may be scheduled, got %d", got)
	}

	clk.Advance(time.Hour)
	if n.count("missed") != 0 {
		t.Fatalf("missed reminder must not back-fire")
	}
	if n.count("now") != 1 {
		t.Fatalf("reminder due exactly now fires once, got %d", n.count("now"))
	}
}

func TestResyncCancelsPreviousTimers(t *testing.T) {
	clk := clock.NewFake(start)
	n := &countingNotifier{}
	s := scheduler.New(clk, n)
	defer s.Stop()

	list := []reminder.Reminder{at("a", time.Minute, reminder.Once)}
	s.Resync(clk.Now(), list)
	list = append(list, at("b", 2*time.Minute, reminder.Once))
	s.Resync(clk.Now(), list)
	s.Resync(clk.Now(), list)

	if clk.Pending() != 2 {
		t.Fatalf("expected exactly one timer per reminder, %d pending", clk.Pending())
	}

	clk.Advance(3 * time.Minute)
	if n.count("a") != 1 || n.count("b") != 1 {
		t.Fatalf("double fire: a=%d b=%d", n.count("a"), n.count("b"))
	}
}

func TestResyncStopsRunningRepeatOnceItsTimeIsPast(t *testing.T) {
	clk := clock.NewFake(start)
	n := &countingNotifier{}
	s := scheduler.New(clk, n)
	defer s.Stop()

	r := at("stretch", time.Second, reminder.EveryMinute)
	s.Resync(clk.Now(), []reminder.Reminder{r})
	clk.Advance(2 * time.Minute)
	fired := n.count("stretch")
	if fired != 2 {
		t.Fatalf("expected 2 notifications, got %d", fired)
	}

	s.Resync(clk.Now(), []reminder.Reminder{r})
	clk.Advance(time.Hour)
	if n.count("stretch") != fired {
		t.Fatalf("a past reminder is not rescheduled after resync")
	}
}

func TestNotifierFailureKeepsOtherTimers(t *testing.T) {
	clk := clock.NewFake(start)
	n := &countingNotifier{fail: true}
	s := scheduler.New(clk, n)
	defer s.Stop()

	s.Resync(clk.Now(), []reminder.Reminder{
		at("first", time.Minute, reminder.EveryMinute),
		at("second", 2*time.Minute, reminder.Once),
	})
	clk.Advance(3 * time.Minute)

	if n.count("first") != 3 || n.count("second") != 1 {
		t.Fatalf("failures must not abort timers: first=%d second=%d", n.count("first"), n.count("second"))
	}
}

func TestNotifierPanicIsRecovered(t *testing.T) {
	clk := clock.NewFake(start)
	calls := 0
	s := scheduler.New(clk, notify.NotifierFunc(func(context.Context, notify.Notification) error {
		calls++
		panic("broken platform")
	}))
	defer s.Stop()

	s.Resync(clk.Now(), []reminder.Reminder{at("p", time.Minute, reminder.EveryMinute)})
	clk.Advance(2 * time.Minute)
	if calls != 2 {
		t.Fatalf("repeat must survive a panicking notifier, calls=%d", calls)
	}
}

func TestResyncAfterStopIsIgnored(t *testing.T) {
	clk := clock.NewFake(start)
	s := scheduler.New(clk, &countingNotifier{})
	s.Stop()

	if got := s.Resync(clk.Now(), []reminder.Reminder{at("late", time.Minute, reminder.Once)}); got != 0 {
		t.Fatalf("stopped scheduler scheduled %d", got)
	}
	if clk.Pending() != 0 {
		t.Fatalf("stopped scheduler armed a timer")
	}
}

// manualClock records armed timers and lets the test fire them at any time.
type manualClock struct {
	mu     sync.Mutex
	now    time.Time
	delays []time.Duration
	fns    []func()
}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

func (m *manualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *manualClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delays = append(m.delays, d)
	m.fns = append(m.fns, f)
	return manualTimer{}
}

func (m *manualClock) fireAt(i int, now time.Time) {
	m.mu.Lock()
	m.now = now
	f := m.fns[i]
	m.mu.Unlock()
	f()
}

func (m *manualClock) delay(i int) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delays[i]
}

func TestRepeatStaysAnchoredWhenFiringLate(t *testing.T) {
	clk := &manualClock{now: start}
	n := &countingNotifier{}
	s := scheduler.New(clk, n)
	defer s.Stop()

	r := at("drift", time.Second, reminder.EveryMinute)
	s.Resync(clk.Now(), []reminder.Reminder{r})
	if clk.delay(0) != time.Second {
		t.Fatalf("first delay = %v", clk.delay(0))
	}

	// First firing arrives 3s late; the repeat still targets +1m1s.
	clk.fireAt(0, r.ReminderTime.Add(3*time.Second))
	if clk.delay(1) != 57*time.Second {
		t.Fatalf("repeat delay = %v, want 57s", clk.delay(1))
	}

	// A stall past several slots skips to the next slot.
	clk.fireAt(1, r.ReminderTime.Add(5*time.Minute+30*time.Second))
	if clk.delay(2) != 30*time.Second {
		t.Fatalf("delay after stall = %v, want 30s", clk.delay(2))
	}
	if n.count("drift") != 2 {
		t.Fatalf("expected 2 notifications, got %d", n.count("drift"))
	}
}

func TestSlowDeliveryDoesNotBlockEngine(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	ended := make(chan error, 1)

	slow := notify.NotifierFunc(func(ctx context.Context, _ notify.Notification) error {
		started <- struct{}{}
		select {
		case <-release:
			ended <- nil
		case <-ctx.Done():
			ended <- ctx.Err()
		}
		return nil
	})

	clk := clock.System{}
	s := scheduler.New(clk, slow)
	e := reminder.NewEngine(ctx, reminder.NewMemoryStore(nil), s, clk)
	defer e.Close()
	defer close(release)

	now := clk.Now()
	s.Resync(now, []reminder.Reminder{{
		Date:         reminder.StartOfDay(now),
		Title:        "slow",
		Frequency:    reminder.Once,
		ReminderTime: now.Add(20 * time.Millisecond),
	}})

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatalf("notification never started")
	}

	done := make(chan error, 1)
	go func() {
		_, err := e.Add(ctx, reminder.AddInput{Title: "meanwhile", Date: now, Time: "12:00"})
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("add: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("Engine.Add waited on an in-flight notification")
	}

	if got := e.Len(); got != 1 {
		t.Fatalf("expected 1 reminder, got %d", got)
	}

	// The resync from Add cancels the delivery of the replaced generation.
	select {
	case err := <-ended:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("in-flight delivery ended with %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("in-flight delivery was not cancelled by resync")
	}
}
