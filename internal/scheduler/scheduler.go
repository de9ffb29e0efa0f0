// Package scheduler arms one notification timer per upcoming reminder.
package scheduler

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/notexe/reminders/internal/clock"
	"github.com/notexe/reminders/internal/notify"
	"github.com/notexe/reminders/internal/reminder"
)

// Scheduler fires a notification at each reminder's time and then repeats it
// at the reminder's frequency. Every Resync replaces the whole timer set.
//
// Timers are armed and cancelled under mu, but notifiers run outside it, so a
// slow delivery never holds up Resync, Stop or other timers. Each generation
// of timers shares a context that Resync and Stop cancel; a delivery whose
// context is already cancelled is skipped.
type Scheduler struct {
	clock    clock.Clock
	notifier notify.Notifier
	ctx      context.Context
	cancel   context.CancelFunc

	mu        sync.Mutex
	gen       uint64
	genCtx    context.Context
	genCancel context.CancelFunc
	entries   []*entry
	stopped   bool
}

var _ reminder.Scheduler = (*Scheduler)(nil)

type entry struct {
	reminder reminder.Reminder
	timer    clock.Timer
	fired    int
}

// New creates a Scheduler that delivers through n.
func New(clk clock.Clock, n notify.Notifier) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	genCtx, genCancel := context.WithCancel(ctx)
	return &Scheduler{
		clock:     clk,
		notifier:  n,
		ctx:       ctx,
		cancel:    cancel,
		genCtx:    genCtx,
		genCancel: genCancel,
	}
}

// Resync cancels every timer and schedules each reminder whose time is at or
// after now. Reminders already past get no timer. It returns the number of
// reminders scheduled.
func (s *Scheduler) Resync(now time.Time, reminders []reminder.Reminder) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0
	}
	s.cancelLocked()

	gen := s.gen
	for _, r := range reminders {
		if !r.HasReminderTime() {
			continue
		}
		delay := r.ReminderTime.Sub(now)
		if delay < 0 {
			continue
		}
		e := &entry{reminder: r}
		e.timer = s.clock.AfterFunc(delay, func() { s.fire(gen, e) })
		s.entries = append(s.entries, e)
	}

	log.Printf("[scheduler] Resynced: %d of %d reminders scheduled", len(s.entries), len(reminders))
	return len(s.entries)
}

// Stop cancels every timer and any delivery in flight. Later Resync calls
// are ignored.
func (s *Scheduler) Stop() {
	s.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.cancelLocked()
	s.stopped = true
	log.Println("[scheduler] Stopped.")
}

// Active returns the number of armed timers.
func (s *Scheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, e := range s.entries {
		if e.timer != nil {
			n++
		}
	}
	return n
}

// cancelLocked stops all timers, cancels the current generation's context
// and starts a new generation.
func (s *Scheduler) cancelLocked() {
	for _, e := range s.entries {
		if e.timer != nil {
			e.timer.Stop()
			e.timer = nil
		}
	}
	s.entries = nil
	s.genCancel()
	s.genCtx, s.genCancel = context.WithCancel(s.ctx)
	s.gen++
}

// fire arms the next repeat before delivering, so delivery latency never
// shifts the schedule. Repeat k is anchored at ReminderTime + k*interval.
func (s *Scheduler) fire(gen uint64, e *entry) {
	s.mu.Lock()
	if s.stopped || gen != s.gen {
		s.mu.Unlock()
		return
	}
	ctx := s.genCtx
	r := e.reminder

	e.fired++
	e.timer = nil
	if interval := r.Frequency.Interval(); interval > 0 {
		now := s.clock.Now()
		next := r.ReminderTime.Add(time.Duration(e.fired) * interval)
		if next.Before(now) {
			// Slots missed while the process was stalled are skipped.
			e.fired = int(now.Sub(r.ReminderTime)/interval) + 1
			next = r.ReminderTime.Add(time.Duration(e.fired) * interval)
		}
		e.timer = s.clock.AfterFunc(next.Sub(now), func() { s.fire(gen, e) })
	}
	s.mu.Unlock()

	s.deliver(ctx, r)
}

// deliver shows the notification. Failures are logged and never stop the
// scheduler.
func (s *Scheduler) deliver(ctx context.Context, r reminder.Reminder) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[scheduler] Error: notifier panicked for %q: %v", r.Title, p)
		}
	}()

	if ctx.Err() != nil {
		return
	}
	if err := s.notifier.Notify(ctx, notify.ForReminder(r)); err != nil {
		log.Printf("[scheduler] Error: %q: %v", r.Title, err)
		return
	}
	log.Printf("[scheduler] Notified %q", r.Title)
}
