package reminder

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/notexe/reminders/internal/calendar"
	"github.com/notexe/reminders/internal/clock"
)

// Scheduler arms notification timers for a reminder list.
type Scheduler interface {
	// Resync cancels every armed timer and schedules the given list
	// relative to now. It returns the number of reminders scheduled.
	Resync(now time.Time, reminders []Reminder) int
	// Stop cancels every timer for good.
	Stop()
}

// Engine owns the reminder list. Each mutation is saved as a whole and the
// scheduler is resynchronized afterwards; a failed save leaves the list and
// the timers untouched.
type Engine struct {
	mu        sync.Mutex
	store     Store
	scheduler Scheduler
	clock     clock.Clock
	reminders []Reminder
}

// NewEngine loads the persisted list and arms its timers.
func NewEngine(ctx context.Context, store Store, scheduler Scheduler, clk clock.Clock) *Engine {
	e := &Engine{
		store:     store,
		scheduler: scheduler,
		clock:     clk,
		reminders: store.Load(ctx),
	}
	e.scheduler.Resync(clk.Now(), e.snapshot())
	return e
}

// Add validates the form input and appends a new reminder. The returned
// entry carries the index the reminder was appended at.
func (e *Engine) Add(ctx context.Context, in AddInput) (Entry, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Entry{}, fmt.Errorf("%w: title is required", ErrValidation)
	}
	freq, err := ParseFrequency(in.Frequency)
	if err != nil {
		return Entry{}, err
	}
	date := StartOfDay(in.Date)
	at, err := CombineDateTime(date, in.Time)
	if err != nil {
		return Entry{}, err
	}

	r := Reminder{
		Date:         date,
		Title:        in.Title,
		Description:  in.Description,
		Time:         strings.TrimSpace(in.Time),
		Frequency:    freq,
		ReminderTime: at,
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := append(e.snapshot(), r)
	if err := e.commit(ctx, next); err != nil {
		return Entry{}, err
	}
	return Entry{Index: len(next) - 1, Reminder: r}, nil
}

// Delete removes the reminder at index. Later reminders shift down by one.
func (e *Engine) Delete(ctx context.Context, index int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkIndex(index); err != nil {
		return err
	}
	next := make([]Reminder, 0, len(e.reminders)-1)
	next = append(next, e.reminders[:index]...)
	next = append(next, e.reminders[index+1:]...)
	return e.commit(ctx, next)
}

// ToggleDone flips the done flag of the reminder at index and updates its
// overdue bookkeeping.
func (e *Engine) ToggleDone(ctx context.Context, index int) (Reminder, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkIndex(index); err != nil {
		return Reminder{}, err
	}

	now := e.clock.Now()
	next := e.snapshot()
	r := next[index]
	if r.Done {
		r.OverdueOffset, r.LastCheckTime = MarkUndone(r, now)
	} else {
		r.OverdueOffset, r.LastCheckTime = MarkDone(r, now)
	}
	r.Done = !r.Done
	next[index] = r

	if err := e.commit(ctx, next); err != nil {
		return Reminder{}, err
	}
	return r, nil
}

// Reminders returns a copy of the list.
func (e *Engine) Reminders() []Reminder {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

// Len returns the number of reminders.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.reminders)
}

// On returns the reminders whose Date falls on day, with their list index.
func (e *Engine) On(day time.Time) []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	var entries []Entry
	for i, r := range e.reminders {
		if calendar.SameDay(r.Date, day) {
			entries = append(entries, Entry{Index: i, Reminder: r})
		}
	}
	return entries
}

// Overdue returns the reminders that are not done and past their time.
func (e *Engine) Overdue(now time.Time) []Entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	var entries []Entry
	for i, r := range e.reminders {
		if !r.Done && OverdueMinutes(r, now) > 0 {
			entries = append(entries, Entry{Index: i, Reminder: r})
		}
	}
	return entries
}

// Close stops every notification timer.
func (e *Engine) Close() {
	e.scheduler.Stop()
}

// commit saves next, then resynchronizes the scheduler and adopts next as
// the current list. Caller holds e.mu.
func (e *Engine) commit(ctx context.Context, next []Reminder) error {
	if err := e.store.Save(ctx, next); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	e.reminders = next
	e.scheduler.Resync(e.clock.Now(), e.snapshot())
	return nil
}

func (e *Engine) checkIndex(index int) error {
	if index < 0 || index >= len(e.reminders) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndex, index, len(e.reminders))
	}
	return nil
}

func (e *Engine) snapshot() []Reminder {
	out := make([]Reminder, len(e.reminders))
	copy(out, e.reminders)
	return out
}
