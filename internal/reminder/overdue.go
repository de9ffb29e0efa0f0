package reminder

import (
	"fmt"
	"time"
)

// floorMinutes converts d to whole minutes, rounding toward negative
// infinity.
func floorMinutes(d time.Duration) int {
	m := d / time.Minute
	if d%time.Minute < 0 {
		m--
	}
	return int(m)
}

// MarkDone freezes the overdue clock at now.
func MarkDone(r Reminder, now time.Time) (offset int, lastCheck time.Time) {
	return max(0, floorMinutes(now.Sub(r.ReminderTime))), now
}

// MarkUndone adds the minutes spent done to the accumulated offset and clears
// the check time.
func MarkUndone(r Reminder, now time.Time) (offset int, lastCheck time.Time) {
	offset = r.OverdueOffset
	if !r.LastCheckTime.IsZero() {
		offset += floorMinutes(now.Sub(r.LastCheckTime))
	}
	return offset, time.Time{}
}

// OverdueMinutes is the overdue count shown for r at now. A done reminder
// reports the value at its last check, which is negative when it was done
// before ReminderTime.
func OverdueMinutes(r Reminder, now time.Time) int {
	if !r.HasReminderTime() {
		return 0
	}
	switch {
	case !r.Done:
		return max(0, floorMinutes(now.Sub(r.ReminderTime)))
	case !r.LastCheckTime.IsZero():
		return floorMinutes(r.LastCheckTime.Sub(r.ReminderTime))
	default:
		return r.OverdueOffset
	}
}

// Summary is the one-line status of r, e.g. "Dentist 3:30 PM 12 minutes overdue".
func Summary(r Reminder, now time.Time) string {
	if !r.HasReminderTime() {
		return r.Title
	}
	line := fmt.Sprintf("%s %s", r.Title, FormatTo12Hour(r.Time))
	if overdue := OverdueMinutes(r, now); overdue > 0 {
		line += fmt.Sprintf(" %d minutes overdue", overdue)
	}
	return line
}
