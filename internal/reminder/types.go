package reminder

import (
	"fmt"
	"strings"
	"time"
)

// Frequency is the repeat policy of a reminder. The value is the label shown
// to the user and stored on disk.
type Frequency string

// Frequency labels.
const (
	Once           Frequency = "Once"
	EveryMinute    Frequency = "Every minute"
	Every5Minutes  Frequency = "Every 5 minutes"
	Every30Minutes Frequency = "Every 30 minutes"
	EveryHour      Frequency = "Every hour"
	EveryDay       Frequency = "Every day"
)

// Frequencies lists every label in display order.
var Frequencies = []Frequency{Once, EveryMinute, Every5Minutes, Every30Minutes, EveryHour, EveryDay}

var frequencyAliases = map[string]Frequency{
	"":     Once,
	"once": Once,
	"1m":   EveryMinute,
	"5m":   Every5Minutes,
	"30m":  Every30Minutes,
	"1h":   EveryHour,
	"1d":   EveryDay,
}

// Interval returns the repeat interval after the first notification.
// Once and unknown labels do not repeat.
func (f Frequency) Interval() time.Duration {
	switch f {
	case EveryMinute:
		return time.Minute
	case Every5Minutes:
		return 5 * time.Minute
	case Every30Minutes:
		return 30 * time.Minute
	case EveryHour:
		return time.Hour
	case EveryDay:
		return 24 * time.Hour
	default:
		return 0
	}
}

// ParseFrequency resolves a label (case-insensitive) or a short alias such
// as "5m". The empty string means Once.
func ParseFrequency(s string) (Frequency, error) {
	s = strings.TrimSpace(s)
	if f, ok := frequencyAliases[strings.ToLower(s)]; ok {
		return f, nil
	}
	for _, f := range Frequencies {
		if strings.EqualFold(string(f), s) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown frequency %q", ErrValidation, s)
}

// Reminder is a titled note that notifies at ReminderTime and optionally
// repeats. A zero ReminderTime or LastCheckTime means the value is absent.
type Reminder struct {
	Date          time.Time
	Title         string
	Description   string
	Time          string
	Frequency     Frequency
	ReminderTime  time.Time
	Done          bool
	OverdueOffset int
	LastCheckTime time.Time
}

// HasReminderTime reports whether the reminder carries a notification time.
func (r Reminder) HasReminderTime() bool {
	return !r.ReminderTime.IsZero()
}

// Entry pairs a reminder with its position in the engine's list.
type Entry struct {
	Index    int
	Reminder Reminder
}

// AddInput holds the form values for a new reminder.
type AddInput struct {
	Title       string
	Description string
	Date        time.Time
	Time        string
	Frequency   string
}
