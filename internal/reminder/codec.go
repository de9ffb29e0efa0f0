package reminder

import (
	"encoding/json"
	"fmt"
	"time"
)

// record is the persisted shape of a Reminder. Timestamps are RFC 3339 with
// nanoseconds and zone offset; absent timestamps are null.
type record struct {
	Date          time.Time  `json:"date"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Time          string     `json:"time"`
	Frequency     Frequency  `json:"frequency"`
	ReminderTime  *time.Time `json:"reminderTime"`
	Done          bool       `json:"done"`
	OverdueOffset int        `json:"overdueOffset"`
	LastCheckTime *time.Time `json:"lastCheckTime"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func fromOptional(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// Encode serializes the full reminder list.
func Encode(reminders []Reminder) ([]byte, error) {
	records := make([]record, 0, len(reminders))
	for _, r := range reminders {
		records = append(records, record{
			Date:          r.Date,
			Title:         r.Title,
			Description:   r.Description,
			Time:          r.Time,
			Frequency:     r.Frequency,
			ReminderTime:  optionalTime(r.ReminderTime),
			Done:          r.Done,
			OverdueOffset: r.OverdueOffset,
			LastCheckTime: optionalTime(r.LastCheckTime),
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reminders: %w", err)
	}
	return data, nil
}

// Decode reconstructs a reminder list written by Encode.
func Decode(data []byte) ([]Reminder, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode reminders: %w", err)
	}
	reminders := make([]Reminder, 0, len(records))
	for _, rec := range records {
		reminders = append(reminders, Reminder{
			Date:          rec.Date,
			Title:         rec.Title,
			Description:   rec.Description,
			Time:          rec.Time,
			Frequency:     rec.Frequency,
			ReminderTime:  fromOptional(rec.ReminderTime),
			Done:          rec.Done,
			OverdueOffset: rec.OverdueOffset,
			LastCheckTime: fromOptional(rec.LastCheckTime),
		})
	}
	return reminders, nil
}
