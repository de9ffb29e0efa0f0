package reminder

import "errors"

var (
	// ErrValidation rejects an Add whose input cannot form a reminder.
	ErrValidation = errors.New("invalid reminder")
	// ErrIndex reports a position outside the reminder list.
	ErrIndex = errors.New("reminder index out of range")
	// ErrPersistence reports a failed save; the operation had no effect.
	ErrPersistence = errors.New("failed to persist reminders")
)
