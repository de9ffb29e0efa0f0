package repl

import (
	"fmt"

	"github.com/notexe/reminders/internal/reminder"
)

func (r *REPL) displayError(err error) {
	fmt.Fprintln(r.out, r.formatter.FormatError(err))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayWelcome() {
	fmt.Fprintln(r.out, r.formatter.FormatHeader(r.engine.Len()))
	fmt.Fprintln(r.out, r.formatter.FormatSystem("Type /help for commands, or any text to add a reminder for the selected day."))
	fmt.Fprintln(r.out)
	r.displayCalendar()
}

func (r *REPL) displayHelp() {
	fmt.Fprintln(r.out, r.formatter.RenderMarkdown(helpText))
	fmt.Fprintln(r.out)
}

// displayCalendar prints the month grid followed by the selected day.
func (r *REPL) displayCalendar() {
	fmt.Fprintln(r.out, r.formatter.FormatMonth(r.month, r.selected, r.markedDays()))
	fmt.Fprintln(r.out)
	r.displayDay()
}

func (r *REPL) displayDay() {
	fmt.Fprintln(r.out, r.formatter.FormatHeader(r.engine.Len()))
	fmt.Fprintln(r.out, r.formatter.FormatDay(r.selected, r.engine.On(r.selected), r.clock.Now()))
	fmt.Fprintln(r.out)
}

func (r *REPL) displayAll() {
	now := r.clock.Now()
	reminders := r.engine.Reminders()
	if len(reminders) == 0 {
		r.displayInfo("No reminders yet.")
		return
	}
	for i, rem := range reminders {
		fmt.Fprintln(r.out, r.formatter.FormatInfo(rem.Date.Format("2006-01-02")))
		fmt.Fprintln(r.out, r.formatter.FormatCard(reminder.Entry{Index: i, Reminder: rem}, now))
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) displayOverdue() {
	now := r.clock.Now()
	entries := r.engine.Overdue(now)
	if len(entries) == 0 {
		r.displayInfo("Nothing overdue.")
		return
	}
	for _, e := range entries {
		fmt.Fprintln(r.out, r.formatter.FormatCard(e, now))
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) displayInfo(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatInfo(msg))
	fmt.Fprintln(r.out)
}

func (r *REPL) displaySystem(msg string) {
	fmt.Fprintln(r.out, r.formatter.FormatSystem(msg))
	fmt.Fprintln(r.out)
}

// markedDays returns the days of the shown month that carry reminders.
func (r *REPL) markedDays() map[int]bool {
	marked := make(map[int]bool)
	for _, rem := range r.engine.Reminders() {
		if r.month.Contains(rem.Date) {
			marked[rem.Date.Day()] = true
		}
	}
	return marked
}
