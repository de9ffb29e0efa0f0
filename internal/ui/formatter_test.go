package ui_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/notexe/reminders/internal/calendar"
	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/ui"
)

func TestFormatMonthPlain(t *testing.T) {
	f := ui.NewFormatter(false, 80)
	m := calendar.Month{Year: 2026, Month: time.October, Loc: time.UTC}
	selected := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	out := f.FormatMonth(m, selected, map[int]bool{5: true})
	lines := strings.Split(out, "\n")

	if !strings.Contains(lines[0], "October 2026") {
		t.Fatalf("title line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Sun Mon Tue") {
		t.Fatalf("weekday line = %q", lines[1])
	}
	// October 2026 starts on a Thursday: four blank cells.
	if !strings.HasPrefix(lines[2], strings.Repeat(" ", 16)+" 1") {
		t.Fatalf("first week = %q", lines[2])
	}
	if !strings.Contains(out, " 5• ") {
		t.Fatalf("day with reminders must be marked:\n%s", out)
	}
	if len(lines) != 2+5 {
		t.Fatalf("expected 5 week rows, got %d:\n%s", len(lines)-2, out)
	}
}

func TestFormatDayEmpty(t *testing.T) {
	f := ui.NewFormatter(false, 80)
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	out := f.FormatDay(day, nil, day)
	if !strings.HasPrefix(out, "Mon Oct 19 2026") {
		t.Fatalf("header = %q", out)
	}
	if !strings.Contains(out, "No reminders for this date") {
		t.Fatalf("missing empty notice:\n%s", out)
	}
}

func TestFormatCardPlain(t *testing.T) {
	f := ui.NewFormatter(false, 80)
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	e := reminder.Entry{Index: 3, Reminder: reminder.Reminder{
		Date:         time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Title:        "Standup",
		Description:  "daily sync",
		Time:         "09:00",
		Frequency:    reminder.EveryDay,
		ReminderTime: at,
	}}

	out := f.FormatCard(e, at.Add(10*time.Minute))
	for _, want := range []string{"#3 Standup", "daily sync", "Every day", reminder.Summary(e.Reminder, at.Add(10*time.Minute))} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}

	e.Reminder.Done = true
	if !strings.Contains(f.FormatCard(e, at), "✓") {
		t.Errorf("done card must be checked")
	}
}

func TestFormatHeaderAndError(t *testing.T) {
	f := ui.NewFormatter(false, 0)
	if got := f.FormatHeader(4); got != "Reminders [4]" {
		t.Fatalf("header = %q", got)
	}
	if got := f.FormatError(errors.New("boom")); got != "Error: boom" {
		t.Fatalf("error = %q", got)
	}
	if got := f.RenderMarkdown("# Help"); got != "# Help" {
		t.Fatalf("plain markdown must pass through, got %q", got)
	}
}

func TestSelectorRunSimple(t *testing.T) {
	options := []string{"Once", "Every minute", "Every day"}
	var out strings.Builder

	s := ui.NewSelector("Frequency", options, "every day", false)
	got, err := s.RunSimple(strings.NewReader("2\n"), &out)
	if err != nil || got != "Every minute" {
		t.Fatalf("got %q, %v", got, err)
	}

	s = ui.NewSelector("Frequency", options, "Every day", false)
	got, err = s.RunSimple(strings.NewReader("\n"), &out)
	if err != nil || got != "Every day" {
		t.Fatalf("empty answer must keep the initial option, got %q, %v", got, err)
	}

	s = ui.NewSelector("Frequency", options, "", false)
	got, err = s.RunSimple(strings.NewReader(""), &out)
	if err != nil || got != "Once" {
		t.Fatalf("EOF must keep the first option, got %q, %v", got, err)
	}
}
