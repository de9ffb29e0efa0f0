package repl

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/ui"
)

var (
	formTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)

	selectedResultStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("114")).
				Bold(true)
)

// handleAdd walks the add form for the selected day. A title given as
// argument skips the title field.
func (r *REPL) handleAdd(ctx context.Context, args string) error {
	heading := "New reminder for " + r.selected.Format(ui.DateLayout)
	if r.config.UI.ColoredOutput {
		heading = formTitleStyle.Render(heading)
	}
	fmt.Fprintln(r.out, heading)

	in, err := r.fillForm(args)
	if errors.Is(err, errFormCancelled) || isEOF(err) {
		r.displaySystem("Cancelled.")
		return nil
	}
	if err != nil {
		return err
	}

	return r.create(ctx, in)
}

func (r *REPL) fillForm(title string) (reminder.AddInput, error) {
	title = strings.TrimSpace(title)
	for title == "" {
		answer, err := r.prompt("Title: ", "")
		if err != nil {
			return reminder.AddInput{}, err
		}
		if answer == "" {
			r.displayInfo("Please enter a title (Ctrl+C to cancel).")
			continue
		}
		title = answer
	}

	description, err := r.prompt("Description: ", "")
	if err != nil {
		return reminder.AddInput{}, err
	}

	at, err := r.prompt("Time (HH:MM): ", reminder.DefaultTime(r.clock.Now()))
	if err != nil {
		return reminder.AddInput{}, err
	}

	freq, err := r.choose(r.frequency)
	if err != nil {
		return reminder.AddInput{}, err
	}
	r.frequency = freq

	return reminder.AddInput{
		Title:       title,
		Description: description,
		Date:        r.selected,
		Time:        at,
		Frequency:   string(freq),
	}, nil
}

// selectFrequency runs the interactive picker. Readline is closed while the
// picker owns the terminal and recreated afterwards.
func (r *REPL) selectFrequency(def reminder.Frequency) (reminder.Frequency, error) {
	options := make([]string, len(reminder.Frequencies))
	for i, f := range reminder.Frequencies {
		options[i] = string(f)
	}

	r.rl.Close()

	selector := ui.NewSelector("Frequency", options, string(def), r.config.UI.ColoredOutput)
	choice, runErr := selector.Run()

	newRl, rlErr := setupReadline()
	if rlErr == nil {
		r.rl = newRl
	}

	if errors.Is(runErr, ui.ErrCancelled) {
		return "", errFormCancelled
	}
	if runErr != nil {
		return "", runErr
	}
	if rlErr != nil {
		return "", fmt.Errorf("failed to restore readline: %w", rlErr)
	}

	result := "→ " + choice
	if r.config.UI.ColoredOutput {
		result = selectedResultStyle.Render(result)
	}
	fmt.Fprintln(r.out, result)

	return reminder.ParseFrequency(choice)
}
