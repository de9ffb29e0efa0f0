package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/notexe/reminders/internal/calendar"
	"github.com/notexe/reminders/internal/clock"
	"github.com/notexe/reminders/internal/config"
	"github.com/notexe/reminders/internal/notify"
	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/ui"
)

const mainPrompt = "reminders > "

type REPL struct {
	engine    *reminder.Engine
	gate      *notify.Gate
	clock     clock.Clock
	config    *config.Config
	rl        *readline.Instance
	formatter *ui.Formatter
	out       io.Writer

	month       calendar.Month
	selected    time.Time
	defaultFreq reminder.Frequency
	frequency   reminder.Frequency // form value, reset after each create

	// Form input hooks; replaced in tests.
	prompt func(label, def string) (string, error)
	choose func(def reminder.Frequency) (reminder.Frequency, error)
}

func NewREPL(engine *reminder.Engine, gate *notify.Gate, clk clock.Clock, cfg *config.Config) (*REPL, error) {
	rl, err := setupReadline()
	if err != nil {
		return nil, fmt.Errorf("failed to setup readline: %w", err)
	}

	r := newREPL(engine, gate, clk, cfg, os.Stdout)
	r.rl = rl
	r.prompt = r.readField
	r.choose = r.selectFrequency
	return r, nil
}

func newREPL(engine *reminder.Engine, gate *notify.Gate, clk clock.Clock, cfg *config.Config, out io.Writer) *REPL {
	freq, err := reminder.ParseFrequency(cfg.Form.DefaultFrequency)
	if err != nil {
		freq = reminder.Once
	}
	today := reminder.StartOfDay(clk.Now())

	return &REPL{
		engine:      engine,
		gate:        gate,
		clock:       clk,
		config:      cfg,
		formatter:   ui.NewFormatter(cfg.UI.ColoredOutput, cfg.UI.WordWrap),
		out:         out,
		month:       calendar.MonthOf(today),
		selected:    today,
		defaultFreq: freq,
		frequency:   freq,
	}
}

func (r *REPL) Start(ctx context.Context) error {
	defer r.rl.Close()

	if r.config.Notify.Permission == config.PermissionAsk {
		perm := r.gate.RequestPermission(ctx, r.askPermission)
		r.displaySystem(fmt.Sprintf("Notifications %s.", perm))
	}

	r.displayWelcome()

	for {
		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		isCommand, command, args := r.parseCommand(input)
		if isCommand {
			if err := r.handleCommand(ctx, command, args); err != nil {
				r.displayError(err)
			}

			if command == "/quit" || command == "/exit" || command == "/q" {
				return nil
			}

			continue
		}

		if err := r.quickAdd(ctx, input); err != nil {
			r.displayError(err)
		}
	}
}

func (r *REPL) Stop() {
	r.rl.Close()
}

func (r *REPL) handleCommand(ctx context.Context, command, args string) error {
	switch command {
	case "/help", "/h":
		r.displayHelp()
		return nil

	case "/month", "/m":
		r.displayCalendar()
		return nil

	case "/next", "/n":
		r.month = r.month.Add(1)
		r.displayCalendar()
		return nil

	case "/prev", "/p":
		r.month = r.month.Add(-1)
		r.displayCalendar()
		return nil

	case "/today", "/t":
		today := reminder.StartOfDay(r.clock.Now())
		r.month = calendar.MonthOf(today)
		r.selected = today
		r.displayCalendar()
		return nil

	case "/day", "/d":
		n, err := parseNumber(args, "/day <1-31>")
		if err != nil {
			return err
		}
		day, err := r.month.Day(n)
		if err != nil {
			return err
		}
		r.selected = day
		r.displayDay()
		return nil

	case "/add", "/a":
		return r.handleAdd(ctx, args)

	case "/list", "/l":
		r.displayAll()
		return nil

	case "/overdue", "/o":
		r.displayOverdue()
		return nil

	case "/done", "/x":
		n, err := parseNumber(args, "/done <index>")
		if err != nil {
			return err
		}
		updated, err := r.engine.ToggleDone(ctx, n)
		if err != nil {
			return err
		}
		if updated.Done {
			r.displaySystem(fmt.Sprintf("Checked %q.", updated.Title))
		} else {
			r.displaySystem(fmt.Sprintf("Unchecked %q.", updated.Title))
		}
		r.displayDay()
		return nil

	case "/delete", "/rm":
		n, err := parseNumber(args, "/delete <index>")
		if err != nil {
			return err
		}
		if err := r.engine.Delete(ctx, n); err != nil {
			return err
		}
		r.displaySystem(fmt.Sprintf("Deleted reminder %d.", n))
		r.displayDay()
		return nil

	case "/quit", "/exit", "/q":
		fmt.Fprintln(r.out, "\nGoodbye!")
		return nil

	default:
		return fmt.Errorf("unknown command: %s (type /help for available commands)", command)
	}
}

// quickAdd creates a reminder on the selected day from a bare line of text,
// using the default time and the current form frequency.
func (r *REPL) quickAdd(ctx context.Context, title string) error {
	return r.create(ctx, reminder.AddInput{
		Title:     title,
		Date:      r.selected,
		Time:      reminder.DefaultTime(r.clock.Now()),
		Frequency: string(r.frequency),
	})
}

func (r *REPL) create(ctx context.Context, in reminder.AddInput) error {
	entry, err := r.engine.Add(ctx, in)
	if err != nil {
		return err
	}
	added := entry.Reminder
	r.frequency = r.defaultFreq

	r.displaySystem(fmt.Sprintf("Added %q at %s (%s).",
		added.Title, reminder.FormatTo12Hour(added.Time), added.Frequency))
	r.displayDay()
	return nil
}

func parseNumber(args, usage string) (int, error) {
	if args == "" {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(strings.Fields(args)[0])
	if err != nil {
		return 0, fmt.Errorf("usage: %s", usage)
	}
	return n, nil
}

// askPermission asks once whether reminder notifications may be shown.
func (r *REPL) askPermission(_ context.Context) (bool, error) {
	answer, err := r.prompt("Allow reminder notifications? [Y/n] ", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "", "y", "yes":
		return true, nil
	}
	return false, nil
}

// errFormCancelled aborts the add form without an error message.
var errFormCancelled = errors.New("form cancelled")
