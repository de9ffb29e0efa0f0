package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/notexe/reminders/internal/app"
	"github.com/notexe/reminders/internal/calendar"
	"github.com/notexe/reminders/internal/config"
	"github.com/notexe/reminders/internal/reminder"
	"github.com/notexe/reminders/internal/repl"
	"github.com/notexe/reminders/internal/ui"
)

const dateLayout = "2006-01-02"

type rootFlags struct {
	configPath string
	noColor    bool
	ephemeral  bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "reminders",
		Short:         "Calendar reminders with notifications and overdue tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runREPL(flags)
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", config.GetDefaultConfigPath(), "Path to configuration file")
	root.PersistentFlags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().BoolVar(&flags.ephemeral, "ephemeral", false, "Keep reminders in memory only")

	root.AddCommand(newAddCmd(flags))
	root.AddCommand(newListCmd(flags))
	root.AddCommand(newDoneCmd(flags))
	root.AddCommand(newDeleteCmd(flags))
	root.AddCommand(newMonthCmd(flags))
	root.AddCommand(newExportCmd(flags))
	return root
}

func loadApp(flags *rootFlags) (*app.App, error) {
	return app.New(context.Background(), app.Options{
		ConfigPath: flags.configPath,
		NoColor:    flags.noColor,
		Ephemeral:  flags.ephemeral,
	})
}

func runREPL(flags *rootFlags) error {
	a, err := loadApp(flags)
	if err != nil {
		return err
	}
	defer a.Close()

	replInstance, err := repl.NewREPL(a.Engine, a.Gate, a.Clock, a.Config)
	if err != nil {
		return fmt.Errorf("error creating REPL: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
		replInstance.Stop()
	}()

	return replInstance.Start(ctx)
}

func newAddCmd(flags *rootFlags) *cobra.Command {
	var title, description, date, at, frequency string

	cmd := &cobra.Command{
		Use:   "add --title <title>",
		Short: "Add a reminder",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			now := a.Clock.Now()
			day := reminder.StartOfDay(now)
			if date != "" {
				day, err = time.ParseInLocation(dateLayout, date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q (use YYYY-MM-DD)", date)
				}
			}
			if at == "" {
				at = reminder.DefaultTime(now)
			}
			if frequency == "" {
				frequency = a.Config.Form.DefaultFrequency
			}

			entry, err := a.Engine.Add(cmd.Context(), reminder.AddInput{
				Title:       title,
				Description: description,
				Date:        day,
				Time:        at,
				Frequency:   frequency,
			})
			if err != nil {
				return err
			}
			added := entry.Reminder
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %d\t%s\t%s %s\t%s\n",
				entry.Index, added.Title, added.Date.Format(dateLayout), reminder.FormatTo12Hour(added.Time), added.Frequency)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "reminder title")
	cmd.Flags().StringVar(&description, "description", "", "reminder description")
	cmd.Flags().StringVar(&date, "date", "", "day of the reminder, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&at, "time", "", "time of day, HH:MM (default next full hour)")
	cmd.Flags().StringVar(&frequency, "frequency", "", "Once|Every minute|Every 5 minutes|Every 30 minutes|Every hour|Every day")
	return cmd
}

func newListCmd(flags *rootFlags) *cobra.Command {
	var date string
	var overdue bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			now := a.Clock.Now()
			var entries []reminder.Entry
			switch {
			case overdue:
				entries = a.Engine.Overdue(now)
			case date != "":
				day, err := time.ParseInLocation(dateLayout, date, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --date %q (use YYYY-MM-DD)", date)
				}
				entries = a.Engine.On(day)
			default:
				for i, r := range a.Engine.Reminders() {
					entries = append(entries, reminder.Entry{Index: i, Reminder: r})
				}
			}

			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no reminders")
				return nil
			}
			for _, e := range entries {
				r := e.Reminder
				status := " "
				if r.Done {
					status = "x"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d\t[%s]\t%s\t%s %s\t%s\t%s\n",
					e.Index, status, r.Title, r.Date.Format(dateLayout), reminder.FormatTo12Hour(r.Time), r.Frequency, reminder.Summary(r, now))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "only reminders on this day, YYYY-MM-DD")
	cmd.Flags().BoolVar(&overdue, "overdue", false, "only reminders that are overdue and not done")
	return cmd
}

func newDoneCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "done <index>",
		Short: "Check or uncheck a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			r, err := a.Engine.ToggleDone(cmd.Context(), index)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\tdone=%v\t%s\n", r.Title, r.Done, reminder.Summary(r, a.Clock.Now()))
			return nil
		},
	}
}

func newDeleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete a reminder; later indexes shift down",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Engine.Delete(cmd.Context(), index); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %d\n", index)
			return nil
		},
	}
}

func newMonthCmd(flags *rootFlags) *cobra.Command {
	var offset int

	cmd := &cobra.Command{
		Use:   "month",
		Short: "Print the month calendar",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			today := reminder.StartOfDay(a.Clock.Now())
			m := calendar.MonthOf(today).Add(offset)
			marked := make(map[int]bool)
			for _, r := range a.Engine.Reminders() {
				if m.Contains(r.Date) {
					marked[r.Date.Day()] = true
				}
			}

			f := ui.NewFormatter(a.Config.UI.ColoredOutput, a.Config.UI.WordWrap)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), f.FormatMonth(m, today, marked))
			return nil
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "months from the current one (negative goes back)")
	return cmd
}

type exportRecord struct {
	Date          string     `yaml:"date"`
	Title         string     `yaml:"title"`
	Description   string     `yaml:"description,omitempty"`
	Time          string     `yaml:"time"`
	Frequency     string     `yaml:"frequency"`
	ReminderTime  *time.Time `yaml:"reminderTime,omitempty"`
	Done          bool       `yaml:"done"`
	OverdueOffset int        `yaml:"overdueOffset"`
	LastCheckTime *time.Time `yaml:"lastCheckTime,omitempty"`
}

func newExportCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every reminder to stdout as json or yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			reminders := a.Engine.Reminders()
			var data []byte
			switch strings.ToLower(format) {
			case "json":
				data, err = reminder.Encode(reminders)
			case "yaml", "yml":
				records := make([]exportRecord, 0, len(reminders))
				for _, r := range reminders {
					records = append(records, toExportRecord(r))
				}
				data, err = yaml.Marshal(records)
			default:
				return fmt.Errorf("unknown format %q (use json or yaml)", format)
			}
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json|yaml")
	return cmd
}

func toExportRecord(r reminder.Reminder) exportRecord {
	rec := exportRecord{
		Date:          r.Date.Format(time.RFC3339),
		Title:         r.Title,
		Description:   r.Description,
		Time:          r.Time,
		Frequency:     string(r.Frequency),
		Done:          r.Done,
		OverdueOffset: r.OverdueOffset,
	}
	if r.HasReminderTime() {
		t := r.ReminderTime
		rec.ReminderTime = &t
	}
	if !r.LastCheckTime.IsZero() {
		t := r.LastCheckTime
		rec.LastCheckTime = &t
	}
	return rec
}
